package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/core/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/middleware"
	"github.com/munna98/cashdesk/internal/platform/config"
	"github.com/munna98/cashdesk/internal/platform/storage"
	"github.com/munna98/cashdesk/internal/utils"
	"github.com/munna98/cashdesk/pkg/database"
)

// app carries what every subcommand needs once the root command has loaded config.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// withServices opens storage, runs fn against a fresh service container and closes storage again.
func (a *app) withServices(ctx context.Context, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	repos, closeRepos, err := storage.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeRepos()
	return fn(middleware.WithLogger(ctx, a.logger), services.NewServiceContainer(a.cfg, repos))
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "cashdeskctl",
		Short:         "Administrative commands for the cash desk ledger.",
		Long:          `cashdeskctl migrates the database, creates the singleton accounts, issues operator tokens and checks the ledger for consistency.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newMigrateCmd(a), newBootstrapCmd(a), newReconcileCmd(a), newBalanceCmd(a), newTokenCmd(a))
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.StorageDriver != config.StorageDriverPostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
			}
			if err := database.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, a.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newBootstrapCmd(a *app) *cobra.Command {
	var withOpening bool
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the Cash and Commission accounts, and optionally Opening Balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				if err := svc.Account.EnsureDefaultAccounts(ctx); err != nil {
					return err
				}
				keys := []domain.WellKnownAccount{domain.WellKnownCash, domain.WellKnownCommission}
				if withOpening {
					if _, err := svc.Account.EnsureOpeningBalanceAccount(ctx); err != nil {
						return err
					}
					keys = append(keys, domain.WellKnownOpeningBalance)
				}
				for _, key := range keys {
					acc, err := svc.Account.ResolveWellKnown(ctx, key)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", acc.Name, acc.AccountID)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withOpening, "with-opening-balance", false, "Also create the Opening Balance account")
	return cmd
}

func newReconcileCmd(a *app) *cobra.Command {
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Replay the ledger and compare it against derived balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := dto.ParseOptionalDate(asOfFlag)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				result, err := svc.Reporting.Reconcile(ctx, asOf)
				if result != nil {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "accounts: %d\nnet: %s\n", result.AccountsCount, result.Net.StringFixed(2))
					for _, issue := range result.Issues {
						fmt.Fprintf(out, "mismatch %s (%s): bulk %s, replay %s\n",
							issue.AccountName, issue.AccountID, issue.BulkBalance.StringFixed(2), issue.FoldBalance.StringFixed(2))
					}
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ledger is consistent")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Reconcile postings up to this date (YYYY-MM-DD)")
	return cmd
}

func newBalanceCmd(a *app) *cobra.Command {
	var asOfFlag string
	cmd := &cobra.Command{
		Use:   "balance ACCOUNT_ID...",
		Short: "Print derived balances in Dr/Cr form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := dto.ParseOptionalDate(asOfFlag)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				balances, err := svc.Balance.DescribeBalances(ctx, args, asOf)
				if err != nil {
					return err
				}
				for _, b := range balances {
					marker := ""
					if b.Unusual {
						marker = " (unusual)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s%s\n", b.AccountName, svc.Balance.FormatBalance(b), marker)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Derive balances up to this date (YYYY-MM-DD)")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token OPERATOR_ID",
		Short: "Issue a bearer token for an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.IssueOperatorToken(args[0], a.cfg.JWTSecret, a.cfg.JWTIssuer, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "How long the token stays valid")
	return cmd
}

// exitCode distinguishes an inconsistent ledger from other failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, apperrors.ErrConsistency):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return exitCode(err)
}
