package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/utils"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("IS_PRODUCTION", "false")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Metadata(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "cashdeskctl", root.Use)
	assert.NotNil(t, root.PersistentPreRunE)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "bootstrap", "reconcile", "balance", "token"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestBootstrap_WithOpeningBalance(t *testing.T) {
	out, err := execute(t, "bootstrap", "--with-opening-balance")
	require.NoError(t, err)
	assert.Contains(t, out, "Cash")
	assert.Contains(t, out, "Commission")
	assert.Contains(t, out, "Opening Balance")
}

func TestBootstrap_DefaultsOnly(t *testing.T) {
	out, err := execute(t, "bootstrap")
	require.NoError(t, err)
	assert.NotContains(t, out, "Opening Balance")
}

func TestReconcile_EmptyLedgerIsConsistent(t *testing.T) {
	out, err := execute(t, "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "ledger is consistent")
	assert.Contains(t, out, "net: 0.00")
}

func TestReconcile_RejectsBadDate(t *testing.T) {
	_, err := execute(t, "reconcile", "--as-of", "03/01/2024")
	assert.Error(t, err)
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER=postgres")
}

func TestBalance_UnknownAccount(t *testing.T) {
	_, err := execute(t, "balance", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(fmt.Errorf("ledger drift: %w", apperrors.ErrConsistency)))
	assert.Equal(t, 1, exitCode(apperrors.ErrNotFound))
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("JWT_ISSUER", "cashdesk-cli")

	out, err := execute(t, "token", "cashier-9", "--ttl", "5m")
	require.NoError(t, err)

	operator, err := utils.ParseOperatorToken(strings.TrimSpace(out), "cli-test-secret", "cashdesk-cli")
	require.NoError(t, err)
	assert.Equal(t, "cashier-9", operator)
}
