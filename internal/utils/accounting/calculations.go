package accounting

import (
	"fmt"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedOpening applies the account type's polarity to the stored opening balance.
// Credit-normal accounts carry their opening balance as a negative internal value.
func SignedOpening(account domain.Account) decimal.Decimal {
	if account.AccountType.Polarity() == domain.CreditNormal {
		return account.OpeningBalance.Neg()
	}
	return account.OpeningBalance
}

// PostingEffect returns the signed effect of txn on accountID: +amount when debited,
// -amount when credited, zero when the account is untouched.
//
// The account's own opening-balance journals are excluded because SignedOpening
// already represents them; the counter-side account still sees them.
func PostingEffect(txn domain.Transaction, accountID string) decimal.Decimal {
	if txn.MirrorsOpeningOf(accountID) {
		return decimal.Zero
	}
	switch accountID {
	case txn.DebitAccountID:
		return txn.Amount
	case txn.CreditAccountID:
		return txn.Amount.Neg()
	}
	return decimal.Zero
}

// DeriveBalances folds the transaction log once over every requested account.
func DeriveBalances(accounts map[string]domain.Account, txns []domain.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for id, acc := range accounts {
		balances[id] = SignedOpening(acc)
	}
	for _, txn := range txns {
		for _, id := range [2]string{txn.DebitAccountID, txn.CreditAccountID} {
			current, ok := balances[id]
			if !ok {
				continue
			}
			balances[id] = current.Add(PostingEffect(txn, id))
		}
	}
	return balances
}

// DescribeBalance derives the Dr/Cr display facts of a signed balance.
func DescribeBalance(account domain.Account, signed decimal.Decimal) domain.AccountBalance {
	side := domain.SideDr
	if signed.IsNegative() {
		side = domain.SideCr
	}
	unusual := false
	switch account.AccountType.Polarity() {
	case domain.DebitNormal:
		unusual = signed.IsNegative()
	case domain.CreditNormal:
		unusual = signed.IsPositive()
	}
	return domain.AccountBalance{
		AccountID:   account.AccountID,
		AccountName: account.Name,
		AccountType: account.AccountType,
		Amount:      signed,
		Magnitude:   signed.Abs(),
		Side:        side,
		Unusual:     unusual,
	}
}

// FormatBalance renders a balance as "{symbol}{magnitude} {Dr|Cr}", rounded to two places.
func FormatBalance(symbol string, balance domain.AccountBalance) string {
	return fmt.Sprintf("%s%s %s", symbol, balance.Magnitude.Round(2).String(), balance.Side)
}

// OpeningJournalSides decides the debit and credit accounts of an opening-balance
// journal for account, counter-posted against the Opening Balance account.
// The returned amount is always positive; ok is false when nothing needs posting.
func OpeningJournalSides(account domain.Account, openingAccountID string, opening decimal.Decimal) (debit, credit string, amount decimal.Decimal, ok bool) {
	probe := account
	probe.OpeningBalance = opening
	signed := SignedOpening(probe)
	switch {
	case signed.IsZero():
		return "", "", decimal.Zero, false
	case signed.IsPositive():
		return account.AccountID, openingAccountID, signed, true
	default:
		return openingAccountID, account.AccountID, signed.Abs(), true
	}
}

// ValidatePosting checks the structural rules every posting must satisfy.
func ValidatePosting(txn domain.Transaction) error {
	if !txn.Type.IsValid() {
		return fmt.Errorf("unknown transaction type %q", txn.Type)
	}
	if txn.DebitAccountID == "" || txn.CreditAccountID == "" {
		return fmt.Errorf("debit and credit accounts are required")
	}
	if txn.DebitAccountID == txn.CreditAccountID {
		return fmt.Errorf("debit and credit accounts must differ")
	}
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", txn.Amount.String())
	}
	if txn.CommissionAmount.IsNegative() {
		return fmt.Errorf("commission amount cannot be negative")
	}
	if !txn.CommissionAmount.IsZero() {
		if txn.Type != domain.Receipt {
			return fmt.Errorf("commission amount is only allowed on receipts")
		}
		if txn.CommissionAmount.GreaterThan(txn.Amount) {
			return fmt.Errorf("commission amount %s exceeds receipt amount %s", txn.CommissionAmount.String(), txn.Amount.String())
		}
	}
	return nil
}
