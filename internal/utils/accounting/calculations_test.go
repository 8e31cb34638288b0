package accounting_test

import (
	"testing"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSignedOpening(t *testing.T) {
	tests := []struct {
		name    string
		accType domain.AccountType
		opening string
		want    string
	}{
		{name: "agent is credit-normal", accType: domain.AgentAcc, opening: "1000", want: "-1000"},
		{name: "recipient is debit-normal", accType: domain.Recipient, opening: "250", want: "250"},
		{name: "cash is debit-normal", accType: domain.Cash, opening: "75.5", want: "75.5"},
		{name: "liability is credit-normal", accType: domain.Liability, opening: "-40", want: "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := domain.Account{AccountType: tt.accType, OpeningBalance: dec(tt.opening)}
			assert.True(t, dec(tt.want).Equal(accounting.SignedOpening(acc)), "got %s", accounting.SignedOpening(acc))
		})
	}
}

func TestPostingEffect_ExcludesOwnOpeningJournal(t *testing.T) {
	agent := "agent-1"
	journal := domain.Transaction{
		Type:              domain.JournalEntry,
		DebitAccountID:    "ob",
		CreditAccountID:   agent,
		Amount:            dec("1000"),
		IsOpeningBalance:  true,
		OpeningBalanceFor: &agent,
	}

	assert.True(t, accounting.PostingEffect(journal, agent).IsZero())
	assert.True(t, dec("1000").Equal(accounting.PostingEffect(journal, "ob")))
	assert.True(t, accounting.PostingEffect(journal, "cash").IsZero())
}

func TestDeriveBalances_ClosedSystem(t *testing.T) {
	agentID := "agent-1"
	accounts := map[string]domain.Account{
		"cash":  {AccountID: "cash", AccountType: domain.Cash},
		"ob":    {AccountID: "ob", AccountType: domain.Equity},
		agentID: {AccountID: agentID, AccountType: domain.AgentAcc, OpeningBalance: dec("1000")},
	}
	txns := []domain.Transaction{
		{Type: domain.JournalEntry, DebitAccountID: "ob", CreditAccountID: agentID, Amount: dec("1000"), IsOpeningBalance: true, OpeningBalanceFor: &agentID},
		{Type: domain.Receipt, DebitAccountID: "cash", CreditAccountID: agentID, Amount: dec("2000")},
		{Type: domain.Payment, DebitAccountID: agentID, CreditAccountID: "cash", Amount: dec("300")},
	}

	balances := accounting.DeriveBalances(accounts, txns)

	assert.True(t, dec("1700").Equal(balances["cash"]))
	assert.True(t, dec("1000").Equal(balances["ob"]))
	assert.True(t, dec("-2700").Equal(balances[agentID]))

	net := decimal.Zero
	for _, b := range balances {
		net = net.Add(b)
	}
	assert.True(t, net.IsZero(), "ledger should net to zero, got %s", net)
}

func TestDescribeBalance(t *testing.T) {
	agent := domain.Account{AccountID: "a", Name: "Salim", AccountType: domain.AgentAcc}
	cash := domain.Account{AccountID: "c", Name: "Cash", AccountType: domain.Cash}

	owes := accounting.DescribeBalance(agent, dec("-1000"))
	assert.Equal(t, domain.SideCr, owes.Side)
	assert.False(t, owes.Unusual)
	assert.Equal(t, "₹1000 Cr", accounting.FormatBalance("₹", owes))

	advance := accounting.DescribeBalance(agent, dec("200"))
	assert.Equal(t, domain.SideDr, advance.Side)
	assert.True(t, advance.Unusual)

	overdrawn := accounting.DescribeBalance(cash, dec("-5"))
	assert.True(t, overdrawn.Unusual)

	zero := accounting.DescribeBalance(cash, decimal.Zero)
	assert.Equal(t, domain.SideDr, zero.Side)
	assert.False(t, zero.Unusual)
}

func TestOpeningJournalSides(t *testing.T) {
	agent := domain.Account{AccountID: "agent", AccountType: domain.AgentAcc}
	recipient := domain.Account{AccountID: "rcp", AccountType: domain.Recipient}

	debit, credit, amount, ok := accounting.OpeningJournalSides(agent, "ob", dec("500"))
	require.True(t, ok)
	assert.Equal(t, "ob", debit)
	assert.Equal(t, "agent", credit)
	assert.True(t, dec("500").Equal(amount))

	debit, credit, amount, ok = accounting.OpeningJournalSides(recipient, "ob", dec("120"))
	require.True(t, ok)
	assert.Equal(t, "rcp", debit)
	assert.Equal(t, "ob", credit)
	assert.True(t, dec("120").Equal(amount))

	debit, credit, _, ok = accounting.OpeningJournalSides(agent, "ob", dec("-80"))
	require.True(t, ok)
	assert.Equal(t, "agent", debit)
	assert.Equal(t, "ob", credit)

	_, _, _, ok = accounting.OpeningJournalSides(agent, "ob", decimal.Zero)
	assert.False(t, ok)
}

func TestValidatePosting(t *testing.T) {
	valid := domain.Transaction{Type: domain.Receipt, DebitAccountID: "cash", CreditAccountID: "agent", Amount: dec("100"), CommissionAmount: dec("5")}
	require.NoError(t, accounting.ValidatePosting(valid))

	sameAccounts := valid
	sameAccounts.CreditAccountID = "cash"
	assert.Error(t, accounting.ValidatePosting(sameAccounts))

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	assert.Error(t, accounting.ValidatePosting(zeroAmount))

	commissionOnPayment := valid
	commissionOnPayment.Type = domain.Payment
	assert.Error(t, accounting.ValidatePosting(commissionOnPayment))

	excessiveCommission := valid
	excessiveCommission.CommissionAmount = dec("101")
	assert.Error(t, accounting.ValidatePosting(excessiveCommission))

	badType := valid
	badType.Type = "transfer"
	assert.Error(t, accounting.ValidatePosting(badType))
}
