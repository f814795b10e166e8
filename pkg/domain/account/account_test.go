package account_test

import (
	"testing"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIBAN = "NL00COOP1234567890"

func TestBuilder_Defaults(t *testing.T) {
	a, err := account.New().WithIBAN(testIBAN).Build()
	require.NoError(t, err)

	assert.Equal(t, testIBAN, a.IBAN)
	assert.True(t, a.Balance.IsZero())
	assert.NotEqual(t, [16]byte{}, [16]byte(a.ID))
	assert.False(t, a.CreatedAt.IsZero())
}

func TestBuilder_InvalidIBAN(t *testing.T) {
	for _, iban := range []string{"", "NL00", "NL00COOP12345678901234567890123456789"} {
		_, err := account.New().WithIBAN(iban).Build()
		assert.ErrorIs(t, err, account.ErrInvalidIBAN, "iban=%q", iban)
	}
}

func TestBuilder_NegativeBalanceRejected(t *testing.T) {
	_, err := account.New().
		WithIBAN(testIBAN).
		WithBalance(decimal.RequireFromString("-0.01")).
		Build()
	assert.Error(t, err)
}

func TestNewHistoryEntry(t *testing.T) {
	amount := decimal.RequireFromString("100.00")
	resulting := decimal.RequireFromString("1100.00")

	e := account.NewHistoryEntry(testIBAN, account.KindDeposit, amount, resulting)

	assert.Equal(t, testIBAN, e.IBAN)
	assert.Equal(t, account.KindDeposit, e.Kind)
	assert.True(t, e.Amount.Equal(amount))
	assert.True(t, e.ResultingBalance.Equal(resulting))
	assert.Equal(t, "DEPOSIT transaction of 100.00", e.Description)
	assert.False(t, e.Timestamp.IsZero())
}
