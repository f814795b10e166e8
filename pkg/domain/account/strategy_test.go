package account_test

import (
	"testing"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyFor_Deposit(t *testing.T) {
	strategy, err := account.StrategyFor(account.KindDeposit)
	require.NoError(t, err)

	balance := decimal.RequireFromString("1000.00")
	amount := decimal.RequireFromString("100.00")

	newBalance, err := strategy(balance, amount)
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("1100.00")))
}

func TestStrategyFor_Withdrawal(t *testing.T) {
	strategy, err := account.StrategyFor(account.KindWithdrawal)
	require.NoError(t, err)

	balance := decimal.RequireFromString("1000.00")
	amount := decimal.RequireFromString("250.50")

	newBalance, err := strategy(balance, amount)
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("749.50")))
}

func TestStrategyFor_WithdrawalExactBalance(t *testing.T) {
	strategy, err := account.StrategyFor(account.KindWithdrawal)
	require.NoError(t, err)

	balance := decimal.RequireFromString("100.00")

	newBalance, err := strategy(balance, balance)
	require.NoError(t, err)
	assert.True(t, newBalance.IsZero())
}

func TestStrategyFor_WithdrawalInsufficientFunds(t *testing.T) {
	strategy, err := account.StrategyFor(account.KindWithdrawal)
	require.NoError(t, err)

	balance := decimal.RequireFromString("1000.00")
	amount := decimal.RequireFromString("1500.00")

	_, err = strategy(balance, amount)
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
}

// A non-positive amount must be reported as an invalid amount, even when the
// balance could not cover it either.
func TestStrategy_AmountPositivityCheckedFirst(t *testing.T) {
	for _, kind := range []account.Kind{account.KindDeposit, account.KindWithdrawal} {
		strategy, err := account.StrategyFor(kind)
		require.NoError(t, err)

		for _, amount := range []string{"0", "-10.00"} {
			_, err = strategy(decimal.Zero, decimal.RequireFromString(amount))
			assert.ErrorIs(t, err, account.ErrTransactionAmountMustBePositive,
				"kind=%s amount=%s", kind, amount)
		}
	}
}

func TestStrategyFor_UnsupportedKind(t *testing.T) {
	_, err := account.StrategyFor(account.Kind("TRANSFER"))
	assert.ErrorIs(t, err, account.ErrUnsupportedTransactionKind)
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, account.KindDeposit.Valid())
	assert.True(t, account.KindWithdrawal.Valid())
	assert.False(t, account.Kind("TRANSFER").Valid())
	assert.False(t, account.Kind("").Valid())
}
