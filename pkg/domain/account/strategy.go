package account

import "github.com/shopspring/decimal"

// Kind identifies the transaction kind. The set is closed; anything else is a
// configuration error.
type Kind string

const (
	// KindDeposit adds funds to an account.
	KindDeposit Kind = "DEPOSIT"
	// KindWithdrawal removes funds from an account.
	KindWithdrawal Kind = "WITHDRAWAL"
)

// Valid reports whether the kind is part of the closed set.
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

// Strategy is the pure mutation rule for one transaction kind. It validates its
// own preconditions and returns the new balance, leaving both inputs untouched.
type Strategy func(balance, amount decimal.Decimal) (decimal.Decimal, error)

// StrategyFor dispatches on the transaction kind. An unknown kind fails fast
// with ErrUnsupportedTransactionKind so it can never reach the retry loop.
func StrategyFor(kind Kind) (Strategy, error) {
	switch kind {
	case KindDeposit:
		return applyDeposit, nil
	case KindWithdrawal:
		return applyWithdrawal, nil
	default:
		return nil, ErrUnsupportedTransactionKind
	}
}

func applyDeposit(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrTransactionAmountMustBePositive
	}
	return balance.Add(amount), nil
}

// applyWithdrawal checks amount positivity before funds sufficiency: a
// non-positive amount reports ErrTransactionAmountMustBePositive, never
// ErrInsufficientFunds.
func applyWithdrawal(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrTransactionAmountMustBePositive
	}
	if balance.LessThan(amount) {
		return decimal.Zero, ErrInsufficientFunds
	}
	return balance.Sub(amount), nil
}
