// Package account holds the core banking domain: the Account aggregate, the
// closed set of transaction kinds with their mutation rules, and the immutable
// transaction history entry.
//
// Invariants:
//   - An account balance is a fixed-point decimal and is never negative at rest.
//   - The balance is only mutated by the transaction processor while it holds the
//     account's exclusive row lock.
//   - History entries are created exactly once per committed transaction and are
//     never updated or deleted.
package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionAmountMustBePositive is returned when a transaction amount is zero or negative.
	ErrTransactionAmountMustBePositive = errors.New("transaction amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")

	// ErrAccountNotFound is returned when no account matches the given IBAN.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnsupportedTransactionKind is returned for a transaction kind outside the
	// closed DEPOSIT/WITHDRAWAL set. It signals a programming or configuration
	// error, not a business rejection, and is never retried.
	ErrUnsupportedTransactionKind = errors.New("unsupported transaction kind")

	// ErrInvalidIBAN is returned when an IBAN does not fit the accepted shape.
	ErrInvalidIBAN = errors.New("invalid iban")
)

// Account represents a bank account addressed by its IBAN.
type Account struct {
	ID        uuid.UUID
	IBAN      string
	FirstName string
	Address   string
	Email     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances, both for
// new accounts and for hydrating records from the data store.
type Builder struct {
	id        uuid.UUID
	iban      string
	firstName string
	address   string
	email     string
	balance   decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Builder with a fresh UUID and a zero balance.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		balance:   decimal.Zero,
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithIBAN sets the IBAN for the account being built. This is a mandatory field.
func (b *Builder) WithIBAN(iban string) *Builder {
	b.iban = iban
	return b
}

// WithFirstName sets the holder's first name.
func (b *Builder) WithFirstName(firstName string) *Builder {
	b.firstName = firstName
	return b
}

// WithAddress sets the holder's address.
func (b *Builder) WithAddress(address string) *Builder {
	b.address = address
	return b
}

// WithEmail sets the holder's email.
func (b *Builder) WithEmail(email string) *Builder {
	b.email = email
	return b
}

// WithBalance sets the balance. This should only be used for hydrating an
// existing account from the data store or for test setup.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp, primarily for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp, primarily for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !ValidIBANLength(b.iban) {
		return nil, ErrInvalidIBAN
	}
	if b.balance.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	return &Account{
		ID:        b.id,
		IBAN:      b.iban,
		FirstName: b.firstName,
		Address:   b.address,
		Email:     b.email,
		Balance:   b.balance,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// ValidIBANLength reports whether the string fits the international IBAN
// length range (15 to 34 characters).
func ValidIBANLength(iban string) bool {
	return len(iban) >= 15 && len(iban) <= 34
}
