// Package repository defines the storage contracts consumed by the services.
// Implementations live under infra/repository; tests use the in-memory fakes
// from internal/fixtures.
package repository

import (
	"context"
	"errors"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

var (
	// ErrLockContention marks a transient failure to obtain the exclusive row
	// lock for an account, including a lock wait that outlived the attempt
	// timeout. It is the only error class the transaction processor retries.
	ErrLockContention = errors.New("lock contention")

	// ErrStorageUnavailable marks any other storage-level failure. It is
	// surfaced to the caller as-is and never retried.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AccountRepository owns account records.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	GetByIBAN(ctx context.Context, iban string) (*account.Account, error)

	// GetByIBANForUpdate returns the account while holding its exclusive row
	// lock (SELECT ... FOR UPDATE). The lock is held until the enclosing unit
	// of work commits or rolls back. Returns account.ErrAccountNotFound when
	// no account matches, ErrLockContention when the lock cannot be obtained
	// within the attempt budget.
	GetByIBANForUpdate(ctx context.Context, iban string) (*account.Account, error)

	// UpdateBalance persists the new balance. The write becomes visible to
	// other holders only once the enclosing unit of work commits.
	UpdateBalance(ctx context.Context, iban string, balance decimal.Decimal) error
}

// HistoryRepository is the append-only transaction ledger.
type HistoryRepository interface {
	Append(ctx context.Context, e *account.HistoryEntry) error

	// ListByIBAN returns one page of entries ordered by timestamp descending,
	// plus the total entry count for the account. An account with no history
	// yields an empty page, not an error.
	ListByIBAN(ctx context.Context, iban string, page, size int) ([]*account.HistoryEntry, int64, error)
}

// UnitOfWork provides a transaction boundary and repository access bound to
// that boundary, so every repository call inside Do shares one DB transaction.
type UnitOfWork interface {
	// Do runs fn inside a transaction at the store's default isolation.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// DoSerializable runs fn at the strongest isolation the store offers.
	// The mutating transaction path uses it to rule out write skew.
	DoSerializable(ctx context.Context, fn func(uow UnitOfWork) error) error

	// AccountRepository returns a repository bound to the current transaction,
	// or to the base connection when called outside Do.
	AccountRepository() AccountRepository

	// HistoryRepository returns the ledger bound to the current transaction,
	// or to the base connection when called outside Do.
	HistoryRepository() HistoryRepository
}
