// Package transaction implements the transaction processing engine: the
// per-account locking discipline, the retry/backoff policy for lock
// contention, the deposit/withdrawal mutation rules, and the append of the
// immutable history entry, all inside one unit of work per attempt.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// ErrRetryExhausted is returned when every attempt of the retry budget failed
// with lock contention. The balance and history are unchanged.
var ErrRetryExhausted = errors.New("transaction could not be completed after multiple attempts")

// SuccessDescription is the human-readable description of a committed
// transaction, carried unchanged onto the wire.
const SuccessDescription = "Transaction processed successfully"

// RetryPolicy bounds the lock-contention retry loop. Attempt n (1-based) waits
// BaseDelay * Multiplier^(n-1) before the next acquisition; each attempt runs
// under its own AttemptTimeout.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	Multiplier     float64
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy mirrors the production settings: three attempts, 1s base
// delay doubling per attempt, 5s per-attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		Multiplier:     2,
		AttemptTimeout: 5 * time.Second,
	}
}

// Delay returns the backoff delay before retrying after the given attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	return time.Duration(d)
}

// CacheInvalidator drops memoized history pages for an account. The processor
// calls it after every commit so cached reads never trail the ledger.
type CacheInvalidator interface {
	InvalidateAccount(ctx context.Context, iban string) error
}

// Result is the outcome of a committed transaction.
type Result struct {
	IBAN        string
	NewBalance  decimal.Decimal
	Description string
}

// Processor orchestrates one transaction request: validate amount, acquire the
// exclusive account lock, apply the strategy, persist the balance, append the
// history entry, commit. Only lock contention is retried; business rejections
// and storage failures short-circuit.
type Processor struct {
	uow         repository.UnitOfWork
	invalidator CacheInvalidator
	retry       RetryPolicy
	logger      *slog.Logger
}

// NewProcessor creates a Processor. invalidator may be nil when no history
// cache is deployed.
func NewProcessor(uow repository.UnitOfWork, invalidator CacheInvalidator, retry RetryPolicy, logger *slog.Logger) *Processor {
	return &Processor{
		uow:         uow,
		invalidator: invalidator,
		retry:       retry,
		logger:      logger,
	}
}

// Process applies one deposit or withdrawal to the account addressed by iban.
//
// Every distinguishable outcome is an error value: account.ErrTransaction-
// AmountMustBePositive (checked before any lock is taken), account.Err-
// UnsupportedTransactionKind, account.ErrAccountNotFound, account.Err-
// InsufficientFunds, repository.ErrStorageUnavailable and ErrRetryExhausted.
// The balance is mutated only on the nil-error path; on every other path
// balance and history are unchanged from before the call.
func (p *Processor) Process(ctx context.Context, iban string, kind account.Kind, amount decimal.Decimal) (*Result, error) {
	logger := p.logger.With("iban", iban, "kind", kind, "amount", amount)

	if !amount.IsPositive() {
		logger.Warn("invalid transaction amount")
		return nil, account.ErrTransactionAmountMustBePositive
	}
	strategy, err := account.StrategyFor(kind)
	if err != nil {
		logger.Error("unsupported transaction kind")
		return nil, err
	}

	var res *Result
	for attempt := 1; ; attempt++ {
		res, err = p.attempt(ctx, iban, strategy, kind, amount)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrLockContention) {
			logger.Warn("transaction rejected", "error", err)
			return nil, err
		}
		if attempt >= p.retry.MaxAttempts {
			logger.Error("transaction failed after retries", "attempts", attempt, "error", err)
			return nil, fmt.Errorf("%w: %s", ErrRetryExhausted, err)
		}

		delay := p.retry.Delay(attempt)
		logger.Warn("lock contention, backing off", "attempt", attempt, "delay", delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if p.invalidator != nil {
		if err := p.invalidator.InvalidateAccount(ctx, iban); err != nil {
			// The transaction is committed; a stale cache page is bounded by
			// its TTL, so this is logged rather than surfaced.
			logger.Error("history cache invalidation failed", "error", err)
		}
	}

	logger.Info("transaction processed", "newBalance", res.NewBalance)
	return res, nil
}

// attempt runs one acquisition attempt inside a serializable unit of work with
// its own timeout. The balance write and the ledger append share the unit of
// work: they commit or roll back together, and no entry is ever appended for a
// rejected or retried attempt.
func (p *Processor) attempt(ctx context.Context, iban string, strategy account.Strategy, kind account.Kind, amount decimal.Decimal) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.retry.AttemptTimeout)
	defer cancel()

	var res *Result
	err := p.uow.DoSerializable(attemptCtx, func(uow repository.UnitOfWork) error {
		accounts := uow.AccountRepository()

		a, err := accounts.GetByIBANForUpdate(attemptCtx, iban)
		if err != nil {
			return err
		}

		newBalance, err := strategy(a.Balance, amount)
		if err != nil {
			// Business rejection: the rollback releases the lock with
			// nothing persisted.
			return err
		}

		if err := accounts.UpdateBalance(attemptCtx, iban, newBalance); err != nil {
			return err
		}
		entry := account.NewHistoryEntry(iban, kind, amount, newBalance)
		if err := uow.HistoryRepository().Append(attemptCtx, entry); err != nil {
			return err
		}

		res = &Result{IBAN: iban, NewBalance: newBalance, Description: SuccessDescription}
		return nil
	})
	if err != nil {
		// A storage driver may report the expired attempt deadline in its own
		// vocabulary; normalize it to the contention class here.
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, repository.ErrLockContention) {
			return nil, fmt.Errorf("%w: attempt timed out", repository.ErrLockContention)
		}
		return nil, err
	}
	return res, nil
}
