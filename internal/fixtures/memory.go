// Package fixtures provides an in-memory implementation of the storage
// contracts for service and webapi tests. It models the row-lock discipline
// of the real store: GetByIBANForUpdate blocks on a per-account lock until the
// enclosing unit of work finishes, writes are staged and only become visible
// on commit, and a lock wait that outlives the context surfaces as
// repository.ErrLockContention.
package fixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// MemoryStore holds the committed state shared by every unit of work.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
	history  map[string][]*account.HistoryEntry
	rowLocks map[string]chan struct{}

	// FailLockAcquisitions forces the next n exclusive acquisitions to fail
	// with repository.ErrLockContention, for retry-path tests.
	FailLockAcquisitions int

	// LockAttempts counts every exclusive acquisition attempt, including the
	// forced failures.
	LockAttempts int

	// UpdateBalanceErr, when set, is returned by every UpdateBalance call to
	// simulate a storage failure after the lock was granted.
	UpdateBalanceErr error

	// AppendErr, when set, is returned by every history Append call.
	AppendErr error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*account.Account),
		history:  make(map[string][]*account.HistoryEntry),
		rowLocks: make(map[string]chan struct{}),
	}
}

// Seed inserts a committed account, bypassing the unit of work.
func (s *MemoryStore) Seed(a *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.accounts[a.IBAN] = &cp
}

// Account returns a copy of the committed account, or nil.
func (s *MemoryStore) Account(iban string) *account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[iban]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

// History returns the committed ledger entries for the account in append
// order.
func (s *MemoryStore) History(iban string) []*account.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*account.HistoryEntry(nil), s.history[iban]...)
}

// rowLock returns the buffered-by-one channel that stands in for the
// account's row lock.
func (s *MemoryStore) rowLock(iban string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[iban]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[iban] = ch
	}
	return ch
}

func (s *MemoryStore) acquireRowLock(ctx context.Context, iban string) error {
	s.mu.Lock()
	s.LockAttempts++
	if s.FailLockAcquisitions > 0 {
		s.FailLockAcquisitions--
		s.mu.Unlock()
		return fmt.Errorf("%w: simulated", repository.ErrLockContention)
	}
	s.mu.Unlock()

	select {
	case s.rowLock(iban) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: timed out waiting for row lock", repository.ErrLockContention)
	}
}

func (s *MemoryStore) releaseRowLock(iban string) {
	<-s.rowLock(iban)
}

// MemoryUoW implements repository.UnitOfWork over a MemoryStore.
type MemoryUoW struct {
	store *MemoryStore
	tx    *memoryTx
}

// NewMemoryUoW creates a unit of work over the store.
func NewMemoryUoW(store *MemoryStore) *MemoryUoW {
	return &MemoryUoW{store: store}
}

// memoryTx is the per-Do staging area.
type memoryTx struct {
	store          *MemoryStore
	heldLocks      []string
	stagedBalances map[string]decimal.Decimal
	stagedEntries  []*account.HistoryEntry
}

// Do runs fn within a staged transaction; DoSerializable is identical here
// since the fixture's per-row locks already serialize conflicting writers.
func (u *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	tx := &memoryTx{
		store:          u.store,
		stagedBalances: make(map[string]decimal.Decimal),
	}
	defer tx.releaseLocks()

	if err := fn(&MemoryUoW{store: u.store, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// DoSerializable implements repository.UnitOfWork.
func (u *MemoryUoW) DoSerializable(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.Do(ctx, fn)
}

// AccountRepository implements repository.UnitOfWork.
func (u *MemoryUoW) AccountRepository() repository.AccountRepository {
	return &memoryAccountRepository{store: u.store, tx: u.tx}
}

// HistoryRepository implements repository.UnitOfWork.
func (u *MemoryUoW) HistoryRepository() repository.HistoryRepository {
	return &memoryHistoryRepository{store: u.store, tx: u.tx}
}

func (tx *memoryTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for iban, balance := range tx.stagedBalances {
		if a, ok := tx.store.accounts[iban]; ok {
			a.Balance = balance
		}
	}
	for _, e := range tx.stagedEntries {
		tx.store.history[e.IBAN] = append(tx.store.history[e.IBAN], e)
	}
}

func (tx *memoryTx) releaseLocks() {
	for _, iban := range tx.heldLocks {
		tx.store.releaseRowLock(iban)
	}
	tx.heldLocks = nil
}

type memoryAccountRepository struct {
	store *MemoryStore
	tx    *memoryTx
}

func (r *memoryAccountRepository) Create(_ context.Context, a *account.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.accounts[a.IBAN]; exists {
		return fmt.Errorf("%w: duplicate iban", repository.ErrStorageUnavailable)
	}
	cp := *a
	r.store.accounts[a.IBAN] = &cp
	return nil
}

func (r *memoryAccountRepository) GetByIBAN(_ context.Context, iban string) (*account.Account, error) {
	a := r.store.Account(iban)
	if a == nil {
		return nil, account.ErrAccountNotFound
	}
	return a, nil
}

func (r *memoryAccountRepository) GetByIBANForUpdate(ctx context.Context, iban string) (*account.Account, error) {
	if r.tx == nil {
		return nil, fmt.Errorf("%w: exclusive read outside unit of work", repository.ErrStorageUnavailable)
	}
	if err := r.store.acquireRowLock(ctx, iban); err != nil {
		return nil, err
	}
	r.tx.heldLocks = append(r.tx.heldLocks, iban)

	a := r.store.Account(iban)
	if a == nil {
		return nil, account.ErrAccountNotFound
	}
	return a, nil
}

func (r *memoryAccountRepository) UpdateBalance(_ context.Context, iban string, balance decimal.Decimal) error {
	r.store.mu.Lock()
	err := r.store.UpdateBalanceErr
	_, exists := r.store.accounts[iban]
	r.store.mu.Unlock()

	if err != nil {
		return err
	}
	if !exists {
		return account.ErrAccountNotFound
	}
	if r.tx == nil {
		return fmt.Errorf("%w: balance write outside unit of work", repository.ErrStorageUnavailable)
	}
	r.tx.stagedBalances[iban] = balance
	return nil
}

type memoryHistoryRepository struct {
	store *MemoryStore
	tx    *memoryTx
}

func (r *memoryHistoryRepository) Append(_ context.Context, e *account.HistoryEntry) error {
	r.store.mu.Lock()
	err := r.store.AppendErr
	r.store.mu.Unlock()
	if err != nil {
		return err
	}
	if r.tx == nil {
		return fmt.Errorf("%w: ledger append outside unit of work", repository.ErrStorageUnavailable)
	}
	r.tx.stagedEntries = append(r.tx.stagedEntries, e)
	return nil
}

// ListByIBAN returns committed entries most recent first, using append order
// as the timestamp tiebreaker so pagination is deterministic in tests.
func (r *memoryHistoryRepository) ListByIBAN(_ context.Context, iban string, page, size int) ([]*account.HistoryEntry, int64, error) {
	all := r.store.History(iban)
	total := int64(len(all))

	// reverse: most recent first
	desc := make([]*account.HistoryEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		desc = append(desc, all[i])
	}

	start := page * size
	if start >= len(desc) {
		return []*account.HistoryEntry{}, total, nil
	}
	end := start + size
	if end > len(desc) {
		end = len(desc)
	}
	return desc[start:end], total, nil
}
