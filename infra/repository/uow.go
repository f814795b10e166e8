package repository

import (
	"context"
	"database/sql"

	repo "github.com/cobank/ledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction,
// so balance writes and ledger appends always share a single DB transaction:
// they commit or roll back together.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a transaction at the database's default isolation level.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// DoSerializable runs fn in a SERIALIZABLE transaction. The mutating path uses
// it so two concurrent transactions can never both read the pre-mutation
// balance and commit.
func (u *UoW) DoSerializable(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// session returns the transaction when inside Do, otherwise the base
// connection so the type-safe accessors also work for read-only callers.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns an account repository bound to the current session.
func (u *UoW) AccountRepository() repo.AccountRepository {
	return NewAccountRepository(u.session())
}

// HistoryRepository returns the ledger bound to the current session.
func (u *UoW) HistoryRepository() repo.HistoryRepository {
	return NewHistoryRepository(u.session())
}
