// Package repository provides the GORM/Postgres implementation of the storage
// contracts in pkg/repository.
package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is the accounts table row.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	IBAN      string          `gorm:"column:iban;type:varchar(34);uniqueIndex;not null"`
	FirstName string          `gorm:"type:varchar(50);not null"`
	Address   string          `gorm:"not null"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// TransactionHistory is one append-only ledger row. Rows are never updated or
// deleted; the composite index serves the timestamp-descending history reads.
type TransactionHistory struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	IBAN             string          `gorm:"column:iban;type:varchar(34);not null;index:idx_iban_timestamp,priority:1"`
	TransactionType  string          `gorm:"type:varchar(20);not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	ResultingBalance decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Timestamp        time.Time       `gorm:"not null;index:idx_iban_timestamp,priority:2,sort:desc"`
	Description      string          `gorm:"type:varchar(255)"`
}

// TableName specifies the table name for the TransactionHistory model.
func (TransactionHistory) TableName() string {
	return "transaction_history"
}

// Migrate creates or updates the schema for both tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &TransactionHistory{})
}
