package repository

import (
	"context"
	"time"

	"github.com/cobank/ledger/pkg/domain/account"
	repo "github.com/cobank/ledger/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository over the given session.
// Pass a transaction session to bind the repository to a unit of work.
func NewAccountRepository(db *gorm.DB) repo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	row := Account{
		ID:        a.ID,
		IBAN:      a.IBAN,
		FirstName: a.FirstName,
		Address:   a.Address,
		Email:     a.Email,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapStorageError(err)
	}
	return nil
}

func (r *accountRepository) GetByIBAN(ctx context.Context, iban string) (*account.Account, error) {
	var row Account
	if err := r.db.WithContext(ctx).First(&row, "iban = ?", iban).Error; err != nil {
		return nil, mapStorageError(err)
	}
	return mapRowToAccount(&row)
}

// GetByIBANForUpdate takes the row's exclusive lock (SELECT ... FOR UPDATE).
// The lock blocks until granted or until ctx expires; the expired deadline
// surfaces as repo.ErrLockContention.
func (r *accountRepository) GetByIBANForUpdate(ctx context.Context, iban string) (*account.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&row, "iban = ?", iban).Error
	if err != nil {
		return nil, mapStorageError(err)
	}
	return mapRowToAccount(&row)
}

func (r *accountRepository) UpdateBalance(ctx context.Context, iban string, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("iban = ?", iban).
		Updates(map[string]any{
			"balance":    balance,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return mapStorageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func mapRowToAccount(row *Account) (*account.Account, error) {
	return account.New().
		WithID(row.ID).
		WithIBAN(row.IBAN).
		WithFirstName(row.FirstName).
		WithAddress(row.Address).
		WithEmail(row.Email).
		WithBalance(row.Balance).
		WithCreatedAt(row.CreatedAt).
		WithUpdatedAt(row.UpdatedAt).
		Build()
}
