package repository

import (
	"context"

	"github.com/cobank/ledger/pkg/domain/account"
	repo "github.com/cobank/ledger/pkg/repository"
	"gorm.io/gorm"
)

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates the ledger repository over the given session.
func NewHistoryRepository(db *gorm.DB) repo.HistoryRepository {
	return &historyRepository{db: db}
}

// Append inserts one ledger row. The table is append-only; nothing here ever
// updates or deletes.
func (r *historyRepository) Append(ctx context.Context, e *account.HistoryEntry) error {
	row := TransactionHistory{
		ID:               e.ID,
		IBAN:             e.IBAN,
		TransactionType:  string(e.Kind),
		Amount:           e.Amount,
		ResultingBalance: e.ResultingBalance,
		Timestamp:        e.Timestamp,
		Description:      e.Description,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapStorageError(err)
	}
	return nil
}

func (r *historyRepository) ListByIBAN(ctx context.Context, iban string, page, size int) ([]*account.HistoryEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&TransactionHistory{}).
		Where("iban = ?", iban).
		Count(&total).Error; err != nil {
		return nil, 0, mapStorageError(err)
	}

	var rows []TransactionHistory
	if err := r.db.WithContext(ctx).
		Where("iban = ?", iban).
		Order("timestamp DESC").
		Offset(page * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		return nil, 0, mapStorageError(err)
	}

	entries := make([]*account.HistoryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, mapRowToHistoryEntry(&rows[i]))
	}
	return entries, total, nil
}

func mapRowToHistoryEntry(row *TransactionHistory) *account.HistoryEntry {
	return &account.HistoryEntry{
		ID:               row.ID,
		IBAN:             row.IBAN,
		Kind:             account.Kind(row.TransactionType),
		Amount:           row.Amount,
		ResultingBalance: row.ResultingBalance,
		Timestamp:        row.Timestamp,
		Description:      row.Description,
	}
}
