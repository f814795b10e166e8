package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryEntry is one immutable record in the append-only transaction ledger.
// ResultingBalance always equals the account balance produced by the
// transaction that created the entry.
type HistoryEntry struct {
	ID               uuid.UUID
	IBAN             string
	Kind             Kind
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	Timestamp        time.Time
	Description      string
}

// NewHistoryEntry builds the ledger record for a just-applied transaction.
func NewHistoryEntry(iban string, kind Kind, amount, resultingBalance decimal.Decimal) *HistoryEntry {
	return &HistoryEntry{
		ID:               uuid.New(),
		IBAN:             iban,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: resultingBalance,
		Timestamp:        time.Now().UTC(),
		Description:      fmt.Sprintf("%s transaction of %s", kind, amount.StringFixed(2)),
	}
}

// HistoryPage is one page of ledger entries, most recent first.
type HistoryPage struct {
	Entries    []*HistoryEntry `json:"entries"`
	TotalCount int64           `json:"totalCount"`
}
