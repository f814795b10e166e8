package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for opening an account.
type CreateAccountRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	Address   string `json:"address" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// CreateAccountResponse is returned after a successful account opening.
type CreateAccountResponse struct {
	ID      string `json:"id"`
	IBAN    string `json:"iban"`
	Address string `json:"address"`
}

// BalanceResponse is the balance inquiry payload.
type BalanceResponse struct {
	IBAN    string          `json:"iban"`
	Balance decimal.Decimal `json:"balance"`
}

// HistoryEntryResponse is one ledger entry on the wire.
type HistoryEntryResponse struct {
	IBAN             string          `json:"iban"`
	TransactionType  string          `json:"transactionType"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
	Timestamp        time.Time       `json:"timestamp"`
	Description      string          `json:"description"`
}

// HistoryResponse is one page of ledger entries, most recent first.
type HistoryResponse struct {
	Entries    []HistoryEntryResponse `json:"entries"`
	TotalCount int64                  `json:"totalCount"`
}
