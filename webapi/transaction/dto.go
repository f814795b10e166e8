package transaction

import "github.com/shopspring/decimal"

// TransactionRequest is the payload for a deposit or withdrawal. The IBAN
// length range follows the international IBAN standard.
type TransactionRequest struct {
	IBAN   string          `json:"iban" validate:"required,min=15,max=34"`
	Type   string          `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// TransactionResponse is the legacy result shape: every outcome carries a
// human-readable description, and newBalance is -1 on any failure.
type TransactionResponse struct {
	IBAN        string          `json:"iban"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	Description string          `json:"description"`
}
