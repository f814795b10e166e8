package transaction_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cobank/ledger/app"
	"github.com/cobank/ledger/internal/fixtures"
	"github.com/cobank/ledger/pkg/config"
	domain "github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/iban"
	accountsvc "github.com/cobank/ledger/pkg/service/account"
	historysvc "github.com/cobank/ledger/pkg/service/history"
	txsvc "github.com/cobank/ledger/pkg/service/transaction"
	"github.com/cobank/ledger/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIBAN = "NL00COOP1234567890"

func newTestApp(t *testing.T, store *fixtures.MemoryStore) *fiber.App {
	t.Helper()
	cfg := &config.App{
		RateLimit: config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
	uow := fixtures.NewMemoryUoW(store)
	logger := slog.Default()

	reader := historysvc.NewReader(uow.HistoryRepository(), nil, time.Minute, logger)
	policy := txsvc.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2, AttemptTimeout: time.Second}
	processor := txsvc.NewProcessor(uow, reader, policy, logger)
	accounts := accountsvc.NewService(uow, iban.New("NL", "00", "COOP", 10), logger)

	return app.New(cfg, accounts, processor, reader)
}

func seedAccount(t *testing.T, store *fixtures.MemoryStore, balance string) {
	t.Helper()
	a, err := domain.New().
		WithIBAN(testIBAN).
		WithFirstName("Alice").
		WithBalance(decimal.RequireFromString(balance)).
		Build()
	require.NoError(t, err)
	store.Seed(a)
}

func postTransaction(t *testing.T, a *fiber.App, body map[string]any) (*http.Response, transaction.TransactionResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out transaction.TransactionResponse
	require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	return resp, out
}

func TestProcessTransaction_Deposit(t *testing.T) {
	store := fixtures.NewMemoryStore()
	seedAccount(t, store, "1000.00")
	a := newTestApp(t, store)

	resp, out := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "DEPOSIT", "amount": "100.00",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testIBAN, out.IBAN)
	assert.True(t, out.NewBalance.Equal(decimal.RequireFromString("1100.00")))
	assert.Equal(t, txsvc.SuccessDescription, out.Description)
}

func TestProcessTransaction_InsufficientFunds(t *testing.T) {
	store := fixtures.NewMemoryStore()
	seedAccount(t, store, "1000.00")
	a := newTestApp(t, store)

	resp, out := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "WITHDRAWAL", "amount": "1500.00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.True(t, out.NewBalance.Equal(decimal.NewFromInt(-1)))
	assert.Equal(t, "Insufficient funds for withdrawal", out.Description)

	// nothing committed
	assert.True(t, store.Account(testIBAN).Balance.Equal(decimal.RequireFromString("1000.00")))
	assert.Empty(t, store.History(testIBAN))
}

func TestProcessTransaction_UnknownAccount(t *testing.T) {
	store := fixtures.NewMemoryStore()
	a := newTestApp(t, store)

	resp, out := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "DEPOSIT", "amount": "100.00",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, out.NewBalance.Equal(decimal.NewFromInt(-1)))
	assert.Equal(t, "Account not found", out.Description)
}

func TestProcessTransaction_InvalidAmount(t *testing.T) {
	store := fixtures.NewMemoryStore()
	seedAccount(t, store, "1000.00")
	a := newTestApp(t, store)

	resp, out := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "DEPOSIT", "amount": "-5.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, out.NewBalance.Equal(decimal.NewFromInt(-1)))
	assert.Equal(t, "Invalid transaction amount", out.Description)
}

func TestProcessTransaction_RejectsUnknownType(t *testing.T) {
	store := fixtures.NewMemoryStore()
	seedAccount(t, store, "1000.00")
	a := newTestApp(t, store)

	raw, err := json.Marshal(map[string]any{
		"iban": testIBAN, "type": "TRANSFER", "amount": "10.00",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestProcessTransaction_WithdrawThenDeposit walks the canonical session: a
// withdrawal above the balance is rejected without touching state, then a
// deposit lands on the unchanged balance.
func TestProcessTransaction_WithdrawThenDeposit(t *testing.T) {
	store := fixtures.NewMemoryStore()
	seedAccount(t, store, "1000.00")
	a := newTestApp(t, store)

	resp, _ := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "WITHDRAWAL", "amount": "1500.00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, out := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "DEPOSIT", "amount": "100.00",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.NewBalance.Equal(decimal.RequireFromString("1100.00")))

	require.Len(t, store.History(testIBAN), 1)
}

func TestProcessTransaction_RetryExhaustion(t *testing.T) {
	store := fixtures.NewMemoryStore()
	seedAccount(t, store, "1000.00")
	store.FailLockAcquisitions = 3
	a := newTestApp(t, store)

	resp, out := postTransaction(t, a, map[string]any{
		"iban": testIBAN, "type": "DEPOSIT", "amount": "100.00",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Transaction could not be completed after multiple attempts. Please try again later.", out.Description)
}
