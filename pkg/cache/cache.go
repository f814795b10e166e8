// Package cache defines the contract for memoizing paginated history reads.
package cache

import (
	"context"
	"time"

	"github.com/cobank/ledger/pkg/domain/account"
)

// PageCache memoizes history pages keyed by (iban, page, size). A miss is
// (nil, nil); errors are reserved for backend failures so callers can fall
// through to the ledger.
type PageCache interface {
	Get(ctx context.Context, iban string, page, size int) (*account.HistoryPage, error)
	Set(ctx context.Context, iban string, page, size int, val *account.HistoryPage, ttl time.Duration) error

	// InvalidateAccount drops every cached page for the account. The
	// transaction processor calls it after each committed transaction so
	// readers never observe a page older than the latest commit.
	InvalidateAccount(ctx context.Context, iban string) error
}
