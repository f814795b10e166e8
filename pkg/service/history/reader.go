// Package history serves paginated ledger reads, memoized per
// (account, page, size).
package history

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cobank/ledger/pkg/cache"
	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/repository"
)

// ErrInvalidPageRequest is returned for a negative page or non-positive size.
var ErrInvalidPageRequest = errors.New("page must be >= 0 and size must be > 0")

// Reader is the cached read path over the transaction ledger. It is consulted
// independently of the transaction processor, which invalidates this cache
// after every committed transaction.
type Reader struct {
	ledger repository.HistoryRepository
	cache  cache.PageCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewReader creates a Reader. cache may be nil to read straight through.
func NewReader(ledger repository.HistoryRepository, pageCache cache.PageCache, ttl time.Duration, logger *slog.Logger) *Reader {
	return &Reader{
		ledger: ledger,
		cache:  pageCache,
		ttl:    ttl,
		logger: logger,
	}
}

// GetHistory returns one page of the account's ledger, most recent first. An
// account with no history yields an empty page. Cache backend failures are
// logged and fall through to the ledger.
func (r *Reader) GetHistory(ctx context.Context, iban string, page, size int) (*account.HistoryPage, error) {
	if page < 0 || size <= 0 {
		return nil, ErrInvalidPageRequest
	}

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, iban, page, size)
		if err != nil {
			r.logger.Error("history cache read failed", "iban", iban, "error", err)
		} else if cached != nil {
			r.logger.Debug("history cache hit", "iban", iban, "page", page, "size", size)
			return cached, nil
		}
	}

	entries, total, err := r.ledger.ListByIBAN(ctx, iban, page, size)
	if err != nil {
		return nil, err
	}
	result := &account.HistoryPage{Entries: entries, TotalCount: total}

	if r.cache != nil {
		if err := r.cache.Set(ctx, iban, page, size, result, r.ttl); err != nil {
			r.logger.Error("history cache write failed", "iban", iban, "error", err)
		}
	}
	return result, nil
}

// InvalidateAccount drops all cached pages for the account. It satisfies the
// transaction processor's CacheInvalidator.
func (r *Reader) InvalidateAccount(ctx context.Context, iban string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.InvalidateAccount(ctx, iban)
}
