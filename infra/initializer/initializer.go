// Package initializer builds the dependency graph: logger, database, unit of
// work, history cache, and the services wired on top of them.
package initializer

import (
	"fmt"
	"log/slog"

	"github.com/cobank/ledger/infra"
	infracache "github.com/cobank/ledger/infra/cache"
	infrarepo "github.com/cobank/ledger/infra/repository"
	"github.com/cobank/ledger/pkg/cache"
	"github.com/cobank/ledger/pkg/config"
	"github.com/cobank/ledger/pkg/iban"
	accountsvc "github.com/cobank/ledger/pkg/service/account"
	historysvc "github.com/cobank/ledger/pkg/service/history"
	txsvc "github.com/cobank/ledger/pkg/service/transaction"
	"github.com/redis/go-redis/v9"
)

// Deps is the assembled dependency graph handed to the app.
type Deps struct {
	Logger     *slog.Logger
	AccountSvc *accountsvc.Service
	Processor  *txsvc.Processor
	Reader     *historysvc.Reader
}

// Initialize connects to the database, migrates the schema and builds every
// service.
func Initialize(cfg *config.App) (*Deps, error) {
	logger := SetupLogger(&cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := infrarepo.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	uow := infrarepo.NewUoW(db)

	pageCache, err := newPageCache(&cfg.HistoryCache, logger)
	if err != nil {
		return nil, err
	}

	reader := historysvc.NewReader(
		infrarepo.NewHistoryRepository(db),
		pageCache,
		cfg.HistoryCache.TTL,
		logger,
	)

	retry := txsvc.RetryPolicy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		BaseDelay:      cfg.Retry.BaseDelay,
		Multiplier:     cfg.Retry.Multiplier,
		AttemptTimeout: cfg.Retry.AttemptTimeout,
	}
	processor := txsvc.NewProcessor(uow, reader, retry, logger)

	gen := iban.New(
		cfg.Iban.CountryCode,
		cfg.Iban.CheckDigits,
		cfg.Iban.BankCode,
		cfg.Iban.AccountNumberLength,
	)
	accountSvc := accountsvc.NewService(uow, gen, logger)

	return &Deps{
		Logger:     logger,
		AccountSvc: accountSvc,
		Processor:  processor,
		Reader:     reader,
	}, nil
}

func newPageCache(cfg *config.HistoryCache, logger *slog.Logger) (cache.PageCache, error) {
	switch cfg.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return infracache.NewRedisPageCache(opt, cfg.KeyPrefix, logger), nil
	case "memory":
		return infracache.NewMemoryPageCache(), nil
	default:
		return nil, fmt.Errorf("unknown history cache backend %q", cfg.Backend)
	}
}
