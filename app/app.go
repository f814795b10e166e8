// Package app assembles the Fiber application from its services.
package app

import (
	"github.com/cobank/ledger/pkg/config"
	accountsvc "github.com/cobank/ledger/pkg/service/account"
	historysvc "github.com/cobank/ledger/pkg/service/history"
	txsvc "github.com/cobank/ledger/pkg/service/transaction"
	accountapi "github.com/cobank/ledger/webapi/account"
	transactionapi "github.com/cobank/ledger/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the Fiber app: panic recovery, rate limiting, basic auth, then
// the account and transaction routes.
func New(
	cfg *config.App,
	accountSvc *accountsvc.Service,
	processor *txsvc.Processor,
	reader *historysvc.Reader,
) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "cobank ledger"})

	app.Use(recover.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
	}))
	if auth := cfg.Server.BasicAuth; auth != nil {
		app.Use(basicauth.New(basicauth.Config{
			Users: map[string]string{auth.Username: auth.Password},
		}))
	}

	accountapi.Routes(app, accountSvc, reader)
	transactionapi.Routes(app, processor)

	return app
}
