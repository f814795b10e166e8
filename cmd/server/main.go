package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/cobank/ledger/app"
	"github.com/cobank/ledger/infra/initializer"
	"github.com/cobank/ledger/pkg/config"
)

// @title Cobank Ledger API
// @version 1.0.0
// @description Bank-account ledger: deposits, withdrawals and transaction history.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	deps.Logger.Info("starting server", "env", cfg.Env, "addr", cfg.Server.Addr)

	fiberApp := app.New(cfg, deps.AccountSvc, deps.Processor, deps.Reader)
	return fiberApp.Listen(cfg.Server.Addr)
}
