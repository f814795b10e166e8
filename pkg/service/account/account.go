// Package account provides the account-opening and balance-inquiry services.
// These are CRUD plumbing around the transaction engine; account numbers come
// from the iban collaborator.
package account

import (
	"context"
	"log/slog"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/iban"
	"github.com/cobank/ledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// CreateAccountInput carries the already-validated fields for a new account.
type CreateAccountInput struct {
	FirstName string
	Address   string
	Email     string
}

// Service provides account opening and balance inquiries.
type Service struct {
	uow    repository.UnitOfWork
	iban   *iban.Generator
	logger *slog.Logger
}

// NewService creates a new account Service.
func NewService(uow repository.UnitOfWork, gen *iban.Generator, logger *slog.Logger) *Service {
	return &Service{uow: uow, iban: gen, logger: logger}
}

// CreateAccount opens a new account with a generated IBAN and a zero balance.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (a *account.Account, err error) {
	number, err := s.iban.Generate()
	if err != nil {
		s.logger.Error("iban generation failed", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err = account.New().
			WithIBAN(number).
			WithFirstName(input.FirstName).
			WithAddress(input.Address).
			WithEmail(input.Email).
			Build()
		if err != nil {
			return err
		}
		return uow.AccountRepository().Create(ctx, a)
	})
	if err != nil {
		s.logger.Error("account creation failed", "error", err)
		return nil, err
	}

	s.logger.Info("account created", "iban", a.IBAN)
	return a, nil
}

// GetBalance returns the current balance of the account addressed by iban.
// Returns account.ErrAccountNotFound when the account does not exist.
func (s *Service) GetBalance(ctx context.Context, ibanNumber string) (decimal.Decimal, error) {
	a, err := s.uow.AccountRepository().GetByIBAN(ctx, ibanNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}
