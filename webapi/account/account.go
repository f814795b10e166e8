// Package account exposes account opening, balance inquiry and transaction
// history over HTTP.
package account

import (
	"errors"
	"strconv"

	accountsvc "github.com/cobank/ledger/pkg/service/account"
	historysvc "github.com/cobank/ledger/pkg/service/history"
	"github.com/cobank/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const (
	defaultHistoryPage = 0
	defaultHistorySize = 10
)

// Routes registers the account endpoints:
//   - POST /accounts                     : open a new account
//   - GET  /accounts/:iban/balance       : fetch the current balance
//   - GET  /accounts/:iban/transactions  : paginated transaction history
func Routes(app *fiber.App, svc *accountsvc.Service, reader *historysvc.Reader) {
	app.Post("/accounts", CreateAccount(svc))
	app.Get("/accounts/:iban/balance", GetBalance(svc))
	app.Get("/accounts/:iban/transactions", GetTransactionHistory(reader))
}

// CreateAccount returns the handler that opens a new account with a generated
// IBAN and zero balance.
// @Summary Create a new bank account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account holder details"
// @Success 201 {object} CreateAccountResponse
// @Failure 400 {object} common.ProblemDetails
// @Router /accounts [post]
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}

		a, err := svc.CreateAccount(c.UserContext(), accountsvc.CreateAccountInput{
			FirstName: input.FirstName,
			Address:   input.Address,
			Email:     input.Email,
		})
		if err != nil {
			log.Errorf("failed to create account: %v", err)
			return common.ErrorResponseJSON(c, common.ErrorToStatusCode(err), "Failed to create account", err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(CreateAccountResponse{
			ID:      a.ID.String(),
			IBAN:    a.IBAN,
			Address: a.Address,
		})
	}
}

// GetBalance returns the handler for the balance inquiry.
// @Summary Fetch account balance
// @Tags accounts
// @Produce json
// @Param iban path string true "Account IBAN"
// @Success 200 {object} BalanceResponse
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{iban}/balance [get]
func GetBalance(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		iban := c.Params("iban")
		balance, err := svc.GetBalance(c.UserContext(), iban)
		if err != nil {
			return common.ErrorResponseJSON(c, common.ErrorToStatusCode(err), "Failed to fetch balance", err.Error())
		}
		return c.JSON(BalanceResponse{IBAN: iban, Balance: balance})
	}
}

// GetTransactionHistory returns the handler that serves the cached paginated
// ledger, most recent entry first.
// @Summary Retrieve transaction history
// @Tags accounts
// @Produce json
// @Param iban path string true "Account IBAN"
// @Param page query int false "Page number" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} common.ProblemDetails
// @Router /accounts/{iban}/transactions [get]
func GetTransactionHistory(reader *historysvc.Reader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		iban := c.Params("iban")
		page, err := strconv.Atoi(c.Query("page", strconv.Itoa(defaultHistoryPage)))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid page", err.Error())
		}
		size, err := strconv.Atoi(c.Query("size", strconv.Itoa(defaultHistorySize)))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid size", err.Error())
		}

		pg, err := reader.GetHistory(c.UserContext(), iban, page, size)
		if err != nil {
			if errors.Is(err, historysvc.ErrInvalidPageRequest) {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid page request", err.Error())
			}
			return common.ErrorResponseJSON(c, common.ErrorToStatusCode(err), "Failed to fetch history", err.Error())
		}

		resp := HistoryResponse{
			Entries:    make([]HistoryEntryResponse, 0, len(pg.Entries)),
			TotalCount: pg.TotalCount,
		}
		for _, e := range pg.Entries {
			resp.Entries = append(resp.Entries, HistoryEntryResponse{
				IBAN:             e.IBAN,
				TransactionType:  string(e.Kind),
				Amount:           e.Amount,
				ResultingBalance: e.ResultingBalance,
				Timestamp:        e.Timestamp,
				Description:      e.Description,
			})
		}
		return c.JSON(resp)
	}
}
