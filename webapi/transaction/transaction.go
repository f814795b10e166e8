// Package transaction exposes the transaction processing endpoint.
package transaction

import (
	"errors"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/repository"
	txsvc "github.com/cobank/ledger/pkg/service/transaction"
	"github.com/cobank/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

// failureBalance is the sentinel newBalance signaling that the transaction
// did not commit.
var failureBalance = decimal.NewFromInt(-1)

// Routes registers the transaction endpoint:
//   - POST /transactions : process a deposit or withdrawal
func Routes(app *fiber.App, processor *txsvc.Processor) {
	app.Post("/transactions", ProcessTransaction(processor))
}

// ProcessTransaction returns the handler that runs one deposit or withdrawal
// through the engine. The engine's typed errors never cross this boundary:
// each outcome becomes a TransactionResponse whose description tells the
// caller what happened, with the HTTP status mirroring the error kind.
// @Summary Process a transaction
// @Description Handles deposits and withdrawals for a specified account.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction details"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} TransactionResponse
// @Failure 404 {object} TransactionResponse
// @Failure 422 {object} TransactionResponse
// @Router /transactions [post]
func ProcessTransaction(processor *txsvc.Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransactionRequest](c)
		if input == nil {
			return err // error response already written
		}

		res, err := processor.Process(c.UserContext(), input.IBAN, account.Kind(input.Type), input.Amount)
		if err != nil {
			log.Warnf("transaction failed for %s: %v", input.IBAN, err)
			return c.Status(common.ErrorToStatusCode(err)).JSON(TransactionResponse{
				IBAN:        input.IBAN,
				NewBalance:  failureBalance,
				Description: describeFailure(err),
			})
		}

		return c.JSON(TransactionResponse{
			IBAN:        res.IBAN,
			NewBalance:  res.NewBalance,
			Description: res.Description,
		})
	}
}

// describeFailure keeps the wire descriptions stable even if the underlying
// error messages change.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, account.ErrTransactionAmountMustBePositive):
		return "Invalid transaction amount"
	case errors.Is(err, account.ErrInsufficientFunds):
		return "Insufficient funds for withdrawal"
	case errors.Is(err, account.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, txsvc.ErrRetryExhausted):
		return "Transaction could not be completed after multiple attempts. Please try again later."
	case errors.Is(err, repository.ErrStorageUnavailable):
		return "Database error, please try again later"
	default:
		return "Transaction failed"
	}
}
