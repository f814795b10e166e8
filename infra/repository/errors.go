package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/cobank/ledger/pkg/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes that mean the exclusive lock could not be obtained.
const (
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// mapStorageError translates driver-level failures into the error taxonomy of
// pkg/repository. Lock-class codes and an expired attempt deadline collapse
// into ErrLockContention, which is the only class the processor retries.
func mapStorageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return account.ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s", repository.ErrLockContention, pgErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: attempt timed out waiting for row lock", repository.ErrLockContention)
	}

	return fmt.Errorf("%w: %v", repository.ErrStorageUnavailable, err)
}
