package service

import (
	"context"
	"errors"
	"fmt"

	"welfare-wallet-engine/pkg/apperror"
)

// lockError classifies a row-lock acquisition failure. A context deadline
// hit while waiting on a FOR UPDATE row means a competing operation held
// the lock past the caller's budget; everything else is a plain database
// failure.
func lockError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrLockTimeout(fmt.Errorf("%s: %w", op, err))
	}
	return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
}
