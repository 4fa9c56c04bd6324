package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"

	"gearup-backend/internal/repository"

	"github.com/lib/pq"
)

// wrapTransient tags write-contention and connectivity failures with
// repository.ErrTransient so the service layer can retry them. Policy and
// constraint errors pass through untouched.
func wrapTransient(err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return fmt.Errorf("%w: %v", repository.ErrTransient, err)
	}
	return err
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"57P03": // cannot_connect_now
			return true
		}
		// Class 08: connection exceptions.
		return pqErr.Code.Class() == "08"
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded)
}
