package collector

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled marks a fetch abandoned because its selection was superseded.
var ErrCancelled = errors.New("fetch cancelled")

// NetworkError covers transport failures and non-2xx responses.
type NetworkError struct {
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Failed to fetch data from Alpha Vantage: status %d", e.StatusCode)
	}
	return fmt.Sprintf("Failed to fetch data from Alpha Vantage: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FormatError is a readable response without the expected time series.
type FormatError struct {
	Detail string // provider notice, if any
}

const noDataMessage = "No valid data returned from the API"

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return noDataMessage + ": " + e.Detail
	}
	return noDataMessage
}

// cancelled maps a context error to ErrCancelled; nil otherwise.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}
