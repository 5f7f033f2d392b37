// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors callers branch on with errors.Is.
var (
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrNoWatchlist      = errors.New("no watchlist generated")
)

// DataError represents a failure of an external data source (bhavcopy,
// quote page, holiday calendar). These are expected, transient outcomes:
// callers skip the affected item or reuse the last known value.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// StoreError represents a persistence failure. A StoreError on trade
// creation means the position was never admitted; on update it means the
// in-memory close is ahead of the durable state and must be retried.
type StoreError struct {
	Op      string
	TradeID int64
	Err     error
}

func (e *StoreError) Error() string {
	if e.TradeID != 0 {
		return fmt.Sprintf("store error [%s] trade %d: %v", e.Op, e.TradeID, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op string, tradeID int64, err error) *StoreError {
	return &StoreError{Op: op, TradeID: tradeID, Err: err}
}
