package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Stable codes returned to clients as the "message" of a failed operation.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInsufficientQuantity = "NOT_ENOUGH_QUANTITY_TO_SELL"
	CodeNoPositionToSell     = "NO_QUANTITY_AVAILABLE_TO_SELL"
	CodeInvalidPortfolioID   = "INVALID_PORTFOLIO_ID"
	CodeNothingToDelete      = "NOT_ENOUGH_QUANTITY_TO_DELETE"
	CodeNothingToAmend       = "NO_TRADE_TO_UPDATE"
	CodeInvalidState         = "TRANSACTION_CANNOT_BE_UNDONE"
	CodeTransactionFailed    = "TRANSACTION_FAILED"
	CodeInvalidSecurityID    = "INVALID_SECURITY_ID"
	CodeSecurityExists       = "DATA_ALREADY_PRESENT_FOR"
	CodeUserExists           = "USER_ALREADY_EXISTS"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeInvalidCredentials   = "INCORRECT_USER_NAME_OR_PASSWORD"
	CodeUnauthorised         = "UNAUTHORISED"
	CodeTooManyAttempts      = "TOO_MANY_LOGIN_ATTEMPTS"
	CodeInternal             = "INTERNAL_SERVER_ERROR"

	CodeTransactionSuccessful = "TRANSACTION_SUCCESSFUL"
	CodeTransactionUpdated    = "TRANSACTION_UPDATED_SUCCESSFULLY"
	CodeTransactionDeleted    = "TRANSACTION_DELETED_SUCCESSFULLY"
	CodeDataAdded             = "DATA_ADDED_SUCCESSFULLY"
	CodeDataUpdated           = "DATA_UPDATED_SUCCESSFULLY"
	CodePricesRefreshed       = "PRICES_REFRESHED"
)

var (
	ErrValidation           = errors.New("invalid input")
	ErrInsufficientQuantity = errors.New("not enough quantity to sell")
	ErrNoPositionToSell     = errors.New("no quantity available to sell")
	ErrInvalidPortfolioID   = errors.New("invalid portfolio id")
	ErrNothingToDelete      = errors.New("not enough quantity to delete")
	ErrNothingToAmend       = errors.New("position has no trade to update")
	ErrInvalidState         = errors.New("transaction cannot be undone, check quantity")
	ErrTransactionFailed    = errors.New("transaction failed")
	ErrSecurityNotFound     = errors.New("security not found")
	ErrSecurityExists       = errors.New("security already present")
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("incorrect user name or password")
	ErrUnauthorised         = errors.New("unauthorised")
	ErrTooManyAttempts      = errors.New("too many login attempts")
)

type errorMapping struct {
	err    error
	code   string
	status int
}

// Ordered: ErrInvalidState and ErrTransactionFailed may both be in a chain, the
// more specific one wins.
var errorMappings = []errorMapping{
	{ErrValidation, CodeValidation, http.StatusBadRequest},
	{ErrInsufficientQuantity, CodeInsufficientQuantity, http.StatusUnprocessableEntity},
	{ErrNoPositionToSell, CodeNoPositionToSell, http.StatusUnprocessableEntity},
	{ErrInvalidPortfolioID, CodeInvalidPortfolioID, http.StatusUnprocessableEntity},
	{ErrNothingToDelete, CodeNothingToDelete, http.StatusUnprocessableEntity},
	{ErrNothingToAmend, CodeNothingToAmend, http.StatusUnprocessableEntity},
	{ErrInvalidState, CodeInvalidState, http.StatusUnprocessableEntity},
	{ErrSecurityNotFound, CodeInvalidSecurityID, http.StatusUnprocessableEntity},
	{ErrSecurityExists, CodeSecurityExists, http.StatusUnprocessableEntity},
	{ErrUserExists, CodeUserExists, http.StatusUnprocessableEntity},
	{ErrUserNotFound, CodeUserNotFound, http.StatusUnauthorized},
	{ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
	{ErrUnauthorised, CodeUnauthorised, http.StatusUnauthorized},
	{ErrTooManyAttempts, CodeTooManyAttempts, http.StatusTooManyRequests},
	{ErrTransactionFailed, CodeTransactionFailed, http.StatusInternalServerError},
}

// ErrorCode maps an error chain to its stable client code.
func ErrorCode(err error) string {
	code, _ := ErrorCodeAndStatus(err)
	return code
}

// ErrorCodeAndStatus maps an error chain to its stable client code and HTTP status.
func ErrorCodeAndStatus(err error) (string, int) {
	if err == nil {
		return "", http.StatusOK
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.code, m.status
		}
	}
	return CodeInternal, http.StatusInternalServerError
}

// DuplicateTickersError lists the tickers that made a catalog insert fail.
type DuplicateTickersError struct {
	Tickers []string
}

func (e *DuplicateTickersError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSecurityExists, strings.Join(e.Tickers, ", "))
}

func (e *DuplicateTickersError) Unwrap() error {
	return ErrSecurityExists
}

// ErrorMessage is the client-facing message for err: its code, followed by
// the offending tickers for a duplicate catalog insert.
func ErrorMessage(err error) string {
	var dup *DuplicateTickersError
	if errors.As(err, &dup) {
		return fmt.Sprintf("%s: [%s]", CodeSecurityExists, strings.Join(dup.Tickers, ", "))
	}
	return ErrorCode(err)
}
