package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "nil", err: nil, wantCode: "", wantStatus: http.StatusOK},
		{name: "validation", err: fmt.Errorf("price: %w", ErrValidation), wantCode: CodeValidation, wantStatus: http.StatusBadRequest},
		{name: "insufficient", err: ErrInsufficientQuantity, wantCode: CodeInsufficientQuantity, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid state wins over transaction failed",
			err:        fmt.Errorf("%w: %w", ErrTransactionFailed, ErrInvalidState),
			wantCode:   CodeInvalidState,
			wantStatus: http.StatusUnprocessableEntity},
		{name: "store failure", err: fmt.Errorf("%w: %w", ErrTransactionFailed, errors.New("conn reset")), wantCode: CodeTransactionFailed, wantStatus: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := ErrorCodeAndStatus(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	dup := fmt.Errorf("create securities: %w", &DuplicateTickersError{Tickers: []string{"INFY", "TCS"}})

	assert.Equal(t, "DATA_ALREADY_PRESENT_FOR: [INFY, TCS]", ErrorMessage(dup))
	assert.True(t, errors.Is(dup, ErrSecurityExists))
	assert.Equal(t, CodeSecurityExists, ErrorCode(dup))
	assert.Equal(t, CodeNoPositionToSell, ErrorMessage(ErrNoPositionToSell))
}
