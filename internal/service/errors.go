package service

import (
	"context"
	"errors"
	"fmt"

	"portfolio-tracker/internal/dto"
	"portfolio-tracker/pkg/logger"

	"go.uber.org/zap"
)

// storeFailure marks a persistence error as a failed transaction.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", dto.ErrTransactionFailed, op, err)
}

// logFailure logs business rejections at warn and everything else at error.
func logFailure(ctx context.Context, log *logger.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, logger.ErrorField(err))
	if errors.Is(err, dto.ErrTransactionFailed) || dto.ErrorCode(err) == dto.CodeInternal {
		log.ErrorContext(ctx, msg, fields...)
		return
	}
	log.WarnContext(ctx, msg, fields...)
}

// asTransactionError keeps classified errors as they are and marks begin or
// commit failures from the unit of work as failed transactions.
func asTransactionError(err error) error {
	if dto.ErrorCode(err) == dto.CodeInternal {
		return fmt.Errorf("%w: %w", dto.ErrTransactionFailed, err)
	}
	return err
}
