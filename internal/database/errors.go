// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/roomscope/internal/validation"
)

// Error kinds. Every error returned by an exported query wraps exactly one.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
	ErrStorage    = errors.New("storage failure")
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindStorage Kind = iota
	KindNotFound
	KindValidation
)

// String returns the metrics label for k.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "storage"
	}
}

// KindOf classifies err. Request validation errors count as validation and
// anything unclassified counts as storage.
func KindOf(err error) Kind {
	var ve *validation.RequestValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation), errors.As(err, &ve):
		return KindValidation
	default:
		return KindStorage
	}
}

// NotFound returns an ErrNotFound error naming the missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q %w", entity, id, ErrNotFound)
}

// Validation returns an ErrValidation error with a caller-facing message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storage wraps a driver error with the failing operation.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// ValidationMessage strips the kind prefix from a validation error so only
// the caller-facing message remains.
func ValidationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(ErrValidation.Error())+2:]
	}
	return msg
}

// IsDuplicate reports whether err is a unique-key conflict from either
// backend: SQLSTATE 23505 on Postgres or a constraint error on DuckDB.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "Constraint Error") ||
		strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "duplicate key")
}

// isTimeout reports whether err came from the per-query deadline.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
