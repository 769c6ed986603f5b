// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx errors into [apperr.AppError] values.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign-key violation (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// Wrap inspects a database error and converts it into an application error.
//
// # Classification
//
//  1. Context cancellation and deadlines pass through untouched so callers can tell
//     an aborted request apart from a storage fault.
//  2. Unique violations become CONFLICT, naming the constraint in the cause.
//  3. Everything else becomes INTERNAL_ERROR.
//
// pgx.ErrNoRows is not handled here. Lookups treat it as absence and return nil.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict("The resource already exists",
			fmt.Errorf("%s: constraint %s: %w", action, pgErr.ConstraintName, err))
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
