package repository

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	gorepo "github.com/goliatone/go-repository-bun"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// NotFound builds a not found error for the given entity
func NotFound(entity string) *goerrors.Error {
	return goerrors.New(entity+" not found", goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(goerrors.HTTPStatusToTextCode(http.StatusNotFound))
}

// MapStoreError converts driver errors into categorised errors
func MapStoreError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	if gorepo.IsRecordNotFound(err) {
		return NotFound(entity)
	}

	if IsUniqueViolation(err) {
		return goerrors.Wrap(err, goerrors.CategoryConflict, entity+" conflicts with an existing record").
			WithCode(http.StatusConflict).
			WithTextCode(goerrors.HTTPStatusToTextCode(http.StatusConflict))
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to access "+strings.ToLower(entity)+" store").
		WithCode(http.StatusInternalServerError)
}

// IsUniqueViolation reports whether err came from a unique constraint
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// IsUniqueViolationOn reports whether err is a unique violation raised by
// the constraint on column
func IsUniqueViolationOn(err error, column string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation &&
			(strings.Contains(pgErr.ConstraintName, "_"+column+"_") ||
				strings.Contains(pgErr.Detail, "("+column+")"))
	}

	root := goerrors.RootCause(err)
	if !IsUniqueViolation(root) {
		return false
	}

	// sqlite reports "UNIQUE constraint failed: table.column"
	return strings.Contains(strings.ToLower(root.Error()), "."+strings.ToLower(column))
}
