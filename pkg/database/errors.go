package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for the constraint classes declared in the schema.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeStringTooLong       = "22001"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// IsUniqueViolation reports whether err is a duplicate-key rejection.
func IsUniqueViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err is an FK rejection, including
// a blocked delete under RESTRICT semantics.
func IsForeignKeyViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == codeForeignKeyViolation
}

// IsCheckViolation reports whether err is a CHECK constraint rejection.
func IsCheckViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == codeCheckViolation
}

// IsConstraintViolation reports whether err is any declared-constraint
// rejection: unique, foreign key, check, not-null, or length.
func IsConstraintViolation(err error) bool {
	pgErr := pgError(err)
	if pgErr == nil {
		return false
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation, codeCheckViolation,
		codeNotNullViolation, codeStringTooLong:
		return true
	}
	return false
}

// ConstraintName returns the violated constraint's identity when the store
// provides it, empty string otherwise.
func ConstraintName(err error) string {
	pgErr := pgError(err)
	if pgErr == nil {
		return ""
	}
	return pgErr.ConstraintName
}
