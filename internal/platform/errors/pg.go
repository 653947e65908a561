package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE classes we care about
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
	sqlstateNotNullViolation    = "23502"
	sqlstateCheckViolation      = "23514"
	sqlstateSerializationFail   = "40001"
	sqlstateDeadlockDetected    = "40P01"
	sqlstateLockNotAvailable    = "55P03"
	sqlstateQueryCanceled       = "57014"
	sqlstateAdminShutdown       = "57P01"
	sqlstateCrashShutdown       = "57P02"
	sqlstateCannotConnectNow    = "57P03"
	sqlstateTooManyConnections  = "53300"
)

// FromPostgres classifies a pgx error into our coded error space.
// Unrecognized errors come back as ErrorCodeDB with the op as context
func FromPostgres(err error, op string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, pgx.ErrNoRows) {
		return Wrapf(err, ErrorCodeNotFound, "%s: no rows", op)
	}

	var pge *pgconn.PgError
	if stderrs.As(err, &pge) {
		switch pge.Code {
		case sqlstateUniqueViolation:
			return Wrapf(err, ErrorCodeDuplicateKey, "%s: duplicate key (%s)", op, pge.ConstraintName)
		case sqlstateForeignKeyViolation:
			return Wrapf(err, ErrorCodeConflict, "%s: foreign key violation (%s)", op, pge.ConstraintName)
		case sqlstateNotNullViolation, sqlstateCheckViolation:
			return Wrapf(err, ErrorCodeInvalidArgument, "%s: constraint violation (%s)", op, pge.ConstraintName)
		case sqlstateSerializationFail, sqlstateDeadlockDetected, sqlstateLockNotAvailable,
			sqlstateQueryCanceled, sqlstateAdminShutdown, sqlstateCrashShutdown,
			sqlstateCannotConnectNow, sqlstateTooManyConnections:
			return Wrapf(err, ErrorCodeUnavailable, "%s: transient pg failure (%s)", op, pge.Code)
		}
		return Wrapf(err, ErrorCodeDB, "%s: pg error (%s)", op, pge.Code)
	}
	return Wrapf(err, ErrorCodeDB, "%s", op)
}

// IsDuplicateKey reports whether err is a unique violation, classified or raw
func IsDuplicateKey(err error) bool {
	if IsCode(err, ErrorCodeDuplicateKey) {
		return true
	}
	var pge *pgconn.PgError
	return stderrs.As(err, &pge) && pge.Code == sqlstateUniqueViolation
}

// IsNotFound reports whether err is a classified not-found or bare pgx.ErrNoRows
func IsNotFound(err error) bool {
	return IsCode(err, ErrorCodeNotFound) || stderrs.Is(err, pgx.ErrNoRows)
}

// IsRetryable reports whether a retry of the same operation may succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsCode(err, ErrorCodeUnavailable) {
		return true
	}
	var pge *pgconn.PgError
	if stderrs.As(err, &pge) {
		switch pge.Code {
		case sqlstateSerializationFail, sqlstateDeadlockDetected, sqlstateLockNotAvailable,
			sqlstateQueryCanceled, sqlstateAdminShutdown, sqlstateCrashShutdown,
			sqlstateCannotConnectNow, sqlstateTooManyConnections:
			return true
		}
	}
	return false
}
