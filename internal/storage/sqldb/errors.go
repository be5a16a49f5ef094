package sqldb

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
)

func classifyDriverError(err error) violation {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return uniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return foreignKeyViolation
		case sqlite3.ErrConstraintCheck:
			return checkViolation
		}

		return noViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return uniqueViolation
		case pqForeignKeyViolation:
			return foreignKeyViolation
		case pqCheckViolation:
			return checkViolation
		}
	}

	return noViolation
}

// wrap turns a driver error into the model taxonomy. Constraint violations
// are the caller's fault; everything else is the store's.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(model.ErrNotFound, op)
	}

	switch classifyDriverError(err) {
	case uniqueViolation:
		return errors.Wrapf(model.ErrValidation, "%s: duplicate value", op)
	case foreignKeyViolation:
		return errors.Wrapf(model.ErrInvalidReference, "%s: referenced row missing or still in use", op)
	case checkViolation:
		return errors.Wrapf(model.ErrValidation, "%s: value out of range", op)
	}

	return errors.Wrapf(model.ErrStoreUnavailable, "%s: %v", op, err)
}

func affected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(err, op)
	}

	return n, nil
}
