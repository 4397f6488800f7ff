package database

import (
	"errors"
	"fmt"

	"travelhub/internal/core/integrity"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// MySQL error numbers for rows the schema rejects outright.
const (
	mysqlBadNull       = 1048
	mysqlNoDefault     = 1364
	mysqlCheckViolated = 3819
	mysqlDataTooLong   = 1406
)

// Translate maps driver errors (already normalised by gorm's TranslateError)
// onto the integrity sentinels so callers never depend on a dialect.
func Translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, integrity.ErrValidation):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, integrity.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, integrity.ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, integrity.ErrReference)
	case rejectedRow(err):
		return fmt.Errorf("%s: %w: %v", op, integrity.ErrValidation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rejectedRow reports NOT NULL and CHECK failures, which gorm passes through
// untranslated.
func rejectedRow(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
			return true
		}
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlBadNull, mysqlNoDefault, mysqlCheckViolated, mysqlDataTooLong:
			return true
		}
	}
	return false
}

// mustAffect turns a no-op write into ErrNotFound.
func mustAffect(res *gorm.DB, op string) error {
	if res.Error != nil {
		return Translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, integrity.ErrNotFound)
	}
	return nil
}
