package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/damoang/angple-moderation/internal/common"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL server error numbers that signal a lost race rather than a broken store
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
	mysqlErrDuplicateEntry  = 1062
)

var (
	// ErrVersionConflict indicates that a concurrent modification was detected
	ErrVersionConflict = fmt.Errorf("%w: 다른 관리자가 먼저 처리했습니다. 새로고침 후 다시 시도해주세요", common.ErrConflictRetryable)
)

// translateError maps driver and gorm errors onto the moderation error taxonomy.
// Errors that already carry a taxonomy kind pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrConflictRetryable),
		errors.Is(err, common.ErrStorageFailure),
		errors.Is(err, common.ErrInvalidInput):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", common.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicateKey(err), isLockConflict(err):
		return fmt.Errorf("%w: %w", common.ErrConflictRetryable, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", common.ErrStorageFailure, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrStorageFailure, err)
	}
}

// TranslateError exposes translateError to callers that run raw gorm calls (e.g. Transaction)
func TranslateError(err error) error {
	return translateError(err)
}

func isDuplicateKey(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDuplicateEntry
	}
	// sqlite driver without error translation
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isLockConflict(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDeadlock || myErr.Number == mysqlErrLockWaitTimeout
	}
	return strings.Contains(err.Error(), "database is locked")
}

// supportsRowLocks reports whether SELECT ... FOR UPDATE is available on db
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
