package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/deckurl/kvstore"
)

// SQLite reports these conditions only through the message text.
var (
	connectionErrors = []string{"driver: bad connection", "sql: database is closed", "unable to open database file"}
	busyErrors       = []string{"database is locked", "sqlite_busy", "database table is locked"}
	fullErrors       = []string{"database or disk is full", "sqlite_full"}
)

// IsConnectionError reports a lost or unopenable database.
func IsConnectionError(err error) bool { return matches(err, connectionErrors) }

// IsBusyError reports a statement refused because another connection holds
// the lock.
func IsBusyError(err error) bool { return matches(err, busyErrors) }

// IsFullError reports a write refused for lack of space.
func IsFullError(err error) bool { return matches(err, fullErrors) }

// IsNotFoundError reports GORM's record-not-found.
func IsNotFoundError(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func matches(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// translate turns a full database into kvstore.ErrQuotaExceeded. Other
// errors pass through unchanged.
func translate(err error) error {
	if IsFullError(err) {
		return fmt.Errorf("%w: %v", kvstore.ErrQuotaExceeded, err)
	}
	return err
}
