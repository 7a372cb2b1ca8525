package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxInsertAttempts bounds retries after a unique-constraint race
const maxInsertAttempts = 3

// forUpdate takes a row lock on databases that support it; sqlite ignores the clause
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// retryOnDuplicate reruns fn when it loses a unique-constraint race.
// fn must run its own transaction so a retry starts from a clean state.
func retryOnDuplicate(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		if err = fn(); !isDuplicateKey(err) {
			return err
		}
	}
	return err
}

// generateNumber builds a human readable identifier such as ORD-20240601-1A2B3C4D
func generateNumber(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), suffix)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Pagination defaults shared by list operations
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage applies the list defaults: page 1, size 20, at most 100 per page
func NormalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
