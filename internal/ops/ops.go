package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampPagination applies defaults and caps to list parameters.
func clampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// validateDate checks a required YYYY-MM-DD field.
func validateDate(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewInvalidRequest(field + " is required")
	}
	if _, err := journal.ParseDate(value); err != nil {
		return errors.NewInvalidRequest(field + " must be a YYYY-MM-DD date")
	}
	return nil
}

// validateOptionalDate checks an optional YYYY-MM-DD field.
func validateOptionalDate(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return validateDate(field, value)
}

// cleanOptionalString trims an optional string, mapping whitespace-only
// values to nil.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
