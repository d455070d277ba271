package ops

import (
	"database/sql"
	"strings"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// ListEntriesInput contains parameters for the ListEntries operation.
type ListEntriesInput struct {
	Limit          int
	Offset         int
	Since          string // optional YYYY-MM-DD lower bound
	Mode           string // optional reflection mode filter
	HighlightsOnly bool
}

// ListEntriesOutput contains the result of the ListEntries operation.
type ListEntriesOutput struct {
	Entries    []journal.Entry `json:"entries"`
	Pagination Pagination      `json:"pagination"`
}

// ListEntries returns entries newest first with pagination metadata.
func ListEntries(database *sql.DB, input ListEntriesInput) (*ListEntriesOutput, error) {
	limit, offset := clampPagination(input.Limit, input.Offset)

	if err := validateOptionalDate("since", input.Since); err != nil {
		return nil, err
	}

	mode := strings.TrimSpace(input.Mode)
	switch journal.ReflectionMode(mode) {
	case journal.ModeUnset, journal.ModeFree, journal.ModeGrowth:
	default:
		return nil, errors.NewInvalidRequest("mode must be one of: free, growth")
	}

	entries, total, err := db.ListEntries(database, limit, offset, strings.TrimSpace(input.Since), mode, input.HighlightsOnly, false)
	if err != nil {
		return nil, err
	}

	return &ListEntriesOutput{
		Entries: entries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(entries) < total,
			Total:   total,
		},
	}, nil
}
