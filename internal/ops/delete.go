package ops

import (
	"database/sql"
	"strings"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
)

// DeleteEntryInput contains parameters for the DeleteEntry operation.
type DeleteEntryInput struct {
	ID   string
	Date string
}

// DeleteEntryOutput contains the result of the DeleteEntry operation.
type DeleteEntryOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteEntry soft-deletes an entry by id or date. Deleted entries drop
// out of listings and book resolution but survive in storage.
func DeleteEntry(database *sql.DB, input DeleteEntryInput) (*DeleteEntryOutput, error) {
	id := strings.TrimSpace(input.ID)

	if id == "" {
		date := strings.TrimSpace(input.Date)
		if date == "" {
			return nil, errors.NewInvalidRequest("must specify id or date")
		}
		if err := validateDate("date", date); err != nil {
			return nil, err
		}
		e, err := db.GetEntryByDate(database, date)
		if err != nil {
			return nil, err
		}
		id = e.ID
	}

	if err := db.SoftDeleteEntry(database, id); err != nil {
		return nil, err
	}

	return &DeleteEntryOutput{ID: id, Deleted: true}, nil
}
