package ops

import (
	"database/sql"
	"strings"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// GetEntryInput contains parameters for the GetEntry operation.
// Exactly one of ID or Date must be set.
type GetEntryInput struct {
	ID   string
	Date string
}

// GetEntryOutput contains the result of the GetEntry operation.
type GetEntryOutput struct {
	Entry *journal.Entry `json:"entry"`
}

// GetEntry retrieves an entry by id or by calendar date.
func GetEntry(database *sql.DB, input GetEntryInput) (*GetEntryOutput, error) {
	id := strings.TrimSpace(input.ID)
	date := strings.TrimSpace(input.Date)

	switch {
	case id != "" && date != "":
		return nil, errors.NewInvalidRequest("specify either id or date, not both")
	case id != "":
		e, err := db.GetEntryByID(database, id, false)
		if err != nil {
			return nil, err
		}
		return &GetEntryOutput{Entry: e}, nil
	case date != "":
		if err := validateDate("date", date); err != nil {
			return nil, err
		}
		e, err := db.GetEntryByDate(database, date)
		if err != nil {
			return nil, err
		}
		return &GetEntryOutput{Entry: e}, nil
	default:
		return nil, errors.NewInvalidRequest("must specify id or date")
	}
}
