package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// SaveDraftInput contains parameters for the SaveDraft operation.
type SaveDraftInput struct {
	ID               string // empty creates a new draft
	Title            string
	Intent           string
	Criteria         journal.Criteria
	IncludedEntryIDs []string
	Sections         []journal.Section
}

// SaveDraftOutput contains the result of the SaveDraft operation.
type SaveDraftOutput struct {
	Draft   *journal.Draft `json:"draft"`
	Created bool           `json:"created"`
}

// SaveDraft creates or overwrites a draft. Saving freezes the current
// entry selection; later edits to the library never change a saved
// draft's membership.
func SaveDraft(database *sql.DB, input SaveDraftInput) (*SaveDraftOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if err := validateOptionalDate("criteria.startDate", input.Criteria.StartDate); err != nil {
		return nil, err
	}
	if err := validateOptionalDate("criteria.endDate", input.Criteria.EndDate); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == journal.PreviewDraftID {
		return nil, errors.NewInvalidRequest("the preview draft cannot be saved")
	}

	now := time.Now().Unix()
	created := false
	createdAt := now

	if id == "" {
		newID, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		id = newID
		created = true
	} else {
		existing, err := db.GetDraftByID(database, id)
		switch {
		case err == nil:
			createdAt = existing.CreatedAt
		case errors.Is(err, errors.ErrNotFound):
			created = true
		default:
			return nil, err
		}
	}

	sections := input.Sections
	if created && sections == nil {
		sections = journal.DefaultSections()
	}

	d := &journal.Draft{
		ID:               id,
		Title:            title,
		Intent:           strings.TrimSpace(input.Intent),
		Criteria:         input.Criteria,
		IncludedEntryIDs: input.IncludedEntryIDs,
		Sections:         sections,
		CreatedAt:        createdAt,
		UpdatedAt:        now,
	}
	if err := db.UpsertDraft(database, d); err != nil {
		return nil, err
	}

	return &SaveDraftOutput{Draft: d, Created: created}, nil
}

// GetDraftInput contains parameters for the GetDraft operation.
type GetDraftInput struct {
	ID string
}

// GetDraftOutput contains the result of the GetDraft operation.
type GetDraftOutput struct {
	Draft *journal.Draft `json:"draft"`
}

// GetDraft retrieves a draft by id.
func GetDraft(database *sql.DB, input GetDraftInput) (*GetDraftOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	d, err := db.GetDraftByID(database, id)
	if err != nil {
		return nil, err
	}
	return &GetDraftOutput{Draft: d}, nil
}

// ListDraftsOutput contains the result of the ListDrafts operation.
type ListDraftsOutput struct {
	Drafts []journal.Draft `json:"drafts"`
	Count  int             `json:"count"`
}

// ListDrafts returns all drafts, most recently updated first.
func ListDrafts(database *sql.DB) (*ListDraftsOutput, error) {
	drafts, err := db.ListDrafts(database)
	if err != nil {
		return nil, err
	}
	return &ListDraftsOutput{Drafts: drafts, Count: len(drafts)}, nil
}

// DeleteDraftInput contains parameters for the DeleteDraft operation.
type DeleteDraftInput struct {
	ID string
}

// DeleteDraftOutput contains the result of the DeleteDraft operation.
type DeleteDraftOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteDraft permanently removes a draft. Entries are untouched.
func DeleteDraft(database *sql.DB, input DeleteDraftInput) (*DeleteDraftOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.DeleteDraft(database, id); err != nil {
		return nil, err
	}
	return &DeleteDraftOutput{ID: id, Deleted: true}, nil
}
