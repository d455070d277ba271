package ops

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// CurateInput contains parameters for the Curate operation.
type CurateInput struct {
	Title  string // default: "My Journal"
	Intent string

	// Days is the selection window: 30, 90, or 0 for the full history.
	Days int

	// Mode filters by reflection type: "free", "growth", or empty for all.
	// Legacy entries without a stored mode count as free.
	Mode string

	// IncludeHighlights pulls highlighted entries into the selection even
	// when they fall outside the window or mode filter.
	IncludeHighlights bool
}

// CurateOutput contains the result of the Curate operation.
type CurateOutput struct {
	Draft   *journal.Draft `json:"draft"`
	Matched int            `json:"matched"`
}

// Curate builds and saves a draft from selection criteria. The matching
// entry ids are frozen into the draft; the criteria are kept only as a
// record of how the selection was made.
func Curate(database *sql.DB, input CurateInput) (*CurateOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "My Journal"
	}
	if input.Days < 0 {
		return nil, errors.NewInvalidRequest("days must be zero or positive")
	}

	mode := journal.ReflectionMode(strings.TrimSpace(input.Mode))
	switch mode {
	case journal.ModeUnset, journal.ModeFree, journal.ModeGrowth:
	default:
		return nil, errors.NewInvalidRequest("mode must be one of: free, growth")
	}

	startDate := ""
	if input.Days > 0 {
		startDate = time.Now().AddDate(0, 0, -input.Days).Format(journal.DateLayout)
	}

	entries, err := db.AllEntries(database, false)
	if err != nil {
		return nil, err
	}

	var selected []journal.Entry
	for _, e := range entries {
		if matchesCriteria(&e, startDate, mode) {
			selected = append(selected, e)
		} else if input.IncludeHighlights && e.Highlight != nil {
			selected = append(selected, e)
		}
	}

	// Freeze ids in chronological order
	sort.SliceStable(selected, func(i, j int) bool {
		return journal.CompareDates(selected[i].Date, selected[j].Date) < 0
	})
	ids := make([]string, len(selected))
	for i := range selected {
		ids[i] = selected[i].ID
	}

	saved, err := SaveDraft(database, SaveDraftInput{
		Title:  title,
		Intent: input.Intent,
		Criteria: journal.Criteria{
			StartDate:         startDate,
			IncludeHighlights: input.IncludeHighlights,
		},
		IncludedEntryIDs: ids,
		Sections:         journal.DefaultSections(),
	})
	if err != nil {
		return nil, err
	}

	return &CurateOutput{Draft: saved.Draft, Matched: len(ids)}, nil
}

func matchesCriteria(e *journal.Entry, startDate string, mode journal.ReflectionMode) bool {
	if startDate != "" && journal.CompareDates(e.Date, startDate) < 0 {
		return false
	}
	switch mode {
	case journal.ModeFree:
		return e.Mode() == journal.ModeFree || e.Mode() == journal.ModeUnset
	case journal.ModeGrowth:
		return e.Mode() == journal.ModeGrowth
	default:
		return true
	}
}
