package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// WriteEntryInput contains parameters for the WriteEntry operation.
type WriteEntryInput struct {
	Date    string // default: today
	Prompt  string // default: free write
	Content string

	// Mode selects the reflection variant: "free", "growth", or empty for
	// no structured reflection.
	Mode string

	// Free/purpose answers (used when Mode == "free")
	Excited  string
	Drained  string
	Grateful string

	// Growth answers (used when Mode == "growth")
	Learned         string
	Alignment       string
	ImproveTomorrow string

	// Optional highlight tag
	HighlightType string
	HighlightNote string
}

// WriteEntryOutput contains the result of the WriteEntry operation.
type WriteEntryOutput struct {
	Entry   *journal.Entry `json:"entry"`
	Created bool           `json:"created"`
}

// WriteEntry saves the journal entry for a date. Each date holds one
// entry: writing to a date that already has one updates it in place,
// preserving its identity, otherwise a new entry is created.
func WriteEntry(database *sql.DB, input WriteEntryInput) (*WriteEntryOutput, error) {
	if strings.TrimSpace(input.Date) == "" {
		input.Date = journal.Today()
	}
	if err := validateDate("date", input.Date); err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		prompt = journal.FreeWritePrompt
	}

	reflection, err := buildReflection(input)
	if err != nil {
		return nil, err
	}

	highlight, err := buildHighlight(input.HighlightType, input.HighlightNote)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()

	// Upsert by date: an existing active entry for the date is updated in
	// place so its id and creation time survive edits
	existing, err := db.GetEntryByDate(database, input.Date)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Prompt = prompt
		existing.Content = input.Content
		existing.Reflection = reflection
		existing.Highlight = highlight
		if err := db.UpdateEntry(database, existing); err != nil {
			return nil, err
		}
		return &WriteEntryOutput{Entry: existing, Created: false}, nil
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	e := &journal.Entry{
		ID:         id,
		Date:       input.Date,
		Prompt:     prompt,
		Content:    input.Content,
		Reflection: reflection,
		Highlight:  highlight,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.InsertEntry(database, e); err != nil {
		return nil, err
	}

	return &WriteEntryOutput{Entry: e, Created: true}, nil
}

// buildReflection assembles the reflection variant for the requested
// mode. Answers belonging to the other mode are rejected rather than
// silently dropped.
func buildReflection(input WriteEntryInput) (journal.Reflection, error) {
	hasFree := input.Excited != "" || input.Drained != "" || input.Grateful != ""
	hasGrowth := input.Learned != "" || input.Alignment != "" || input.ImproveTomorrow != ""

	switch journal.ReflectionMode(input.Mode) {
	case journal.ModeFree:
		if hasGrowth {
			return nil, errors.NewInvalidRequest("growth answers are not valid in free mode")
		}
		return &journal.FreeReflection{
			Excited:  input.Excited,
			Drained:  input.Drained,
			Grateful: input.Grateful,
		}, nil
	case journal.ModeGrowth:
		if hasFree {
			return nil, errors.NewInvalidRequest("purpose answers are not valid in growth mode")
		}
		return &journal.GrowthReflection{
			Learned:         input.Learned,
			Alignment:       input.Alignment,
			ImproveTomorrow: input.ImproveTomorrow,
		}, nil
	case journal.ModeUnset:
		if hasFree && hasGrowth {
			return nil, errors.NewInvalidRequest("cannot mix purpose and growth answers")
		}
		// Infer the mode from whichever answers were given
		if hasGrowth {
			return &journal.GrowthReflection{
				Learned:         input.Learned,
				Alignment:       input.Alignment,
				ImproveTomorrow: input.ImproveTomorrow,
			}, nil
		}
		if hasFree {
			return &journal.FreeReflection{
				Excited:  input.Excited,
				Drained:  input.Drained,
				Grateful: input.Grateful,
			}, nil
		}
		return nil, nil
	default:
		return nil, errors.NewInvalidRequest("mode must be one of: free, growth")
	}
}

func buildHighlight(highlightType, note string) (*journal.Highlight, error) {
	if highlightType == "" {
		if strings.TrimSpace(note) != "" {
			return nil, errors.NewInvalidRequest("highlight_note requires highlight_type")
		}
		return nil, nil
	}
	switch journal.HighlightType(highlightType) {
	case journal.HighlightBreakthrough, journal.HighlightWin, journal.HighlightLoss:
		return &journal.Highlight{Type: journal.HighlightType(highlightType), Note: note}, nil
	default:
		return nil, errors.NewInvalidRequest("highlight_type must be one of: breakthrough, win, loss")
	}
}
