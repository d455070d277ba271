package journal

// FreeWritePrompt is the sentinel prompt meaning the entry answers no
// question. Renderers skip the prompt line for these entries.
const FreeWritePrompt = "Free Write"

// HighlightType tags an entry as a notable moment.
type HighlightType string

const (
	HighlightBreakthrough HighlightType = "breakthrough"
	HighlightWin          HighlightType = "win"
	HighlightLoss         HighlightType = "loss"
)

// Highlight marks an entry as a breakthrough, win, or loss, optionally
// with a short note on why it mattered.
type Highlight struct {
	Type HighlightType `json:"type"`
	Note string        `json:"note,omitempty"`
}

// Entry represents one dated reflective journal record.
type Entry struct {
	// ID is a ULID that uniquely identifies this entry
	ID string

	// Date is the calendar date in YYYY-MM-DD form. Normal flows keep at
	// most one active entry per date, but nothing downstream may assume it.
	Date string

	// Prompt is the question this entry answers, or FreeWritePrompt
	Prompt string

	// Content is the free-text body (markdown), may be empty
	Content string

	// Reflection holds the structured reflection answers for this entry's
	// mode, or nil when the entry has none
	Reflection Reflection

	// Highlight is an optional breakthrough/win/loss tag (nullable)
	Highlight *Highlight

	// CreatedAt is the Unix timestamp when the entry was first saved
	CreatedAt int64

	// UpdatedAt is the last-write Unix timestamp, the authority for
	// conflict resolution during import
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Mode returns the entry's reflection mode. Entries without a reflection
// report ModeUnset, which renders with free/purpose semantics.
func (e *Entry) Mode() ReflectionMode {
	if e.Reflection == nil {
		return ModeUnset
	}
	return e.Reflection.Mode()
}
