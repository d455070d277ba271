package journal

// PreviewDraftID is the sentinel id for the live-preview draft. It is
// never persisted; the store rejects it.
const PreviewDraftID = "preview"

// Criteria is the snapshot of the selection rule a draft was built from.
// It is provenance only: rendering never re-evaluates it, except as the
// fallback date range when a draft resolves to zero entries.
type Criteria struct {
	StartDate         string `json:"startDate,omitempty"`
	EndDate           string `json:"endDate,omitempty"`
	IncludeHighlights bool   `json:"includeHighlights"`
}

// Section is a named grouping within a draft. Persisted for forward
// compatibility; the renderer currently flattens all entries into one
// chronological flow regardless of section assignment.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// DefaultSections returns the fixed section catalog new drafts start with.
func DefaultSections() []Section {
	return []Section{
		{ID: "opening", Title: "Start", Order: 0},
		{ID: "breakthroughs", Title: "Breakthroughs", Order: 1},
		{ID: "wins", Title: "Wins", Order: 2},
		{ID: "losses", Title: "Lessons Learned", Order: 3},
		{ID: "chronological", Title: "Daily Reflections", Order: 4},
	}
}

// Draft is a frozen curation of entries intended for export as a book.
// IncludedEntryIDs is the actual content boundary; once saved a draft is
// immutable input to rendering until overwritten by id.
type Draft struct {
	// ID is a ULID, or PreviewDraftID for the unsaved live-preview draft
	ID string `json:"id"`

	// Title is the book title shown on the cover
	Title string `json:"title"`

	// Intent is the free-text "why" rendered as the preface; empty means
	// no preface page
	Intent string `json:"intent,omitempty"`

	// Criteria is the selection rule snapshot (descriptive only)
	Criteria Criteria `json:"criteria"`

	// IncludedEntryIDs is the frozen, user-curated ordered set of entry
	// ids to include
	IncludedEntryIDs []string `json:"includedEntryIds"`

	// Sections is the ordered section catalog (see Section)
	Sections []Section `json:"sections,omitempty"`

	// CreatedAt is the Unix timestamp when the draft was created
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp when the draft was last saved
	UpdatedAt int64 `json:"updatedAt"`
}
