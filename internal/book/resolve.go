package book

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/jordanwest/growthbook/internal/journal"
)

// Document is the fully resolved input to rendering: the draft plus the
// concrete entries it includes, in reading order, with the date range the
// cover shows. Building it never touches storage or selection criteria,
// so the same draft and entry set always resolve to the same Document.
type Document struct {
	Draft *journal.Draft

	// Entries is the included entries sorted ascending by calendar date.
	// Ids the draft references but the library no longer holds are
	// silently dropped.
	Entries []journal.Entry

	// StartDate and EndDate are the resolved range in YYYY-MM-DD form.
	StartDate string
	EndDate   string
}

// Resolve builds the document model for a draft against the given entry
// set. Soft-deleted and unknown ids are skipped. The date range comes
// from the actual content when any entries resolved, falling back to the
// draft's criteria dates, then to today.
func Resolve(draft *journal.Draft, entries []journal.Entry) *Document {
	byID := make(map[string]*journal.Entry, len(entries))
	for i := range entries {
		byID[entries[i].ID] = &entries[i]
	}

	resolved := make([]journal.Entry, 0, len(draft.IncludedEntryIDs))
	for _, id := range draft.IncludedEntryIDs {
		e, ok := byID[id]
		if !ok || e.DeletedAt != nil {
			continue
		}
		resolved = append(resolved, *e)
	}

	// Stable sort so curated order breaks date ties
	sort.SliceStable(resolved, func(i, j int) bool {
		return journal.CompareDates(resolved[i].Date, resolved[j].Date) < 0
	})

	start, end := resolveRange(draft, resolved)

	return &Document{
		Draft:     draft,
		Entries:   resolved,
		StartDate: start,
		EndDate:   end,
	}
}

func resolveRange(draft *journal.Draft, sorted []journal.Entry) (string, string) {
	if len(sorted) > 0 {
		return sorted[0].Date, sorted[len(sorted)-1].Date
	}
	start := draft.Criteria.StartDate
	end := draft.Criteria.EndDate
	if start == "" {
		start = journal.Today()
	}
	if end == "" {
		end = journal.Today()
	}
	return start, end
}

// DateRangeLabel is the cover's human-readable range, for example
// "January 1, 2024 — January 5, 2024".
func (d *Document) DateRangeLabel() string {
	return fmt.Sprintf("%s — %s", journal.FormatLong(d.StartDate), journal.FormatLong(d.EndDate))
}

// Fingerprint identifies the resolvable state of a draft and entry set.
// Two equal fingerprints mean Resolve would return an identical Document.
func Fingerprint(draft *journal.Draft, entries []journal.Entry) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%s|%s|", draft.ID, draft.UpdatedAt, draft.Title, draft.Intent)
	for _, id := range draft.IncludedEntryIDs {
		fmt.Fprintf(h, "%s;", id)
	}
	for i := range entries {
		deleted := int64(0)
		if entries[i].DeletedAt != nil {
			deleted = *entries[i].DeletedAt
		}
		fmt.Fprintf(h, "%s,%d,%d;", entries[i].ID, entries[i].UpdatedAt, deleted)
	}
	return h.Sum64()
}

// Resolver memoizes the last resolved document. The preview surface
// re-resolves on every paint; caching by fingerprint makes unchanged
// repaints free without any invalidation hooks.
type Resolver struct {
	lastFingerprint uint64
	lastDoc         *Document
}

// Resolve returns a memoized document when the draft and entries are
// unchanged since the previous call, otherwise resolves fresh.
func (r *Resolver) Resolve(draft *journal.Draft, entries []journal.Entry) *Document {
	fp := Fingerprint(draft, entries)
	if r.lastDoc != nil && fp == r.lastFingerprint {
		return r.lastDoc
	}
	doc := Resolve(draft, entries)
	r.lastFingerprint = fp
	r.lastDoc = doc
	return doc
}
