package book

import (
	"testing"

	"github.com/jordanwest/growthbook/internal/journal"
)

func entryOn(id, date string) journal.Entry {
	return journal.Entry{
		ID:      id,
		Date:    date,
		Prompt:  journal.FreeWritePrompt,
		Content: "content for " + id,
	}
}

func draftWith(ids ...string) *journal.Draft {
	return &journal.Draft{
		ID:               "draft-1",
		Title:            "My Journal",
		IncludedEntryIDs: ids,
	}
}

func TestResolve_SortsByCalendarDate(t *testing.T) {
	// Curated order is e2 before e1; resolution must reorder by date
	entries := []journal.Entry{
		entryOn("e1", "2024-01-01"),
		entryOn("e2", "2024-01-05"),
	}
	doc := Resolve(draftWith("e2", "e1"), entries)

	if len(doc.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(doc.Entries))
	}
	if doc.Entries[0].ID != "e1" || doc.Entries[1].ID != "e2" {
		t.Errorf("order = [%s %s], want [e1 e2]", doc.Entries[0].ID, doc.Entries[1].ID)
	}
	if doc.StartDate != "2024-01-01" || doc.EndDate != "2024-01-05" {
		t.Errorf("range = %s..%s, want 2024-01-01..2024-01-05", doc.StartDate, doc.EndDate)
	}
	if got := doc.DateRangeLabel(); got != "January 1, 2024 — January 5, 2024" {
		t.Errorf("DateRangeLabel() = %q", got)
	}
}

func TestResolve_SkipsMissingAndDeleted(t *testing.T) {
	deleted := entryOn("gone", "2024-02-01")
	ts := int64(1700000000)
	deleted.DeletedAt = &ts

	entries := []journal.Entry{entryOn("keep", "2024-02-02"), deleted}
	doc := Resolve(draftWith("keep", "gone", "never-existed"), entries)

	if len(doc.Entries) != 1 || doc.Entries[0].ID != "keep" {
		t.Fatalf("Entries = %v, want only keep", doc.Entries)
	}
}

func TestResolve_StableOnDateTies(t *testing.T) {
	entries := []journal.Entry{
		entryOn("b", "2024-03-01"),
		entryOn("a", "2024-03-01"),
	}
	// Curated order breaks the tie
	doc := Resolve(draftWith("b", "a"), entries)
	if doc.Entries[0].ID != "b" || doc.Entries[1].ID != "a" {
		t.Errorf("order = [%s %s], want curated [b a]", doc.Entries[0].ID, doc.Entries[1].ID)
	}
}

func TestResolve_EmptyFallsBackToCriteria(t *testing.T) {
	d := draftWith()
	d.Criteria = journal.Criteria{StartDate: "2024-04-01", EndDate: "2024-04-30"}

	doc := Resolve(d, nil)
	if len(doc.Entries) != 0 {
		t.Fatalf("Entries = %v, want empty", doc.Entries)
	}
	if doc.StartDate != "2024-04-01" || doc.EndDate != "2024-04-30" {
		t.Errorf("range = %s..%s, want criteria dates", doc.StartDate, doc.EndDate)
	}
}

func TestResolve_EmptyWithoutCriteriaUsesToday(t *testing.T) {
	doc := Resolve(draftWith(), nil)
	today := journal.Today()
	if doc.StartDate != today || doc.EndDate != today {
		t.Errorf("range = %s..%s, want today", doc.StartDate, doc.EndDate)
	}
}

func TestResolve_PureInput(t *testing.T) {
	entries := []journal.Entry{
		entryOn("e1", "2024-01-02"),
		entryOn("e2", "2024-01-01"),
	}
	draft := draftWith("e1", "e2")

	Resolve(draft, entries)

	// Neither input may be reordered or mutated
	if entries[0].ID != "e1" || entries[1].ID != "e2" {
		t.Errorf("input entries reordered: %v", entries)
	}
	if draft.IncludedEntryIDs[0] != "e1" {
		t.Errorf("draft ids mutated: %v", draft.IncludedEntryIDs)
	}
}

func TestResolver_MemoizesUnchangedInput(t *testing.T) {
	entries := []journal.Entry{entryOn("e1", "2024-01-01")}
	draft := draftWith("e1")

	var r Resolver
	first := r.Resolve(draft, entries)
	second := r.Resolve(draft, entries)
	if first != second {
		t.Error("unchanged input resolved to a new document")
	}

	// Any entry update invalidates the memo
	entries[0].UpdatedAt = 42
	third := r.Resolve(draft, entries)
	if third == first {
		t.Error("changed input returned the memoized document")
	}
}

func TestFingerprint_SensitiveToState(t *testing.T) {
	entries := []journal.Entry{entryOn("e1", "2024-01-01")}
	draft := draftWith("e1")

	base := Fingerprint(draft, entries)

	draft2 := draftWith("e1")
	draft2.UpdatedAt = 99
	if Fingerprint(draft2, entries) == base {
		t.Error("fingerprint ignored draft UpdatedAt")
	}

	ts := int64(5)
	entries[0].DeletedAt = &ts
	if Fingerprint(draft, entries) == base {
		t.Error("fingerprint ignored entry deletion")
	}
}
