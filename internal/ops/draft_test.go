package ops

import (
	"testing"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

func TestSaveDraft_Create(t *testing.T) {
	database := setupTestDB(t)

	out, err := SaveDraft(database, SaveDraftInput{
		Title:            "Volume I",
		Intent:           "Why I wrote this.",
		IncludedEntryIDs: []string{"e1", "e2"},
	})
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if !out.Created {
		t.Error("Created = false, want true")
	}
	if out.Draft.ID == "" || out.Draft.ID == journal.PreviewDraftID {
		t.Errorf("ID = %q", out.Draft.ID)
	}
	if len(out.Draft.Sections) != len(journal.DefaultSections()) {
		t.Errorf("Sections = %d, want default catalog", len(out.Draft.Sections))
	}
}

func TestSaveDraft_UpdatePreservesIdentity(t *testing.T) {
	database := setupTestDB(t)

	first, err := SaveDraft(database, SaveDraftInput{Title: "Volume I"})
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	second, err := SaveDraft(database, SaveDraftInput{
		ID:               first.Draft.ID,
		Title:            "Volume I, revised",
		IncludedEntryIDs: []string{"e9"},
	})
	if err != nil {
		t.Fatalf("second SaveDraft() error = %v", err)
	}
	if second.Created {
		t.Error("Created = true for update")
	}
	if second.Draft.CreatedAt != first.Draft.CreatedAt {
		t.Error("CreatedAt changed on update")
	}

	got, err := GetDraft(database, GetDraftInput{ID: first.Draft.ID})
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if got.Draft.Title != "Volume I, revised" {
		t.Errorf("Title = %q", got.Draft.Title)
	}
}

func TestSaveDraft_Validation(t *testing.T) {
	database := setupTestDB(t)

	if _, err := SaveDraft(database, SaveDraftInput{Title: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank title error = %v, want INVALID_REQUEST", err)
	}
	if _, err := SaveDraft(database, SaveDraftInput{ID: journal.PreviewDraftID, Title: "x"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("preview id error = %v, want INVALID_REQUEST", err)
	}
	input := SaveDraftInput{Title: "x", Criteria: journal.Criteria{StartDate: "soon"}}
	if _, err := SaveDraft(database, input); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("bad criteria date error = %v, want INVALID_REQUEST", err)
	}
}

// Saving a draft freezes its membership: entries written afterwards
// never join it.
func TestSaveDraft_FrozenMembership(t *testing.T) {
	database := setupTestDB(t)
	e1 := mustWrite(t, database, WriteEntryInput{Date: "2024-01-01", Content: "in"})

	saved, err := SaveDraft(database, SaveDraftInput{
		Title:            "Frozen",
		IncludedEntryIDs: []string{e1.Entry.ID},
	})
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	mustWrite(t, database, WriteEntryInput{Date: "2024-01-02", Content: "out"})

	got, err := GetDraft(database, GetDraftInput{ID: saved.Draft.ID})
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if len(got.Draft.IncludedEntryIDs) != 1 || got.Draft.IncludedEntryIDs[0] != e1.Entry.ID {
		t.Errorf("IncludedEntryIDs = %v, want frozen [%s]", got.Draft.IncludedEntryIDs, e1.Entry.ID)
	}
}

func TestListAndDeleteDrafts(t *testing.T) {
	database := setupTestDB(t)

	a, err := SaveDraft(database, SaveDraftInput{Title: "A"})
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if _, err := SaveDraft(database, SaveDraftInput{Title: "B"}); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	list, err := ListDrafts(database)
	if err != nil {
		t.Fatalf("ListDrafts() error = %v", err)
	}
	if list.Count != 2 {
		t.Errorf("Count = %d, want 2", list.Count)
	}

	if _, err := DeleteDraft(database, DeleteDraftInput{ID: a.Draft.ID}); err != nil {
		t.Fatalf("DeleteDraft() error = %v", err)
	}
	if _, err := GetDraft(database, GetDraftInput{ID: a.Draft.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("deleted draft still readable: %v", err)
	}
	if _, err := DeleteDraft(database, DeleteDraftInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty id error = %v, want INVALID_REQUEST", err)
	}
}
