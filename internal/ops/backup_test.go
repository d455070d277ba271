package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

func TestBackupAndRestore_RoundTrip(t *testing.T) {
	source := setupTestDB(t)

	e1 := mustWrite(t, source, WriteEntryInput{Date: "2024-01-01", Content: "first", Grateful: "rest"})
	e2 := mustWrite(t, source, WriteEntryInput{Date: "2024-01-02", Content: "second", Learned: "focus", HighlightType: "win"})
	if _, err := DeleteEntry(source, DeleteEntryInput{ID: e2.Entry.ID}); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	draft, err := SaveDraft(source, SaveDraftInput{Title: "Carried Over", IncludedEntryIDs: []string{e1.Entry.ID}})
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	out, err := Backup(context.Background(), source, BackupInput{Path: path, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if out.Entries != 2 || out.Drafts != 1 {
		t.Errorf("backup counts = %d entries, %d drafts", out.Entries, out.Drafts)
	}

	target := setupTestDB(t)
	res, err := Restore(context.Background(), target, RestoreInput{Path: path})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.EntriesImported != 2 || res.DraftsImported != 1 || res.Malformed != 0 {
		t.Errorf("restore = %+v", res)
	}

	// Reflection mode survives the round trip
	got, err := GetEntry(target, GetEntryInput{ID: e1.Entry.ID})
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if got.Entry.Mode() != journal.ModeFree {
		t.Errorf("Mode() = %q, want free", got.Entry.Mode())
	}
	if got.Entry.CreatedAt != e1.Entry.CreatedAt {
		t.Error("CreatedAt not preserved through restore")
	}

	// The soft-deleted entry stays deleted
	if _, err := GetEntry(target, GetEntryInput{ID: e2.Entry.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("deleted entry resurrected: %v", err)
	}

	gotDraft, err := GetDraft(target, GetDraftInput{ID: draft.Draft.ID})
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if gotDraft.Draft.Title != "Carried Over" {
		t.Errorf("draft Title = %q", gotDraft.Draft.Title)
	}
}

// Restore resolves conflicts by last write: older records never clobber
// newer local state.
func TestRestore_TimestampWins(t *testing.T) {
	source := setupTestDB(t)
	mustWrite(t, source, WriteEntryInput{Date: "2024-01-01", Content: "stale copy"})

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	if _, err := Backup(context.Background(), source, BackupInput{Path: path}); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	// The same entry, written again afterwards, is newer locally
	newer := mustWrite(t, source, WriteEntryInput{Date: "2024-01-01", Content: "fresh local edit"})

	res, err := Restore(context.Background(), source, RestoreInput{Path: path})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.EntriesImported != 0 || res.EntriesSkipped != 1 {
		t.Errorf("restore = %+v, want the stale record skipped", res)
	}

	got, err := GetEntry(source, GetEntryInput{ID: newer.Entry.ID})
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if got.Entry.Content != "fresh local edit" {
		t.Errorf("Content = %q, stale backup overwrote newer entry", got.Entry.Content)
	}
}

func TestRestore_MalformedLines(t *testing.T) {
	database := setupTestDB(t)

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	content := `{"_growthbook_backup":true,"schema_version":"1.0","exported_at":1700000000}
not json at all
{"type":"entry","entry":{"id":"","date":""}}
{"type":"mystery"}
{"type":"entry","entry":{"id":"ok1","date":"2024-01-01","prompt":"Free Write","created_at":1,"updated_at":1}}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res, err := Restore(context.Background(), database, RestoreInput{Path: path})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.Malformed != 3 {
		t.Errorf("Malformed = %d, want 3", res.Malformed)
	}
	if res.EntriesImported != 1 {
		t.Errorf("EntriesImported = %d, want 1", res.EntriesImported)
	}
}

func TestRestore_RejectsForeignFiles(t *testing.T) {
	database := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "other.jsonl")
	if err := os.WriteFile(path, []byte(`{"something":"else"}`+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Restore(context.Background(), database, RestoreInput{Path: path}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("foreign file error = %v, want INVALID_REQUEST", err)
	}
	if _, err := Restore(context.Background(), database, RestoreInput{Path: filepath.Join(t.TempDir(), "nope.jsonl")}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
	if _, err := Restore(context.Background(), database, RestoreInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty path error = %v, want INVALID_REQUEST", err)
	}
}
