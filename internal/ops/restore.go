package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// RestoreInput contains parameters for the Restore operation.
type RestoreInput struct {
	Path string // required
}

// RestoreOutput contains the result of the Restore operation.
type RestoreOutput struct {
	EntriesImported int `json:"entries_imported"`
	EntriesSkipped  int `json:"entries_skipped"`
	DraftsImported  int `json:"drafts_imported"`
	DraftsSkipped   int `json:"drafts_skipped"`
	Malformed       int `json:"malformed"`
}

// Restore merges a backup file into the library. Conflicts resolve by
// last write: a record only replaces an existing row when its
// updated_at is strictly newer. Malformed lines are counted and
// skipped, never fatal.
func Restore(ctx context.Context, database *sql.DB, input RestoreInput) (*RestoreOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	// First line must be the backup header
	if !scanner.Scan() {
		return nil, errors.NewInvalidRequest("backup file is empty")
	}
	var header BackupHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil || !header.GrowthBookBackup {
		return nil, errors.NewInvalidRequest("not a growth book backup file")
	}
	if header.SchemaVersion != backupSchemaVersion {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unsupported backup schema version %q", header.SchemaVersion))
	}

	out := &RestoreOutput{}
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("restore")
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec backupRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			out.Malformed++
			continue
		}

		switch rec.Type {
		case "entry":
			if rec.Entry == nil || rec.Entry.ID == "" || rec.Entry.Date == "" {
				out.Malformed++
				continue
			}
			imported, err := restoreEntry(database, rec.Entry)
			if err != nil {
				return nil, err
			}
			if imported {
				out.EntriesImported++
			} else {
				out.EntriesSkipped++
			}
		case "draft":
			if rec.Draft == nil || rec.Draft.ID == "" {
				out.Malformed++
				continue
			}
			imported, err := restoreDraft(database, rec.Draft)
			if err != nil {
				return nil, err
			}
			if imported {
				out.DraftsImported++
			} else {
				out.DraftsSkipped++
			}
		default:
			out.Malformed++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}

func restoreEntry(database *sql.DB, rec *entryRecord) (bool, error) {
	existing, err := db.GetEntryByID(database, rec.ID, true)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return false, err
	}
	if existing != nil && existing.UpdatedAt >= rec.UpdatedAt {
		return false, nil
	}
	if err := db.ReplaceEntry(database, recordToEntry(rec)); err != nil {
		return false, err
	}
	return true, nil
}

func restoreDraft(database *sql.DB, rec *draftRecord) (bool, error) {
	if rec.ID == journal.PreviewDraftID {
		return false, nil
	}
	existing, err := db.GetDraftByID(database, rec.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return false, err
	}
	if existing != nil && existing.UpdatedAt >= rec.UpdatedAt {
		return false, nil
	}
	if err := db.UpsertDraft(database, recordToDraft(rec)); err != nil {
		return false, err
	}
	return true, nil
}
