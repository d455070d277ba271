package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// backupSchemaVersion identifies the JSONL layout.
const backupSchemaVersion = "1.0"

// BackupHeader is the first line of a backup file.
type BackupHeader struct {
	GrowthBookBackup bool   `json:"_growthbook_backup"`
	SchemaVersion    string `json:"schema_version"`
	ExportedAt       int64  `json:"exported_at"`
}

// backupRecord is one line of a backup file after the header. Exactly
// one of Entry or Draft is set, tagged by Type.
type backupRecord struct {
	Type  string       `json:"type"` // "entry" or "draft"
	Entry *entryRecord `json:"entry,omitempty"`
	Draft *draftRecord `json:"draft,omitempty"`
}

// entryRecord is the flat wire form of an entry.
type entryRecord struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Prompt  string `json:"prompt"`
	Content string `json:"content,omitempty"`

	Mode            string `json:"mode,omitempty"`
	Excited         string `json:"excited,omitempty"`
	Drained         string `json:"drained,omitempty"`
	Grateful        string `json:"grateful,omitempty"`
	WhatStayed      string `json:"what_stayed,omitempty"`
	Perspective     string `json:"perspective_change,omitempty"`
	Learned         string `json:"learned,omitempty"`
	Alignment       string `json:"alignment,omitempty"`
	ImproveTomorrow string `json:"improve_tomorrow,omitempty"`

	HighlightType string `json:"highlight_type,omitempty"`
	HighlightNote string `json:"highlight_note,omitempty"`

	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

type draftRecord struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Intent           string            `json:"intent,omitempty"`
	Criteria         journal.Criteria  `json:"criteria"`
	IncludedEntryIDs []string          `json:"includedEntryIds"`
	Sections         []journal.Section `json:"sections,omitempty"`
	CreatedAt        int64             `json:"created_at"`
	UpdatedAt        int64             `json:"updated_at"`
}

// BackupInput contains parameters for the Backup operation.
type BackupInput struct {
	Path           string // optional, default: ~/.growthbook/exports/backup-<timestamp>.jsonl
	IncludeDeleted bool
}

// BackupOutput contains the result of the Backup operation.
type BackupOutput struct {
	Path       string `json:"path"`
	Entries    int    `json:"entries"`
	Drafts     int    `json:"drafts"`
	ExportedAt int64  `json:"exported_at"`
}

// Backup writes all entries and drafts to a JSONL file: a header line
// followed by one record per line. The file lands via temp-and-rename
// so an interrupted backup never truncates a previous one.
func Backup(ctx context.Context, database *sql.DB, input BackupInput) (*BackupOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	path := input.Path
	if path == "" {
		var err error
		path, err = defaultBackupPath(now)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create backup directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create backup file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	writeLine := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return errors.NewInternal(err)
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return errors.NewInternal(err)
		}
		return nil
	}

	header := BackupHeader{
		GrowthBookBackup: true,
		SchemaVersion:    backupSchemaVersion,
		ExportedAt:       exportedAt,
	}
	if err := writeLine(header); err != nil {
		return nil, err
	}

	entries, err := db.AllEntries(database, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	entryCount := 0
	for i := range entries {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("backup")
		default:
		}
		rec := backupRecord{Type: "entry", Entry: entryToRecord(&entries[i])}
		if err := writeLine(rec); err != nil {
			return nil, err
		}
		entryCount++
	}

	drafts, err := db.ListDrafts(database)
	if err != nil {
		return nil, err
	}
	draftCount := 0
	for i := range drafts {
		rec := backupRecord{Type: "draft", Draft: draftToRecord(&drafts[i])}
		if err := writeLine(rec); err != nil {
			return nil, err
		}
		draftCount++
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close backup file: %w", err))
	}
	file = nil

	if err := os.Rename(tempPath, path); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize backup: %w", err))
	}

	success = true
	return &BackupOutput{
		Path:       path,
		Entries:    entryCount,
		Drafts:     draftCount,
		ExportedAt: exportedAt,
	}, nil
}

func defaultBackupPath(now time.Time) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	filename := fmt.Sprintf("backup-%s.jsonl", now.Format("2006-01-02T150405"))
	return filepath.Join(homeDir, ".growthbook", "exports", filename), nil
}

func entryToRecord(e *journal.Entry) *entryRecord {
	rec := &entryRecord{
		ID:        e.ID,
		Date:      e.Date,
		Prompt:    e.Prompt,
		Content:   e.Content,
		Mode:      string(e.Mode()),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: e.DeletedAt,
	}
	switch r := e.Reflection.(type) {
	case *journal.FreeReflection:
		rec.Excited = r.Excited
		rec.Drained = r.Drained
		rec.Grateful = r.Grateful
		rec.WhatStayed = r.WhatStayed
		rec.Perspective = r.PerspectiveChange
	case *journal.GrowthReflection:
		rec.Learned = r.Learned
		rec.Alignment = r.Alignment
		rec.ImproveTomorrow = r.ImproveTomorrow
	}
	if e.Highlight != nil {
		rec.HighlightType = string(e.Highlight.Type)
		rec.HighlightNote = e.Highlight.Note
	}
	if e.Reflection == nil {
		rec.Mode = ""
	}
	return rec
}

func recordToEntry(rec *entryRecord) *journal.Entry {
	e := &journal.Entry{
		ID:        rec.ID,
		Date:      rec.Date,
		Prompt:    rec.Prompt,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		DeletedAt: rec.DeletedAt,
	}
	switch journal.ReflectionMode(rec.Mode) {
	case journal.ModeGrowth:
		e.Reflection = &journal.GrowthReflection{
			Learned:         rec.Learned,
			Alignment:       rec.Alignment,
			ImproveTomorrow: rec.ImproveTomorrow,
		}
	case journal.ModeFree:
		e.Reflection = &journal.FreeReflection{
			Excited:           rec.Excited,
			Drained:           rec.Drained,
			Grateful:          rec.Grateful,
			WhatStayed:        rec.WhatStayed,
			PerspectiveChange: rec.Perspective,
		}
	default:
		if rec.Excited != "" || rec.Drained != "" || rec.Grateful != "" || rec.WhatStayed != "" || rec.Perspective != "" {
			e.Reflection = &journal.FreeReflection{
				Excited:           rec.Excited,
				Drained:           rec.Drained,
				Grateful:          rec.Grateful,
				WhatStayed:        rec.WhatStayed,
				PerspectiveChange: rec.Perspective,
			}
		}
	}
	if rec.HighlightType != "" {
		e.Highlight = &journal.Highlight{
			Type: journal.HighlightType(rec.HighlightType),
			Note: rec.HighlightNote,
		}
	}
	return e
}

func draftToRecord(d *journal.Draft) *draftRecord {
	return &draftRecord{
		ID:               d.ID,
		Title:            d.Title,
		Intent:           d.Intent,
		Criteria:         d.Criteria,
		IncludedEntryIDs: d.IncludedEntryIDs,
		Sections:         d.Sections,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func recordToDraft(rec *draftRecord) *journal.Draft {
	return &journal.Draft{
		ID:               rec.ID,
		Title:            rec.Title,
		Intent:           rec.Intent,
		Criteria:         rec.Criteria,
		IncludedEntryIDs: rec.IncludedEntryIDs,
		Sections:         rec.Sections,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}
