package db

import (
	"database/sql"
	"time"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// entryColumns is the canonical column list for entry scans.
const entryColumns = `id, date, prompt, content, reflection_mode,
	excited, drained, grateful, what_stayed, perspective_change,
	learned, alignment, improve_tomorrow,
	highlight_type, highlight_note, created_at, updated_at, deleted_at`

// InsertEntry stores a new entry.
func InsertEntry(db *sql.DB, e *journal.Entry) error {
	cols := entryToColumns(e)

	query := `
		INSERT INTO entries (
			id, date, prompt, content, reflection_mode,
			excited, drained, grateful, what_stayed, perspective_change,
			learned, alignment, improve_tomorrow,
			highlight_type, highlight_note, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err := db.Exec(query,
		e.ID, e.Date, e.Prompt, e.Content, cols.mode,
		cols.excited, cols.drained, cols.grateful, cols.whatStayed, cols.perspectiveChange,
		cols.learned, cols.alignment, cols.improveTomorrow,
		cols.highlightType, cols.highlightNote, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// ReplaceEntry writes an entry verbatim, timestamps and deletion marker
// included. Restore uses this; normal edit flows go through UpdateEntry
// so updated_at stays truthful.
func ReplaceEntry(db *sql.DB, e *journal.Entry) error {
	cols := entryToColumns(e)

	var deletedAt sql.NullInt64
	if e.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: *e.DeletedAt, Valid: true}
	}

	query := `
		INSERT OR REPLACE INTO entries (
			id, date, prompt, content, reflection_mode,
			excited, drained, grateful, what_stayed, perspective_change,
			learned, alignment, improve_tomorrow,
			highlight_type, highlight_note, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		e.ID, e.Date, e.Prompt, e.Content, cols.mode,
		cols.excited, cols.drained, cols.grateful, cols.whatStayed, cols.perspectiveChange,
		cols.learned, cols.alignment, cols.improveTomorrow,
		cols.highlightType, cols.highlightNote, e.CreatedAt, e.UpdatedAt, deletedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// UpdateEntry updates the mutable fields of an existing entry and
// refreshes updated_at. Identity (id, created_at) never changes.
func UpdateEntry(db *sql.DB, e *journal.Entry) error {
	cols := entryToColumns(e)
	now := time.Now().Unix()

	query := `
		UPDATE entries
		SET date = ?, prompt = ?, content = ?, reflection_mode = ?,
			excited = ?, drained = ?, grateful = ?, what_stayed = ?, perspective_change = ?,
			learned = ?, alignment = ?, improve_tomorrow = ?,
			highlight_type = ?, highlight_note = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		e.Date, e.Prompt, e.Content, cols.mode,
		cols.excited, cols.drained, cols.grateful, cols.whatStayed, cols.perspectiveChange,
		cols.learned, cols.alignment, cols.improveTomorrow,
		cols.highlightType, cols.highlightNote, now,
		e.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(e.ID)
	}

	e.UpdatedAt = now
	return nil
}

// GetEntryByID retrieves an entry by its ULID.
// If includeDeleted is false, soft-deleted entries are excluded.
func GetEntryByID(db *sql.DB, id string, includeDeleted bool) (*journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	e, err := scanEntryRow(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return e, nil
}

// GetEntryByDate retrieves the active entry for a calendar date. Normal
// flows keep one per date; if several exist the most recently written
// wins.
func GetEntryByDate(db *sql.DB, date string) (*journal.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM entries
		WHERE date = ? AND deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT 1`

	row := db.QueryRow(query, date)
	e, err := scanEntryRow(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(date)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return e, nil
}

// ListEntries returns entries ordered by date descending (newest first)
// with the total count of matching rows. since, mode, and highlightsOnly
// are optional filters.
func ListEntries(db *sql.DB, limit, offset int, since string, mode string, highlightsOnly, includeDeleted bool) ([]journal.Entry, int, error) {
	where := "1=1"
	args := []any{}

	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}
	if since != "" {
		where += " AND date >= ?"
		args = append(args, since)
	}
	switch journal.ReflectionMode(mode) {
	case journal.ModeGrowth:
		where += " AND reflection_mode = 'growth'"
	case journal.ModeFree:
		// Purpose is the default for legacy rows with no stored mode
		where += " AND (reflection_mode = 'free' OR reflection_mode IS NULL)"
	}
	if highlightsOnly {
		where += " AND highlight_type IS NOT NULL"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM entries WHERE " + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + entryColumns + `
		FROM entries
		WHERE ` + where + `
		ORDER BY date DESC, updated_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := make([]journal.Entry, 0, limit)
	for rows.Next() {
		e, err := ScanEntryFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return entries, total, nil
}

// AllEntries returns every entry, optionally including soft-deleted
// ones. Order is not guaranteed; the book pipeline always re-sorts by
// calendar date.
func AllEntries(db *sql.DB, includeDeleted bool) ([]journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		e, err := ScanEntryFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return entries, nil
}

// SoftDeleteEntry marks an entry as deleted by setting deleted_at.
func SoftDeleteEntry(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE entries
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// entryColumnValues holds the nullable column values derived from an
// Entry's reflection variant and highlight.
type entryColumnValues struct {
	mode              sql.NullString
	excited           sql.NullString
	drained           sql.NullString
	grateful          sql.NullString
	whatStayed        sql.NullString
	perspectiveChange sql.NullString
	learned           sql.NullString
	alignment         sql.NullString
	improveTomorrow   sql.NullString
	highlightType     sql.NullString
	highlightNote     sql.NullString
}

// entryToColumns flattens the reflection variant into per-mode columns.
// Only the columns belonging to the entry's mode are ever written, so a
// row can never hold both purpose-mode and growth-mode answers.
func entryToColumns(e *journal.Entry) entryColumnValues {
	var cols entryColumnValues

	switch r := e.Reflection.(type) {
	case *journal.FreeReflection:
		cols.mode = sql.NullString{String: string(journal.ModeFree), Valid: true}
		cols.excited = toNullString(r.Excited)
		cols.drained = toNullString(r.Drained)
		cols.grateful = toNullString(r.Grateful)
		cols.whatStayed = toNullString(r.WhatStayed)
		cols.perspectiveChange = toNullString(r.PerspectiveChange)
	case *journal.GrowthReflection:
		cols.mode = sql.NullString{String: string(journal.ModeGrowth), Valid: true}
		cols.learned = toNullString(r.Learned)
		cols.alignment = toNullString(r.Alignment)
		cols.improveTomorrow = toNullString(r.ImproveTomorrow)
	}

	if e.Highlight != nil {
		cols.highlightType = toNullString(string(e.Highlight.Type))
		cols.highlightNote = toNullString(e.Highlight.Note)
	}

	return cols
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntryRow scans a single row into an Entry.
func scanEntryRow(row *sql.Row) (*journal.Entry, error) {
	return scanEntry(row)
}

// ScanEntryFromRows scans the current row of a result set into an Entry.
func ScanEntryFromRows(rows *sql.Rows) (*journal.Entry, error) {
	return scanEntry(rows)
}

func scanEntry(row rowScanner) (*journal.Entry, error) {
	var (
		e                 journal.Entry
		mode              sql.NullString
		excited           sql.NullString
		drained           sql.NullString
		grateful          sql.NullString
		whatStayed        sql.NullString
		perspectiveChange sql.NullString
		learned           sql.NullString
		alignment         sql.NullString
		improveTomorrow   sql.NullString
		highlightType     sql.NullString
		highlightNote     sql.NullString
		deletedAt         sql.NullInt64
	)

	err := row.Scan(
		&e.ID, &e.Date, &e.Prompt, &e.Content, &mode,
		&excited, &drained, &grateful, &whatStayed, &perspectiveChange,
		&learned, &alignment, &improveTomorrow,
		&highlightType, &highlightNote, &e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	// Rebuild the reflection variant strictly by stored mode. A growth row
	// never surfaces purpose-mode columns even if they are populated.
	switch journal.ReflectionMode(mode.String) {
	case journal.ModeGrowth:
		e.Reflection = &journal.GrowthReflection{
			Learned:         learned.String,
			Alignment:       alignment.String,
			ImproveTomorrow: improveTomorrow.String,
		}
	case journal.ModeFree:
		e.Reflection = &journal.FreeReflection{
			Excited:           excited.String,
			Drained:           drained.String,
			Grateful:          grateful.String,
			WhatStayed:        whatStayed.String,
			PerspectiveChange: perspectiveChange.String,
		}
	default:
		// Legacy rows with no stored mode carry free/purpose semantics
		// when any anchor field is present, otherwise no reflection.
		if excited.Valid || drained.Valid || grateful.Valid || whatStayed.Valid || perspectiveChange.Valid {
			e.Reflection = &journal.FreeReflection{
				Excited:           excited.String,
				Drained:           drained.String,
				Grateful:          grateful.String,
				WhatStayed:        whatStayed.String,
				PerspectiveChange: perspectiveChange.String,
			}
		}
	}

	if highlightType.Valid {
		e.Highlight = &journal.Highlight{
			Type: journal.HighlightType(highlightType.String),
			Note: highlightNote.String,
		}
	}

	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Int64
	}

	return &e, nil
}

// toNullString converts a string to sql.NullString, mapping "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
