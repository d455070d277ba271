package db

import (
	"database/sql"
	"encoding/json"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
)

// UpsertDraft stores a draft, overwriting any existing draft with the
// same id. Drafts are edited in place: saving an existing id is the
// normal update path.
func UpsertDraft(db *sql.DB, d *journal.Draft) error {
	criteriaJSON, err := json.Marshal(d.Criteria)
	if err != nil {
		return errors.NewInternal(err)
	}
	idsJSON, err := json.Marshal(d.IncludedEntryIDs)
	if err != nil {
		return errors.NewInternal(err)
	}

	var sectionsJSON sql.NullString
	if len(d.Sections) > 0 {
		data, err := json.Marshal(d.Sections)
		if err != nil {
			return errors.NewInternal(err)
		}
		sectionsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO drafts (
			id, title, intent, criteria_json, included_ids_json,
			sections_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			intent = excluded.intent,
			criteria_json = excluded.criteria_json,
			included_ids_json = excluded.included_ids_json,
			sections_json = excluded.sections_json,
			updated_at = excluded.updated_at
	`

	_, err = db.Exec(query,
		d.ID, d.Title, d.Intent, string(criteriaJSON), string(idsJSON),
		sectionsJSON, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetDraftByID retrieves a draft by id.
func GetDraftByID(db *sql.DB, id string) (*journal.Draft, error) {
	query := `
		SELECT id, title, intent, criteria_json, included_ids_json,
			sections_json, created_at, updated_at
		FROM drafts
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	d, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return d, nil
}

// ListDrafts returns all drafts, most recently updated first.
func ListDrafts(db *sql.DB) ([]journal.Draft, error) {
	query := `
		SELECT id, title, intent, criteria_json, included_ids_json,
			sections_json, created_at, updated_at
		FROM drafts
		ORDER BY updated_at DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var drafts []journal.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		drafts = append(drafts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return drafts, nil
}

// DeleteDraft permanently removes a draft. Drafts are curation metadata,
// not journal content, so there is no soft-delete window for them.
func DeleteDraft(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
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

// scanDraft scans a draft row from either *sql.Row or *sql.Rows.
func scanDraft(row rowScanner) (*journal.Draft, error) {
	var (
		d            journal.Draft
		criteriaJSON string
		idsJSON      string
		sectionsJSON sql.NullString
	)

	err := row.Scan(
		&d.ID, &d.Title, &d.Intent, &criteriaJSON, &idsJSON,
		&sectionsJSON, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(criteriaJSON), &d.Criteria); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &d.IncludedEntryIDs); err != nil {
		return nil, err
	}
	if sectionsJSON.Valid && sectionsJSON.String != "" {
		if err := json.Unmarshal([]byte(sectionsJSON.String), &d.Sections); err != nil {
			return nil, err
		}
	}

	return &d, nil
}
