package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
	"github.com/jordanwest/growthbook/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	exporter *book.Exporter
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, exporter *book.Exporter) *Handlers {
	return &Handlers{db: db, cfg: cfg, exporter: exporter}
}

// Request types for each tool

// WriteRequest represents the arguments for journal_write.
type WriteRequest struct {
	Date            string `json:"date,omitempty"`
	Prompt          string `json:"prompt,omitempty"`
	Content         string `json:"content,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Excited         string `json:"excited,omitempty"`
	Drained         string `json:"drained,omitempty"`
	Grateful        string `json:"grateful,omitempty"`
	Learned         string `json:"learned,omitempty"`
	Alignment       string `json:"alignment,omitempty"`
	ImproveTomorrow string `json:"improve_tomorrow,omitempty"`
	HighlightType   string `json:"highlight_type,omitempty"`
	HighlightNote   string `json:"highlight_note,omitempty"`
}

// GetRequest represents the arguments for journal_get.
type GetRequest struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date,omitempty"`
}

// ListRequest represents the arguments for journal_list.
type ListRequest struct {
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	Since          string `json:"since,omitempty"`
	Mode           string `json:"mode,omitempty"`
	HighlightsOnly bool   `json:"highlights_only,omitempty"`
}

// DeleteRequest represents the arguments for journal_delete.
type DeleteRequest struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date,omitempty"`
}

// CurateRequest represents the arguments for journal_curate.
type CurateRequest struct {
	Title             string `json:"title,omitempty"`
	Intent            string `json:"intent,omitempty"`
	Days              int    `json:"days,omitempty"`
	Mode              string `json:"mode,omitempty"`
	IncludeHighlights bool   `json:"include_highlights,omitempty"`
}

// DraftSaveRequest represents the arguments for draft_save.
type DraftSaveRequest struct {
	ID                string   `json:"id,omitempty"`
	Title             string   `json:"title"`
	Intent            string   `json:"intent,omitempty"`
	StartDate         string   `json:"start_date,omitempty"`
	EndDate           string   `json:"end_date,omitempty"`
	IncludeHighlights bool     `json:"include_highlights,omitempty"`
	EntryIDs          []string `json:"entry_ids,omitempty"`
}

// DraftIDRequest represents the arguments for draft_get and draft_delete.
type DraftIDRequest struct {
	ID string `json:"id"`
}

// BookExportRequest represents the arguments for book_export.
type BookExportRequest struct {
	DraftID string `json:"draft_id"`
	Theme   string `json:"theme,omitempty"`
}

// BackupRequest represents the arguments for journal_backup.
type BackupRequest struct {
	Path           string `json:"path,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// RestoreRequest represents the arguments for journal_restore.
type RestoreRequest struct {
	Path string `json:"path"`
}

// HandleWrite handles the journal_write tool.
func (h *Handlers) HandleWrite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[WriteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.WriteEntry(h.db, ops.WriteEntryInput{
		Date:            args.Date,
		Prompt:          args.Prompt,
		Content:         args.Content,
		Mode:            args.Mode,
		Excited:         args.Excited,
		Drained:         args.Drained,
		Grateful:        args.Grateful,
		Learned:         args.Learned,
		Alignment:       args.Alignment,
		ImproveTomorrow: args.ImproveTomorrow,
		HighlightType:   args.HighlightType,
		HighlightNote:   args.HighlightNote,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(writeView(result))
}

// HandleGet handles the journal_get tool.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetEntry(h.db, ops.GetEntryInput{ID: args.ID, Date: args.Date})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"entry": entryView(result.Entry)})
}

// HandleList handles the journal_list tool.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListEntries(h.db, ops.ListEntriesInput{
		Limit:          args.Limit,
		Offset:         args.Offset,
		Since:          args.Since,
		Mode:           args.Mode,
		HighlightsOnly: args.HighlightsOnly,
	})
	if err != nil {
		return errorResult(err), nil
	}

	views := make([]map[string]any, len(result.Entries))
	for i := range result.Entries {
		views[i] = entryView(&result.Entries[i])
	}
	return successResult(map[string]any{
		"entries":    views,
		"pagination": result.Pagination,
	})
}

// HandleDelete handles the journal_delete tool.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteEntry(h.db, ops.DeleteEntryInput{ID: args.ID, Date: args.Date})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCurate handles the journal_curate tool.
func (h *Handlers) HandleCurate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[CurateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Curate(h.db, ops.CurateInput{
		Title:             args.Title,
		Intent:            args.Intent,
		Days:              args.Days,
		Mode:              args.Mode,
		IncludeHighlights: args.IncludeHighlights,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftSave handles the draft_save tool.
func (h *Handlers) HandleDraftSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[DraftSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SaveDraft(h.db, ops.SaveDraftInput{
		ID:     args.ID,
		Title:  args.Title,
		Intent: args.Intent,
		Criteria: journal.Criteria{
			StartDate:         args.StartDate,
			EndDate:           args.EndDate,
			IncludeHighlights: args.IncludeHighlights,
		},
		IncludedEntryIDs: args.EntryIDs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftGet handles the draft_get tool.
func (h *Handlers) HandleDraftGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[DraftIDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetDraft(h.db, ops.GetDraftInput{ID: args.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftList handles the draft_list tool.
func (h *Handlers) HandleDraftList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListDrafts(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftDelete handles the draft_delete tool.
func (h *Handlers) HandleDraftDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[DraftIDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteDraft(h.db, ops.DeleteDraftInput{ID: args.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBookExport handles the book_export tool.
func (h *Handlers) HandleBookExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[BookExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ExportBook(ctx, h.db, h.cfg, h.exporter, ops.ExportBookInput{
		DraftID: args.DraftID,
		Theme:   args.Theme,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBookThemes handles the book_themes tool.
func (h *Handlers) HandleBookThemes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Themes(h.cfg))
}

// HandleBackup handles the journal_backup tool.
func (h *Handlers) HandleBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[BackupRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Backup(ctx, h.db, ops.BackupInput{
		Path:           args.Path,
		IncludeDeleted: args.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRestore handles the journal_restore tool.
func (h *Handlers) HandleRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[RestoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Restore(ctx, h.db, ops.RestoreInput{Path: args.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Views

// entryView flattens an entry for tool output, tagging the reflection by
// its mode so clients never see fields from the other mode.
func entryView(e *journal.Entry) map[string]any {
	view := map[string]any{
		"id":         e.ID,
		"date":       e.Date,
		"prompt":     e.Prompt,
		"content":    e.Content,
		"created_at": e.CreatedAt,
		"updated_at": e.UpdatedAt,
	}
	if e.Reflection != nil {
		items := e.Reflection.Items()
		reflection := map[string]any{
			"mode":  string(e.Reflection.Mode()),
			"title": e.Reflection.Title(),
		}
		pairs := make([]map[string]string, len(items))
		for i, it := range items {
			pairs[i] = map[string]string{"question": it.Question, "answer": it.Answer}
		}
		reflection["items"] = pairs
		view["reflection"] = reflection
	}
	if e.Highlight != nil {
		view["highlight"] = e.Highlight
	}
	return view
}

func writeView(out *ops.WriteEntryOutput) map[string]any {
	return map[string]any{
		"entry":   entryView(out.Entry),
		"created": out.Created,
	}
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var bookErr *errors.BookError
	if stderrors.As(err, &bookErr) {
		msg := bookErr.Message
		if err.Error() != bookErr.Error() {
			// Wrapped errors keep their context, e.g. "entries[2]: ..."
			msg = err.Error()
		}
		errorObj := map[string]any{
			"code":    bookErr.Code,
			"message": msg,
			"status":  bookErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if bookErr.Code != errors.ErrInternal && bookErr.Details != nil {
			errorObj["details"] = bookErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
