package web

import (
	"bytes"
	"database/sql"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
	"github.com/jordanwest/growthbook/internal/ops"
	"github.com/jordanwest/growthbook/internal/theme"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	exporter *book.Exporter
	renderer *Renderer
}

// HandleEntries handles GET /entries with the library listing.
func (h *Handlers) HandleEntries(w http.ResponseWriter, r *http.Request) {
	input := ops.ListEntriesInput{
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		Since:          r.URL.Query().Get("since"),
		Mode:           r.URL.Query().Get("mode"),
		HighlightsOnly: parseBoolParam(r, "highlights_only"),
	}

	result, err := ops.ListEntries(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "entries", EntriesPageData{
		PageData: PageData{
			Title:   "Entries",
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Entries:        result.Entries,
		Pagination:     result.Pagination,
		Since:          input.Since,
		Mode:           input.Mode,
		HighlightsOnly: input.HighlightsOnly,
	})
}

// HandleEntry handles GET /entries/{id} with the full entry view.
func (h *Handlers) HandleEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("entry id is required"))
		return
	}

	result, err := ops.GetEntry(h.db, ops.GetEntryInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "entry", EntryPageData{
		PageData: PageData{
			Title:   journal.FormatLong(result.Entry.Date),
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Entry:        result.Entry,
		RenderedHTML: renderMarkdown(result.Entry.Content),
		DateHeading:  journal.FormatHeading(result.Entry.Date),
	})
}

// HandleEntryDelete handles POST /entries/{id}/delete.
func (h *Handlers) HandleEntryDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("entry id is required"))
		return
	}

	result, err := ops.DeleteEntry(h.db, ops.DeleteEntryInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/entries", http.StatusFound)
}

// HandleDrafts handles GET /drafts with the draft listing.
func (h *Handlers) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListDrafts(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "drafts", DraftsPageData{
		PageData: PageData{
			Title:   "Drafts",
			Version: h.renderer.version,
			Nav:     "drafts",
		},
		Drafts: result.Drafts,
	})
}

// HandleDraft handles GET /drafts/{id} with the preview pane.
func (h *Handlers) HandleDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("draft id is required"))
		return
	}

	result, err := ops.GetDraft(h.db, ops.GetDraftInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "draft", h.draftPage(result.Draft, r.URL.Query().Get("theme"), nil))
}

// HandleDraftDelete handles POST /drafts/{id}/delete.
func (h *Handlers) HandleDraftDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("draft id is required"))
		return
	}

	result, err := ops.DeleteDraft(h.db, ops.DeleteDraftInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/drafts", http.StatusFound)
}

// HandlePreview handles GET /drafts/{id}/preview.pdf and streams the
// rendered book without the cover. The iframe on the draft page points
// here; switching themes re-requests with a different query parameter.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("draft id is required"))
		return
	}

	var buf bytes.Buffer
	err := ops.PreviewBook(h.db, h.cfg, h.exporter, &buf, ops.PreviewBookInput{
		DraftID: id,
		Theme:   r.URL.Query().Get("theme"),
	})
	if err != nil {
		// A superseded preview is not worth an error page
		if errors.Is(err, errors.ErrCancelled) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=preview.pdf")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HandleExport handles POST /drafts/{id}/export. A failed export renders
// the draft page with a retryable notice rather than an error page.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("draft id is required"))
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	themeID := r.FormValue("theme")

	result, err := ops.ExportBook(r.Context(), h.db, h.cfg, h.exporter, ops.ExportBookInput{
		DraftID: id,
		Theme:   themeID,
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			h.renderer.renderError(w, r, err)
			return
		}

		// Conflict and export failures are shown in place so the user
		// can try again
		draft, derr := ops.GetDraft(h.db, ops.GetDraftInput{ID: id})
		if derr != nil {
			h.renderer.renderError(w, r, derr)
			return
		}
		h.renderer.renderPageStatus(w, statusFor(err), "draft", h.draftPage(draft.Draft, themeID, &ExportNotice{
			Failed:  true,
			Message: messageFor(err),
		}))
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	draft, err := ops.GetDraft(h.db, ops.GetDraftInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, "draft", h.draftPage(draft.Draft, themeID, &ExportNotice{
		Filename:      result.Filename,
		Pages:         result.Pages,
		CoverAttached: result.CoverAttached,
	}))
}

// draftPage assembles the draft detail template data.
func (h *Handlers) draftPage(draft *journal.Draft, themeID string, notice *ExportNotice) DraftPageData {
	if !theme.IsValid(themeID) {
		themeID = h.cfg.DefaultTheme
		if !theme.IsValid(themeID) {
			themeID = theme.DefaultID
		}
	}

	return DraftPageData{
		PageData: PageData{
			Title:   draft.Title,
			Version: h.renderer.version,
			Nav:     "drafts",
		},
		Draft:      draft,
		Themes:     theme.All(),
		Theme:      themeID,
		EntryCount: len(draft.IncludedEntryIDs),
		Exported:   notice,
	}
}

// statusFor maps an error to an HTTP status for in-place notices.
func statusFor(err error) int {
	var bErr *errors.BookError
	if stderrors.As(err, &bErr) {
		return bErr.Status
	}
	return http.StatusInternalServerError
}

// messageFor extracts a user-facing message from an error.
func messageFor(err error) string {
	var bErr *errors.BookError
	if stderrors.As(err, &bErr) {
		return bErr.Message
	}
	return "export did not complete"
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
