package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/ops"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	exporter := &book.Exporter{
		Renderer:  &book.Renderer{},
		ExportDir: t.TempDir(),
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")

	return &Handlers{
		db:       database,
		cfg:      cfg,
		exporter: exporter,
		renderer: renderer,
	}
}

// seedEntry writes an entry and returns its ID.
func seedEntry(t *testing.T, h *Handlers, date, content string) string {
	t.Helper()
	out, err := ops.WriteEntry(h.db, ops.WriteEntryInput{
		Date:     date,
		Content:  content,
		Grateful: "small things",
	})
	if err != nil {
		t.Fatalf("seed entry %q: %v", date, err)
	}
	return out.Entry.ID
}

// seedDraft curates the whole library into a draft and returns its ID.
func seedDraft(t *testing.T, h *Handlers, title string) string {
	t.Helper()
	out, err := ops.Curate(h.db, ops.CurateInput{Title: title})
	if err != nil {
		t.Fatalf("seed draft %q: %v", title, err)
	}
	return out.Draft.ID
}

// --- HandleEntries ---

func TestHandleEntries_Default(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-01-15", "a morning of progress")

	req := httptest.NewRequest("GET", "/entries", nil)
	rec := httptest.NewRecorder()
	h.HandleEntries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "January 15, 2024") {
		t.Error("expected formatted entry date in response")
	}
	if !strings.Contains(body, "Entries") {
		t.Error("expected page title 'Entries' in response")
	}
}

func TestHandleEntries_Empty(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries", nil)
	rec := httptest.NewRecorder()
	h.HandleEntries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No entries yet") {
		t.Error("expected empty state message")
	}
}

func TestHandleEntries_ModeFilter(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-01-10", "free day")
	if _, err := ops.WriteEntry(h.db, ops.WriteEntryInput{
		Date:    "2024-01-11",
		Content: "growth day",
		Learned: "patience",
	}); err != nil {
		t.Fatalf("seed growth entry: %v", err)
	}

	req := httptest.NewRequest("GET", "/entries?mode=growth", nil)
	rec := httptest.NewRecorder()
	h.HandleEntries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "January 11, 2024") {
		t.Error("expected growth entry in filtered results")
	}
	if strings.Contains(body, "January 10, 2024") {
		t.Error("did not expect free entry in growth-filtered results")
	}
}

func TestHandleEntries_InvalidLimitFallsBack(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries?limit=notanumber&offset=bad", nil)
	rec := httptest.NewRecorder()
	h.HandleEntries(rec, req)

	// Should not error — falls back to defaults
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleEntries_InvalidSinceRendersError(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries?since=lastweek", nil)
	rec := httptest.NewRecorder()
	h.HandleEntries(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- HandleEntry ---

func TestHandleEntry_Found(t *testing.T) {
	h := setupTest(t)
	id := seedEntry(t, h, "2024-02-01", "Shipped **the thing** at last.")

	req := httptest.NewRequest("GET", "/entries/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	// Markdown body is rendered to HTML
	if !strings.Contains(body, "<strong>the thing</strong>") {
		t.Error("expected rendered markdown content")
	}
	// Reflection section with the question and answer
	if !strings.Contains(body, "Purpose Reflection") {
		t.Error("expected reflection section")
	}
	if !strings.Contains(body, "small things") {
		t.Error("expected reflection answer")
	}
}

func TestHandleEntry_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleEntry_EmptyID(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/", nil)
	req.SetPathValue("id", "")
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- HandleEntryDelete ---

func TestHandleEntryDelete_DefaultRedirect(t *testing.T) {
	h := setupTest(t)
	id := seedEntry(t, h, "2024-02-10", "to be removed")

	req := httptest.NewRequest("POST", "/entries/"+id+"/delete", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleEntryDelete(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/entries" {
		t.Errorf("Location = %q, want /entries", loc)
	}
}

func TestHandleEntryDelete_JSONRequest(t *testing.T) {
	h := setupTest(t)
	id := seedEntry(t, h, "2024-02-11", "json delete")

	req := httptest.NewRequest("POST", "/entries/"+id+"/delete", nil)
	req.SetPathValue("id", id)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleEntryDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["deleted"] != true {
		t.Errorf("deleted = %v, want true", resp["deleted"])
	}
}

func TestHandleEntryDelete_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/entries/NONEXISTENT/delete", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandleEntryDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// --- HandleDrafts / HandleDraft ---

func TestHandleDrafts_ListsDrafts(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-03-01", "kept")
	seedDraft(t, h, "Spring Collection")

	req := httptest.NewRequest("GET", "/drafts", nil)
	rec := httptest.NewRecorder()
	h.HandleDrafts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Spring Collection") {
		t.Error("expected draft title in listing")
	}
}

func TestHandleDrafts_Empty(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/drafts", nil)
	rec := httptest.NewRecorder()
	h.HandleDrafts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No drafts yet") {
		t.Error("expected empty state message")
	}
}

func TestHandleDraft_Found(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-03-05", "kept")
	id := seedDraft(t, h, "My Book")

	req := httptest.NewRequest("GET", "/drafts/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "My Book") {
		t.Error("expected draft title")
	}
	// Theme picker lists all built-in themes
	for _, name := range []string{"Minimal Calm", "Classic Book", "Modern Editorial", "Nature Notes"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected theme %q in picker", name)
		}
	}
	// Preview iframe points at the preview endpoint
	if !strings.Contains(body, "/drafts/"+id+"/preview.pdf") {
		t.Error("expected preview iframe URL")
	}
}

func TestHandleDraft_ThemeQueryRoundTrips(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-03-06", "kept")
	id := seedDraft(t, h, "Themed")

	req := httptest.NewRequest("GET", "/drafts/"+id+"?theme=classic", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "preview.pdf?theme=classic") {
		t.Error("expected selected theme threaded into the preview URL")
	}
}

func TestHandleDraft_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/drafts/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// --- HandlePreview ---

func TestHandlePreview_StreamsPDF(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-04-01", "previewed")
	id := seedDraft(t, h, "Preview Me")

	req := httptest.NewRequest("GET", "/drafts/"+id+"/preview.pdf?theme=nature", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
}

func TestHandlePreview_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/drafts/NONEXISTENT/preview.pdf", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// --- HandleExport ---

func TestHandleExport_RendersNotice(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-05-01", "bound into a book")
	id := seedDraft(t, h, "Export Me")

	form := url.Values{"theme": {"classic"}}
	req := httptest.NewRequest("POST", "/drafts/"+id+"/export", strings.NewReader(form.Encode()))
	req.SetPathValue("id", id)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Exported") {
		t.Error("expected export notice")
	}
	if !strings.Contains(body, "-classic-") {
		t.Error("expected exported filename with the chosen theme")
	}
}

func TestHandleExport_JSONRequest(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-05-02", "json export")
	id := seedDraft(t, h, "JSON Export")

	form := url.Values{"theme": {"minimal"}}
	req := httptest.NewRequest("POST", "/drafts/"+id+"/export", strings.NewReader(form.Encode()))
	req.SetPathValue("id", id)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	filename, _ := resp["filename"].(string)
	if filename == "" {
		t.Error("expected filename in JSON export response")
	}
}

func TestHandleExport_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/drafts/NONEXISTENT/export", strings.NewReader("theme=classic"))
	req.SetPathValue("id", "NONEXISTENT")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleExport(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// --- HandleDraftDelete ---

func TestHandleDraftDelete_DefaultRedirect(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "2024-06-01", "kept")
	id := seedDraft(t, h, "Discard Me")

	req := httptest.NewRequest("POST", "/drafts/"+id+"/delete", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDraftDelete(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/drafts" {
		t.Errorf("Location = %q, want /drafts", loc)
	}
}

// --- Error rendering ---

func TestErrorRendering_JSONError(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object in JSON response")
	}
	if errObj["status"] != float64(404) {
		t.Errorf("error.status = %v, want 404", errObj["status"])
	}
}

func TestErrorRendering_FullErrorPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full error page should contain layout")
	}
	if !strings.Contains(body, "404") {
		t.Error("error page should show status code")
	}
}

// --- Helper functions ---

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		query    string
		name     string
		def      int
		expected int
	}{
		{"", "limit", 20, 20},
		{"limit=50", "limit", 20, 50},
		{"limit=bad", "limit", 20, 20},
		{"offset=10", "offset", 0, 10},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		got := parseIntParam(req, tt.name, tt.def)
		if got != tt.expected {
			t.Errorf("parseIntParam(%q, %q, %d) = %d, want %d", tt.query, tt.name, tt.def, got, tt.expected)
		}
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		query    string
		name     string
		expected bool
	}{
		{"", "highlights_only", false},
		{"highlights_only=true", "highlights_only", true},
		{"highlights_only=1", "highlights_only", true},
		{"highlights_only=false", "highlights_only", false},
		{"highlights_only=yes", "highlights_only", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		got := parseBoolParam(req, tt.name)
		if got != tt.expected {
			t.Errorf("parseBoolParam(%q, %q) = %v, want %v", tt.query, tt.name, got, tt.expected)
		}
	}
}
