package ops

import (
	"context"
	"database/sql"
	"io"
	"strings"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/theme"
)

// ExportBookInput contains parameters for the ExportBook operation.
type ExportBookInput struct {
	DraftID string
	Theme   string // empty uses the configured default
}

// ExportBook resolves a draft against the current library, renders it
// under the requested theme, and writes the final artifact through the
// exporter. The exporter is shared state: it owns the in-progress guard
// and the export directory.
func ExportBook(ctx context.Context, database *sql.DB, cfg *config.Config, exporter *book.Exporter, input ExportBookInput) (*book.ExportResult, error) {
	doc, th, err := resolveForRender(database, cfg, input.DraftID, input.Theme)
	if err != nil {
		return nil, err
	}
	return exporter.Export(ctx, doc, th)
}

// PreviewBookInput contains parameters for the PreviewBook operation.
type PreviewBookInput struct {
	DraftID string
	Theme   string
}

// PreviewBook renders a draft's current book PDF to w using the exact
// pipeline the export uses, minus the cover merge and the artifact
// write. A newer preview request supersedes this one.
func PreviewBook(database *sql.DB, cfg *config.Config, exporter *book.Exporter, w io.Writer, input PreviewBookInput) error {
	doc, th, err := resolveForRender(database, cfg, input.DraftID, input.Theme)
	if err != nil {
		return err
	}
	return exporter.RenderPreview(doc, th, w)
}

func resolveForRender(database *sql.DB, cfg *config.Config, draftID, themeID string) (*book.Document, theme.Theme, error) {
	id := strings.TrimSpace(draftID)
	if id == "" {
		return nil, theme.Theme{}, errors.NewInvalidRequest("draft id is required")
	}

	draft, err := db.GetDraftByID(database, id)
	if err != nil {
		return nil, theme.Theme{}, err
	}

	entries, err := db.AllEntries(database, false)
	if err != nil {
		return nil, theme.Theme{}, err
	}

	name := strings.TrimSpace(themeID)
	if name == "" {
		name = cfg.DefaultTheme
	}
	th := theme.Get(name)

	return book.Resolve(draft, entries), th, nil
}

// ThemesOutput contains the result of the Themes operation.
type ThemesOutput struct {
	Themes  []theme.Theme `json:"themes"`
	Default string        `json:"default"`
}

// Themes lists the built-in theme catalog.
func Themes(cfg *config.Config) *ThemesOutput {
	def := cfg.DefaultTheme
	if !theme.IsValid(def) {
		def = theme.DefaultID
	}
	return &ThemesOutput{Themes: theme.All(), Default: def}
}
