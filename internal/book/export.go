package book

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/journal"
	"github.com/jordanwest/growthbook/internal/theme"
)

// Filename builds the deterministic export filename:
// growth-book-<title-slug>-<theme>-<start>_<end>.pdf. The same draft
// state and theme always yield the same name, so re-exports overwrite
// rather than accumulate.
func Filename(title, themeID, startDate, endDate string) string {
	slug := journal.Slugify(title)
	if slug == "" {
		slug = "journal"
	}
	start := filenameDate(startDate, "start")
	end := filenameDate(endDate, "end")
	return fmt.Sprintf("growth-book-%s-%s-%s_%s.pdf", slug, themeID, start, end)
}

// filenameDate normalizes a resolved range date for the filename.
// Anything that does not parse as a calendar date collapses to the
// placeholder, so malformed criteria never leak into the name.
func filenameDate(date, placeholder string) string {
	t, err := journal.ParseDate(date)
	if err != nil {
		return placeholder
	}
	return t.Format(journal.DateLayout)
}

var pdfcpuSetup sync.Once

func mergeConfig() *model.Configuration {
	pdfcpuSetup.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`

	// CoverAttached reports whether the pre-made cover was prepended.
	// Exports succeed without it.
	CoverAttached bool  `json:"cover_attached"`
	ExportedAt    int64 `json:"exported_at"`
}

// Exporter produces final book artifacts: rendered content, optionally
// prefixed by a pre-made cover document, written atomically into the
// export directory. An Exporter is safe for concurrent use; only one
// export runs at a time and concurrent triggers get a conflict error.
type Exporter struct {
	Renderer *Renderer

	// CoverSource is a local path or http(s) URL to the pre-made cover
	// PDF. Empty or unreachable sources degrade to a cover-less export.
	CoverSource string

	// ExportDir is where final artifacts land.
	ExportDir string

	// Client fetches URL cover sources. Nil means a default client with
	// a short timeout; the fetch is attempted exactly once per export.
	Client *http.Client

	inFlight atomic.Bool
	gen      atomic.Uint64
}

// Export renders the document, attaches the cover when available, and
// writes the artifact. Returns a conflict error when another export is
// already running.
func (x *Exporter) Export(ctx context.Context, doc *Document, th theme.Theme) (*ExportResult, error) {
	if !x.inFlight.CompareAndSwap(false, true) {
		return nil, errors.NewConflict("an export is already in progress")
	}
	defer x.inFlight.Store(false)

	var content bytes.Buffer
	if err := x.Renderer.Render(&content, doc, th); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	pages, err := countPages(content.Bytes())
	if err != nil {
		return nil, errors.NewExportFailed(fmt.Errorf("rendered content unreadable: %w", err))
	}

	final := content.Bytes()
	coverAttached := false
	if cover := x.fetchCover(ctx); cover != nil {
		merged, coverPages, err := prependCover(cover, content.Bytes())
		if err != nil {
			// A bad cover file must not sink the export
			log.Printf("warning: cover merge failed, exporting without cover: %v", err)
		} else {
			final = merged
			pages += coverPages
			coverAttached = true
		}
	}

	name := Filename(doc.Draft.Title, th.ID, doc.StartDate, doc.EndDate)
	path := filepath.Join(x.ExportDir, name)
	if err := writeFileAtomic(path, final); err != nil {
		return nil, err
	}

	return &ExportResult{
		Path:          path,
		Filename:      name,
		Pages:         pages,
		CoverAttached: coverAttached,
		ExportedAt:    time.Now().Unix(),
	}, nil
}

// RenderPreview renders the document for the live preview surface.
// Each call supersedes any in-flight preview render: when a newer call
// arrives before this one finishes, the stale result is discarded and a
// cancelled error returned instead.
func (x *Exporter) RenderPreview(doc *Document, th theme.Theme, w io.Writer) error {
	token := x.gen.Add(1)

	var buf bytes.Buffer
	if err := x.Renderer.Render(&buf, doc, th); err != nil {
		return err
	}

	if x.gen.Load() != token {
		return errors.NewCancelled("preview render")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// fetchCover loads the cover PDF from a file path or URL. Any failure is
// logged and reported as a nil cover; it is attempted once, with no
// retries, so a dead URL delays the export by at most one timeout.
func (x *Exporter) fetchCover(ctx context.Context) []byte {
	src := x.CoverSource
	if src == "" {
		return nil
	}

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		client := x.Client
		if client == nil {
			client = &http.Client{Timeout: 10 * time.Second}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			log.Printf("warning: cover request invalid, exporting without cover: %v", err)
			return nil
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Printf("warning: cover fetch failed, exporting without cover: %v", err)
			return nil
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			log.Printf("warning: cover fetch returned %s, exporting without cover", resp.Status)
			return nil
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			log.Printf("warning: cover read failed, exporting without cover: %v", err)
			return nil
		}
		return data
	}

	data, err := os.ReadFile(src)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: cover read failed, exporting without cover: %v", err)
		}
		return nil
	}
	return data
}

// prependCover merges the cover document in front of the content and
// returns the merged bytes plus the cover's page count.
func prependCover(cover, content []byte) ([]byte, int, error) {
	conf := mergeConfig()

	coverPages, err := countPages(cover)
	if err != nil {
		return nil, 0, fmt.Errorf("cover unreadable: %w", err)
	}

	var merged bytes.Buffer
	readers := []io.ReadSeeker{bytes.NewReader(cover), bytes.NewReader(content)}
	if err := api.MergeRaw(readers, &merged, false, conf); err != nil {
		return nil, 0, err
	}
	return merged.Bytes(), coverPages, nil
}

func countPages(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), mergeConfig())
}

// writeFileAtomic writes via a temp file in the same directory followed
// by a rename, so a failed export never clobbers a previous artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}
