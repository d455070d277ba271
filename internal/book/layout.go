package book

import (
	"github.com/jordanwest/growthbook/internal/journal"
	"github.com/jordanwest/growthbook/internal/theme"
)

// Page dimensions in points (6in x 9in).
const (
	PageWidth  = 432
	PageHeight = 648
)

// Fixed copy used across every theme.
const (
	coverSubtitle  = "A Personal Record"
	prefaceHeading = "Preface"
	closingText    = "End of Volume I"
)

// CoverBlock is the generated title page.
type CoverBlock struct {
	Title     string
	DateRange string
	Subtitle  string
}

// PrefaceBlock is the optional intent page.
type PrefaceBlock struct {
	Heading string
	Text    string
}

// ReflectionBlock is an entry's structured question/answer section.
type ReflectionBlock struct {
	Mode  journal.ReflectionMode
	Title string
	Items []journal.ReflectionItem
}

// EntryBlock is one entry in the flow: date heading, optional prompt,
// body text, optional reflection. Blocks may break across pages; the
// draw pass never forces an entry to start on a fresh page.
type EntryBlock struct {
	DateHeading string
	Prompt      string // empty for free writes, heading-transformed otherwise
	Content     string
	Reflection  *ReflectionBlock
	Separator   bool // draw a rule after this block
}

// Layout is the complete logical plan for a book: which pages exist and
// what each carries, before any PDF geometry is computed. It is pure
// data, cheap to build and to assert on.
type Layout struct {
	Cover   CoverBlock
	Preface *PrefaceBlock // nil when the draft has no intent
	Entries []EntryBlock  // empty means no entry flow pages at all
	Closing string
}

// Plan computes the logical layout of a document under a theme. The
// heading transform is applied here so the draw pass and any HTML
// preview agree on the exact strings.
func Plan(doc *Document, th theme.Theme) *Layout {
	sheet := theme.Sheet(th)

	l := &Layout{
		Cover: CoverBlock{
			Title:     sheet.HeaderTransform.Apply(doc.Draft.Title),
			DateRange: doc.DateRangeLabel(),
			Subtitle:  coverSubtitle,
		},
		Closing: closingText,
	}

	if doc.Draft.Intent != "" {
		l.Preface = &PrefaceBlock{
			Heading: sheet.HeaderTransform.Apply(prefaceHeading),
			Text:    doc.Draft.Intent,
		}
	}

	drawRule := sheet.EntrySeparator == theme.SeparatorLine
	for i := range doc.Entries {
		e := &doc.Entries[i]

		block := EntryBlock{
			DateHeading: sheet.HeaderTransform.Apply(journal.FormatHeading(e.Date)),
			Content:     e.Content,
			Separator:   drawRule,
		}
		if e.Prompt != journal.FreeWritePrompt {
			block.Prompt = e.Prompt
		}
		if e.Reflection != nil {
			if items := e.Reflection.Items(); len(items) > 0 {
				block.Reflection = &ReflectionBlock{
					Mode:  e.Reflection.Mode(),
					Title: e.Reflection.Title(),
					Items: items,
				}
			}
		}
		l.Entries = append(l.Entries, block)
	}

	return l
}

// PageEstimate returns the minimum number of pages this layout produces:
// cover, optional preface, at least one flow page when entries exist,
// and the closing page. The draw pass may add flow pages as content
// overflows but never removes any of these.
func (l *Layout) PageEstimate() int {
	n := 2 // cover + closing
	if l.Preface != nil {
		n++
	}
	if len(l.Entries) > 0 {
		n++
	}
	return n
}
