package book

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/theme"
)

// PDF metadata stamped on every rendered book.
const (
	pdfAuthor  = "Growth Book User"
	pdfCreator = "Growth Book"
)

// Renderer draws a resolved document as a paginated PDF. The zero value
// renders without a cover logo.
type Renderer struct {
	// LogoPath is the PNG drawn on the cover page. A missing or
	// unreadable file degrades to blank space, never an error.
	LogoPath string
}

// Render draws the document under the given theme and writes the PDF to
// w. Rendering is deterministic: the same document and theme always
// produce page-identical output.
func (r *Renderer) Render(w io.Writer, doc *Document, th theme.Theme) error {
	pdf := r.draw(doc, th)
	if err := pdf.Output(w); err != nil {
		return errors.NewExportFailed(fmt.Errorf("pdf serialization: %w", err))
	}
	return nil
}

// RenderPageCount draws the document without serializing it and reports
// how many pages it produces under the theme.
func (r *Renderer) RenderPageCount(doc *Document, th theme.Theme) (int, error) {
	pdf := r.draw(doc, th)
	if err := pdf.Error(); err != nil {
		return 0, errors.NewExportFailed(err)
	}
	return pdf.PageCount(), nil
}

func (r *Renderer) draw(doc *Document, th theme.Theme) *fpdf.Fpdf {
	layout := Plan(doc, th)
	sheet := theme.Sheet(th)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(sheet.MarginLeft, sheet.MarginTop, sheet.MarginRight)
	pdf.SetAutoPageBreak(true, sheet.MarginBottom)

	pdf.SetTitle(doc.Draft.Title, true)
	pdf.SetAuthor(pdfAuthor, true)
	pdf.SetCreator(pdfCreator, true)
	pdf.SetProducer(pdfCreator, true)

	d := &drawer{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		sheet:      sheet,
		bodyFont:   coreFont(th.Fonts.Body),
		headerFont: coreFont(th.Fonts.Header),
		width:      PageWidth - sheet.MarginLeft - sheet.MarginRight,
	}

	d.cover(layout.Cover, r.LogoPath)
	if layout.Preface != nil {
		d.preface(*layout.Preface)
	}
	if len(layout.Entries) > 0 {
		d.entryFlow(layout.Entries)
	}
	d.closing(layout.Closing)

	return pdf
}

// coreFont maps a theme typeface to a built-in PDF font family. Serif
// faces map to Times, everything else to Helvetica, mirroring how the
// screen preview substitutes system fonts.
func coreFont(family string) string {
	switch family {
	case "Crimson Text", "Lora":
		return "Times"
	default:
		return "Helvetica"
	}
}

// drawer carries the per-render drawing state.
type drawer struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	sheet      theme.StyleSheet
	bodyFont   string
	headerFont string
	width      float64
}

const (
	logoSize      = 120
	coverLogoGap  = 32
	coverTitleGap = 24
	coverRangeGap = 48
)

func (d *drawer) cover(c CoverBlock, logoPath string) {
	d.pdf.AddPage()

	y := PageHeight * 0.22
	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			d.pdf.ImageOptions(logoPath, (PageWidth-logoSize)/2, y, logoSize, logoSize,
				false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
		// Reserve the logo slot whether or not the file existed so the
		// cover geometry stays stable
		y += logoSize + coverLogoGap
	}

	d.pdf.SetY(y)
	d.pdf.SetFont(d.headerFont, "B", d.sheet.TitleSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.TitleSize), d.tr(c.Title), "", "C", false)
	d.pdf.Ln(coverTitleGap)

	d.pdf.SetFont(d.bodyFont, "I", d.sheet.DateRangeSize)
	d.pdf.SetTextColor(0x66, 0x66, 0x66)
	d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.DateRangeSize), d.tr(c.DateRange), "", "C", false)

	// Subtitle pinned near the bottom edge
	d.pdf.SetY(-(d.sheet.MarginBottom + coverTitleGap))
	d.pdf.SetFont(d.bodyFont, "", d.sheet.SubtitleSize)
	d.pdf.CellFormat(d.width, d.sheet.LinePt(d.sheet.SubtitleSize), d.tr(c.Subtitle), "", 0, "C", false, 0, "")
}

func (d *drawer) preface(p PrefaceBlock) {
	d.pdf.AddPage()
	d.pdf.SetY(PageHeight * 0.3)

	d.pdf.SetFont(d.headerFont, "B", d.sheet.SectionTitleSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.SectionTitleSize), d.tr(p.Heading), "", "C", false)

	// Accent rule under the heading
	y := d.pdf.GetY() + 8
	d.pdf.SetDrawColor(d.sheet.Accent.R, d.sheet.Accent.G, d.sheet.Accent.B)
	d.pdf.SetLineWidth(1)
	d.pdf.Line(d.sheet.MarginLeft, y, PageWidth-d.sheet.MarginRight, y)
	d.pdf.SetY(y + coverTitleGap)

	// Intent text is inset and airier than body copy
	const inset = 30
	d.pdf.SetLeftMargin(d.sheet.MarginLeft + inset)
	d.pdf.SetX(d.sheet.MarginLeft + inset)
	d.pdf.SetFont(d.bodyFont, "I", d.sheet.BodySize)
	d.pdf.MultiCell(d.width-2*inset, d.sheet.BodySize*1.8, d.tr(p.Text), "", "J", false)
	d.pdf.SetLeftMargin(d.sheet.MarginLeft)
}

func (d *drawer) entryFlow(blocks []EntryBlock) {
	d.pdf.AddPage()

	for i := range blocks {
		d.entry(&blocks[i])
	}
}

func (d *drawer) entry(b *EntryBlock) {
	d.pdf.SetFont(d.headerFont, "B", d.sheet.EntryDateSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.EntryDateSize), d.tr(b.DateHeading), "", "L", false)
	d.pdf.Ln(8)

	if b.Prompt != "" {
		d.pdf.SetFont(d.bodyFont, "I", d.sheet.PromptSize)
		d.pdf.SetTextColor(0x44, 0x44, 0x44)
		d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.PromptSize), d.tr(b.Prompt), "", "L", false)
		d.pdf.Ln(8)
	}

	if b.Content != "" {
		d.pdf.SetFont(d.bodyFont, "", d.sheet.BodySize)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.BodySize), d.tr(b.Content), "", "J", false)
		d.pdf.Ln(12)
	}

	if b.Reflection != nil {
		d.reflection(b.Reflection)
	}

	if b.Separator {
		d.pdf.Ln(12)
		y := d.pdf.GetY()
		d.pdf.SetDrawColor(0xdd, 0xdd, 0xdd)
		d.pdf.SetLineWidth(0.5)
		d.pdf.Line(d.sheet.MarginLeft, y, PageWidth-d.sheet.MarginRight, y)
	}

	d.pdf.Ln(d.sheet.HeaderSpacing)
}

func (d *drawer) reflection(r *ReflectionBlock) {
	// Rule above the block
	d.pdf.Ln(8)
	y := d.pdf.GetY()
	d.pdf.SetDrawColor(0xee, 0xee, 0xee)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(d.sheet.MarginLeft, y, PageWidth-d.sheet.MarginRight, y)
	d.pdf.Ln(8)

	d.pdf.SetFont(d.headerFont, "B", d.sheet.ReflectionHeadSize)
	d.pdf.SetTextColor(0x66, 0x66, 0x66)
	d.pdf.CellFormat(d.width, d.sheet.LinePt(d.sheet.ReflectionHeadSize),
		d.tr(theme.TransformUppercase.Apply(r.Title)), "", 1, "L", false, 0, "")
	d.pdf.Ln(4)

	for _, item := range r.Items {
		d.pdf.SetFont(d.bodyFont, "I", d.sheet.ReflectionTextSize)
		d.pdf.SetTextColor(0x44, 0x44, 0x44)
		d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.ReflectionTextSize), d.tr(item.Question), "", "L", false)
		d.pdf.Ln(2)

		d.pdf.SetFont(d.bodyFont, "", d.sheet.ReflectionTextSize)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.MultiCell(d.width, d.sheet.LinePt(d.sheet.ReflectionTextSize), d.tr(item.Answer), "", "L", false)
		d.pdf.Ln(6)
	}
}

func (d *drawer) closing(text string) {
	d.pdf.AddPage()
	d.pdf.SetY(PageHeight / 2)
	d.pdf.SetFont(d.bodyFont, "I", d.sheet.ClosingSize)
	d.pdf.SetTextColor(0x88, 0x88, 0x88)
	d.pdf.CellFormat(d.width, d.sheet.LinePt(d.sheet.ClosingSize), d.tr(text), "", 0, "C", false, 0, "")
}
