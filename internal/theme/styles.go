package theme

import (
	"strconv"
	"strings"
	"sync"
)

// RGB is a color in 0-255 channels, the form the PDF layer consumes.
type RGB struct {
	R, G, B int
}

// StyleSheet is the full set of derived measurements for a theme. All
// values are in points. Deriving everything here keeps the renderer free
// of magic ratios and guarantees the preview and the export agree.
type StyleSheet struct {
	// Page geometry
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// Text sizes
	TitleSize          float64
	BodySize           float64
	SubtitleSize       float64
	DateRangeSize      float64
	SectionTitleSize   float64
	EntryDateSize      float64
	PromptSize         float64
	ReflectionHeadSize float64
	ReflectionTextSize float64
	ClosingSize        float64
	LineHeight         float64
	HeaderSpacing      float64

	HeaderTransform Transform
	EntrySeparator  Separator
	Accent          RGB
}

// LinePt returns the baseline-to-baseline distance for text of the given
// size under this sheet's line height.
func (s StyleSheet) LinePt(size float64) float64 {
	return size * s.LineHeight
}

var (
	sheetMu    sync.Mutex
	sheetCache = map[string]StyleSheet{}
)

// Sheet returns the derived style sheet for a theme. Sheets are computed
// once per theme and cached; themes are immutable so the cache never
// invalidates.
func Sheet(t Theme) StyleSheet {
	sheetMu.Lock()
	defer sheetMu.Unlock()

	if s, ok := sheetCache[t.ID]; ok {
		return s
	}
	s := computeSheet(t)
	sheetCache[t.ID] = s
	return s
}

func computeSheet(t Theme) StyleSheet {
	st := t.Styles
	return StyleSheet{
		MarginTop:    st.PagePadding,
		MarginBottom: st.PagePadding,
		// Horizontal padding is deliberately tighter than vertical
		MarginLeft:  st.PagePadding * 0.8,
		MarginRight: st.PagePadding * 0.8,

		TitleSize:          st.TitleSize,
		BodySize:           st.BodySize,
		SubtitleSize:       st.BodySize,
		DateRangeSize:      st.BodySize * 1.2,
		SectionTitleSize:   st.BodySize * 1.4,
		EntryDateSize:      st.BodySize * 1.1,
		PromptSize:         st.BodySize * 0.9,
		ReflectionHeadSize: st.BodySize * 0.8,
		ReflectionTextSize: st.BodySize * 0.9,
		ClosingSize:        st.BodySize,
		LineHeight:         st.LineHeight,
		HeaderSpacing:      st.HeaderSpacing,

		HeaderTransform: st.HeaderTransform,
		EntrySeparator:  st.EntrySeparator,
		Accent:          ParseHexColor(st.AccentColor),
	}
}

// Apply applies the transform to heading text.
func (tr Transform) Apply(s string) string {
	switch tr {
	case TransformUppercase:
		return strings.ToUpper(s)
	case TransformCapitalize:
		return capitalizeWords(s)
	default:
		return s
	}
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// ParseHexColor parses a #rrggbb color. Malformed input yields black,
// which matches the default accent.
func ParseHexColor(hex string) RGB {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return RGB{}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}
	}
	return RGB{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}
}
