package theme

// DefaultID is the theme used when no theme is requested or the
// requested name is unknown.
const DefaultID = "minimal"

// Transform controls heading case.
type Transform string

const (
	TransformNone       Transform = "none"
	TransformUppercase  Transform = "uppercase"
	TransformCapitalize Transform = "capitalize"
)

// Separator controls how consecutive entries are divided on a page.
type Separator string

const (
	SeparatorLine       Separator = "line"
	SeparatorNone       Separator = "none"
	SeparatorWhitespace Separator = "whitespace"
)

// Fonts names the typefaces a theme uses. Body and header may differ.
type Fonts struct {
	Body   string `json:"body"`
	Header string `json:"header"`
}

// Styles holds the base layout parameters of a theme. Every derived
// measurement (heading sizes, margins, spacing) is computed from these,
// so two renders with the same Styles produce identical geometry.
type Styles struct {
	PagePadding     float64   `json:"page_padding"`
	TitleSize       float64   `json:"title_size"`
	BodySize        float64   `json:"body_size"`
	LineHeight      float64   `json:"line_height"`
	HeaderTransform Transform `json:"header_transform"`
	HeaderSpacing   float64   `json:"header_spacing"`
	AccentColor     string    `json:"accent_color"`
	EntrySeparator  Separator `json:"entry_separator"`
}

// Theme is one visual identity for a rendered book.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Fonts       Fonts  `json:"fonts"`
	Styles      Styles `json:"styles"`
}

// catalog is the fixed set of built-in themes. Themes are static data;
// there is no registration or user-defined theme mechanism.
var catalog = []Theme{
	{
		ID:          "minimal",
		Name:        "Minimal Calm",
		Description: "Clean, spacious, and breathable.",
		Fonts:       Fonts{Body: "Open Sans", Header: "Open Sans"},
		Styles: Styles{
			PagePadding:     50,
			TitleSize:       22,
			BodySize:        10,
			LineHeight:      1.6,
			HeaderTransform: TransformNone,
			HeaderSpacing:   25,
			AccentColor:     "#000000",
			EntrySeparator:  SeparatorWhitespace,
		},
	},
	{
		ID:          "classic",
		Name:        "Classic Book",
		Description: "Traditional literary aesthetic.",
		Fonts:       Fonts{Body: "Crimson Text", Header: "Crimson Text"},
		Styles: Styles{
			PagePadding:     45,
			TitleSize:       26,
			BodySize:        11,
			LineHeight:      1.5,
			HeaderTransform: TransformCapitalize,
			HeaderSpacing:   20,
			AccentColor:     "#333333",
			EntrySeparator:  SeparatorLine,
		},
	},
	{
		ID:          "modern",
		Name:        "Modern Editorial",
		Description: "Contemporary look with distinct headers.",
		Fonts:       Fonts{Body: "Open Sans", Header: "Montserrat"},
		Styles: Styles{
			PagePadding:     40,
			TitleSize:       28,
			BodySize:        10,
			LineHeight:      1.5,
			HeaderTransform: TransformUppercase,
			HeaderSpacing:   30,
			AccentColor:     "#000000",
			EntrySeparator:  SeparatorLine,
		},
	},
	{
		ID:          "nature",
		Name:        "Nature Notes",
		Description: "Gentle and organic.",
		Fonts:       Fonts{Body: "Lora", Header: "Lora"},
		Styles: Styles{
			PagePadding:     55,
			TitleSize:       24,
			BodySize:        11,
			LineHeight:      1.7,
			HeaderTransform: TransformNone,
			HeaderSpacing:   25,
			AccentColor:     "#5c5c5c",
			EntrySeparator:  SeparatorWhitespace,
		},
	},
}

// Get resolves a theme name. Unknown or empty names fall back to the
// default theme rather than erroring; theme choice never fails a render.
func Get(id string) Theme {
	for _, t := range catalog {
		if t.ID == id {
			return t
		}
	}
	return Get(DefaultID)
}

// All returns the catalog in its stable display order.
func All() []Theme {
	out := make([]Theme, len(catalog))
	copy(out, catalog)
	return out
}

// IsValid reports whether id names a built-in theme.
func IsValid(id string) bool {
	for _, t := range catalog {
		if t.ID == id {
			return true
		}
	}
	return false
}
