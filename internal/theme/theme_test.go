package theme

import "testing"

func TestGet_KnownThemes(t *testing.T) {
	tests := []struct {
		id       string
		wantName string
	}{
		{"minimal", "Minimal Calm"},
		{"classic", "Classic Book"},
		{"modern", "Modern Editorial"},
		{"nature", "Nature Notes"},
	}

	for _, tt := range tests {
		got := Get(tt.id)
		if got.ID != tt.id {
			t.Errorf("Get(%q).ID = %q", tt.id, got.ID)
		}
		if got.Name != tt.wantName {
			t.Errorf("Get(%q).Name = %q, want %q", tt.id, got.Name, tt.wantName)
		}
	}
}

func TestGet_UnknownFallsBackToDefault(t *testing.T) {
	for _, id := range []string{"", "vaporwave", "MINIMAL"} {
		got := Get(id)
		if got.ID != DefaultID {
			t.Errorf("Get(%q).ID = %q, want %q", id, got.ID, DefaultID)
		}
	}
}

func TestAll_StableOrderAndIsolation(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("len(All()) = %d, want 4", len(all))
	}
	wantOrder := []string{"minimal", "classic", "modern", "nature"}
	for i, want := range wantOrder {
		if all[i].ID != want {
			t.Errorf("All()[%d].ID = %q, want %q", i, all[i].ID, want)
		}
	}

	// Mutating the returned slice must not touch the catalog
	all[0].Name = "tampered"
	if Get("minimal").Name == "tampered" {
		t.Error("All() returned a slice aliasing the catalog")
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("classic") {
		t.Error("IsValid(classic) = false")
	}
	if IsValid("gothic") {
		t.Error("IsValid(gothic) = true")
	}
}

func TestSheet_DerivedSizes(t *testing.T) {
	th := Get("classic")
	s := Sheet(th)

	if s.MarginTop != 45 || s.MarginBottom != 45 {
		t.Errorf("vertical margins = %v/%v, want 45", s.MarginTop, s.MarginBottom)
	}
	if s.MarginLeft != 36 || s.MarginRight != 36 {
		t.Errorf("horizontal margins = %v/%v, want 36 (0.8 of padding)", s.MarginLeft, s.MarginRight)
	}
	if s.SectionTitleSize != 11*1.4 {
		t.Errorf("SectionTitleSize = %v, want %v", s.SectionTitleSize, 11*1.4)
	}
	if s.EntryDateSize != 11*1.1 {
		t.Errorf("EntryDateSize = %v, want %v", s.EntryDateSize, 11*1.1)
	}
	if s.ReflectionHeadSize != 11*0.8 {
		t.Errorf("ReflectionHeadSize = %v, want %v", s.ReflectionHeadSize, 11*0.8)
	}
	if s.Accent != (RGB{0x33, 0x33, 0x33}) {
		t.Errorf("Accent = %+v, want #333333", s.Accent)
	}
}

func TestSheet_Cached(t *testing.T) {
	a := Sheet(Get("nature"))
	b := Sheet(Get("nature"))
	if a != b {
		t.Error("Sheet() not stable across calls for the same theme")
	}
}

func TestLinePt(t *testing.T) {
	s := Sheet(Get("minimal"))
	if got := s.LinePt(10); got != 16 {
		t.Errorf("LinePt(10) = %v, want 16 (lineHeight 1.6)", got)
	}
}

func TestTransformApply(t *testing.T) {
	tests := []struct {
		tr   Transform
		in   string
		want string
	}{
		{TransformNone, "my journal", "my journal"},
		{TransformUppercase, "my journal", "MY JOURNAL"},
		{TransformCapitalize, "my journal title", "My Journal Title"},
		{TransformCapitalize, "", ""},
	}
	for _, tt := range tests {
		if got := tt.tr.Apply(tt.in); got != tt.want {
			t.Errorf("%q.Apply(%q) = %q, want %q", tt.tr, tt.in, got, tt.want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#000000", RGB{0, 0, 0}},
		{"#5c5c5c", RGB{0x5c, 0x5c, 0x5c}},
		{"#ff8001", RGB{255, 128, 1}},
		{"nonsense", RGB{}},
		{"#fff", RGB{}},
	}
	for _, tt := range tests {
		if got := ParseHexColor(tt.in); got != tt.want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
