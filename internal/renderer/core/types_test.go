package core

import (
	"testing"
)

func TestColorDefault(t *testing.T) {
	c := ColorDefault
	if !c.IsDefault() {
		t.Error("ColorDefault should be default")
	}
}

func TestColorFromIndex(t *testing.T) {
	c := ColorFromIndex(4)

	if c.R != 4 {
		t.Errorf("expected index 4, got %d", c.R)
	}
	if !c.Indexed {
		t.Error("indexed color should have Indexed true")
	}
	if c.IsDefault() {
		t.Error("indexed color should not be default")
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
		wantErr bool
	}{
		{"#FF8040", 255, 128, 64, false},
		{"#ff8040", 255, 128, 64, false},
		{"#FFF", 255, 255, 255, false},
		{"#000", 0, 0, 0, false},
		{"invalid", 0, 0, 0, true},
		{"#GGGGGG", 0, 0, 0, true},
	}

	for _, tt := range tests {
		c, err := ColorFromHex(tt.hex)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q) expected error", tt.hex)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q) unexpected error: %v", tt.hex, err)
			continue
		}
		if c.R != tt.r || c.G != tt.g || c.B != tt.b {
			t.Errorf("ColorFromHex(%q) = %v, expected (%d, %d, %d)", tt.hex, c, tt.r, tt.g, tt.b)
		}
		if c.Indexed {
			t.Errorf("ColorFromHex(%q) should not be indexed", tt.hex)
		}
	}
}

func TestColorEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Color
		want bool
	}{
		{"defaults", ColorDefault, ColorDefault, true},
		{"same index", ColorBlue, ColorFromIndex(4), true},
		{"different index", ColorBlue, ColorGreen, false},
		{"indexed vs rgb", ColorFromIndex(0), ColorFromRGB(0, 0, 0), false},
		{"same rgb", ColorFromRGB(1, 2, 3), ColorFromRGB(1, 2, 3), true},
		{"default vs black", ColorDefault, ColorBlack, false},
	}

	for _, tt := range tests {
		if got := tt.a.Equals(tt.b); got != tt.want {
			t.Errorf("%s: Equals = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if s := ColorDefault.String(); s != "default" {
		t.Errorf("expected 'default', got %q", s)
	}
	if s := ColorFromIndex(2).String(); s != "idx(2)" {
		t.Errorf("expected 'idx(2)', got %q", s)
	}
	if s := ColorFromRGB(255, 0, 16).String(); s != "#FF0010" {
		t.Errorf("expected '#FF0010', got %q", s)
	}
}

func TestStyleBuilders(t *testing.T) {
	s := DefaultStyle()
	if !s.IsDefault() {
		t.Error("DefaultStyle should be default")
	}

	s = s.WithForeground(ColorBlack).WithBackground(ColorBlue)
	if !s.Foreground.Equals(ColorBlack) || !s.Background.Equals(ColorBlue) {
		t.Errorf("unexpected style colors: %+v", s)
	}
	if s.IsDefault() {
		t.Error("colored style should not be default")
	}

	b := s.Bold()
	if !b.Attributes.Has(AttrBold) {
		t.Error("Bold should set AttrBold")
	}
	if s.Attributes.Has(AttrBold) {
		t.Error("Bold should not modify the receiver")
	}
	if b.Equals(s) {
		t.Error("bold style should differ from plain style")
	}
}

func TestNewStyledCell(t *testing.T) {
	style := NewStyle(ColorBlack, ColorGreen)
	c := NewStyledCell('#', style)

	if c.Rune != '#' || c.Width != 1 {
		t.Errorf("unexpected cell: %+v", c)
	}
	if !c.Equals(NewStyledCell('#', style)) {
		t.Error("identical cells should be equal")
	}
	if c.Equals(EmptyCell()) {
		t.Error("styled cell should differ from empty cell")
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{' ', 1},
		{'#', 1},
		{'漢', 2},
	}

	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5)

	if r.Width() != 5 || r.Height() != 4 {
		t.Errorf("expected 5x4, got %dx%d", r.Width(), r.Height())
	}
	if !r.Contains(3, 2) {
		t.Error("top-left corner should be contained")
	}
	if r.Contains(8, 2) {
		t.Error("right edge is exclusive")
	}
	if r.Contains(3, 6) {
		t.Error("bottom edge is exclusive")
	}

	inverted := ScreenRect{Top: 5, Left: 5, Bottom: 1, Right: 1}
	if inverted.Width() != 0 || inverted.Height() != 0 {
		t.Error("inverted rect should have zero size")
	}
}
