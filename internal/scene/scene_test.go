package scene

import (
	"testing"

	"github.com/dshills/termirain/internal/rain"
	"github.com/dshills/termirain/internal/renderer/backend"
	"github.com/dshills/termirain/internal/renderer/core"
)

func newTestScene(t *testing.T, width, height, decorationRows int) (*Scene, *backend.NullBackend, *Asset) {
	t.Helper()

	asset, err := LoadAsset()
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}
	geom, err := rain.ComputeGeometry(width, height, decorationRows)
	if err != nil {
		t.Fatalf("ComputeGeometry failed: %v", err)
	}

	b := backend.NewNullBackend(width, height)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return New(b, geom, asset.Palette), b, asset
}

func TestRegionLocalCoordinates(t *testing.T) {
	b := backend.NewNullBackend(10, 10)
	b.Init()
	r := NewRegion(b, core.RectFromSize(6, 0, 4, 10))

	style := core.NewStyle(core.ColorBlack, core.ColorGreen)
	r.SetCell(0, 3, 'x', style)

	if got := b.GetCell(3, 6); got.Rune != 'x' || !got.Style.Equals(style) {
		t.Errorf("expected 'x' at screen (3,6), got %+v", got)
	}
	if got := r.Cell(0, 3); got.Rune != 'x' {
		t.Errorf("Cell(0,3) = %q, want 'x'", got.Rune)
	}

	w, h := r.Size()
	if w != 10 || h != 4 {
		t.Errorf("Size = (%d, %d), want (10, 4)", w, h)
	}
}

func TestRegionClipsOutOfBounds(t *testing.T) {
	b := backend.NewNullBackend(10, 10)
	b.Init()
	sky := NewRegion(b, core.RectFromSize(0, 0, 6, 10))

	style := core.NewStyle(core.ColorBlack, core.ColorBlue)

	// One past the right edge, below the region, negative: all dropped.
	sky.SetCell(0, 10, ' ', style)
	sky.SetCell(6, 0, ' ', style)
	sky.SetCell(-1, 0, ' ', style)
	sky.SetCell(0, -1, ' ', style)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := b.GetCell(x, y); got.Style.Equals(style) {
				t.Fatalf("clipped write leaked to screen (%d,%d)", x, y)
			}
		}
	}

	if got := sky.Cell(0, 10); !got.Equals(core.EmptyCell()) {
		t.Error("Cell outside region should be empty")
	}
}

func TestRegionFlushShows(t *testing.T) {
	b := backend.NewNullBackend(4, 4)
	b.Init()
	r := NewRegion(b, core.RectFromSize(0, 0, 4, 4))

	r.Flush()
	if b.ShowCount() != 1 {
		t.Errorf("expected 1 show, got %d", b.ShowCount())
	}
}

func TestScenePaintWithoutHouse(t *testing.T) {
	s, b, asset := newTestScene(t, 20, 10, 0)
	s.Paint(nil)

	sky := asset.Palette.Style(StyleSky)
	grass := asset.Palette.Style(StyleGrass)

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			got := b.GetCell(x, y).Style
			want := sky
			if y >= 7 {
				want = grass
			}
			if !got.Equals(want) {
				t.Fatalf("cell (%d,%d) style %+v, want %+v", x, y, got, want)
			}
		}
	}

	if b.ShowCount() != 1 {
		t.Errorf("Paint should flush once, got %d", b.ShowCount())
	}
}

func TestScenePaintWithHouse(t *testing.T) {
	s, b, asset := newTestScene(t, 40, 20, 5)
	house, err := asset.House(DefaultHouse)
	if err != nil {
		t.Fatalf("House failed: %v", err)
	}
	s.Paint(house)

	roof := asset.Palette.Style(StyleRoof)
	wall := asset.Palette.Style(StyleWall)
	grass := asset.Palette.Style(StyleGrass)
	sky := asset.Palette.Style(StyleSky)

	// Sky is 12 rows; the house sits on ground rows 0..4 starting at col 10.
	groundTop := 12
	left := 10

	// Roof peak: "     RR     "
	if got := b.GetCell(left+5, groundTop).Style; !got.Equals(roof) {
		t.Errorf("roof peak style %+v, want roof", got)
	}
	// Transparent cell next to the peak keeps the grass
	if got := b.GetCell(left, groundTop).Style; !got.Equals(grass) {
		t.Errorf("transparent cell style %+v, want grass", got)
	}
	// Window on row 3: "  WoWWWWoW  "
	if got := b.GetCell(left+3, groundTop+3).Style; !got.Equals(sky) {
		t.Errorf("window style %+v, want sky", got)
	}
	if got := b.GetCell(left+2, groundTop+3).Style; !got.Equals(wall) {
		t.Errorf("wall style %+v, want wall", got)
	}
	// Door glyph on row 4: "  WWWW|WWW  "
	if got := b.GetCell(left+6, groundTop+4); got.Rune != '|' || !got.Style.Equals(wall) {
		t.Errorf("door cell %+v, want '|' in wall style", got)
	}
	// Base grass rows stay untouched
	for y := groundTop + 5; y < 20; y++ {
		if got := b.GetCell(left+5, y).Style; !got.Equals(grass) {
			t.Errorf("grass row %d style %+v, want grass", y, got)
		}
	}
	// Sky above the ground is unaffected by the house
	if got := b.GetCell(left+5, groundTop-1).Style; !got.Equals(sky) {
		t.Errorf("sky row style %+v, want sky", got)
	}
}

func TestScenePaintHouseWiderThanScreenIsClipped(t *testing.T) {
	s, b, asset := newTestScene(t, 8, 12, 5)
	house, _ := asset.House(DefaultHouse)

	// Must not panic; columns past the edge are dropped.
	s.Paint(house)

	if got := b.GetCell(7, 6).Style; !got.Equals(asset.Palette.Style(StyleRoof)) {
		t.Errorf("visible part of the roof should be painted, got %+v", got)
	}
}

func TestSceneFieldStyles(t *testing.T) {
	s, _, asset := newTestScene(t, 20, 10, 0)
	styles := s.FieldStyles()

	if !styles.Rain.Equals(asset.Palette.Style(StyleRain)) {
		t.Error("rain style should come from the palette")
	}
	if !styles.Sky.Equals(asset.Palette.Style(StyleSky)) {
		t.Error("erase style should be the sky style")
	}
	if s.Geometry().SkyHeight != 7 {
		t.Errorf("SkyHeight = %d, want 7", s.Geometry().SkyHeight)
	}
}

func TestSceneRegionsPartitionScreen(t *testing.T) {
	s, _, _ := newTestScene(t, 30, 30, 3)

	sky, ground := s.Sky.Rect(), s.Ground.Rect()
	if sky.Bottom != ground.Top {
		t.Errorf("sky bottom %d should meet ground top %d", sky.Bottom, ground.Top)
	}
	if sky.Height()+ground.Height() != 30 {
		t.Errorf("regions cover %d rows, want 30", sky.Height()+ground.Height())
	}
	if ground.Height() != 6 {
		t.Errorf("ground height = %d, want 6", ground.Height())
	}
}

func TestDropFieldDrawsIntoSky(t *testing.T) {
	s, b, _ := newTestScene(t, 20, 10, 0)
	s.Paint(nil)

	rng := rain.NewRandomizer()
	rng.Seed(11)
	field := rain.NewField(rain.DefaultDropCount, s.FieldStyles())
	if err := field.Initialize(rng, s.Geometry()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for i := 0; i < 15; i++ {
		if err := field.Tick(s.Sky); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		s.Sky.Flush()
	}

	// Rain never reaches the ground rows.
	rainStyle := s.FieldStyles().Rain
	for y := 7; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if b.GetCell(x, y).Style.Equals(rainStyle) {
				t.Fatalf("rain leaked into ground at (%d,%d)", x, y)
			}
		}
	}
}
