// Package scene renders the static landscape and exposes the sky and
// ground regions the rain animation draws into.
package scene

import (
	"github.com/dshills/termirain/internal/rain"
	"github.com/dshills/termirain/internal/renderer/backend"
	"github.com/dshills/termirain/internal/renderer/core"
)

// Surface is an addressable, flushable region of the display.
type Surface interface {
	// SetCell writes one cell. Out-of-bounds writes are clipped.
	SetCell(row, col int, glyph rune, style core.Style)
	// Flush commits buffered changes to the visible display.
	Flush()
	// Size returns the region dimensions.
	Size() (width, height int)
}

// Region is a rectangle of a backend addressed in local coordinates.
type Region struct {
	backend backend.Backend
	rect    core.ScreenRect
}

// NewRegion creates a region covering rect on b.
func NewRegion(b backend.Backend, rect core.ScreenRect) *Region {
	return &Region{backend: b, rect: rect}
}

// SetCell writes a cell at (row, col) relative to the region origin.
// Writes outside the region are dropped.
func (r *Region) SetCell(row, col int, glyph rune, style core.Style) {
	x, y := r.rect.Left+col, r.rect.Top+row
	if !r.rect.Contains(x, y) {
		return
	}
	r.backend.SetCell(x, y, core.NewStyledCell(glyph, style))
}

// Cell returns the cell at (row, col), or an empty cell outside the region.
func (r *Region) Cell(row, col int) core.Cell {
	x, y := r.rect.Left+col, r.rect.Top+row
	if !r.rect.Contains(x, y) {
		return core.EmptyCell()
	}
	return r.backend.GetCell(x, y)
}

// Fill paints every cell of the region.
func (r *Region) Fill(glyph rune, style core.Style) {
	r.backend.Fill(r.rect, core.NewStyledCell(glyph, style))
}

// Flush shows pending changes. The backend shares one display, so flushing
// either region commits both.
func (r *Region) Flush() {
	r.backend.Show()
}

// Size returns the region width and height.
func (r *Region) Size() (int, int) {
	return r.rect.Width(), r.rect.Height()
}

// Rect returns the region's screen rectangle.
func (r *Region) Rect() core.ScreenRect {
	return r.rect
}

// Scene owns the sky and ground regions.
type Scene struct {
	Sky    *Region
	Ground *Region

	geom    rain.Geometry
	palette Palette
}

// New splits the backend into sky and ground regions per geom.
func New(b backend.Backend, geom rain.Geometry, palette Palette) *Scene {
	return &Scene{
		Sky:     NewRegion(b, core.RectFromSize(0, 0, geom.SkyHeight, geom.SceneWidth)),
		Ground:  NewRegion(b, core.RectFromSize(geom.GroundTop(), 0, geom.GroundHeight, geom.SceneWidth)),
		geom:    geom,
		palette: palette,
	}
}

// Paint draws the static backdrop once: the sky background, the grass and,
// when house is non-nil, the house standing on the grass. The frame is
// flushed before returning.
func (s *Scene) Paint(house *House) {
	s.Sky.Fill(rain.Glyph, s.palette.Style(StyleSky))
	s.Ground.Fill(rain.Glyph, s.palette.Style(StyleGrass))

	if house != nil {
		s.paintHouse(house)
	}

	s.Ground.Flush()
}

// paintHouse overlays the pattern bottom-aligned on the decoration rows,
// a quarter of the way across the scene.
func (s *Scene) paintHouse(h *House) {
	top := s.geom.DecorationRows() - h.Rows()
	left := s.geom.SceneWidth / 4

	for y, row := range h.cells {
		for x, c := range row {
			if c.transparent {
				continue
			}
			s.Ground.SetCell(top+y, left+x, c.glyph, c.style)
		}
	}
}

// FieldStyles returns the rain and erase styles for the drop field.
func (s *Scene) FieldStyles() rain.FieldStyles {
	return rain.FieldStyles{
		Rain: s.palette.Style(StyleRain),
		Sky:  s.palette.Style(StyleSky),
	}
}

// Geometry returns the geometry the scene was built from.
func (s *Scene) Geometry() rain.Geometry {
	return s.geom
}
