package rain

import (
	"fmt"

	"github.com/dshills/termirain/internal/renderer/core"
)

// DefaultDropCount is the number of drops when none is configured.
const DefaultDropCount = 50

// Glyph is drawn for both rain and erased cells; the style carries the color.
const Glyph = ' '

// Canvas is the drawing surface a Field writes into.
// Out-of-range coordinates must be clipped by the implementation.
type Canvas interface {
	SetCell(row, col int, glyph rune, style core.Style)
}

// Drop is one falling rain element. Col is fixed for the drop's
// lifetime; Row advances every tick.
type Drop struct {
	Row int
	Col int
}

// FieldStyles are the two styles a Field paints with.
type FieldStyles struct {
	// Rain is the style of a drawn drop.
	Rain core.Style
	// Sky is the background style used to erase a drop's trail.
	Sky core.Style
}

// Field owns a fixed-size set of drops and the fall/erase/wrap rule.
type Field struct {
	drops       []Drop
	styles      FieldStyles
	geom        Geometry
	initialized bool
}

// NewField preallocates a field of count drops.
// Negative counts are treated as zero.
func NewField(count int, styles FieldStyles) *Field {
	if count < 0 {
		count = 0
	}
	return &Field{
		drops:  make([]Drop, count),
		styles: styles,
	}
}

// Initialize places every drop at a random position. Columns are drawn
// from [0, SceneWidth] inclusive, so a drop may sit one column past the
// right edge; the canvas clips it. Rows are drawn from [0, SkyHeight-1].
// Initialize must run exactly once, before the first Tick.
func (f *Field) Initialize(rng *Randomizer, geom Geometry) error {
	if f.initialized {
		return ErrAlreadyInitialized
	}

	for i := range f.drops {
		col, err := rng.Next(0, geom.SceneWidth)
		if err != nil {
			return fmt.Errorf("placing drop %d column: %w", i, err)
		}
		row, err := rng.Next(0, geom.SkyHeight-1)
		if err != nil {
			return fmt.Errorf("placing drop %d row: %w", i, err)
		}
		f.drops[i] = Drop{Row: row, Col: col}
	}

	f.geom = geom
	f.initialized = true
	return nil
}

// Tick advances every drop by one row, in index order. For each drop it
// draws the rain cell at the current position, erases the cell above it
// (the bottom row when the drop sits on row 0), then moves the drop down,
// wrapping from the last sky row back to the top.
func (f *Field) Tick(c Canvas) error {
	if !f.initialized {
		return ErrNotInitialized
	}

	last := f.geom.SkyHeight - 1
	for i := range f.drops {
		d := &f.drops[i]

		c.SetCell(d.Row, d.Col, Glyph, f.styles.Rain)

		if d.Row == 0 {
			c.SetCell(last, d.Col, Glyph, f.styles.Sky)
		} else {
			c.SetCell(d.Row-1, d.Col, Glyph, f.styles.Sky)
		}

		if d.Row < last {
			d.Row++
		} else {
			d.Row = 0
		}
	}
	return nil
}

// Drops returns a copy of the current drop positions.
func (f *Field) Drops() []Drop {
	out := make([]Drop, len(f.drops))
	copy(out, f.drops)
	return out
}

// Len returns the number of drops.
func (f *Field) Len() int {
	return len(f.drops)
}

// Initialized reports whether Initialize has run.
func (f *Field) Initialized() bool {
	return f.initialized
}

// Geometry returns the geometry the field was initialized with.
func (f *Field) Geometry() Geometry {
	return f.geom
}
