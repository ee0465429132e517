package rain

import "fmt"

// BaseGroundRows is the height of the grass strip without decoration.
const BaseGroundRows = 3

// Geometry partitions the terminal into the sky, where rain falls, and
// the ground below it. It is computed once at startup.
type Geometry struct {
	SceneWidth   int
	SkyHeight    int
	GroundHeight int
}

// ComputeGeometry derives the scene geometry from the terminal size.
// decorationRows is the extra ground height needed by the decoration
// (the house pattern height); pass 0 when decoration is disabled.
// SkyHeight + GroundHeight always equals height.
func ComputeGeometry(width, height, decorationRows int) (Geometry, error) {
	if decorationRows < 0 {
		decorationRows = 0
	}

	ground := BaseGroundRows + decorationRows
	sky := height - ground
	if width < 1 || sky < 1 {
		return Geometry{}, fmt.Errorf("%w: %dx%d leaves no sky above %d ground rows",
			ErrTerminalTooSmall, width, height, ground)
	}

	return Geometry{
		SceneWidth:   width,
		SkyHeight:    sky,
		GroundHeight: ground,
	}, nil
}

// Height returns the full terminal height covered by the geometry.
func (g Geometry) Height() int {
	return g.SkyHeight + g.GroundHeight
}

// GroundTop returns the terminal row where the ground region starts.
func (g Geometry) GroundTop() int {
	return g.SkyHeight
}

// DecorationRows returns how many ground rows sit above the base grass strip.
func (g Geometry) DecorationRows() int {
	return g.GroundHeight - BaseGroundRows
}
