package backend

import (
	"github.com/dshills/termirain/internal/renderer/core"
)

// ScreenBuffer provides double-buffered rendering with change tracking.
// It maintains two buffers: front (displayed) and back (drawing).
// Writes are recorded in a pending list, so computing the diff costs
// O(writes since last sync) rather than O(screen area).
type ScreenBuffer struct {
	width, height int
	front         []core.Cell
	back          []core.Cell
	dirty         []bool
	pending       []int
	fullRedraw    bool
}

// NewScreenBuffer creates a screen buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{}
	sb.Resize(width, height)
	return sb
}

// Resize reallocates the buffer and forces a full redraw.
// Content is not preserved.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	sb.width = width
	sb.height = height
	n := width * height
	sb.front = make([]core.Cell, n)
	sb.back = make([]core.Cell, n)
	sb.dirty = make([]bool, n)
	sb.pending = sb.pending[:0]
	for i := range sb.back {
		sb.front[i] = core.EmptyCell()
		sb.back[i] = core.EmptyCell()
	}
	sb.fullRedraw = true
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

func (sb *ScreenBuffer) index(x, y int) (int, bool) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return 0, false
	}
	return y*sb.width + x, true
}

// SetCell sets a cell in the back buffer.
// Out of bounds positions are ignored.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	i, ok := sb.index(x, y)
	if !ok {
		return
	}
	sb.back[i] = cell
	sb.markIndex(i)
}

// GetCell returns a cell from the back buffer.
func (sb *ScreenBuffer) GetCell(x, y int) core.Cell {
	i, ok := sb.index(x, y)
	if !ok {
		return core.EmptyCell()
	}
	return sb.back[i]
}

// Fill fills a rectangle with the given cell.
func (sb *ScreenBuffer) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < sb.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < sb.width; x++ {
			sb.SetCell(x, y, cell)
		}
	}
}

func (sb *ScreenBuffer) markIndex(i int) {
	if !sb.dirty[i] {
		sb.dirty[i] = true
		sb.pending = append(sb.pending, i)
	}
}

// DiffChange represents a cell change for synchronization.
type DiffChange struct {
	X, Y int
	Cell core.Cell
}

// ComputeDiff returns the changes needed to update the display.
// Returns nil if no changes are needed.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange

	if sb.fullRedraw {
		for i, cell := range sb.back {
			changes = append(changes, DiffChange{X: i % sb.width, Y: i / sb.width, Cell: cell})
		}
		return changes
	}

	for _, i := range sb.pending {
		if !sb.back[i].Equals(sb.front[i]) {
			changes = append(changes, DiffChange{X: i % sb.width, Y: i / sb.width, Cell: sb.back[i]})
		}
	}
	return changes
}

// Sync copies pending back buffer cells to the front buffer and clears
// dirty flags. Call this after applying changes to the backend.
func (sb *ScreenBuffer) Sync() {
	if sb.fullRedraw {
		copy(sb.front, sb.back)
		for _, i := range sb.pending {
			sb.dirty[i] = false
		}
	} else {
		for _, i := range sb.pending {
			sb.front[i] = sb.back[i]
			sb.dirty[i] = false
		}
	}
	sb.pending = sb.pending[:0]
	sb.fullRedraw = false
}

// BufferedBackend wraps a Backend with double-buffered rendering.
type BufferedBackend struct {
	backend Backend
	buffer  *ScreenBuffer
}

// NewBufferedBackend creates a buffered wrapper around a backend.
// The buffer is sized when Init runs.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	return &BufferedBackend{
		backend: backend,
		buffer:  NewScreenBuffer(0, 0),
	}
}

func (b *BufferedBackend) Init() error {
	if err := b.backend.Init(); err != nil {
		return err
	}
	b.buffer.Resize(b.backend.Size())
	return nil
}

func (b *BufferedBackend) Shutdown() {
	b.backend.Shutdown()
}

func (b *BufferedBackend) Size() (int, int) {
	return b.buffer.Size()
}

func (b *BufferedBackend) Colors() int {
	return b.backend.Colors()
}

func (b *BufferedBackend) SetCell(x, y int, cell core.Cell) {
	b.buffer.SetCell(x, y, cell)
}

func (b *BufferedBackend) GetCell(x, y int) core.Cell {
	return b.buffer.GetCell(x, y)
}

func (b *BufferedBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.buffer.Fill(rect, cell)
}

// Show computes the diff and applies only changed cells to the backend.
func (b *BufferedBackend) Show() {
	changes := b.buffer.ComputeDiff()
	for _, ch := range changes {
		b.backend.SetCell(ch.X, ch.Y, ch.Cell)
	}
	b.buffer.Sync()
	b.backend.Show()
}

func (b *BufferedBackend) HideCursor() {
	b.backend.HideCursor()
}

func (b *BufferedBackend) PollEvent() Event {
	return b.backend.PollEvent()
}
