package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termirain/internal/renderer/core"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(20, 10)
	t.Cleanup(term.Shutdown)
	return term, sim
}

func TestTerminalSize(t *testing.T) {
	term, _ := newSimTerminal(t)

	w, h := term.Size()
	if w != 20 || h != 10 {
		t.Errorf("expected (20, 10), got (%d, %d)", w, h)
	}
}

func TestTerminalSetGetCell(t *testing.T) {
	term, _ := newSimTerminal(t)

	style := core.NewStyle(core.ColorBlack, core.ColorBlue)
	term.SetCell(3, 4, core.NewStyledCell('x', style))

	got := term.GetCell(3, 4)
	if got.Rune != 'x' {
		t.Errorf("expected 'x', got %q", got.Rune)
	}
	if !got.Style.Background.Equals(core.ColorBlue) {
		t.Errorf("expected blue background, got %v", got.Style.Background)
	}
	if !got.Style.Foreground.Equals(core.ColorBlack) {
		t.Errorf("expected black foreground, got %v", got.Style.Foreground)
	}

	if got := term.GetCell(50, 50); !got.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestTerminalFill(t *testing.T) {
	term, _ := newSimTerminal(t)

	cell := core.NewStyledCell(' ', core.NewStyle(core.ColorBlack, core.ColorGreen))
	term.Fill(core.RectFromSize(7, 0, 3, 20), cell)

	if got := term.GetCell(19, 9); !got.Style.Background.Equals(core.ColorGreen) {
		t.Errorf("expected green fill, got %v", got.Style.Background)
	}
	if got := term.GetCell(0, 6); got.Style.Background.Equals(core.ColorGreen) {
		t.Error("row above the rect should not be filled")
	}
}

func TestTerminalShutdownIdempotent(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.Shutdown()
	term.Shutdown()

	if ev := term.PollEvent(); ev.Type != EventClosed {
		t.Errorf("expected EventClosed after shutdown, got %+v", ev)
	}
}

func TestConvertStyleRoundTrip(t *testing.T) {
	styles := []core.Style{
		core.DefaultStyle(),
		core.NewStyle(core.ColorBlack, core.ColorBlue),
		core.NewStyle(core.ColorFromRGB(10, 20, 30), core.ColorDefault).Bold(),
		core.NewStyle(core.ColorWhite, core.ColorRed).WithBackground(core.ColorFromIndex(130)),
	}

	for _, s := range styles {
		got := convertTcellStyle(convertStyle(s))
		if !got.Equals(s) {
			t.Errorf("round trip mismatch: %+v -> %+v", s, got)
		}
	}
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
		want Event
	}{
		{
			name: "space",
			ev:   tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
			want: Event{Type: EventKey, Key: KeyRune, Rune: ' '},
		},
		{
			name: "escape",
			ev:   tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			want: Event{Type: EventKey, Key: KeyEscape},
		},
		{
			name: "resize",
			ev:   tcell.NewEventResize(100, 40),
			want: Event{Type: EventResize, Width: 100, Height: 40},
		},
	}

	for _, tt := range tests {
		got := convertEvent(tt.ev)
		if got.Type != tt.want.Type || got.Key != tt.want.Key || got.Width != tt.want.Width || got.Height != tt.want.Height {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
		if tt.want.Key == KeyRune && got.Rune != tt.want.Rune {
			t.Errorf("%s: rune got %q, want %q", tt.name, got.Rune, tt.want.Rune)
		}
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyEscape, KeyEscape},
		{tcell.KeyEnter, KeyEnter},
		{tcell.KeyTab, KeyTab},
		{tcell.KeyBackspace, KeyBackspace},
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyUp, KeyUp},
		{tcell.KeyDown, KeyDown},
		{tcell.KeyLeft, KeyLeft},
		{tcell.KeyRight, KeyRight},
		{tcell.KeyCtrlC, KeyCtrlC},
		{tcell.KeyCtrlD, KeyCtrlD},
		{tcell.KeyF1, KeyNone},
	}

	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
