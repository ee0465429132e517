package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termirain/internal/renderer/core"
)

//go:embed scene.toml
var builtinScene []byte

// Style names every palette must define.
const (
	StyleSky   = "sky"
	StyleRain  = "rain"
	StyleGrass = "grass"
	StyleRoof  = "roof"
	StyleWall  = "wall"
)

var requiredStyles = []string{StyleSky, StyleRain, StyleGrass, StyleRoof, StyleWall}

// DefaultHouse is the decoration used when none is named.
const DefaultHouse = "house"

// ErrUnknownHouse indicates a house name missing from the asset.
var ErrUnknownHouse = errors.New("unknown house")

// Palette holds the named cell styles of a scene.
type Palette map[string]core.Style

// Style returns the named style, or the default style if it is missing.
func (p Palette) Style(name string) core.Style {
	if s, ok := p[name]; ok {
		return s
	}
	return core.DefaultStyle()
}

// houseCell is one pattern cell. Transparent cells are skipped when painting.
type houseCell struct {
	glyph       rune
	style       core.Style
	transparent bool
}

// House is a fixed multi-row glyph pattern painted over the ground.
type House struct {
	Name  string
	cells [][]houseCell
	width int
}

// Rows returns the pattern height.
func (h *House) Rows() int {
	if h == nil {
		return 0
	}
	return len(h.cells)
}

// Width returns the width of the widest pattern row.
func (h *House) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Asset is a parsed scene definition.
type Asset struct {
	Palette Palette
	Houses  map[string]*House
}

// House returns the named house pattern.
func (a *Asset) House(name string) (*House, error) {
	h, ok := a.Houses[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownHouse, name, strings.Join(a.HouseNames(), ", "))
	}
	return h, nil
}

// HouseNames returns the available house names in sorted order.
func (a *Asset) HouseNames() []string {
	names := make([]string, 0, len(a.Houses))
	for name := range a.Houses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssetError reports a malformed scene definition.
type AssetError struct {
	Field   string
	Message string
	Err     error
}

func (e *AssetError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("scene asset: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("scene asset: %s", e.Message)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// TOML document layout.
type (
	styleDoc struct {
		FG   string `toml:"fg"`
		BG   string `toml:"bg"`
		Bold bool   `toml:"bold"`
	}
	legendDoc struct {
		Style string `toml:"style"`
		Glyph string `toml:"glyph"`
	}
	houseDoc struct {
		Name string   `toml:"name"`
		Rows []string `toml:"rows"`
	}
	assetDoc struct {
		Palette map[string]styleDoc  `toml:"palette"`
		Legend  map[string]legendDoc `toml:"legend"`
		Houses  []houseDoc           `toml:"house"`
	}
)

// LoadAsset parses the scene definition compiled into the binary.
func LoadAsset() (*Asset, error) {
	return ParseAsset(builtinScene)
}

// ParseAsset parses and validates a TOML scene definition.
func ParseAsset(data []byte) (*Asset, error) {
	var doc assetDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &AssetError{Message: err.Error(), Err: err}
	}

	palette, err := buildPalette(doc.Palette)
	if err != nil {
		return nil, err
	}

	legend, err := buildLegend(doc.Legend, palette)
	if err != nil {
		return nil, err
	}

	houses := make(map[string]*House, len(doc.Houses))
	for i, hd := range doc.Houses {
		h, err := buildHouse(hd, legend)
		if err != nil {
			return nil, err
		}
		if _, dup := houses[h.Name]; dup {
			return nil, &AssetError{Field: fmt.Sprintf("house[%d]", i), Message: fmt.Sprintf("duplicate name %q", h.Name)}
		}
		houses[h.Name] = h
	}

	return &Asset{Palette: palette, Houses: houses}, nil
}

func buildPalette(defs map[string]styleDoc) (Palette, error) {
	palette := make(Palette, len(defs))
	for name, def := range defs {
		fg, err := parseColor(def.FG)
		if err != nil {
			return nil, &AssetError{Field: "palette." + name + ".fg", Message: err.Error(), Err: err}
		}
		bg, err := parseColor(def.BG)
		if err != nil {
			return nil, &AssetError{Field: "palette." + name + ".bg", Message: err.Error(), Err: err}
		}
		style := core.NewStyle(fg, bg)
		if def.Bold {
			style = style.Bold()
		}
		palette[name] = style
	}

	for _, name := range requiredStyles {
		if _, ok := palette[name]; !ok {
			return nil, &AssetError{Field: "palette", Message: fmt.Sprintf("missing required style %q", name)}
		}
	}
	return palette, nil
}

func buildLegend(defs map[string]legendDoc, palette Palette) (map[rune]houseCell, error) {
	legend := make(map[rune]houseCell, len(defs))
	for key, def := range defs {
		field := "legend." + key

		r, err := singleCellRune(key)
		if err != nil {
			return nil, &AssetError{Field: field, Message: err.Error()}
		}
		style, ok := palette[def.Style]
		if !ok {
			return nil, &AssetError{Field: field, Message: fmt.Sprintf("unknown style %q", def.Style)}
		}

		glyph := ' '
		if def.Glyph != "" {
			glyph, err = singleCellRune(def.Glyph)
			if err != nil {
				return nil, &AssetError{Field: field + ".glyph", Message: err.Error()}
			}
		}
		legend[r] = houseCell{glyph: glyph, style: style}
	}
	return legend, nil
}

func buildHouse(def houseDoc, legend map[rune]houseCell) (*House, error) {
	if def.Name == "" {
		return nil, &AssetError{Field: "house", Message: "missing name"}
	}
	field := "house." + def.Name
	if len(def.Rows) == 0 {
		return nil, &AssetError{Field: field, Message: "pattern has no rows"}
	}

	h := &House{Name: def.Name, cells: make([][]houseCell, len(def.Rows))}
	for y, row := range def.Rows {
		cells := make([]houseCell, 0, len(row))
		for _, r := range row {
			if r == ' ' {
				cells = append(cells, houseCell{transparent: true})
				continue
			}
			if w := runewidth.RuneWidth(r); w != 1 {
				return nil, &AssetError{Field: field, Message: fmt.Sprintf("row %d: %q is %d cells wide", y, string(r), w)}
			}
			cell, ok := legend[r]
			if !ok {
				return nil, &AssetError{Field: field, Message: fmt.Sprintf("row %d: %q not in legend", y, string(r))}
			}
			cells = append(cells, cell)
		}
		h.cells[y] = cells
		h.width = max(h.width, len(cells))
	}
	return h, nil
}

// singleCellRune returns the only rune of s, which must be one cell wide.
func singleCellRune(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%q must be a single character", s)
	}
	if w := runewidth.RuneWidth(runes[0]); w != 1 {
		return 0, fmt.Errorf("%q is %d cells wide", s, w)
	}
	return runes[0], nil
}

var ansiColors = map[string]core.Color{
	"black":   core.ColorBlack,
	"red":     core.ColorRed,
	"green":   core.ColorGreen,
	"yellow":  core.ColorYellow,
	"blue":    core.ColorBlue,
	"magenta": core.ColorMagenta,
	"cyan":    core.ColorCyan,
	"white":   core.ColorWhite,
}

// parseColor accepts an ANSI color name, "default" or a hex value.
func parseColor(s string) (core.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch {
	case name == "" || name == "default":
		return core.ColorDefault, nil
	case strings.HasPrefix(name, "#"):
		return core.ColorFromHex(name)
	}
	if c, ok := ansiColors[name]; ok {
		return c, nil
	}
	return core.Color{}, fmt.Errorf("unknown color %q", s)
}
