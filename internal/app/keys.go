package app

import (
	"github.com/dshills/termirain/internal/renderer/backend"
)

// QuitKey identifies a key that ends the animation. Rune is only
// compared when Key is backend.KeyRune.
type QuitKey struct {
	Key  backend.Key
	Rune rune
}

// DefaultQuitKeys returns space and escape.
func DefaultQuitKeys() []QuitKey {
	return []QuitKey{
		{Key: backend.KeyRune, Rune: ' '},
		{Key: backend.KeyEscape},
	}
}

// Matches reports whether ev is a press of this key.
func (k QuitKey) Matches(ev backend.Event) bool {
	if ev.Type != backend.EventKey || ev.Key != k.Key {
		return false
	}
	if k.Key == backend.KeyRune {
		return ev.Rune == k.Rune
	}
	return true
}

func (k QuitKey) String() string {
	if k.Key == backend.KeyRune {
		if k.Rune == ' ' {
			return "Space"
		}
		return string(k.Rune)
	}
	return k.Key.String()
}

// isQuitKey reports whether ev matches any configured quit key.
func (app *Application) isQuitKey(ev backend.Event) (QuitKey, bool) {
	for _, k := range app.opts.QuitKeys {
		if k.Matches(ev) {
			return k, true
		}
	}
	return QuitKey{}, false
}
