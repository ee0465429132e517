package rain

import "errors"

// Rain model errors.
var (
	// ErrInvalidRange indicates a randomizer call with min > max.
	// It can only come from a geometry computation bug.
	ErrInvalidRange = errors.New("invalid random range")

	// ErrNotSeeded indicates Next was called before Seed.
	ErrNotSeeded = errors.New("randomizer not seeded")

	// ErrTerminalTooSmall indicates the terminal leaves no room for the sky.
	ErrTerminalTooSmall = errors.New("terminal too small")

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("drop field already initialized")

	// ErrNotInitialized indicates Tick was called before Initialize.
	ErrNotInitialized = errors.New("drop field not initialized")
)
