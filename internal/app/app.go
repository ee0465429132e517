// Package app provides the main application structure and coordination
// for Termirain. It wires the backend, scene and drop field together and
// manages the application lifecycle.
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/termirain/internal/audio"
	"github.com/dshills/termirain/internal/rain"
	"github.com/dshills/termirain/internal/renderer/backend"
	"github.com/dshills/termirain/internal/scene"
)

// MinColors is the palette size required to draw the scene.
const MinColors = 8

// DefaultFrameInterval is the pause before each animation tick.
const DefaultFrameInterval = 100 * time.Millisecond

// State is the lifecycle state of an Application.
type State int32

const (
	// StateIdle is the state before Run has finished setting up.
	StateIdle State = iota
	// StateRunning means the animation loop is ticking.
	StateRunning
	// StateStopped means the loop has exited and the terminal is released.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Player is an optional background sound.
type Player interface {
	Start() error
	Stop()
}

// Application is the central coordinator for a Termirain run.
type Application struct {
	mu sync.RWMutex

	backend backend.Backend
	player  Player
	logger  *Logger
	metrics *Metrics

	runID string
	seed  uint64
	field *rain.Field
	scene *scene.Scene

	// State
	state    atomic.Int32
	running  atomic.Bool
	ticks    atomic.Uint64
	done     chan struct{}
	doneOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// House draws the decoration on the ground.
	House bool

	// HouseStyle names the house pattern used when House is set.
	HouseStyle string

	// Drops is the number of raindrops.
	Drops int

	// FrameInterval is the pause before each tick.
	FrameInterval time.Duration

	// QuitKeys are the keys that end the animation.
	QuitKeys []QuitKey

	// Sound plays the rain ambience.
	Sound bool

	// Seed fixes the drop layout. Zero seeds from the clock.
	Seed uint64

	// Logger receives diagnostics. Nil discards them.
	Logger *Logger
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		HouseStyle:    scene.DefaultHouse,
		Drops:         rain.DefaultDropCount,
		FrameInterval: DefaultFrameInterval,
		QuitKeys:      DefaultQuitKeys(),
	}
}

// Validate checks the options for values the loop cannot run with.
func (o Options) Validate() error {
	switch {
	case o.Drops < 0:
		return fmt.Errorf("%w: drop count %d is negative", ErrInvalidOptions, o.Drops)
	case o.FrameInterval <= 0:
		return fmt.Errorf("%w: frame interval %v must be positive", ErrInvalidOptions, o.FrameInterval)
	case len(o.QuitKeys) == 0:
		return fmt.Errorf("%w: no quit keys", ErrInvalidOptions)
	case o.House && o.HouseStyle == "":
		return fmt.Errorf("%w: house style is empty", ErrInvalidOptions)
	}
	return nil
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		metrics: NewMetrics(),
		runID:   uuid.NewString(),
	}

	base := opts.Logger
	if base == nil {
		base = NullLogger
	}
	app.logger = base.WithField("run", app.runID)

	if opts.Sound {
		app.player = audio.NewAmbience(audio.DefaultVolume, uint32(time.Now().UnixNano()))
	}

	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// SetPlayer replaces the ambience player. Must be called before Run().
func (app *Application) SetPlayer(p Player) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.player = p
	return nil
}

// Run sets up the scene and runs the animation until a quit key is
// pressed, which returns ErrQuit, or Shutdown is called, which returns nil.
// The backend is released on every return path.
func (app *Application) Run() error {
	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()

	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.state.Store(int32(StateStopped))

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()
	b.HideCursor()

	if colors := b.Colors(); colors < MinColors {
		app.logger.Error("terminal reports %d colors, need %d", colors, MinColors)
		return ErrNoColor
	}

	if err := app.setup(b); err != nil {
		return err
	}

	if app.player != nil {
		if err := app.player.Start(); err != nil {
			app.logger.WithComponent("audio").Warn("ambience unavailable: %v", err)
		} else {
			defer app.player.Stop()
		}
	}

	app.state.Store(int32(StateRunning))
	err := app.eventLoop(b)

	snap := app.metrics.Snapshot()
	app.logger.Info("stopped after %d ticks (avg frame %v, max %v)",
		snap.FrameCount, time.Duration(snap.AvgFrameTimeNs), time.Duration(snap.MaxFrameTimeNs))
	return err
}

// setup builds the geometry, paints the backdrop and places the drops.
func (app *Application) setup(b backend.Backend) error {
	asset, err := scene.LoadAsset()
	if err != nil {
		return &InitError{Component: "scene", Err: err}
	}

	var house *scene.House
	if app.opts.House {
		house, err = asset.House(app.opts.HouseStyle)
		if err != nil {
			return &InitError{Component: "scene", Err: err}
		}
	}

	width, height := b.Size()
	geom, err := rain.ComputeGeometry(width, height, house.Rows())
	if err != nil {
		return &InitError{Component: "geometry", Err: err}
	}

	sc := scene.New(b, geom, asset.Palette)
	sc.Paint(house)

	rng := rain.NewRandomizer()
	seed := app.opts.Seed
	if seed == 0 {
		seed = rng.SeedFromClock()
	} else {
		rng.Seed(seed)
	}

	field := rain.NewField(app.opts.Drops, sc.FieldStyles())
	if err := field.Initialize(rng, geom); err != nil {
		return &InitError{Component: "drop field", Err: err}
	}

	app.mu.Lock()
	app.scene = sc
	app.field = field
	app.seed = seed
	app.mu.Unlock()

	app.logger.Info("scene %dx%d sky=%d ground=%d drops=%d seed=%d house=%v",
		geom.SceneWidth, geom.Height(), geom.SkyHeight, geom.GroundHeight, field.Len(), seed, house != nil)
	return nil
}

// Shutdown stops the animation loop. Safe to call multiple times and
// from any goroutine.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// State returns the current lifecycle state.
func (app *Application) State() State {
	return State(app.state.Load())
}

// Ticks returns the number of animation ticks performed.
func (app *Application) Ticks() uint64 {
	return app.ticks.Load()
}

// RunID returns the identifier attached to this run's log lines.
func (app *Application) RunID() string {
	return app.runID
}

// Seed returns the seed the drop layout was generated from, or zero
// before setup.
func (app *Application) Seed() uint64 {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.seed
}

// Field returns the drop field (nil before setup).
func (app *Application) Field() *rain.Field {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.field
}

// Scene returns the painted scene (nil before setup).
func (app *Application) Scene() *scene.Scene {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.scene
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// IsStartupFailure reports whether err ended the run before the
// animation started.
func IsStartupFailure(err error) bool {
	var initErr *InitError
	return errors.Is(err, ErrNoColor) || errors.Is(err, ErrNotTerminal) || errors.As(err, &initErr)
}
