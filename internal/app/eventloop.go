package app

import (
	"runtime/debug"
	"time"

	"github.com/dshills/termirain/internal/renderer/backend"
)

// eventQueueSize bounds the keys buffered between polls.
const eventQueueSize = 64

// eventLoop ticks the drop field until a quit key arrives or Shutdown is
// called. Input is read by a separate goroutine and drained without
// blocking after every frame.
func (app *Application) eventLoop(b backend.Backend) error {
	events := make(chan backend.Event, eventQueueSize)
	crashed := make(chan error, 1)
	go app.pollEvents(b, events, crashed)

	frameTicker := time.NewTicker(app.opts.FrameInterval)
	defer frameTicker.Stop()

	for {
		select {
		case <-app.done:
			app.logger.Info("shutdown requested")
			return nil
		case err := <-crashed:
			return err
		case <-frameTicker.C:
		}

		if err := app.tick(); err != nil {
			return err
		}

		if key, ok := app.drainInput(events); ok {
			app.logger.Info("quit key %s pressed", key)
			return ErrQuit
		}
	}
}

// tick advances every drop one row and flushes the frame.
func (app *Application) tick() error {
	timer := StartTimer()

	sky := app.scene.Sky
	if err := app.field.Tick(sky); err != nil {
		return NewComponentError("drop field", "tick", err)
	}
	sky.Flush()

	app.ticks.Add(1)
	app.metrics.RecordFrame(timer.Elapsed())
	return nil
}

// drainInput consumes every pending event and reports the first quit key.
// It never blocks.
func (app *Application) drainInput(events <-chan backend.Event) (QuitKey, bool) {
	for {
		select {
		case ev := <-events:
			app.metrics.RecordInput()
			if key, ok := app.isQuitKey(ev); ok {
				return key, true
			}
			if ev.Type == backend.EventResize {
				app.logger.Debug("ignoring resize to %dx%d", ev.Width, ev.Height)
			}
		default:
			return QuitKey{}, false
		}
	}
}

// pollEvents forwards backend events until the backend closes or the
// application shuts down. Events that do not fit in the queue are dropped.
// A panic is reported on crashed so Run can release the terminal.
func (app *Application) pollEvents(b backend.Backend, events chan<- backend.Event, crashed chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			perr := NewRecoveredPanicError(r, string(debug.Stack()))
			app.logger.WithComponent("input").Error("input reader crashed: %v", r)
			crashed <- perr
		}
	}()

	for {
		ev := b.PollEvent()
		if ev.Type == backend.EventClosed {
			return
		}

		select {
		case events <- ev:
		case <-app.done:
			return
		default:
			app.metrics.RecordInputDropped()
		}
	}
}
