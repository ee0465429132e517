// Package main is the entry point for the Termirain screensaver.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/dshills/termirain/internal/app"
	"github.com/dshills/termirain/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	farewell       = "Thank you for using Termirain.  Goodbye."
	noColorMessage = "No Colour Support Found."

	// clearScreen homes the cursor and erases the restored main screen.
	clearScreen = "\x1b[1;1H\x1b[2J"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliConfig holds everything parsed from the command line.
type cliConfig struct {
	opts        app.Options
	logFile     string
	logLevel    string
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if cfg.showVersion {
		fmt.Fprintf(stdout, "Termirain %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	logger, closeLog, err := openLogger(cfg.logFile, cfg.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	app.SetLogger(logger)
	cfg.opts.Logger = logger

	if err := app.CheckTerminal(os.Stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Create application
	application, err := app.New(cfg.opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Create terminal backend
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(backend.NewBufferedBackend(term)); err != nil {
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			application.Shutdown()
		}
	}()

	// Run has already released the terminal by the time a panic reaches here
	defer func() {
		if r := recover(); r != nil {
			perr := app.NewRecoveredPanicError(r, string(debug.Stack()))
			logger.Error("%v", perr)
			fmt.Fprintf(stderr, "Error: %v\n", perr)
			code = 1
		}
	}()

	return exitCode(application.Run(), stdout, stderr)
}

// exitCode reports the outcome of a run on the restored terminal and
// maps it to a process exit status.
func exitCode(err error, stdout, stderr io.Writer) int {
	switch {
	case err == nil, errors.Is(err, app.ErrQuit):
		fmt.Fprint(stdout, clearScreen)
		fmt.Fprintln(stdout, farewell)
		return 0
	case errors.Is(err, app.ErrNoColor):
		fmt.Fprint(stdout, clearScreen)
		fmt.Fprintln(stdout, noColorMessage)
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func parseFlags(args []string, output io.Writer) (cliConfig, error) {
	cfg := cliConfig{opts: app.DefaultOptions()}

	fs := flag.NewFlagSet("termirain", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.BoolVar(&cfg.opts.House, "h", false, "Draw a house on the grass")
	fs.StringVar(&cfg.opts.HouseStyle, "house-style", cfg.opts.HouseStyle, "House pattern (house, cottage)")
	fs.IntVar(&cfg.opts.Drops, "drops", cfg.opts.Drops, "Number of raindrops")
	fs.DurationVar(&cfg.opts.FrameInterval, "interval", cfg.opts.FrameInterval, "Pause between frames")
	fs.Uint64Var(&cfg.opts.Seed, "seed", 0, "Random seed (0 uses the clock)")
	fs.BoolVar(&cfg.opts.Sound, "sound", false, "Play rain ambience")
	fs.StringVar(&cfg.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(output, "Termirain - rain in your terminal\n\n")
		fmt.Fprintf(output, "Usage: termirain [options]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nPress space or Esc to stop the rain.\n")
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  termirain                   Rain over the grass\n")
		fmt.Fprintf(output, "  termirain -h                Rain over a house\n")
		fmt.Fprintf(output, "  termirain -h -house-style cottage -drops 120\n")
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(output, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !app.ValidLogLevel(cfg.logLevel) {
		fmt.Fprintf(output, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cfg.logLevel)
		return cfg, fmt.Errorf("invalid log level %q", cfg.logLevel)
	}

	if err := cfg.opts.Validate(); err != nil {
		fmt.Fprintf(output, "Error: %v\n", err)
		return cfg, err
	}

	return cfg, nil
}

// openLogger returns a file logger, or the null logger when path is empty
// so nothing is written over the animation.
func openLogger(path, level string) (*app.Logger, func(), error) {
	if path == "" {
		return app.NullLogger, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, app.WrapError(err, "open log file %s", path)
	}

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(level),
		Output: f,
		Prefix: "termirain",
	})
	return logger, func() { _ = f.Close() }, nil
}
