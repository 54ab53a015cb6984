package app

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/tungetti/wizardnav/internal/config"
	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/telemetry"
)

// tracerName names the tracer navigators report to.
const tracerName = "github.com/tungetti/wizardnav/navigator"

// App represents the main application with its dependencies and lifecycle.
type App struct {
	container *Container
	lifecycle *Lifecycle
	version   string
	buildTime string
	gitCommit string
}

// Options configures the application.
type Options struct {
	Version         string
	BuildTime       string
	GitCommit       string
	ShutdownTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Version:         "unknown",
		BuildTime:       "unknown",
		GitCommit:       "unknown",
		ShutdownTimeout: constants.ShutdownTimeout,
	}
}

// New creates a new application with the given options.
func New(opts Options) *App {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = constants.ShutdownTimeout
	}
	return &App{
		container: NewContainer(),
		lifecycle: NewLifecycle(opts.ShutdownTimeout),
		version:   opts.Version,
		buildTime: opts.BuildTime,
		gitCommit: opts.GitCommit,
	}
}

// Initialize sets up all application components in the correct order.
// The initialization order is:
// 1. Configuration (file, environment, then overrides such as CLI flags)
// 2. Logger
// 3. Session id and tracer provider
func (a *App) Initialize(ctx context.Context, configPath string, overrides ...func(*config.Config)) error {
	// 1. Load configuration
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to load config", err)
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := config.NewValidator().ValidateOrError(cfg); err != nil {
		return err
	}
	a.container.SetConfig(cfg)

	// 2. Initialize logger
	logger, err := a.initLogger(cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to initialize logger", err)
	}
	a.container.SetLogger(logger)

	// 3. Session id and tracing
	sessionID := uuid.NewString()
	a.container.SetSessionID(sessionID)

	provider := telemetry.NewProvider(sessionID, logger.WithPrefix("trace"))
	a.container.SetTelemetry(provider)
	a.lifecycle.OnShutdown(provider.Shutdown)

	logger.Debug("starting application",
		"version", a.version,
		"build_time", a.buildTime,
		"git_commit", a.gitCommit,
		"session", sessionID,
	)

	return a.container.Validate()
}

// Session opens a navigation session with the application's configuration.
// The session is closed on shutdown.
func (a *App) Session(ctx context.Context, opts SessionOptions) (*Session, error) {
	if err := a.container.Validate(); err != nil {
		return nil, err
	}
	s, err := NewSession(ctx, a.container.GetConfig(), a.container.GetSessionID(), a.container.GetLogger(),
		a.container.GetTelemetry().Tracer(tracerName), opts)
	if err != nil {
		return nil, err
	}
	a.lifecycle.OnShutdown(func(context.Context) error {
		return s.Close()
	})
	return s, nil
}

// Run calls fn with a context cancelled on SIGINT or SIGTERM, recovering
// panics, then shuts the application down.
func (a *App) Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, stop := a.lifecycle.Context(ctx)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			err = a.handlePanic(r)
		}
		if shutdownErr := a.Shutdown(); err == nil {
			err = shutdownErr
		}
	}()

	return fn(ctx)
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	return a.lifecycle.Shutdown()
}

// Container returns the dependency container.
func (a *App) Container() *Container {
	return a.container
}

// Lifecycle returns the lifecycle manager.
func (a *App) Lifecycle() *Lifecycle {
	return a.lifecycle
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.container.GetConfig()
}

// Logger returns the application logger, or a no-op logger before
// Initialize.
func (a *App) Logger() logging.Logger {
	if l := a.container.GetLogger(); l != nil {
		return l
	}
	return logging.NewNop()
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// BuildTime returns the application build time.
func (a *App) BuildTime() string {
	return a.buildTime
}

// GitCommit returns the application git commit.
func (a *App) GitCommit() string {
	return a.gitCommit
}

func (a *App) initLogger(cfg *config.Config) (logging.Logger, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	switch {
	case cfg.IsSilent():
		level = logging.LevelError
	case cfg.IsVerbose():
		level = logging.LevelDebug
	}

	opts := logging.DefaultOptions()
	opts.Level = level
	opts.NoColor = cfg.NoColor
	console := logging.New(opts)

	if cfg.LogFile == "" {
		return console, nil
	}

	file, closer, err := logging.NewFileLogger(cfg.LogFile, logging.LevelDebug)
	if err != nil {
		return nil, err
	}
	a.lifecycle.OnShutdown(func(context.Context) error {
		return closer.Close()
	})
	return logging.NewMultiLogger(console, file), nil
}

// handlePanic handles a recovered panic and returns an error.
// It logs the panic with a stack trace if a logger is available.
func (a *App) handlePanic(r interface{}) error {
	stack := debug.Stack()
	logger := a.container.GetLogger()

	if logger != nil {
		logger.Error("panic recovered",
			"panic", fmt.Sprintf("%v", r),
			"stack", string(stack),
		)
	} else {
		fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", r, stack)
	}

	return errors.Newf(errors.Unknown, "panic: %v", r)
}

// RecoverPanic is a helper function that can be deferred to recover from panics.
// It logs the panic with a stack trace.
func (a *App) RecoverPanic() {
	if r := recover(); r != nil {
		_ = a.handlePanic(r)
	}
}
