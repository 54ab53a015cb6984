package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/wizardnav/internal/config"
	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/navigator"
	"github.com/tungetti/wizardnav/internal/scenario"
	testutil "github.com/tungetti/wizardnav/internal/testing"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// withLockDir points the lock directory at a test directory.
func withLockDir(t *testing.T) func(*config.Config) {
	dir := t.TempDir()
	return func(cfg *config.Config) {
		cfg.LockDir = dir
	}
}

func initializedApp(t *testing.T, overrides ...func(*config.Config)) *App {
	t.Helper()
	a := New(DefaultOptions())
	overrides = append([]func(*config.Config){withLockDir(t)}, overrides...)
	require.NoError(t, a.Initialize(context.Background(), "", overrides...))
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

// =============================================================================
// Container Tests
// =============================================================================

func TestNewContainer(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c)
	assert.Nil(t, c.Config)
	assert.Nil(t, c.Logger)
	assert.Nil(t, c.Telemetry)
	assert.Empty(t, c.SessionID)
}

func TestContainer_SetGet(t *testing.T) {
	c := NewContainer()
	cfg := &config.Config{LogLevel: "debug"}
	logger := logging.NewNop()

	c.SetConfig(cfg)
	c.SetLogger(logger)
	c.SetSessionID("abc")

	assert.Equal(t, cfg, c.GetConfig())
	assert.Equal(t, logger, c.GetLogger())
	assert.Equal(t, "abc", c.GetSessionID())
	assert.Nil(t, c.GetTelemetry())
}

func TestContainer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(c *Container)
		wantErr string
	}{
		{
			name: "complete",
			setup: func(c *Container) {
				c.SetConfig(&config.Config{})
				c.SetLogger(logging.NewNop())
				c.SetSessionID("abc")
			},
		},
		{
			name: "missing config",
			setup: func(c *Container) {
				c.SetLogger(logging.NewNop())
				c.SetSessionID("abc")
			},
			wantErr: "config not initialized",
		},
		{
			name: "missing logger",
			setup: func(c *Container) {
				c.SetConfig(&config.Config{})
				c.SetSessionID("abc")
			},
			wantErr: "logger not initialized",
		},
		{
			name: "missing session id",
			setup: func(c *Container) {
				c.SetConfig(&config.Config{})
				c.SetLogger(logging.NewNop())
			},
			wantErr: "session id not initialized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer()
			tt.setup(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			testutil.AssertErrorCode(t, err, errors.Configuration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestContainer_ConcurrentAccess(t *testing.T) {
	c := NewContainer()
	cfg := &config.Config{}
	logger := logging.NewNop()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetConfig(cfg)
			c.SetLogger(logger)
			c.SetSessionID("abc")
		}()
		go func() {
			defer wg.Done()
			_ = c.GetConfig()
			_ = c.GetLogger()
			_ = c.GetSessionID()
		}()
	}
	wg.Wait()
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestNewLifecycle(t *testing.T) {
	timeout := 5 * time.Second
	l := NewLifecycle(timeout)

	assert.NotNil(t, l)
	assert.Equal(t, timeout, l.Timeout())
	assert.False(t, l.IsShuttingDown())
}

func TestLifecycle_OnShutdown(t *testing.T) {
	l := NewLifecycle(time.Second)
	var callOrder []int

	for i := 1; i <= 3; i++ {
		i := i
		l.OnShutdown(func(ctx context.Context) error {
			callOrder = append(callOrder, i)
			return nil
		})
	}

	assert.NoError(t, l.Shutdown())
	assert.Equal(t, []int{3, 2, 1}, callOrder)
}

func TestLifecycle_Shutdown_ReturnsLastError(t *testing.T) {
	l := NewLifecycle(time.Second)
	firstErr := errors.New(errors.Unknown, "first error")
	lastErr := errors.New(errors.Unknown, "last error")

	l.OnShutdown(func(ctx context.Context) error { return firstErr })
	l.OnShutdown(func(ctx context.Context) error { return lastErr })

	// Registered first, called last.
	assert.Equal(t, firstErr, l.Shutdown())
	assert.Equal(t, firstErr, l.Shutdown())
}

func TestLifecycle_Shutdown_Idempotent(t *testing.T) {
	l := NewLifecycle(time.Second)
	var callCount int32

	l.OnShutdown(func(ctx context.Context) error {
		atomic.AddInt32(&callCount, 1)
		return nil
	})

	_ = l.Shutdown()
	_ = l.Shutdown()
	_ = l.Shutdown()

	assert.Equal(t, int32(1), atomic.LoadInt32(&callCount))
	assert.True(t, l.IsShuttingDown())

	select {
	case <-l.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestLifecycle_ConcurrentShutdown(t *testing.T) {
	l := NewLifecycle(time.Second)
	var callCount int32
	l.OnShutdown(func(ctx context.Context) error {
		atomic.AddInt32(&callCount, 1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Shutdown()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&callCount))
}

func TestLifecycle_ShutdownTimeout(t *testing.T) {
	timeout := 50 * time.Millisecond
	l := NewLifecycle(timeout)

	var ctxDeadline time.Time
	l.OnShutdown(func(ctx context.Context) error {
		ctxDeadline, _ = ctx.Deadline()
		return nil
	})

	start := time.Now()
	_ = l.Shutdown()

	assert.WithinDuration(t, start.Add(timeout), ctxDeadline, 10*time.Millisecond)
}

func TestLifecycle_WaitForSignal_ShutdownChannel(t *testing.T) {
	l := NewLifecycle(time.Second)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = l.Shutdown()
	}()

	assert.Nil(t, l.WaitForSignal())
}

func TestLifecycle_Context(t *testing.T) {
	t.Run("cancelled by shutdown", func(t *testing.T) {
		l := NewLifecycle(time.Second)
		ctx, stop := l.Context(context.Background())
		defer stop()

		require.NoError(t, ctx.Err())
		_ = l.Shutdown()

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context not cancelled on shutdown")
		}
	})

	t.Run("cancelled by stop", func(t *testing.T) {
		l := NewLifecycle(time.Second)
		ctx, stop := l.Context(context.Background())
		stop()
		assert.Error(t, ctx.Err())
		assert.False(t, l.IsShuttingDown())
	})
}

// =============================================================================
// Session Lock Tests
// =============================================================================

func TestLockPath(t *testing.T) {
	a := LockPath("/locks", "http://localhost:9090/cockpit/@localhost/anaconda-webui/index.html")
	b := LockPath("/locks", "http://localhost:9090/cockpit/@localhost/anaconda-webui/index.html")
	c := LockPath("/locks", "http://other:9090/")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "/locks", filepath.Dir(a))
	assert.Equal(t, ".lock", filepath.Ext(a))
}

func TestAcquireLock(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "locks")
	const target = "http://localhost:9090/"

	first, err := AcquireLock(ctx, dir, target, 0)
	require.NoError(t, err)
	assert.Equal(t, target, first.Target())
	assert.FileExists(t, first.Path())

	_, err = AcquireLock(ctx, dir, target, 0)
	testutil.AssertErrorCode(t, err, errors.Locked)
	testutil.AssertErrorContains(t, err, "another session is driving")

	_, err = AcquireLock(ctx, dir, target, 150*time.Millisecond)
	testutil.AssertErrorCode(t, err, errors.Locked)

	other, err := AcquireLock(ctx, dir, "http://other:9090/", 0)
	require.NoError(t, err)
	require.NoError(t, other.Release())

	require.NoError(t, first.Release())
	require.NoError(t, first.Release())

	again, err := AcquireLock(ctx, dir, target, time.Second)
	require.NoError(t, err)
	require.NoError(t, again.Release())

	var none *SessionLock
	assert.NoError(t, none.Release())
}

func TestAcquireLock_Cancelled(t *testing.T) {
	dir := t.TempDir()
	const target = "http://localhost:9090/"

	held, err := AcquireLock(context.Background(), dir, target, 0)
	require.NoError(t, err)
	defer held.Release()

	t.Run("cancelled parent", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)

		_, err := AcquireLock(ctx, dir, target, 5*time.Second)
		testutil.AssertErrorCode(t, err, errors.Timeout)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("expired parent", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := AcquireLock(ctx, dir, target, 5*time.Second)
		testutil.AssertErrorCode(t, err, errors.Timeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("lock wait runs out", func(t *testing.T) {
		_, err := AcquireLock(context.Background(), dir, target, 150*time.Millisecond)
		testutil.AssertErrorCode(t, err, errors.Locked)
	})
}

func TestAcquireLock_BadDirectory(t *testing.T) {
	file := testutil.WriteFile(t, "not-a-dir", "x")
	_, err := AcquireLock(context.Background(), filepath.Join(file, "locks"), "http://localhost/", 0)
	testutil.AssertErrorCode(t, err, errors.Configuration)
}

// =============================================================================
// Session Tests
// =============================================================================

func TestBuildGraph(t *testing.T) {
	t.Run("scenario", func(t *testing.T) {
		cfg := config.DefaultConfig()
		g, err := BuildGraph(cfg, scenario.HomeReuse, nil, scenario.Callbacks{})
		require.NoError(t, err)
		assert.True(t, g.IsHidden(wizard.StepStorageConfiguration))
	})

	t.Run("topology file", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.TopologyFile = testutil.WriteFile(t, "minimal.toml", `
name = "minimal"

[[steps]]
id = "anaconda-screen-language"
next = ["anaconda-screen-review"]

[[steps]]
id = "anaconda-screen-review"
next = ["anaconda-screen-progress"]

[[steps]]
id = "anaconda-screen-progress"
`)
		g, err := BuildGraph(cfg, "ignored", nil, scenario.Callbacks{})
		require.NoError(t, err)
		assert.Equal(t, 3, g.Len())
		assert.Equal(t, wizard.StepProgress, g.Terminal())
	})

	t.Run("unknown scenario", func(t *testing.T) {
		_, err := BuildGraph(config.DefaultConfig(), "nope", nil, scenario.Callbacks{})
		testutil.AssertErrorCode(t, err, errors.NotFound)
	})
}

func TestNewSession_Simulated(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.LockDir = t.TempDir()
	cfg.Account.UserName = "alice"

	var hops []navigator.Hop
	s, err := NewSession(ctx, cfg, "session-1", testutil.NewMockLogger(), nil, SessionOptions{
		Simulate: true,
		Hooks:    []navigator.Hook{func(h navigator.Hop) { hops = append(hops, h) }},
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	assert.True(t, s.Simulated())
	assert.Equal(t, "session-1", s.ID)
	assert.Equal(t, config.DefaultScenario, s.Scenario)
	assert.Equal(t, wizard.StepLanguage, s.Navigator.Current())

	require.NoError(t, s.Navigator.Reach(ctx, wizard.StepReview))
	assert.Equal(t, wizard.StepReview, s.Simulator.Current())
	assert.Equal(t, "alice", s.Simulator.Input(constants.SelectorUserName))
	assert.NotEmpty(t, hops)
}

func TestNewSession_Options(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.LockDir = t.TempDir()

	s, err := NewSession(ctx, cfg, "s", nil, nil, SessionOptions{
		Simulate: true,
		Scenario: scenario.HomeReuse,
		Start:    wizard.StepInstallationMethod,
	})
	require.NoError(t, err)

	assert.Equal(t, scenario.HomeReuse, s.Scenario)
	assert.Equal(t, wizard.StepInstallationMethod, s.Navigator.Current())
	assert.Equal(t, wizard.StepInstallationMethod, s.Simulator.Current())

	next, err := s.Navigator.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepAccounts, next)
}

func TestNewSession_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown scenario", func(t *testing.T) {
		cfg := config.DefaultConfig()
		_, err := NewSession(ctx, cfg, "s", nil, nil, SessionOptions{Simulate: true, Scenario: "nope"})
		testutil.AssertErrorCode(t, err, errors.NotFound)
	})

	t.Run("undeclared start", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.StartStep = "nowhere"
		_, err := NewSession(ctx, cfg, "s", nil, nil, SessionOptions{Simulate: true})
		testutil.AssertErrorCode(t, err, errors.UnknownStep)
	})

	t.Run("browser target locked", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.LockDir = t.TempDir()
		held, err := AcquireLock(ctx, cfg.LockDir, cfg.PageURL(), 0)
		require.NoError(t, err)
		defer held.Release()

		defer func(d time.Duration) { sessionLockTimeout = d }(sessionLockTimeout)
		sessionLockTimeout = 200 * time.Millisecond
		_, err = NewSession(ctx, cfg, "s", nil, nil, SessionOptions{})
		testutil.AssertErrorCode(t, err, errors.Locked)
	})

	t.Run("interrupted while waiting for the lock", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.LockDir = t.TempDir()
		held, err := AcquireLock(ctx, cfg.LockDir, cfg.PageURL(), 0)
		require.NoError(t, err)
		defer held.Release()

		ctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(100*time.Millisecond, cancel)
		_, err = NewSession(ctx, cfg, "s", nil, nil, SessionOptions{})
		testutil.AssertErrorCode(t, err, errors.Timeout)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// =============================================================================
// App Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "unknown", opts.Version)
	assert.Equal(t, "unknown", opts.BuildTime)
	assert.Equal(t, "unknown", opts.GitCommit)
	assert.Positive(t, opts.ShutdownTimeout)
}

func TestNew(t *testing.T) {
	a := New(Options{Version: "1.0.0", BuildTime: "today", GitCommit: "abc123"})

	assert.Equal(t, "1.0.0", a.Version())
	assert.Equal(t, "today", a.BuildTime())
	assert.Equal(t, "abc123", a.GitCommit())
	assert.NotNil(t, a.Container())
	assert.Positive(t, a.Lifecycle().Timeout())
	assert.NotNil(t, a.Logger())
	assert.Nil(t, a.Config())
}

func TestApp_Initialize(t *testing.T) {
	a := initializedApp(t)

	c := a.Container()
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetTelemetry())
	assert.Len(t, c.GetSessionID(), 36)
	assert.NoError(t, c.Validate())
}

func TestApp_Initialize_ConfigFile(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", `
log_level: debug
scenario: home-reuse
hidden_steps: [anaconda-screen-date-time]
`)
	a := New(DefaultOptions())
	require.NoError(t, a.Initialize(context.Background(), path, withLockDir(t)))
	defer a.Shutdown()

	cfg := a.Config()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, scenario.HomeReuse, cfg.Scenario)
	assert.Equal(t, []string{"anaconda-screen-date-time"}, cfg.HiddenSteps)
}

func TestApp_Initialize_Overrides(t *testing.T) {
	a := initializedApp(t, func(cfg *config.Config) {
		cfg.Scenario = scenario.MountPointMapping
		cfg.Quiet = true
	})
	assert.Equal(t, scenario.MountPointMapping, a.Config().Scenario)
	assert.Equal(t, logging.LevelError, a.Logger().GetLevel())
}

func TestApp_Initialize_Invalid(t *testing.T) {
	t.Run("unparsable file", func(t *testing.T) {
		path := testutil.WriteFile(t, "config.yaml", "log_level: [")
		err := New(DefaultOptions()).Initialize(context.Background(), path)
		testutil.AssertErrorCode(t, err, errors.Configuration)
		testutil.AssertErrorContains(t, err, "failed to load config")
	})

	t.Run("invalid override", func(t *testing.T) {
		err := New(DefaultOptions()).Initialize(context.Background(), "", func(cfg *config.Config) {
			cfg.Scenario = "nope"
		})
		testutil.AssertErrorCode(t, err, errors.Configuration)
		testutil.AssertErrorContains(t, err, "unknown scenario")
	})
}

func TestApp_Initialize_WithLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "wizardnav.log")
	a := initializedApp(t, func(cfg *config.Config) {
		cfg.LogFile = logFile
	})

	a.Logger().Info("hello from test")
	require.NoError(t, a.Shutdown())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestApp_Session(t *testing.T) {
	a := initializedApp(t)

	s, err := a.Session(context.Background(), SessionOptions{Simulate: true})
	require.NoError(t, err)
	assert.Equal(t, a.Container().GetSessionID(), s.ID)
	require.NoError(t, s.Navigator.Reach(context.Background(), wizard.StepAccounts))

	_, err = New(DefaultOptions()).Session(context.Background(), SessionOptions{Simulate: true})
	testutil.AssertErrorCode(t, err, errors.Configuration)
}

func TestApp_Run(t *testing.T) {
	t.Run("calls fn and shuts down", func(t *testing.T) {
		a := initializedApp(t)
		var shutdown bool
		a.Lifecycle().OnShutdown(func(context.Context) error {
			shutdown = true
			return nil
		})

		var called bool
		err := a.Run(context.Background(), func(ctx context.Context) error {
			called = true
			return ctx.Err()
		})
		assert.NoError(t, err)
		assert.True(t, called)
		assert.True(t, shutdown)
	})

	t.Run("returns fn error", func(t *testing.T) {
		a := initializedApp(t)
		err := a.Run(context.Background(), func(context.Context) error {
			return errors.ErrNavigation
		})
		assert.ErrorIs(t, err, errors.ErrNavigation)
	})

	t.Run("recovers panic", func(t *testing.T) {
		a := initializedApp(t)
		err := a.Run(context.Background(), func(context.Context) error {
			panic("boom")
		})
		testutil.AssertErrorContains(t, err, "panic: boom")
		assert.True(t, a.Lifecycle().IsShuttingDown())
	})
}

func TestApp_RecoverPanic(t *testing.T) {
	a := New(DefaultOptions())
	assert.NotPanics(t, func() {
		defer a.RecoverPanic()
		panic("test panic")
	})
}
