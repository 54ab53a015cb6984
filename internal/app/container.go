// Package app provides application initialization, lifecycle management,
// session setup and dependency injection for wizardnav.
package app

import (
	"sync"

	"github.com/tungetti/wizardnav/internal/config"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/telemetry"
)

// Container holds all application dependencies.
// It provides thread-safe access to shared components and ensures
// proper initialization order during application startup.
type Container struct {
	mu        sync.RWMutex
	Config    *config.Config
	Logger    logging.Logger
	Telemetry *telemetry.Provider
	SessionID string
}

// NewContainer creates a new dependency container.
func NewContainer() *Container {
	return &Container{}
}

// SetConfig sets the configuration.
func (c *Container) SetConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Config = cfg
}

// SetLogger sets the logger.
func (c *Container) SetLogger(l logging.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Logger = l
}

// SetTelemetry sets the tracer provider.
func (c *Container) SetTelemetry(p *telemetry.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Telemetry = p
}

// SetSessionID sets the id tagging this run's logs and spans.
func (c *Container) SetSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SessionID = id
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// GetLogger returns the logger.
func (c *Container) GetLogger() logging.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logger
}

// GetTelemetry returns the tracer provider.
func (c *Container) GetTelemetry() *telemetry.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Telemetry
}

// GetSessionID returns the session id.
func (c *Container) GetSessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SessionID
}

// Validate checks that all required dependencies are set.
// Telemetry is optional; a nil provider falls back to the global tracer.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Config == nil {
		return errors.New(errors.Configuration, "config not initialized")
	}
	if c.Logger == nil {
		return errors.New(errors.Configuration, "logger not initialized")
	}
	if c.SessionID == "" {
		return errors.New(errors.Configuration, "session id not initialized")
	}
	return nil
}
