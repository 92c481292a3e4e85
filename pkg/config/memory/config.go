// Package memory provides in memory config.Config implementations for tests
// and statically supplied values.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/config"
)

var errDeveloperInduced = errors.New("in memory config: developer induced error")

// Config is a single in memory config value
type Config struct {
	stateMu  sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a new in memory config. Use an initial nil value to indicate
// no value is set
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

// Get implements Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements Config.Shutdown
func (c *Config) Shutdown() {
	c.stateMu.Lock()
	c.shutdown = true
	c.stateMu.Unlock()
}

// SetValue sets the value that should be returned on subsequent Get calls
func (c *Config) SetValue(value interface{}) {
	c.stateMu.Lock()
	c.value = value
	c.stateMu.Unlock()
}

// ClearValue results in ErrNoValue being returned on subsequent Get calls
func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// InduceErrors instructs the config to simulate an error getting a config value
func (c *Config) InduceErrors() {
	c.stateMu.Lock()
	c.err = errDeveloperInduced
	c.stateMu.Unlock()
}

// StopInducingErrors stops the config from simulating an error getting a config value
func (c *Config) StopInducingErrors() {
	c.stateMu.Lock()
	c.err = nil
	c.stateMu.Unlock()
}

// Source is a keyed set of in memory configs. Configs for unknown keys are
// created empty on first use, so values can be set before or after the
// consumer resolves them.
type Source struct {
	mu      sync.Mutex
	configs map[string]*Config
}

// NewSource returns a Source seeded with the provided values.
func NewSource(values map[string]interface{}) *Source {
	s := &Source{configs: make(map[string]*Config)}
	for key, value := range values {
		s.configs[key] = NewConfig(value)
	}
	return s
}

// Config implements config.Source.Config
func (s *Source) Config(key string) config.Config {
	return s.Get(key)
}

// Get returns the mutable config for key.
func (s *Source) Get(key string) *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.configs[key]
	if !ok {
		c = NewConfig(nil)
		s.configs[key] = c
	}
	return c
}
