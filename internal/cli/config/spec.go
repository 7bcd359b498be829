package config

import (
	"fmt"
	"net"
	"time"
)

// Defaults.
const (
	DefaultServer  = "127.0.0.1:6379"
	DefaultOutput  = "text"
	DefaultTimeout = 5 * time.Second
)

// CLIConfig is the configuration for respd-cli.
type CLIConfig struct {
	DefaultServer string        `yaml:"default_server" json:"default_server"`
	DefaultOutput string        `yaml:"default_output" json:"default_output"` // text, table, json, yaml
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`

	// Saved connections
	Connections map[string]ConnectionConfig `yaml:"connections,omitempty" json:"connections,omitempty"`
}

// ConnectionConfig stores saved connection details.
type ConnectionConfig struct {
	Server string `yaml:"server" json:"server"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: DefaultServer,
		DefaultOutput: DefaultOutput,
		Timeout:       DefaultTimeout,
		Connections:   make(map[string]ConnectionConfig),
	}
}

// Resolve maps a connection name to a server address. An empty name gives
// the default server; a name that is not a saved connection is returned as
// is when it looks like host:port.
func (c *CLIConfig) Resolve(name string) (string, error) {
	if name == "" {
		return c.DefaultServer, nil
	}
	if conn, ok := c.Connections[name]; ok {
		return conn.Server, nil
	}
	if _, _, err := net.SplitHostPort(name); err == nil {
		return name, nil
	}
	return "", fmt.Errorf("unknown connection %q", name)
}

// AddConnection saves a named connection.
func (c *CLIConfig) AddConnection(name, server string) error {
	if name == "" {
		return fmt.Errorf("connection name is required")
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		return fmt.Errorf("invalid server address %q: %w", server, err)
	}
	if c.Connections == nil {
		c.Connections = make(map[string]ConnectionConfig)
	}
	c.Connections[name] = ConnectionConfig{Server: server}
	return nil
}

// RemoveConnection deletes a named connection and reports whether it existed.
func (c *CLIConfig) RemoveConnection(name string) bool {
	if _, ok := c.Connections[name]; !ok {
		return false
	}
	delete(c.Connections, name)
	return true
}
