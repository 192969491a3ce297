// Package config loads termsink settings from a TOML file.
//
// A missing file yields defaults. Command-line flags are applied on top by
// the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/termsink/network"
	"github.com/lixenwraith/termsink/terminal"
)

// Host sink kinds
const (
	SinkANSI  = "ansi"
	SinkTcell = "tcell"
)

// Config is the full file layout
type Config struct {
	Render   RenderConfig   `toml:"render"`
	Terminal TerminalConfig `toml:"terminal"`
	Network  NetworkConfig  `toml:"network"`
	Host     HostConfig     `toml:"host"`
}

type RenderConfig struct {
	MaxFrames     int      `toml:"max_frames"` // 0 runs until interrupted
	FrameInterval Duration `toml:"frame_interval"`
	ClearOnResize bool     `toml:"clear_on_resize"`
}

type TerminalConfig struct {
	ColorMode    string `toml:"color_mode"` // "256", "truecolor", or "" to detect
	AltScreen    bool   `toml:"alt_screen"`
	MouseCapture bool   `toml:"mouse_capture"`
}

type NetworkConfig struct {
	Network        string   `toml:"network"`
	Address        string   `toml:"address"`
	ConnectTimeout Duration `toml:"connect_timeout"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	IdleTimeout    Duration `toml:"idle_timeout"`
	MaxPayload     int      `toml:"max_payload"`
}

type HostConfig struct {
	Sink string `toml:"sink"`
}

// Duration reads and writes Go duration strings such as "16ms"
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	nc := network.DefaultConfig()
	return &Config{
		Render: RenderConfig{
			MaxFrames:     1000,
			FrameInterval: Duration(16 * time.Millisecond),
			ClearOnResize: true,
		},
		Terminal: TerminalConfig{
			AltScreen: true,
		},
		Network: NetworkConfig{
			Network:        nc.Network,
			Address:        nc.Address,
			ConnectTimeout: Duration(nc.ConnectTimeout),
			ReadTimeout:    Duration(nc.ReadTimeout),
			WriteTimeout:   Duration(nc.WriteTimeout),
			IdleTimeout:    Duration(nc.IdleTimeout),
			MaxPayload:     nc.MaxPayload,
		},
		Host: HostConfig{
			Sink: SinkANSI,
		},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "termsink.toml"
	}
	return filepath.Join(dir, "termsink", "config.toml")
}

// Load reads path over the defaults; a missing file is not an error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data over the defaults; unknown keys are rejected
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", source, err)
	}
	return cfg, nil
}

// Validate checks enumerated and bounded fields
func (c *Config) Validate() error {
	if c.Render.MaxFrames < 0 {
		return fmt.Errorf("render.max_frames must not be negative: %d", c.Render.MaxFrames)
	}
	if c.Render.FrameInterval < 0 {
		return fmt.Errorf("render.frame_interval must not be negative: %v", time.Duration(c.Render.FrameInterval))
	}
	switch c.Terminal.ColorMode {
	case "", "256", "truecolor", "true", "24bit":
	default:
		return fmt.Errorf("terminal.color_mode: unknown mode %q", c.Terminal.ColorMode)
	}
	switch c.Network.Network {
	case "tcp", "unix":
	default:
		return fmt.Errorf("network.network: unsupported %q", c.Network.Network)
	}
	if c.Network.MaxPayload <= 0 {
		return fmt.Errorf("network.max_payload must be positive: %d", c.Network.MaxPayload)
	}
	switch c.Host.Sink {
	case SinkANSI, SinkTcell:
	default:
		return fmt.Errorf("host.sink: unknown sink %q", c.Host.Sink)
	}
	return nil
}

// ColorMode resolves the configured mode, detecting when unset
func (c *Config) ColorMode() terminal.ColorMode {
	return terminal.ParseColorMode(c.Terminal.ColorMode)
}

// SessionOptions returns the terminal session setup
func (c *Config) SessionOptions() terminal.SessionOptions {
	return terminal.SessionOptions{
		AltScreen:    c.Terminal.AltScreen,
		MouseCapture: c.Terminal.MouseCapture,
	}
}

// NetworkConfig converts the network section for the transport
func (c *Config) NetworkConfig() *network.Config {
	cfg := network.DefaultConfig()
	cfg.Network = c.Network.Network
	cfg.Address = c.Network.Address
	cfg.ConnectTimeout = time.Duration(c.Network.ConnectTimeout)
	cfg.ReadTimeout = time.Duration(c.Network.ReadTimeout)
	cfg.WriteTimeout = time.Duration(c.Network.WriteTimeout)
	cfg.IdleTimeout = time.Duration(c.Network.IdleTimeout)
	cfg.MaxPayload = c.Network.MaxPayload
	return cfg
}

// Encode writes c as TOML
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// ParseError represents an error while parsing a configuration file
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
