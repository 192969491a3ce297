package network

import (
	"crypto/tls"
	"time"
)

// Config holds network configuration
type Config struct {
	// Network is "tcp" or "unix"
	Network string

	// Address to bind (host) or connect to (client)
	Address string

	// TLS configuration (nil = plaintext, debug only)
	TLS *tls.Config

	// Connection limit; extra clients receive MsgReject
	MaxConns int

	// Timing; zero disables the deadline
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration // Waiting for a reply
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration // Host waiting for the next request

	// Limits and buffer sizes
	MaxPayload      int
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Network:         "tcp",
		Address:         "127.0.0.1:7777",
		TLS:             nil, // Must be explicitly configured for production
		MaxConns:        1,
		ConnectTimeout:  5 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     0,
		MaxPayload:      DefaultMaxPayload,
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
	}
}

// DebugConfig returns config with TLS disabled for local testing
func DebugConfig(network, addr string) *Config {
	cfg := DefaultConfig()
	cfg.Network = network
	cfg.Address = addr
	cfg.TLS = nil
	return cfg
}
