package vuams

import (
	"time"

	"go.uber.org/zap"
)

// Config holds the serial and protocol configuration for a device client
type Config struct {
	BaudRate     int
	DataBits     int
	StopBits     int
	Parity       Parity
	ReplyTimeout time.Duration // overall deadline for a command reply
	PollInterval time.Duration // single blocking read slice while waiting
	Logger       *zap.Logger
}

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// Option is a functional option for configuring a device client
type Option func(*Config) error

// DefaultConfig returns the configuration the AMS hardware expects
// (38400 8N1, no parity) with a 3 second reply deadline.
func DefaultConfig() Config {
	return Config{
		BaudRate:     38400,
		DataBits:     8,
		StopBits:     1,
		Parity:       ParityNone,
		ReplyTimeout: 3 * time.Second,
		PollInterval: 100 * time.Millisecond,
		Logger:       zap.NewNop(),
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return ErrInvalidConfig
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReplyTimeout sets the overall deadline for a single command reply
func WithReplyTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.ReplyTimeout = timeout
		return nil
	}
}

// WithPollInterval sets the blocking read slice used while waiting for a
// reply. Must be shorter than the reply timeout.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) error {
		if interval <= 0 {
			return ErrInvalidConfig
		}
		c.PollInterval = interval
		return nil
	}
}

// WithLogger attaches a structured logger to the client
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.Logger = logger
		return nil
	}
}
