package vuams

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Client owns a single serial connection to one VU-AMS recorder. It is
// strictly synchronous: one command is in flight at a time and every
// operation blocks until the device replies or the reply deadline passes.
//
// A Client is not safe for concurrent use; the device cannot interleave
// commands anyway.
type Client struct {
	portName string
	config   Config
	logger   *zap.Logger

	// open is replaceable so protocol tests can run against a fake port
	open func(name string, mode *serial.Mode) (serial.Port, error)
	port serial.Port
}

// NewClient creates a client bound to the named serial port. The port is
// not opened until Connect is called.
func NewClient(portName string, opts ...Option) (*Client, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	return &Client{
		portName: portName,
		config:   config,
		logger:   config.Logger.With(zap.String("port", portName)),
		open:     serial.Open,
	}, nil
}

// Connect opens the serial port at the device's fixed framing. It does
// not probe the device; pair with IsDevicePresent to verify the right
// hardware answered.
func (c *Client) Connect() error {
	if c.port != nil {
		return nil
	}

	mode := &serial.Mode{
		BaudRate: c.config.BaudRate,
		DataBits: c.config.DataBits,
		StopBits: serial.OneStopBit,
	}
	if c.config.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch c.config.Parity {
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}

	c.logger.Info("Opening serial port",
		zap.Int("baud_rate", mode.BaudRate),
		zap.Duration("reply_timeout", c.config.ReplyTimeout),
	)

	port, err := c.open(c.portName, mode)
	if err != nil {
		c.logger.Error("Failed to open serial port", zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrConnection, c.portName, err)
	}

	// Reads block for one poll slice at most, so exchange can enforce
	// its own overall deadline.
	if err := port.SetReadTimeout(c.config.PollInterval); err != nil {
		port.Close()
		return fmt.Errorf("%w: set read timeout: %v", ErrConnection, err)
	}

	c.port = port
	return nil
}

// Disconnect releases the serial port. Safe to call at any time, on any
// exit path, and more than once.
func (c *Client) Disconnect() error {
	if c.port == nil {
		return nil
	}

	err := c.port.Close()
	c.port = nil

	if err != nil {
		c.logger.Error("Failed to close serial port", zap.Error(err))
		return err
	}
	c.logger.Info("Serial port closed")
	return nil
}

// IsConnected reports whether the serial port is currently open
func (c *Client) IsConnected() bool {
	return c.port != nil
}

// PortName returns the serial port this client is bound to
func (c *Client) PortName() string {
	return c.portName
}

// exchange is the single request/reply primitive every operation is built
// on. It writes one framed packet, then accumulates whatever the device
// sends back until a quiet poll or the reply deadline. The device uses no
// terminator byte; it answers in one burst.
//
// A deadline with zero bytes is ErrReplyTimeout; a reply shorter than
// minReply is ErrProtocol. Neither closes the connection.
func (c *Client) exchange(request []byte, minReply int) ([]byte, error) {
	if c.port == nil {
		return nil, ErrNotConnected
	}

	n, err := c.port.Write(request)
	if err != nil {
		return nil, fmt.Errorf("%w: write: %v", ErrConnection, err)
	}
	if n != len(request) {
		return nil, fmt.Errorf("%w: short write: %d of %d bytes", ErrConnection, n, len(request))
	}

	deadline := time.Now().Add(c.config.ReplyTimeout)
	reply := make([]byte, 0, 64)
	buf := make([]byte, 256)

	for {
		n, err := c.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: read: %v", ErrConnection, err)
		}
		if n > 0 {
			reply = append(reply, buf[:n]...)
			// A device that never goes quiet must not hold the
			// loop past the deadline
			if time.Now().After(deadline) {
				break
			}
			continue
		}

		// Quiet poll: the burst is over once we have data
		if len(reply) > 0 {
			break
		}
		if time.Now().After(deadline) {
			c.logger.Debug("Reply deadline exceeded", zap.Int("request_len", len(request)))
			return nil, ErrReplyTimeout
		}
	}

	if len(reply) < minReply {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d", ErrProtocol, len(reply), minReply)
	}

	c.logger.Debug("Command exchange completed",
		zap.Int("request_len", len(request)),
		zap.Int("reply_len", len(reply)),
	)
	return reply, nil
}

// Parameter queries one firmware parameter and returns the raw reply.
// Known ids are the Param* constants; the value byte sits at index 4.
func (c *Client) Parameter(id byte) ([]byte, error) {
	return c.exchange(parameterRequest(id), minParamReplyLen)
}

// IsDevicePresent checks whether an AMS recorder is answering on this
// port. A silent or garbled port means "not present" rather than an
// error; only a missing connection is reported as one.
func (c *Client) IsDevicePresent() (bool, error) {
	reply, err := c.exchange(parameterRequest(ParamPresence), minPresenceReplyLen)
	switch {
	case err == nil:
		return bytes.HasPrefix(reply, presenceReply), nil
	case errors.Is(err, ErrReplyTimeout), errors.Is(err, ErrProtocol):
		return false, nil
	default:
		return false, err
	}
}

// Status returns the device's operating state. Unrecognized status bytes
// decode to an explicit unknown state, never an error.
func (c *Client) Status() (DeviceStatus, error) {
	reply, err := c.Parameter(ParamStatus)
	if err != nil {
		return StatusUnknown, err
	}
	return statusFromByte(reply[4]), nil
}

// Label returns the device label (serial number) as an opaque string
func (c *Client) Label() (string, error) {
	reply, err := c.Parameter(ParamLabel)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(int(reply[4])), nil
}

// SyncTime sets the device clock to the current system time
func (c *Client) SyncTime() error {
	return c.syncTime(time.Now())
}

func (c *Client) syncTime(t time.Time) error {
	_, err := c.exchange(timeSyncRequest(t), 1)
	return err
}

// StartRecording starts a recording session on the device
func (c *Client) StartRecording() error {
	_, err := c.exchange(controlRequest(cmdStartRecording), 1)
	return err
}

// StopRecording stops the active recording session
func (c *Client) StopRecording() error {
	_, err := c.exchange(controlRequest(cmdStopRecording), 1)
	return err
}

// SendMarker injects an event marker into the recording stream. The id is
// validated before any bytes hit the wire. The device sends no
// acknowledgement for markers, so a successful write is success.
func (c *Client) SendMarker(id int) error {
	if id < MarkerMin || id > MarkerMax {
		return fmt.Errorf("%w: %d (accepted: %d-%d)", ErrInvalidMarker, id, MarkerMin, MarkerMax)
	}
	if c.port == nil {
		return ErrNotConnected
	}

	request := markerRequest(id)
	n, err := c.port.Write(request)
	if err != nil {
		return fmt.Errorf("%w: write: %v", ErrConnection, err)
	}
	if n != len(request) {
		return fmt.Errorf("%w: short write: %d of %d bytes", ErrConnection, n, len(request))
	}

	c.logger.Debug("Marker sent", zap.Int("marker", id))
	return nil
}
