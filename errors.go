package vuams

import "errors"

// Predefined error types for robust error handling
var (
	// Discovery errors
	ErrDeviceNotFound  = errors.New("no VU-AMS device found on any serial port")
	ErrAmbiguousDevice = errors.New("multiple serial ports match the VU-AMS signature")

	// Connection errors
	ErrConnection   = errors.New("failed to open serial connection")
	ErrNotConnected = errors.New("device is not connected")

	// Protocol errors
	ErrReplyTimeout = errors.New("no reply from device within timeout")
	ErrProtocol     = errors.New("malformed or truncated device reply")

	// Operation errors
	ErrInvalidMarker = errors.New("marker id outside accepted range")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid client configuration")
)
