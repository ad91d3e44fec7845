package vuams

import (
	"errors"
	"testing"
	"time"

	"go.bug.st/serial"
)

// fakePort implements serial.Port without hardware. Reads return the
// queued replies one burst at a time; an empty queue behaves like a read
// timeout (n=0), which is how go.bug.st/serial reports one.
type fakePort struct {
	writes  [][]byte
	replies [][]byte
	closed  bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errors.New("port closed")
	}
	if len(f.replies) == 0 {
		return 0, nil // timeout slice elapsed, no data
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return copy(p, reply), nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errors.New("port closed")
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	f.writes = append(f.writes, buf)
	return len(p), nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func (f *fakePort) SetMode(mode *serial.Mode) error      { return nil }
func (f *fakePort) SetReadTimeout(t time.Duration) error { return nil }
func (f *fakePort) Drain() error                         { return nil }
func (f *fakePort) ResetInputBuffer() error              { return nil }
func (f *fakePort) ResetOutputBuffer() error             { return nil }
func (f *fakePort) SetDTR(dtr bool) error                { return nil }
func (f *fakePort) SetRTS(rts bool) error                { return nil }
func (f *fakePort) Break(d time.Duration) error          { return nil }

func (f *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

// newFakeClient returns a connected client backed by a fakePort
func newFakeClient(t *testing.T, replies ...[]byte) (*Client, *fakePort) {
	t.Helper()

	fake := &fakePort{replies: replies}
	client, err := NewClient("/dev/ttyUSB0",
		WithReplyTimeout(200*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.open = func(name string, mode *serial.Mode) (serial.Port, error) {
		return fake, nil
	}
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return client, fake
}

// paramReply builds a minimal parameter reply carrying value at byte 4
func paramReply(par, value byte) []byte {
	return []byte{12, 0, 129, par, value}
}

func TestOperationsRequireConnection(t *testing.T) {
	client, err := NewClient("/dev/ttyUSB0")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	tests := []struct {
		name string
		op   func() error
	}{
		{"Status", func() error { _, err := client.Status(); return err }},
		{"Label", func() error { _, err := client.Label(); return err }},
		{"IsDevicePresent", func() error { _, err := client.IsDevicePresent(); return err }},
		{"SyncTime", func() error { return client.SyncTime() }},
		{"StartRecording", func() error { return client.StartRecording() }},
		{"StopRecording", func() error { return client.StopRecording() }},
		{"SendMarker", func() error { return client.SendMarker(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, ErrNotConnected) {
				t.Errorf("Expected ErrNotConnected, got %v", err)
			}
		})
	}
}

func TestConnectFailureWrapsErrConnection(t *testing.T) {
	client, err := NewClient("/dev/ttyUSB0")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.open = func(name string, mode *serial.Mode) (serial.Port, error) {
		return nil, errors.New("device or resource busy")
	}

	err = client.Connect()
	if !errors.Is(err, ErrConnection) {
		t.Errorf("Expected ErrConnection, got %v", err)
	}
	if client.IsConnected() {
		t.Error("Client should not report connected after failed open")
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	client, fake := newFakeClient(t)

	if err := client.Disconnect(); err != nil {
		t.Errorf("First disconnect failed: %v", err)
	}
	if !fake.closed {
		t.Error("Underlying port not closed")
	}
	if err := client.Disconnect(); err != nil {
		t.Errorf("Second disconnect failed: %v", err)
	}
	if client.IsConnected() {
		t.Error("Client still reports connected after disconnect")
	}
}

func TestReconnectAfterDisconnect(t *testing.T) {
	client, _ := newFakeClient(t)

	if err := client.Disconnect(); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	// The opener must be consulted again; no stale handle may survive
	client.open = func(name string, mode *serial.Mode) (serial.Port, error) {
		return &fakePort{}, nil
	}
	if err := client.Connect(); err != nil {
		t.Errorf("Reconnect failed: %v", err)
	}
	if !client.IsConnected() {
		t.Error("Client should report connected after reconnect")
	}
}

func TestSilentDeviceTimesOut(t *testing.T) {
	client, _ := newFakeClient(t) // no replies queued

	_, err := client.Status()
	if !errors.Is(err, ErrReplyTimeout) {
		t.Errorf("Expected ErrReplyTimeout, got %v", err)
	}

	// The failure must not tear down the connection
	if !client.IsConnected() {
		t.Error("Connection was closed by a timeout")
	}
}

// streamingPort never goes quiet: every read returns more data
type streamingPort struct {
	fakePort
}

func (s *streamingPort) Read(p []byte) (int, error) {
	time.Sleep(time.Millisecond)
	return copy(p, []byte{12, 0, 129, 100, 3, 0, 0, 0}), nil
}

func TestStreamingDeviceIsBoundedByDeadline(t *testing.T) {
	client, err := NewClient("/dev/ttyUSB0",
		WithReplyTimeout(50*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.open = func(name string, mode *serial.Mode) (serial.Port, error) {
		return &streamingPort{}, nil
	}
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	start := time.Now()
	if _, err := client.Status(); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Exchange ran %v, expected it to stop at the 50ms deadline", elapsed)
	}
}

func TestShortReplyIsProtocolError(t *testing.T) {
	client, _ := newFakeClient(t, []byte{12, 0})

	_, err := client.Status()
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Expected ErrProtocol, got %v", err)
	}
}

func TestStatusDecoding(t *testing.T) {
	tests := []struct {
		name      string
		raw       byte
		status    DeviceStatus
		label     string
		wantKnown bool
	}{
		{"no memory", 1, StatusNoMemory, "No Memory", true},
		{"close cover", 2, StatusCloseCover, "Close Cover", true},
		{"idle", 3, StatusIdle, "Idle", true},
		{"recording", 4, StatusRecording, "Recording", true},
		{"memory full", 5, StatusMemoryFull, "Memory Full", true},
		{"battery low", 6, StatusBatteryLow, "Battery Low", true},
		{"unmapped byte", 42, DeviceStatus(42), "Unknown (42)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newFakeClient(t, paramReply(ParamStatus, tt.raw))

			status, err := client.Status()
			if err != nil {
				t.Fatalf("Status failed: %v", err)
			}
			if status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, status)
			}
			if status.String() != tt.label {
				t.Errorf("Expected label %q, got %q", tt.label, status.String())
			}
			if status.Known() != tt.wantKnown {
				t.Errorf("Known() = %v, want %v", status.Known(), tt.wantKnown)
			}
		})
	}
}

func TestDevicePresent(t *testing.T) {
	t.Run("device answers", func(t *testing.T) {
		client, fake := newFakeClient(t, append([]byte{12, 0, 129, 200, 'A', 'M', 'S', '2'}, 0, 0))

		present, err := client.IsDevicePresent()
		if err != nil {
			t.Fatalf("IsDevicePresent failed: %v", err)
		}
		if !present {
			t.Error("Expected device to be present")
		}

		// Presence is parameter query 200
		if len(fake.writes) != 1 {
			t.Fatalf("Expected 1 write, got %d", len(fake.writes))
		}
		if fake.writes[0][3] != ParamPresence {
			t.Errorf("Expected parameter %d, got %d", ParamPresence, fake.writes[0][3])
		}
	})

	t.Run("wrong prefix", func(t *testing.T) {
		client, _ := newFakeClient(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})

		present, err := client.IsDevicePresent()
		if err != nil {
			t.Fatalf("IsDevicePresent failed: %v", err)
		}
		if present {
			t.Error("Expected device to be absent")
		}
	})

	t.Run("silent port", func(t *testing.T) {
		client, _ := newFakeClient(t)

		present, err := client.IsDevicePresent()
		if err != nil {
			t.Fatalf("Silence should not be an error for presence, got %v", err)
		}
		if present {
			t.Error("Expected device to be absent on silent port")
		}
	})
}

func TestLabel(t *testing.T) {
	client, _ := newFakeClient(t, paramReply(ParamLabel, 57))

	label, err := client.Label()
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if label != "57" {
		t.Errorf("Expected label %q, got %q", "57", label)
	}
}

func TestRecordingCommands(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Client) error
		cmd  byte
	}{
		{"start", (*Client).StartRecording, 5},
		{"stop", (*Client).StopRecording, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := newFakeClient(t, []byte{1})

			if err := tt.op(client); err != nil {
				t.Fatalf("Command failed: %v", err)
			}
			if len(fake.writes) != 1 {
				t.Fatalf("Expected 1 write, got %d", len(fake.writes))
			}
			request := fake.writes[0]
			if request[2] != 11 || request[3] != tt.cmd {
				t.Errorf("Expected control command %d, got header %v", tt.cmd, request[:4])
			}
		})
	}
}

func TestSendMarker(t *testing.T) {
	t.Run("valid ids write one packet", func(t *testing.T) {
		for id := MarkerMin; id <= MarkerMax; id++ {
			client, fake := newFakeClient(t)

			if err := client.SendMarker(id); err != nil {
				t.Fatalf("SendMarker(%d) failed: %v", id, err)
			}
			if len(fake.writes) != 1 {
				t.Fatalf("Expected 1 write, got %d", len(fake.writes))
			}
			// 52-byte record + 4-byte checksum
			if len(fake.writes[0]) != 56 {
				t.Errorf("Expected 56-byte marker packet, got %d", len(fake.writes[0]))
			}
			if fake.writes[0][20] != byte('0'+id) {
				t.Errorf("Expected marker digit %q at offset 20, got %q", '0'+id, fake.writes[0][20])
			}
		}
	})

	t.Run("out of range ids never touch the device", func(t *testing.T) {
		for _, id := range []int{-1, 0, 9, 100} {
			client, fake := newFakeClient(t)

			err := client.SendMarker(id)
			if !errors.Is(err, ErrInvalidMarker) {
				t.Errorf("SendMarker(%d): expected ErrInvalidMarker, got %v", id, err)
			}
			if len(fake.writes) != 0 {
				t.Errorf("SendMarker(%d) wrote to the port despite invalid id", id)
			}
		}
	})
}

func TestSyncTimeSendsEncodedClock(t *testing.T) {
	client, fake := newFakeClient(t, []byte{1})

	at := time.Date(2024, time.February, 1, 13, 37, 42, 0, time.Local)
	if err := client.syncTime(at); err != nil {
		t.Fatalf("syncTime failed: %v", err)
	}

	if len(fake.writes) != 1 {
		t.Fatalf("Expected 1 write, got %d", len(fake.writes))
	}
	request := fake.writes[0]
	// 4 header + 8 time + 4 checksum
	if len(request) != 16 {
		t.Fatalf("Expected 16-byte sync packet, got %d", len(request))
	}
	if request[2] != 6 {
		t.Errorf("Expected sync command code 6, got %d", request[2])
	}
	if request[4] != byte(2024-1900) {
		t.Errorf("Expected year byte %d, got %d", 2024-1900, request[4])
	}
	if request[5] != byte(time.February-1) {
		t.Errorf("Expected zero-based month %d, got %d", time.February-1, request[5])
	}
}
