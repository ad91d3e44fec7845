package vuams

import (
	"errors"
	"testing"
)

func ftdiPort(name string) PortDetails {
	return PortDetails{Name: name, IsUSB: true, VID: "0403", PID: "6001"}
}

func TestMatchPort(t *testing.T) {
	tests := []struct {
		name    string
		ports   []PortDetails
		want    string
		wantErr error
	}{
		{
			name:    "no ports enumerated",
			ports:   nil,
			wantErr: ErrDeviceNotFound,
		},
		{
			name: "no matching signature",
			ports: []PortDetails{
				{Name: "/dev/ttyS0"},
				{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
			},
			wantErr: ErrDeviceNotFound,
		},
		{
			name: "exactly one match",
			ports: []PortDetails{
				{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
				ftdiPort("/dev/ttyUSB0"),
			},
			want: "/dev/ttyUSB0",
		},
		{
			name: "windows com port name",
			ports: []PortDetails{
				{Name: "COM5", IsUSB: true, VID: "0403", PID: "6001"},
			},
			want: "COM5",
		},
		{
			name: "matching ids on a non-usb port are ignored",
			ports: []PortDetails{
				{Name: "/dev/ttyS0", IsUSB: false, VID: "0403", PID: "6001"},
			},
			wantErr: ErrDeviceNotFound,
		},
		{
			name: "two matches is ambiguous",
			ports: []PortDetails{
				ftdiPort("/dev/ttyUSB0"),
				ftdiPort("/dev/ttyUSB1"),
			},
			wantErr: ErrAmbiguousDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchPort(tt.ports, FTDISignature)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MatchPort failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected port %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFindDevicePortHintBypassesScan(t *testing.T) {
	// A hint is trusted verbatim, even if nothing on the system matches
	got, err := FindDevicePort("COM5", FTDISignature)
	if err != nil {
		t.Fatalf("FindDevicePort with hint failed: %v", err)
	}
	if got != "COM5" {
		t.Errorf("Expected hint to be returned verbatim, got %q", got)
	}
}
