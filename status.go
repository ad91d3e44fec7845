package vuams

import "fmt"

// DeviceStatus is the operating state reported by the recorder
type DeviceStatus int

const (
	StatusUnknown    DeviceStatus = 0
	StatusNoMemory   DeviceStatus = 1
	StatusCloseCover DeviceStatus = 2
	StatusIdle       DeviceStatus = 3
	StatusRecording  DeviceStatus = 4
	StatusMemoryFull DeviceStatus = 5
	StatusBatteryLow DeviceStatus = 6
)

// statusLabels is the fixed mapping the device firmware uses
var statusLabels = map[DeviceStatus]string{
	StatusNoMemory:   "No Memory",
	StatusCloseCover: "Close Cover",
	StatusIdle:       "Idle",
	StatusRecording:  "Recording",
	StatusMemoryFull: "Memory Full",
	StatusBatteryLow: "Battery Low",
}

func (s DeviceStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Unknown (%d)", int(s))
}

// Known reports whether the status byte maps to a documented state
func (s DeviceStatus) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// statusFromByte decodes a raw status byte. Unrecognized values stay
// readable instead of erroring: the integer form preserves the raw byte
// and the label form reads "Unknown (n)".
func statusFromByte(b byte) DeviceStatus {
	return DeviceStatus(b)
}
