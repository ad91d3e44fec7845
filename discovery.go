package vuams

import (
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Signature identifies the device's USB-to-serial bridge among enumerated
// ports. VID/PID are upper-case hex strings as reported by the OS.
type Signature struct {
	VID string
	PID string
}

// FTDISignature is the FT232 bridge the AMS infrared dongle ships with.
var FTDISignature = Signature{VID: "0403", PID: "6001"}

// PortDetails describes one enumerated serial port
type PortDetails struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// ListPorts returns all serial ports currently visible to the operating
// system, sorted by name for consistent ordering.
func ListPorts() ([]PortDetails, error) {
	detailed, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]PortDetails, 0, len(detailed))
	for _, p := range detailed {
		ports = append(ports, PortDetails{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
		})
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

// Matches reports whether the port carries the given USB bridge signature
func (p PortDetails) Matches(sig Signature) bool {
	return p.IsUSB &&
		strings.EqualFold(p.VID, sig.VID) &&
		strings.EqualFold(p.PID, sig.PID)
}

// MatchPort scans an enumerated port list for the device signature.
// It never touches the OS, so callers can feed it synthetic lists.
//
// Exactly one match is required: zero matches fail with ErrDeviceNotFound,
// two or more fail with ErrAmbiguousDevice rather than guessing.
func MatchPort(ports []PortDetails, sig Signature) (string, error) {
	var matched []string
	for _, p := range ports {
		if p.Matches(sig) {
			matched = append(matched, p.Name)
		}
	}

	switch len(matched) {
	case 0:
		return "", ErrDeviceNotFound
	case 1:
		return matched[0], nil
	default:
		return "", ErrAmbiguousDevice
	}
}

// FindDevicePort locates the port the device is attached to. A non-empty
// hint bypasses scanning entirely; the caller is trusted to name a valid
// port.
func FindDevicePort(hint string, sig Signature) (string, error) {
	if hint != "" {
		return hint, nil
	}

	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	return MatchPort(ports, sig)
}
