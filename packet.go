package vuams

import (
	"encoding/binary"
	"hash/crc32"
	"strconv"
	"time"
)

// Parameter ids understood by the recorder firmware. There are more, but
// these are the ones the bridge protocol documents.
const (
	ParamStatus   byte = 100
	ParamBattery  byte = 109
	ParamPresence byte = 200
	ParamVersion  byte = 201
	ParamLabel    byte = 202
)

// Control command codes
const (
	cmdStartRecording byte = 5
	cmdStopRecording  byte = 6
)

// Marker ids accepted by the device
const (
	MarkerMin = 1
	MarkerMax = 8
)

// presenceReply is the fixed prefix the device answers a presence query
// with; the trailing four bytes spell "AMS2".
var presenceReply = []byte{12, 0, 129, 200, 'A', 'M', 'S', '2'}

// Minimum reply lengths per request kind. Parameter replies carry their
// value at byte 4.
const (
	minParamReplyLen    = 5
	minPresenceReplyLen = 8
)

// frame appends the CRC-32 (IEEE) trailer the bridge requires. The device
// expects the checksum least-significant byte first.
func frame(payload []byte) []byte {
	crc := crc32.ChecksumIEEE(payload)
	packet := make([]byte, len(payload), len(payload)+4)
	copy(packet, payload)
	return binary.LittleEndian.AppendUint32(packet, crc)
}

// parameterRequest builds a query for one firmware parameter
func parameterRequest(par byte) []byte {
	return frame([]byte{8, 0, 1, par})
}

// controlRequest builds a start/stop style control command
func controlRequest(cmd byte) []byte {
	return frame([]byte{8, 0, 11, cmd})
}

// timeSyncRequest builds a wall-clock synchronization packet
func timeSyncRequest(t time.Time) []byte {
	enc := EncodeDeviceTime(t)
	payload := make([]byte, 0, 4+len(enc))
	payload = append(payload, byte(8+len(enc)), 0, 6, 0)
	payload = append(payload, enc...)
	return frame(payload)
}

// markerRequest builds a marker injection packet. The firmware takes a
// 52-byte record with a fixed header and the marker text as ASCII at
// offset 20; numeric ids are sent as their decimal digit.
func markerRequest(id int) []byte {
	payload := make([]byte, 52)
	payload[0] = 56
	payload[2] = 14
	payload[4] = 3
	payload[6] = 48
	payload[8] = 17
	payload[9] = 17
	payload[10] = 17
	payload[11] = 17
	payload[12] = 1
	payload[16] = 4

	text := strconv.Itoa(id)
	copy(payload[20:], text)

	return frame(payload)
}

// EncodeDeviceTime converts a wall-clock time to the recorder's 8-byte
// format: year since 1900, zero-based month (Java convention), day, hour,
// minute, second, DST flag, and ISO weekday (Monday=1).
func EncodeDeviceTime(t time.Time) []byte {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	dst := byte(0)
	if isDST(t) {
		dst = 1
	}

	return []byte{
		byte(t.Year() - 1900),
		byte(int(t.Month()) - 1),
		byte(t.Day()),
		byte(t.Hour()),
		byte(t.Minute()),
		byte(t.Second()),
		dst,
		byte(weekday),
	}
}

// DecodeDeviceTime is the inverse of EncodeDeviceTime, to second
// precision in the local zone. The DST and weekday bytes are derived
// fields and are not consulted.
func DecodeDeviceTime(b []byte) (time.Time, error) {
	if len(b) < 8 {
		return time.Time{}, ErrProtocol
	}
	return time.Date(
		1900+int(b[0]),
		time.Month(int(b[1])+1),
		int(b[2]),
		int(b[3]), int(b[4]), int(b[5]), 0,
		time.Local,
	), nil
}

// isDST reports whether t falls in daylight saving time, by comparing its
// zone offset against the extremes of its year.
func isDST(t time.Time) bool {
	_, offset := t.Zone()
	_, jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()).Zone()
	_, jul := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, t.Location()).Zone()
	if jan == jul {
		return false
	}
	return offset == max(jan, jul)
}
