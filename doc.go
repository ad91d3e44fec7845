// Package vuams provides a Go client for the VU-AMS biosignal recorder,
// reachable over its USB infrared bridge as a virtual COM port.
//
// The device speaks a synchronous request/reply protocol: short framed
// packets with a CRC-32 trailer, answered in a single burst. The client
// covers presence checks, label and status queries, clock
// synchronization, recording control and event markers.
//
// # Basic Usage
//
// Locate the device, connect, and run commands:
//
//	port, err := vuams.FindDevicePort("", vuams.FTDISignature)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := vuams.NewClient(port)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	status, err := client.Status()
//	fmt.Println(status) // e.g. "Idle"
//
// # Configuration Options
//
// The serial framing defaults to what the AMS hardware expects
// (38400 8N1); options exist for the tunable parts:
//
//	client, err := vuams.NewClient(port,
//	    vuams.WithReplyTimeout(5*time.Second),
//	    vuams.WithLogger(logger),
//	)
//
// # Error Handling
//
// Failures are distinguishable with errors.Is against the package
// sentinels (ErrDeviceNotFound, ErrAmbiguousDevice, ErrConnection,
// ErrNotConnected, ErrReplyTimeout, ErrProtocol, ErrInvalidMarker).
//
// Exactly one command may be outstanding per connection; the client is
// not safe for concurrent use.
package vuams
