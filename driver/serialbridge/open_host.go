//go:build !tinygo && !baremetal

package serialbridge

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Open opens a host serial device, e.g. /dev/ttyUSB0, and wraps it in a Bridge.
// The returned port must be closed by the caller.
func Open(name string, baud int) (*Bridge, serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	// Run polls for cancellation between reads.
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("configure %s: %w", name, err)
	}
	return New(port), port, nil
}

// Ports lists the serial devices present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
