package transport

import "time"

// Driver is the interface that wraps the point-to-point packet radio.
//
// Broadcast reaches every listener and is used for binding. Send is the
// unicast half of the radio contract; the receiver itself never replies to
// the joystick, but bridges and test drivers implement it. Rx waits up to
// timeout for the next datagram.
type Driver interface {
	Broadcast(data []byte) error
	Send(data []byte) error
	Rx(timeout time.Duration) ([]byte, error)
}

// Sink receives datagrams delivered by a Driver.
type Sink interface {
	Put(data []byte)
}
