package transport

import (
	"context"
	"errors"
	"log"
	"time"

	proto "roverc/protocol"
)

// PollTimeout bounds a single Rx call so Pump notices cancellation.
const PollTimeout = 100 * time.Millisecond

// Pump delivers every datagram received by d into sink until ctx is done.
// It stands in for the interrupt-context receive callback of the radio stack.
func Pump(ctx context.Context, d Driver, sink Sink) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		data, err := d.Rx(PollTimeout)
		if err != nil {
			if !errors.Is(err, proto.ErrTimeout) {
				log.Printf("[transport] rx: %v", err)
				time.Sleep(PollTimeout)
			}
			continue
		}
		if len(data) > 0 {
			sink.Put(data)
		}
	}
}
