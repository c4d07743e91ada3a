package joystick

import (
	"context"
	"log"
	"time"

	proto "roverc/protocol"
)

// Broadcaster is the part of a transport used to announce the receiver.
type Broadcaster interface {
	Broadcast(data []byte) error
}

// BroadcastForBinding announces the receiver's address to an unpaired
// joystick count times, delay apart. It stops at the first failed broadcast.
func (c *Channel) BroadcastForBinding(ctx context.Context, b Broadcaster, count int, delay time.Duration) error {
	data := proto.EncodeBinding(c.channel, c.address)
	for i := 0; i < count; i++ {
		if err := b.Broadcast(data); err != nil {
			log.Printf("[joystick] binding broadcast failed: %v", err)
			return err
		}
		if i == count-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	log.Printf("[joystick] announced %v on channel %d (%d broadcasts)", c.address, c.channel, count)
	return nil
}
