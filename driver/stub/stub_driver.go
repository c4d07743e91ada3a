package stub

import (
	"sync"
	"time"

	proto "roverc/protocol"
	"roverc/transport"
)

// Driver implements an in-memory radio for host-side testing.
type Driver struct {
	mu      sync.Mutex
	rxBuf   ringBuffer
	txBuf   ringBuffer
	bcBuf   ringBuffer
	failing error
}

func New() *Driver { return &Driver{} }

var _ transport.Driver = (*Driver)(nil)

func (d *Driver) Send(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failing != nil {
		return d.failing
	}
	d.txBuf.push(clone(data))
	return nil
}

func (d *Driver) Broadcast(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failing != nil {
		return d.failing
	}
	d.bcBuf.push(clone(data))
	return nil
}

func (d *Driver) Rx(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		d.mu.Lock()
		frame, ok := d.rxBuf.pop()
		d.mu.Unlock()
		if ok {
			return frame, nil
		}

		if time.Now().After(deadline) {
			return nil, proto.ErrTimeout
		}
		time.Sleep(1 * time.Millisecond)
	}
}

// InjectRx queues data as if it had arrived over the air.
func (d *Driver) InjectRx(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rxBuf.push(clone(data))
}

// FailWith makes every subsequent Send and Broadcast return err. A nil err clears it.
func (d *Driver) FailWith(err error) {
	d.mu.Lock()
	d.failing = err
	d.mu.Unlock()
}

func (d *Driver) GetTxLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txBuf.snapshot()
}

func (d *Driver) GetBroadcastLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bcBuf.snapshot()
}

func clone(data []byte) []byte {
	frame := make([]byte, len(data))
	copy(frame, data)
	return frame
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// drop the oldest
		rb.data[rb.head] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) pop() ([]byte, bool) {
	if rb.count == 0 {
		return nil, false
	}
	frame := rb.data[rb.head]
	rb.data[rb.head] = nil
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return frame, true
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, 0, rb.count)
	i := rb.head
	for c := 0; c < rb.count; c++ {
		out = append(out, clone(rb.data[i]))
		i = (i + 1) % ringCapacity
	}
	return out
}
