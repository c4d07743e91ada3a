package joystick

import "sync"

// mailboxCapacity leaves room past the 25-byte packet like the radio driver's receive buffer.
const mailboxCapacity = 28

// Mailbox is a single-slot receive buffer. The transport overwrites it, the
// control loop takes it; a zero length marks it empty.
type Mailbox struct {
	mu     sync.Mutex
	buffer [mailboxCapacity]byte
	length int
}

// Put stores data, replacing any packet that has not been taken yet.
// Data longer than the buffer is truncated.
func (m *Mailbox) Put(data []byte) {
	m.mu.Lock()
	m.length = copy(m.buffer[:], data)
	m.mu.Unlock()
}

// Take copies out the pending packet and marks the mailbox empty.
func (m *Mailbox) Take() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.length == 0 {
		return nil, false
	}
	out := make([]byte, m.length)
	copy(out, m.buffer[:m.length])
	m.length = 0
	return out, true
}

func (m *Mailbox) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length == 0
}
