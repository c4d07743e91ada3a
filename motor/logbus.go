package motor

import (
	"fmt"
	"sync"

	"tinygo.org/x/drivers"

	"roverc/logger"
)

// LogBus is an I2C bus that only logs register writes. It stands in for the
// controller on machines without an I2C adapter. Repeated writes of the same
// value to a register are not logged; reads return zeros.
type LogBus struct {
	mu   sync.Mutex
	regs map[uint32]byte
}

var _ drivers.I2C = (*LogBus)(nil)

func NewLogBus() *LogBus {
	return &LogBus{regs: make(map[uint32]byte)}
}

func (b *LogBus) Tx(addr uint16, w, r []byte) error {
	for i := range r {
		r[i] = 0
	}
	if len(w) < 2 {
		return nil
	}
	key := uint32(addr)<<8 | uint32(w[0])
	b.mu.Lock()
	last, seen := b.regs[key]
	b.regs[key] = w[len(w)-1]
	b.mu.Unlock()
	if seen && last == w[len(w)-1] {
		return nil
	}
	logger.Log(fmt.Sprintf("[i2c] 0x%02X <-", addr), append([]byte(nil), w...))
	return nil
}

func (b *LogBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *LogBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}

// Register returns the last value written to reg at addr.
func (b *LogBus) Register(addr uint16, reg byte) (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.regs[uint32(addr)<<8|uint32(reg)]
	return v, ok
}
