package motor

import (
	"errors"
	"math"
	"testing"

	"roverc/mixer"
)

type write struct {
	addr uint16
	reg  byte
	val  byte
}

// recordingBus is a fake I2C bus that keeps every transaction.
type recordingBus struct {
	writes []write
	err    error
}

func (b *recordingBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.writes = append(b.writes, write{addr: addr, reg: w[0], val: w[1]})
	return nil
}

func (b *recordingBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *recordingBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}

func TestSetDriveOutputs(t *testing.T) {
	tests := []struct {
		name           string
		fl, fr, bl, br int
		want           [4]byte
	}{
		{name: "zero", want: [4]byte{0, 0, 0, 0}},
		{name: "in range", fl: 50, fr: -50, bl: 100, br: -100, want: [4]byte{50, 0xCE, 100, 0x9C}},
		{name: "clamped", fl: 300, fr: -150, bl: 101, br: -101, want: [4]byte{100, 0x9C, 100, 0x9C}},
		{name: "beyond int32", fl: math.MaxInt32 + 51, fr: math.MinInt32 - 31, bl: math.MaxInt, br: math.MinInt, want: [4]byte{100, 0x9C, 100, 0x9C}},
		{name: "wraps to small values", fl: 1<<32 - 50, fr: 1<<32 + 30, bl: 100, br: 0, want: [4]byte{100, 100, 100, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recordingBus{}
			New(bus).SetDriveOutputs(tt.fl, tt.fr, tt.bl, tt.br)

			if len(bus.writes) != 4 {
				t.Fatalf("writes = %d, want 4", len(bus.writes))
			}
			for i, w := range bus.writes {
				if w.addr != Address || w.reg != byte(i) || w.val != tt.want[i] {
					t.Errorf("write %d = %+v, want reg 0x%02X val 0x%02X", i, w, i, tt.want[i])
				}
			}
		})
	}
}

func TestSetServoAngle(t *testing.T) {
	tests := []struct {
		channel uint8
		angle   int
		want    write
	}{
		{0, 45, write{Address, 0x10, 45}},
		{1, 90, write{Address, 0x11, 90}},
		{0, 120, write{Address, 0x10, 90}},
		{1, -5, write{Address, 0x11, 0}},
		{0, 1<<32 + 10, write{Address, 0x10, 90}},
		{1, math.MinInt, write{Address, 0x11, 0}},
	}
	for _, tt := range tests {
		bus := &recordingBus{}
		New(bus).SetServoAngle(tt.channel, tt.angle)
		if len(bus.writes) != 1 || bus.writes[0] != tt.want {
			t.Errorf("SetServoAngle(%d, %d) wrote %+v, want %+v", tt.channel, tt.angle, bus.writes, tt.want)
		}
	}
}

func TestSetServoPulse(t *testing.T) {
	tests := []struct {
		channel uint8
		width   int
		want    write
	}{
		{0, 1500, write{Address, 0x20, byte(1500 & 0xFF)}},
		{1, 100, write{Address, 0x21, byte(500 & 0xFF)}},
		{1, 9000, write{Address, 0x21, byte(2500 & 0xFF)}},
		{0, 1<<32 + 1500, write{Address, 0x20, byte(2500 & 0xFF)}},
	}
	for _, tt := range tests {
		bus := &recordingBus{}
		New(bus).SetServoPulse(tt.channel, tt.width)
		if len(bus.writes) != 1 || bus.writes[0] != tt.want {
			t.Errorf("SetServoPulse(%d, %d) wrote %+v, want %+v", tt.channel, tt.width, bus.writes, tt.want)
		}
	}
}

func TestApplyThenStop(t *testing.T) {
	bus := &recordingBus{}
	r := New(bus)
	r.Apply(mixer.Command{FrontLeft: 10, FrontRight: 20, BackLeft: 30, BackRight: 40, Servo: [2]int{15, 25}})

	want := []write{
		{Address, 0x10, 15},
		{Address, 0x11, 25},
		{Address, 0x00, 10},
		{Address, 0x01, 20},
		{Address, 0x02, 30},
		{Address, 0x03, 40},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("writes = %+v", bus.writes)
	}
	for i := range want {
		if bus.writes[i] != want[i] {
			t.Errorf("write %d = %+v, want %+v", i, bus.writes[i], want[i])
		}
	}

	bus.writes = nil
	r.Stop()
	if len(bus.writes) != 4 {
		t.Fatalf("Stop() writes = %+v", bus.writes)
	}
	for i, w := range bus.writes {
		if w.reg != byte(i) || w.val != 0 {
			t.Errorf("Stop() write %d = %+v", i, w)
		}
	}
}

func TestBusErrorsAreNotFatal(t *testing.T) {
	bus := &recordingBus{err: errors.New("nack")}
	r := New(bus)
	r.Apply(mixer.Command{FrontLeft: 10})
	r.Stop()

	bus.err = nil
	r.SetServoAngle(0, 30)
	if len(bus.writes) != 1 {
		t.Errorf("writes after recovery = %+v", bus.writes)
	}
}

func TestLogBus(t *testing.T) {
	bus := NewLogBus()
	r := New(bus)
	r.Apply(mixer.Command{FrontLeft: -10, Servo: [2]int{0, 45}})

	tests := []struct {
		reg  byte
		want byte
	}{
		{0x00, 0xF6},
		{0x01, 0},
		{0x10, 0},
		{0x11, 45},
	}
	for _, tt := range tests {
		got, ok := bus.Register(Address, tt.reg)
		if !ok || got != tt.want {
			t.Errorf("Register(0x%02X) = %#x, %v, want %#x", tt.reg, got, ok, tt.want)
		}
	}
	if _, ok := bus.Register(Address, 0x20); ok {
		t.Error("pulse register written by Apply()")
	}

	buf := []byte{1, 2}
	if err := bus.ReadRegister(Address, 0, buf); err != nil {
		t.Fatalf("ReadRegister() error = %v", err)
	}
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("ReadRegister() = %v, want zeros", buf)
	}
}
