// Package motor drives the RoverC base over I2C.
package motor

import (
	"log"

	"tinygo.org/x/drivers"

	"roverc/mixer"
	"roverc/utils"
)

const (
	// Address is the RoverC controller's I2C address.
	Address = 0x38

	regDrive     = 0x00 // 0x00..0x03: FL, FR, BL, BR
	opServoAngle = 0x10 // | channel
	opServoPulse = 0x20 // | channel
)

var (
	limitSpeed = utils.Limit(-100, 100) // unit:%
	limitAngle = utils.Limit(0, 90)     // unit:deg
	limitPulse = utils.Limit(500, 2500) // unit:us
)

// Rover writes drive and steering outputs to the RoverC controller.
// Bus errors are logged and dropped; the next control cycle writes again.
type Rover struct {
	bus drivers.I2C
	buf [2]byte
}

func New(bus drivers.I2C) *Rover {
	return &Rover{bus: bus}
}

// SetDriveOutputs writes the four wheel speeds, each clamped to [-100, 100].
func (r *Rover) SetDriveOutputs(fl, fr, bl, br int) {
	for i, v := range [4]int{fl, fr, bl, br} {
		speed := int8(limitSpeed(v))
		r.write(regDrive+byte(i), byte(speed))
	}
}

// SetSteeringAngles positions both steering servos.
func (r *Rover) SetSteeringAngles(a0, a1 int) {
	r.SetServoAngle(0, a0)
	r.SetServoAngle(1, a1)
}

// SetServoAngle sets a servo to angle degrees, clamped to [0, 90].
func (r *Rover) SetServoAngle(channel uint8, angle int) {
	r.write(opServoAngle|channel, byte(limitAngle(angle)))
}

// SetServoPulse sets a servo pulse width in microseconds, clamped to
// [500, 2500]. Only the low byte reaches the controller.
func (r *Rover) SetServoPulse(channel uint8, width int) {
	r.write(opServoPulse|channel, byte(limitPulse(width)))
}

// Stop zeroes the drive outputs. Steering is left where it is.
func (r *Rover) Stop() {
	r.SetDriveOutputs(0, 0, 0, 0)
}

// Apply writes a mixed command: servos first, then wheels.
func (r *Rover) Apply(cmd mixer.Command) {
	r.SetSteeringAngles(cmd.Servo[0], cmd.Servo[1])
	r.SetDriveOutputs(cmd.FrontLeft, cmd.FrontRight, cmd.BackLeft, cmd.BackRight)
}

func (r *Rover) write(reg, value byte) {
	r.buf[0] = reg
	r.buf[1] = value
	if err := r.bus.Tx(Address, r.buf[:], nil); err != nil {
		log.Printf("[motor] write 0x%02X=0x%02X: %v", reg, value, err)
	}
}
