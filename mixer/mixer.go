// Package mixer converts normalized stick readings into RoverC drive and
// steering commands.
package mixer

import (
	"math"

	proto "roverc/protocol"
)

type Mode int

const (
	// Mecanum strafes on roll, drives on pitch and turns on yaw.
	Mecanum Mode = iota
	// Tank drives each side from its own stick.
	Tank
)

func (m Mode) String() string {
	if m == Mecanum {
		return "mecanum"
	}
	return "tank"
}

// ModeFor maps the joystick mode byte to a drive mode.
func ModeFor(mode byte) Mode {
	if mode == proto.ModeStable {
		return Mecanum
	}
	return Tank
}

// Command is one control cycle's worth of actuator outputs. Drive outputs are
// not clamped here.
type Command struct {
	FrontLeft  int
	FrontRight int
	BackLeft   int
	BackRight  int
	Servo      [2]int // deg

	Speed float32
	Angle float32
}

// Mixer keeps the telemetry of the last mixed command.
type Mixer struct {
	speed float32
	angle float32
}

func New() *Mixer { return &Mixer{} }

// Mix computes the command for the given mode. Inputs are normalized axes,
// nominally in [-1, 1].
func (m *Mixer) Mix(mode Mode, throttle, roll, pitch, yaw float32) Command {
	var cmd Command
	switch mode {
	case Mecanum:
		angle := servoAngle(throttle)
		cmd.Servo = [2]int{angle, angle}

		x := percent(roll)
		y := percent(pitch)
		r := percent(yaw)
		cmd.FrontLeft = y + x + r
		cmd.FrontRight = y - x - r
		cmd.BackLeft = y - x + r
		cmd.BackRight = y + x - r
		cmd.Speed = float32(x+y) / 2
		cmd.Angle = float32(r)
	default:
		left := percent(throttle)
		right := percent(pitch)
		cmd.FrontLeft, cmd.BackLeft = left, left
		cmd.FrontRight, cmd.BackRight = right, right

		angle := servoAngle(yaw)
		cmd.Servo = [2]int{angle, angle}
		cmd.Speed = float32(left)
		cmd.Angle = float32(right)
	}
	m.speed, m.angle = cmd.Speed, cmd.Angle
	return cmd
}

func (m *Mixer) Speed() float32 { return m.speed }

func (m *Mixer) Angle() float32 { return m.angle }

// maxPercent bounds a single axis contribution. Readings beyond full travel
// still saturate the drive outputs, and sums of three axes stay within int.
const maxPercent = 10000

// percent scales a normalized axis to a drive percentage, rounding half away
// from zero. NaN reads as 0.
func percent(v float32) int {
	return int(saturate(math.Round(float64(v * 100))))
}

// servoAngle maps |v| onto 0..90 deg, truncating. NaN reads as 0.
func servoAngle(v float32) int {
	return int(saturate(float64(90 * float32(math.Abs(float64(v))))))
}

func saturate(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x > maxPercent:
		return maxPercent
	case x < -maxPercent:
		return -maxPercent
	}
	return x
}
