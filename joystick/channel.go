// Package joystick turns raw Atom JoyStick packets into calibrated stick readings.
package joystick

import (
	"roverc/logger"
	proto "roverc/protocol"
)

type AxisID int

const (
	Throttle AxisID = iota
	Roll
	Pitch
	Yaw
	axisCount
)

func (a AxisID) String() string {
	switch a {
	case Throttle:
		return "throttle"
	case Roll:
		return "roll"
	case Pitch:
		return "pitch"
	case Yaw:
		return "yaw"
	}
	return "unknown"
}

const (
	// BiasSample is the decoded packet whose readings become the zero point.
	BiasSample = 5

	DefaultDeadZone = 0.01
)

// Axis holds one stick reading and its calibration.
type Axis struct {
	Raw      float32
	Bias     float32
	DeadZone float32
}

// Flags are the button and mode bytes of the last decoded packet.
type Flags struct {
	Arm       byte
	Flip      byte
	Mode      byte
	AltMode   byte
	Proactive byte
}

// Channel decodes packets from a Mailbox and normalizes the stick axes.
type Channel struct {
	mailbox  *Mailbox
	address  proto.Address
	channel  uint8
	validate bool

	axes    [axisCount]Axis
	flags   Flags
	biasSet bool
	samples int
}

// NewChannel creates a channel bound to the receiver's own address. channel is
// the radio channel announced when binding.
func NewChannel(own proto.Address, channel uint8) *Channel {
	c := &Channel{
		mailbox:  &Mailbox{},
		address:  own,
		channel:  channel,
		validate: true,
	}
	for i := range c.axes {
		c.axes[i].DeadZone = DefaultDeadZone
	}
	return c
}

// Mailbox is where the transport delivers packets.
func (c *Channel) Mailbox() *Mailbox { return c.mailbox }

func (c *Channel) Address() proto.Address { return c.address }

// SetValidation turns checksum and address checks on or off. Off is for
// debugging a joystick that has not been bound yet.
func (c *Channel) SetValidation(on bool) { c.validate = on }

// Unpack takes the pending packet, if any, and decodes it. The mailbox is
// empty afterwards whether or not decoding succeeded.
func (c *Channel) Unpack() (proto.Frame, error) {
	data, ok := c.mailbox.Take()
	if !ok {
		return proto.Frame{}, proto.ErrEmpty
	}

	var (
		f   proto.Frame
		err error
	)
	if c.validate {
		f, err = proto.Decode(data, c.address)
	} else {
		logger.Log("[joystick] unchecked packet from", data[:min(len(data), proto.PartialAddress)])
		f, err = proto.Parse(data)
	}
	if err != nil {
		logger.Log("[joystick] dropped packet:", err.Error(), data)
		return proto.Frame{}, err
	}

	c.axes[Throttle].Raw = f.Throttle
	c.axes[Roll].Raw = f.Roll
	c.axes[Pitch].Raw = f.Pitch
	c.axes[Yaw].Raw = f.Yaw
	c.flags = Flags{
		Arm:       f.Arm,
		Flip:      f.Flip,
		Mode:      f.Mode,
		AltMode:   f.AltMode,
		Proactive: f.Proactive,
	}
	return f, nil
}

// RecordSample counts a decoded packet. The BiasSample-th one since the last
// reset sets every axis bias to that packet's raw readings.
func (c *Channel) RecordSample(f proto.Frame) {
	c.samples++
	if c.samples != BiasSample {
		return
	}
	c.axes[Throttle].Bias = f.Throttle
	c.axes[Roll].Bias = f.Roll
	c.axes[Pitch].Bias = f.Pitch
	c.axes[Yaw].Bias = f.Yaw
	c.biasSet = true
	logger.Log("[joystick] bias set:", f.Throttle, f.Roll, f.Pitch, f.Yaw)
}

// SetCurrentReadingsToBias zeroes every axis at its current raw reading.
func (c *Channel) SetCurrentReadingsToBias() {
	for i := range c.axes {
		c.axes[i].Bias = c.axes[i].Raw
	}
	c.biasSet = true
}

func (c *Channel) BiasSet() bool { return c.biasSet }

// ResetCalibration clears bias, dead zones and the sample counter.
func (c *Channel) ResetCalibration() {
	c.biasSet = false
	c.samples = 0
	for i := range c.axes {
		c.axes[i].Bias = 0
		c.axes[i].DeadZone = 0
	}
}

// SetDeadZone applies the same half-width to all axes.
func (c *Channel) SetDeadZone(width float32) {
	for i := range c.axes {
		c.axes[i].DeadZone = width
	}
}

func (c *Channel) Axis(id AxisID) Axis { return c.axes[id] }

func (c *Channel) Raw(id AxisID) float32 { return c.axes[id].Raw }

func (c *Channel) Bias(id AxisID) float32 { return c.axes[id].Bias }

func (c *Channel) Flags() Flags { return c.flags }

// Normalize returns the calibrated reading of an axis, or the raw reading
// while no bias has been captured.
func (c *Channel) Normalize(id AxisID) float32 {
	if !c.biasSet {
		return c.axes[id].Raw
	}
	return normalize(c.axes[id])
}

func (c *Channel) Throttle() float32 { return c.Normalize(Throttle) }
func (c *Channel) Roll() float32     { return c.Normalize(Roll) }
func (c *Channel) Pitch() float32    { return c.Normalize(Pitch) }
func (c *Channel) Yaw() float32      { return c.Normalize(Yaw) }

// normalize rescales the excursion beyond the dead zone. The two sides use
// different denominators, so the result is not symmetric around the bias and
// degenerates as the bias approaches ±1.
func normalize(a Axis) float32 {
	const (
		max = float32(1.0)
		min = float32(-1.0)
	)
	delta := a.Raw - a.Bias
	if delta < -a.DeadZone {
		return -(-a.DeadZone - delta) / (a.Bias - a.DeadZone/2 - min)
	}
	if delta > a.DeadZone {
		return (delta - a.DeadZone) / (max - a.Bias - a.DeadZone/2)
	}
	return 0
}
