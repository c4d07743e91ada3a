package protocol

import (
	"encoding/binary"
	"math"
)

// Frame is a decoded joystick packet. Pitch is already sign-inverted.
type Frame struct {
	Yaw       float32
	Throttle  float32
	Roll      float32
	Pitch     float32
	Arm       byte
	Flip      byte
	Mode      byte
	AltMode   byte
	Proactive byte
}

// Checksum is the 8-bit sum of every byte preceding the checksum byte.
func Checksum(b []byte) byte {
	var sum byte
	for _, v := range b[:offsetChecksum] {
		sum += v
	}
	return sum
}

// Decode validates the checksum and the embedded partial address before unpacking.
func Decode(data []byte, own Address) (Frame, error) {
	if len(data) != PacketSize {
		return Frame{}, ErrInvalidLength
	}
	if Checksum(data) != data[offsetChecksum] {
		return Frame{}, ErrChecksumMismatch
	}
	if data[0] != own[3] || data[1] != own[4] || data[2] != own[5] {
		return Frame{}, ErrAddressMismatch
	}
	return unpack(data), nil
}

// Parse unpacks a packet without checksum or address validation.
func Parse(data []byte) (Frame, error) {
	if len(data) != PacketSize {
		return Frame{}, ErrInvalidLength
	}
	return unpack(data), nil
}

func unpack(data []byte) Frame {
	return Frame{
		Yaw:       readFloat(data[offsetYaw:]),
		Throttle:  readFloat(data[offsetThrottle:]),
		Roll:      readFloat(data[offsetRoll:]),
		Pitch:     -readFloat(data[offsetPitch:]),
		Arm:       data[offsetArm],
		Flip:      data[offsetFlip],
		Mode:      data[offsetMode],
		AltMode:   data[offsetAltMode],
		Proactive: data[offsetProactive],
	}
}

// Encode builds the on-air packet a joystick sends to dest. Pitch is written
// inverted so that Decode yields f.Pitch back.
func Encode(f Frame, dest Address) []byte {
	data := make([]byte, PacketSize)
	p := dest.Partial()
	copy(data[0:PartialAddress], p[:])
	writeFloat(data[offsetYaw:], f.Yaw)
	writeFloat(data[offsetThrottle:], f.Throttle)
	writeFloat(data[offsetRoll:], f.Roll)
	writeFloat(data[offsetPitch:], -f.Pitch)
	data[offsetArm] = f.Arm
	data[offsetFlip] = f.Flip
	data[offsetMode] = f.Mode
	data[offsetAltMode] = f.AltMode
	data[offsetProactive] = f.Proactive
	data[offsetChecksum] = Checksum(data)
	return data
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:4]))
}

func writeFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b[:4], math.Float32bits(v))
}
