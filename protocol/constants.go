package protocol

// Packet layout (Atom JoyStick, 25 bytes):
//
//	Address (3) | Yaw (4) | Throttle (4) | Roll (4) | Pitch (4) | Arm | Flip | Mode | AltMode | Proactive | Checksum
//
// Floats are little-endian IEEE-754. Address holds bytes 3..5 of the receiver's address.
const (
	PacketSize     = 25
	AddressSize    = 6
	PartialAddress = 3

	offsetYaw       = 3
	offsetThrottle  = 7
	offsetRoll      = 11
	offsetPitch     = 15
	offsetArm       = 19
	offsetFlip      = 20
	offsetMode      = 21
	offsetAltMode   = 22
	offsetProactive = 23
	offsetChecksum  = PacketSize - 1

	ModeStable = 0
	ModeSport  = 1

	AltModeAuto   = 4
	AltModeManual = 5

	// Binding frame: Channel (1) | Address (6) | PeerCommand (4) | padding
	BindingFrameSize = 16

	DefaultBroadcastCount   = 20
	DefaultBroadcastDelayMs = 50
	DefaultChannel          = 3
)

// PeerCommand tags a binding broadcast so the joystick accepts the sender as its peer.
var PeerCommand = [4]byte{0xAA, 0x55, 0x16, 0x88}
