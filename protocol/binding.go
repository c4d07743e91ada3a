package protocol

// EncodeBinding builds the broadcast that announces own to an unpaired joystick.
func EncodeBinding(channel uint8, own Address) []byte {
	data := make([]byte, BindingFrameSize)
	data[0] = channel
	copy(data[1:1+AddressSize], own[:])
	copy(data[1+AddressSize:], PeerCommand[:])
	return data
}
