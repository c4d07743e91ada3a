package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a 6-byte radio (MAC) address.
type Address [AddressSize]byte

// ParseAddress accepts "aa:bb:cc:dd:ee:ff", "aa-bb-..." or a bare 12-digit hex string.
func ParseAddress(s string) (Address, error) {
	var a Address
	clean := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(s))
	if len(clean) != 2*AddressSize {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Partial returns the trailing bytes a joystick embeds at the start of every packet.
func (a Address) Partial() [PartialAddress]byte {
	return [PartialAddress]byte{a[3], a[4], a[5]}
}
