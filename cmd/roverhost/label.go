//go:build !tinygo && !baremetal

package main

import (
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	proto "roverc/protocol"
)

// addressLabel renders the receiver address as a QR code PNG for a pairing label.
func addressLabel(own proto.Address, size int) ([]byte, error) {
	if size <= 0 {
		size = 128
	}
	png, err := qrcode.Encode(own.String(), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode address label: %w", err)
	}
	return png, nil
}

func writeAddressLabel(path string, own proto.Address) error {
	png, err := addressLabel(own, 256)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}
