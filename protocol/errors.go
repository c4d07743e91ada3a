package protocol

import "errors"

var (
	ErrEmpty            = errors.New("no packet pending")
	ErrChecksumMismatch = errors.New("packet checksum mismatch")
	ErrAddressMismatch  = errors.New("packet address mismatch")
	ErrInvalidLength    = errors.New("invalid packet length")
	ErrInvalidAddress   = errors.New("invalid device address")
	ErrTimeout          = errors.New("operation timed out")
)
