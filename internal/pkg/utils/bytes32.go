package utils

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidBytes32 is returned when a value is not a NUL-terminated bytes32 string.
var ErrInvalidBytes32 = errors.New("invalid bytes32 string")

// ParseBytes32String decodes text stored in a fixed 32-byte field by legacy tokens.
// The last byte must be NUL; the text ends at the first NUL.
func ParseBytes32String(data [32]byte) (string, error) {
	if data[31] != 0 {
		return "", fmt.Errorf("%w: no null terminator", ErrInvalidBytes32)
	}
	end := bytes.IndexByte(data[:], 0)
	return string(data[:end]), nil
}
