package crazyradio

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is the 5-byte address identifying a logical peer,
// most significant byte first.
type Address [5]byte

// DefaultAddress is the dongle's boot address.
var DefaultAddress = Address{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}

// AddressFromUint64 builds an Address from the low 40 bits of n.
func AddressFromUint64(n uint64) Address {
	var a Address
	copy(a[:], marshalUint40(n))
	return a
}

// Uint64 returns the address as an integer.
func (a Address) Uint64() uint64 {
	var n uint64
	for _, b := range a {
		n = n<<8 | uint64(b)
	}
	return n
}

// Valid reports whether the address may be assigned to a peer.
// The all-zero address and the preamble-like 0x55.../0xAA...
// patterns are reserved by the chip.
func (a Address) Valid() bool {
	for _, reserved := range [...]byte{0x00, 0x55, 0xAA} {
		if a == (Address{reserved, reserved, reserved, reserved, reserved}) {
			return false
		}
	}
	return true
}

func (a Address) String() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}

// ParseAddress parses a 10-digit hex address like "E7E7E7E7E7".
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(a) {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	copy(a[:], b)
	if !a.Valid() {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
