package crazyradio

import (
	"fmt"
	"strconv"
	"time"
)

// Radio limits fixed by the nRF24 RF band and the dongle firmware.
const (
	MaxChannel Channel = 125

	MaxPayload = 32 // bytes per packet

	MaxArc = 15 // hardware auto-retry count

	ArdStep = 250 * time.Microsecond
	MinArd  = ArdStep
	MaxArd  = 4 * time.Millisecond
)

// Channel is an RF frequency slot in the 2.4 GHz band (0-125).
type Channel uint8

// Valid reports whether the channel is within the chip's RF band.
func (c Channel) Valid() bool {
	return c <= MaxChannel
}

func (c Channel) String() string {
	return strconv.Itoa(int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(text []byte) error {
	n, err := strconv.ParseUint(string(text), 10, 8)
	if err != nil || !Channel(n).Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidChannel, text)
	}
	*c = Channel(n)
	return nil
}

// Datarate is the air datarate of the radio link.
type Datarate byte

const (
	Datarate250K Datarate = iota
	Datarate1M
	Datarate2M
)

func (d Datarate) String() string {
	switch d {
	case Datarate250K:
		return "250K"
	case Datarate1M:
		return "1M"
	case Datarate2M:
		return "2M"
	}
	return fmt.Sprintf("Datarate(%d)", byte(d))
}

// ParseDatarate parses a datarate name like "2M".
func ParseDatarate(s string) (Datarate, error) {
	for _, d := range []Datarate{Datarate250K, Datarate1M, Datarate2M} {
		if s == d.String() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDatarate, s)
}

// Power is one of the chip's discrete transmit power levels.
type Power byte

const (
	PowerM18dBm Power = iota
	PowerM12dBm
	PowerM6dBm
	Power0dBm
)

func (p Power) String() string {
	switch p {
	case PowerM18dBm:
		return "-18dBm"
	case PowerM12dBm:
		return "-12dBm"
	case PowerM6dBm:
		return "-6dBm"
	case Power0dBm:
		return "0dBm"
	}
	return fmt.Sprintf("Power(%d)", byte(p))
}

// ParsePower parses a power level name like "0dBm".
func ParsePower(s string) (Power, error) {
	for _, p := range []Power{PowerM18dBm, PowerM12dBm, PowerM6dBm, Power0dBm} {
		if s == p.String() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPower, s)
}

// Config describes the protocol state a packet exchange runs under:
// channel, peer address, datarate, transmit power and the chip's
// hardware auto-retry policy. A Config is a plain value; it is valid
// or not independent of any device, and two Configs are equal iff
// every field matches.
type Config struct {
	Channel  Channel
	Address  Address
	Datarate Datarate
	Power    Power

	// Arc is the auto-retry count executed by the chip (0-15).
	Arc int

	// Ard is the auto-retry delay executed by the chip,
	// 250µs-4ms in steps of 250µs.
	Ard time.Duration
}

// DefaultConfig returns the dongle's boot configuration.
func DefaultConfig() Config {
	return Config{
		Channel:  2,
		Address:  DefaultAddress,
		Datarate: Datarate2M,
		Power:    Power0dBm,
		Arc:      3,
		Ard:      ArdStep,
	}
}

// Validate checks every field against the chip's documented ranges.
// It never touches the device.
func (c Config) Validate() error {
	if !c.Channel.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, c.Channel)
	}
	if !c.Address.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, c.Address)
	}
	if c.Datarate > Datarate2M {
		return fmt.Errorf("%w: %d", ErrInvalidDatarate, byte(c.Datarate))
	}
	if c.Power > Power0dBm {
		return fmt.Errorf("%w: %d", ErrInvalidPower, byte(c.Power))
	}
	if c.Arc < 0 || c.Arc > MaxArc {
		return fmt.Errorf("%w: %d", ErrInvalidArc, c.Arc)
	}
	if c.Ard < MinArd || c.Ard > MaxArd {
		return fmt.Errorf("%w: %v", ErrInvalidArd, c.Ard)
	}
	return nil
}

// ardValue returns the SET_RADIO_ARD register encoding for a delay:
// the step at or above d, as (steps - 1).
func ardValue(d time.Duration) uint16 {
	steps := (d + ArdStep - 1) / ArdStep
	return uint16(steps - 1)
}
