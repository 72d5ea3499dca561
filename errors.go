package crazyradio

import (
	"errors"
	"fmt"
)

// Errors returned by the driver. Configuration errors all wrap
// ErrInvalidConfig and are detected before any transfer is issued.
// Underlying USB transfer failures are wrapped with %w and surface
// unchanged; a missing ack is reported through Ack, not as an error.
var (
	ErrNotFound      = errors.New("no Crazyradio dongle found")
	ErrClosed        = errors.New("radio closed")
	ErrInvalidConfig = errors.New("invalid configuration")

	ErrInvalidChannel  = fmt.Errorf("%w: channel out of range", ErrInvalidConfig)
	ErrInvalidAddress  = fmt.Errorf("%w: reserved address", ErrInvalidConfig)
	ErrInvalidDatarate = fmt.Errorf("%w: unknown datarate", ErrInvalidConfig)
	ErrInvalidPower    = fmt.Errorf("%w: unknown power level", ErrInvalidConfig)
	ErrInvalidArc      = fmt.Errorf("%w: retry count out of range", ErrInvalidConfig)
	ErrInvalidArd      = fmt.Errorf("%w: retry delay out of range", ErrInvalidConfig)

	ErrPayloadTooLong    = errors.New("payload exceeds 32 bytes")
	ErrMalformedResponse = errors.New("malformed response from dongle")
)
