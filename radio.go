package crazyradio

import (
	"fmt"
	"log"
	"time"

	"github.com/ecc1/radio"
)

const verbose = false

func init() {
	if verbose {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.LUTC)
	}
}

// Radio represents an open radio dongle. It owns the USB transport
// exclusively and performs single packet exchanges against the
// configuration last written to the device.
//
// A Radio assumes single-caller discipline: it holds no locks of its
// own. Use SharedRadio to drive one dongle from several goroutines.
type Radio struct {
	transport Transport
	serial    string
	version   string

	// applied is the configuration last written in full to the
	// device, or nil when the device state is unknown.
	applied   *Config
	ackEnable ackState

	sink   Sink
	stats  radio.Statistics
	closed bool
}

// ackState tracks the dongle's ACK_ENABLE register.
type ackState byte

const (
	ackUnknown ackState = iota
	ackOn
	ackOff
)

// Ack reports the outcome of one packet exchange: whether the remote
// side answered, how many retries the chip performed, whether the
// power detector triggered, and any payload attached to the ack.
type Ack struct {
	Received      bool
	PowerDetector bool
	Retry         int
	Payload       []byte
}

// NewRadio returns a Radio driving the given transport. The device
// configuration is treated as unknown until the first Apply.
func NewRadio(t Transport) *Radio {
	return &Radio{transport: t}
}

// Name returns the radio's name.
func (r *Radio) Name() string {
	return "Crazyradio"
}

// Serial returns the dongle's serial number, if known.
func (r *Radio) Serial() string {
	return r.serial
}

// Version returns the dongle's firmware version, if known.
func (r *Radio) Version() string {
	return r.version
}

// Statistics returns the byte and packet counts for the radio device.
func (r *Radio) Statistics() radio.Statistics {
	return r.stats
}

// Close closes the radio device.
func (r *Radio) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.transport.Close()
}

func (r *Radio) control(cmd Command, value, index uint16, data []byte) error {
	if r.closed {
		return ErrClosed
	}
	if verbose {
		log.Printf("control %02X value %04X index %04X data % X", byte(cmd), value, index, data)
	}
	return r.transport.Control(byte(cmd), value, index, data)
}

// Apply establishes c on the device. It issues one control transfer
// per field that differs from the currently-tracked device state, or
// all fields if that state is unknown. On any transfer failure the
// tracked state is left unknown, so the next Apply rewrites every
// field rather than trusting a half-written configuration.
func (r *Radio) Apply(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	prev := r.applied
	if prev != nil && *prev == c {
		return nil
	}
	r.applied = nil
	if prev == nil || prev.Channel != c.Channel {
		if err := r.control(CmdSetRadioChannel, uint16(c.Channel), 0, nil); err != nil {
			return fmt.Errorf("set channel: %w", err)
		}
	}
	if prev == nil || prev.Address != c.Address {
		if err := r.control(CmdSetRadioAddress, 0, 0, c.Address[:]); err != nil {
			return fmt.Errorf("set address: %w", err)
		}
	}
	if prev == nil || prev.Datarate != c.Datarate {
		if err := r.control(CmdSetDataRate, uint16(c.Datarate), 0, nil); err != nil {
			return fmt.Errorf("set datarate: %w", err)
		}
	}
	if prev == nil || prev.Power != c.Power {
		if err := r.control(CmdSetRadioPower, uint16(c.Power), 0, nil); err != nil {
			return fmt.Errorf("set power: %w", err)
		}
	}
	if prev == nil || prev.Arc != c.Arc {
		if err := r.control(CmdSetRadioARC, uint16(c.Arc), 0, nil); err != nil {
			return fmt.Errorf("set arc: %w", err)
		}
	}
	if prev == nil || prev.Ard != c.Ard {
		if err := r.control(CmdSetRadioARD, ardValue(c.Ard), 0, nil); err != nil {
			return fmt.Errorf("set ard: %w", err)
		}
	}
	cfg := c
	r.applied = &cfg
	return nil
}

// SetChannel sets the radio channel.
func (r *Radio) SetChannel(ch Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if err := r.control(CmdSetRadioChannel, uint16(ch), 0, nil); err != nil {
		r.applied = nil
		return fmt.Errorf("set channel: %w", err)
	}
	if r.applied != nil {
		r.applied.Channel = ch
	}
	return nil
}

// SetAddress sets the peer address.
func (r *Radio) SetAddress(a Address) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, a)
	}
	if err := r.control(CmdSetRadioAddress, 0, 0, a[:]); err != nil {
		r.applied = nil
		return fmt.Errorf("set address: %w", err)
	}
	if r.applied != nil {
		r.applied.Address = a
	}
	return nil
}

// SetDatarate sets the air datarate.
func (r *Radio) SetDatarate(d Datarate) error {
	if d > Datarate2M {
		return fmt.Errorf("%w: %d", ErrInvalidDatarate, byte(d))
	}
	if err := r.control(CmdSetDataRate, uint16(d), 0, nil); err != nil {
		r.applied = nil
		return fmt.Errorf("set datarate: %w", err)
	}
	if r.applied != nil {
		r.applied.Datarate = d
	}
	return nil
}

// SetPower sets the transmit power.
func (r *Radio) SetPower(p Power) error {
	if p > Power0dBm {
		return fmt.Errorf("%w: %d", ErrInvalidPower, byte(p))
	}
	if err := r.control(CmdSetRadioPower, uint16(p), 0, nil); err != nil {
		r.applied = nil
		return fmt.Errorf("set power: %w", err)
	}
	if r.applied != nil {
		r.applied.Power = p
	}
	return nil
}

// SetArc sets the hardware auto-retry count.
func (r *Radio) SetArc(n int) error {
	if n < 0 || n > MaxArc {
		return fmt.Errorf("%w: %d", ErrInvalidArc, n)
	}
	if err := r.control(CmdSetRadioARC, uint16(n), 0, nil); err != nil {
		r.applied = nil
		return fmt.Errorf("set arc: %w", err)
	}
	if r.applied != nil {
		r.applied.Arc = n
	}
	return nil
}

// SetArd sets the hardware auto-retry delay to the 250µs step at or
// above d.
func (r *Radio) SetArd(d time.Duration) error {
	if d < MinArd || d > MaxArd {
		return fmt.Errorf("%w: %v", ErrInvalidArd, d)
	}
	if err := r.control(CmdSetRadioARD, ardValue(d), 0, nil); err != nil {
		r.applied = nil
		return fmt.Errorf("set ard: %w", err)
	}
	if r.applied != nil {
		r.applied.Ard = d
	}
	return nil
}

// SetArdBytes sets the auto-retry delay to the time needed to receive
// an ack carrying n payload bytes (0-32), the alternate encoding of
// the ARD register.
func (r *Radio) SetArdBytes(n int) error {
	if n < 0 || n > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrInvalidArd, n)
	}
	if err := r.control(CmdSetRadioARD, uint16(0x80|n), 0, nil); err != nil {
		r.applied = nil
		return fmt.Errorf("set ard bytes: %w", err)
	}
	if r.applied != nil {
		// The register no longer holds a delay encoding; a zero
		// Ard can never equal a valid Config.Ard, so the next
		// Apply rewrites it.
		r.applied.Ard = 0
	}
	return nil
}

// SetAckEnable sets whether the radio waits for an ack packet.
// Disabled automatically by SendNoAck for broadcast packets.
func (r *Radio) SetAckEnable(on bool) error {
	return r.setAckEnable(on)
}

func (r *Radio) setAckEnable(on bool) error {
	want, value := ackOn, uint16(1)
	if !on {
		want, value = ackOff, 0
	}
	if r.ackEnable == want {
		return nil
	}
	r.ackEnable = ackUnknown
	if err := r.control(CmdAckEnable, value, 0, nil); err != nil {
		return fmt.Errorf("ack enable: %w", err)
	}
	r.ackEnable = want
	return nil
}

// SetContCarrier turns continuous carrier mode on or off. In this
// mode the radio transmits a continuous sine wave on the configured
// channel at the configured power.
func (r *Radio) SetContCarrier(on bool) error {
	var value uint16
	if on {
		value = 1
	}
	if err := r.control(CmdSetContCarrier, value, 0, nil); err != nil {
		return fmt.Errorf("set cont carrier: %w", err)
	}
	return nil
}

// Exchange sends payload as one data packet and reads the ack frame
// the chip reports back. An empty payload is a valid presence probe.
// A missing ack is not an error: it is reported through Ack.Received,
// with Ack.Retry holding the number of retries the chip performed.
func (r *Radio) Exchange(payload []byte) (Ack, error) {
	if len(payload) > MaxPayload {
		return Ack{}, ErrPayloadTooLong
	}
	if r.closed {
		return Ack{}, ErrClosed
	}
	if err := r.setAckEnable(true); err != nil {
		return Ack{}, err
	}
	if verbose {
		log.Printf("send % X", payload)
	}
	if err := r.transport.BulkWrite(epDataOut, payload); err != nil {
		return Ack{}, fmt.Errorf("bulk out: %w", err)
	}
	r.stats.Packets.Sent++
	r.stats.Bytes.Sent += len(payload)
	frame, err := r.transport.BulkRead(epDataIn, maxAckFrame)
	if err != nil {
		return Ack{}, fmt.Errorf("bulk in: %w", err)
	}
	if verbose {
		log.Printf("ack % X", frame)
	}
	r.capture(DirectionOut, payload)
	r.capture(DirectionIn, frame)
	if len(frame) < 1 {
		return Ack{}, ErrMalformedResponse
	}
	status := frame[0]
	ack := Ack{
		Received:      status&ackReceivedBit != 0,
		PowerDetector: status&ackPowerDetectorBit != 0,
		Retry:         int(status >> ackRetryShift),
	}
	if ack.Received {
		r.stats.Packets.Received++
		if len(frame) > 1 {
			ack.Payload = append([]byte(nil), frame[1:]...)
			r.stats.Bytes.Received += len(ack.Payload)
		}
	}
	return ack, nil
}

// SendNoAck sends payload without waiting for an ack, for broadcast
// packets that have no single peer to answer them.
func (r *Radio) SendNoAck(payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrPayloadTooLong
	}
	if r.closed {
		return ErrClosed
	}
	if err := r.setAckEnable(false); err != nil {
		return err
	}
	if verbose {
		log.Printf("send no-ack % X", payload)
	}
	if err := r.transport.BulkWrite(epDataOut, payload); err != nil {
		return fmt.Errorf("bulk out: %w", err)
	}
	r.stats.Packets.Sent++
	r.stats.Bytes.Sent += len(payload)
	r.capture(DirectionOut, payload)
	return nil
}

// LaunchBootloader puts the dongle in bootloader mode. The radio is
// unusable afterwards: the device drops off the bus and re-enumerates
// as a bootloader.
func (r *Radio) LaunchBootloader() error {
	if err := r.control(CmdLaunchBootloader, 0, 0, nil); err != nil {
		return fmt.Errorf("launch bootloader: %w", err)
	}
	r.closed = true
	_ = r.transport.Close()
	return nil
}
