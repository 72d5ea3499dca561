package crazyradio

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// SharedRadio serializes access to one physical dongle. The dongle
// holds a single configuration and a single in-flight transfer pair,
// so every exchange - reconfiguration included - runs inside one
// critical section. Waiters are queued in arrival order.
//
// A SharedRadio takes ownership of the Radio; once it exists, nothing
// else may issue transfers on that dongle.
type SharedRadio struct {
	r   *Radio
	sem *semaphore.Weighted
}

// NewSharedRadio wraps r for use by multiple concurrent links.
func NewSharedRadio(r *Radio) *SharedRadio {
	return &SharedRadio{r: r, sem: semaphore.NewWeighted(1)}
}

// Serial returns the dongle's serial number, if known.
func (s *SharedRadio) Serial() string {
	return s.r.Serial()
}

// Close waits for any in-flight exchange and closes the radio.
func (s *SharedRadio) Close() error {
	if err := s.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer s.sem.Release(1)
	return s.r.Close()
}

// Link returns a handle for exchanging packets under cfg. The
// configuration is validated once and held by value: links cannot
// disturb each other's settings, only the SharedRadio writes
// configuration to the device.
func (s *SharedRadio) Link(cfg Config) (*Link, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Link{shared: s, cfg: cfg}, nil
}

// Link is a logical user of a shared dongle, identified by its own
// configuration and independent of other links except for serialized
// hardware access.
type Link struct {
	shared *SharedRadio
	cfg    Config
}

// Config returns the link's configuration.
func (l *Link) Config() Config {
	return l.cfg
}

// Exchange performs one packet exchange under the link's
// configuration, blocking until the dongle is available.
// Configuration transfers are only issued when the device does not
// already hold this link's configuration.
func (l *Link) Exchange(payload []byte) (Ack, error) {
	return l.exchange(context.Background(), payload)
}

// ExchangeContext is Exchange with the caller suspending instead of
// blocking. Cancellation is honored only while waiting for the
// dongle: once access is granted the exchange runs to completion,
// because aborting a transfer midway leaves the device state
// ambiguous. A cancelled wait leaves the device untouched.
func (l *Link) ExchangeContext(ctx context.Context, payload []byte) (Ack, error) {
	return l.exchange(ctx, payload)
}

func (l *Link) exchange(ctx context.Context, payload []byte) (Ack, error) {
	if len(payload) > MaxPayload {
		return Ack{}, ErrPayloadTooLong
	}
	if err := l.shared.sem.Acquire(ctx, 1); err != nil {
		return Ack{}, err
	}
	defer l.shared.sem.Release(1)
	if err := l.shared.r.Apply(l.cfg); err != nil {
		return Ack{}, err
	}
	return l.shared.r.Exchange(payload)
}

// SendNoAck sends a broadcast packet under the link's configuration
// without waiting for an ack.
func (l *Link) SendNoAck(payload []byte) error {
	return l.sendNoAck(context.Background(), payload)
}

// SendNoAckContext is SendNoAck with the caller suspending instead of
// blocking, with the same cancellation contract as ExchangeContext.
func (l *Link) SendNoAckContext(ctx context.Context, payload []byte) error {
	return l.sendNoAck(ctx, payload)
}

func (l *Link) sendNoAck(ctx context.Context, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrPayloadTooLong
	}
	if err := l.shared.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.shared.sem.Release(1)
	if err := l.shared.r.Apply(l.cfg); err != nil {
		return err
	}
	return l.shared.r.SendNoAck(payload)
}
