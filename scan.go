package crazyradio

import (
	"context"
	"fmt"
)

// ScanChannels probes every channel in [first, last] with payload and
// returns the channels whose peer answered. The address, datarate and
// power to scan under must already be applied. The dongle is held for
// the whole sweep; on a shared dongle use Scanner instead.
func (r *Radio) ScanChannels(first, last Channel, payload []byte) ([]Channel, error) {
	if !first.Valid() || !last.Valid() || first > last {
		return nil, fmt.Errorf("%w: scan %d-%d", ErrInvalidChannel, first, last)
	}
	var found []Channel
	for ch := first; ; ch++ {
		if err := r.SetChannel(ch); err != nil {
			return nil, err
		}
		ack, err := r.Exchange(payload)
		if err != nil {
			return nil, err
		}
		if ack.Received {
			found = append(found, ch)
		}
		if ch == last {
			break
		}
	}
	return found, nil
}

// Scanner probes a channel range for responsive peers, one exchange
// per channel, each through the shared radio's queue so a scan
// interleaves fairly with concurrent links. The sequence is lazy: the
// caller may stop early, and a fresh Scanner restarts from the first
// channel.
type Scanner struct {
	shared  *SharedRadio
	cfg     Config
	payload []byte
	next    Channel
	last    Channel
	done    bool
	ch      Channel
	err     error
}

// Scanner returns a scanner over [first, last] probing with payload
// under cfg's address, datarate and power (cfg's own channel is
// ignored).
func (s *SharedRadio) Scanner(cfg Config, first, last Channel, payload []byte) *Scanner {
	sc := &Scanner{
		shared:  s,
		cfg:     cfg,
		payload: payload,
		next:    first,
		last:    last,
	}
	if !first.Valid() || !last.Valid() || first > last {
		sc.err = fmt.Errorf("%w: scan %d-%d", ErrInvalidChannel, first, last)
	}
	return sc
}

// Scan advances to the next responsive channel. It returns false when
// the range is exhausted or a probe failed; Err tells which.
func (sc *Scanner) Scan() bool {
	return sc.scan(context.Background())
}

// ScanContext is Scan with the caller suspending instead of blocking
// while waiting for the dongle.
func (sc *Scanner) ScanContext(ctx context.Context) bool {
	return sc.scan(ctx)
}

func (sc *Scanner) scan(ctx context.Context) bool {
	if sc.err != nil {
		return false
	}
	for !sc.done {
		ch := sc.next
		if ch == sc.last {
			sc.done = true
		} else {
			sc.next++
		}
		cfg := sc.cfg
		cfg.Channel = ch
		link, err := sc.shared.Link(cfg)
		if err != nil {
			sc.err = err
			return false
		}
		ack, err := link.ExchangeContext(ctx, sc.payload)
		if err != nil {
			sc.err = err
			return false
		}
		if ack.Received {
			sc.ch = ch
			return true
		}
	}
	return false
}

// Channel returns the channel found by the last successful Scan.
func (sc *Scanner) Channel() Channel {
	return sc.ch
}

// Err returns the first error encountered by the scanner.
func (sc *Scanner) Err() error {
	return sc.err
}

// ScanChannels runs a full sweep through the scanner and collects the
// responsive channels.
func (s *SharedRadio) ScanChannels(ctx context.Context, cfg Config, first, last Channel, payload []byte) ([]Channel, error) {
	var found []Channel
	sc := s.Scanner(cfg, first, last, payload)
	for sc.ScanContext(ctx) {
		found = append(found, sc.Channel())
	}
	return found, sc.Err()
}
