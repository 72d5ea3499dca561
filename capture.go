package crazyradio

// Diagnostic capture of exchanged packets.
//
// A Sink observes the raw bytes of completed exchanges: the outbound
// payload and the ack frame exactly as read from the dongle. The sink
// is notified synchronously after each exchange so its stream matches
// exchange order, but it never influences the exchange result. On a
// transport failure nothing is forwarded, keeping the stream limited
// to frames that actually crossed the air interface.

// Direction tells a Sink which way a captured packet traveled.
type Direction int

const (
	DirectionOut Direction = iota // host to radio
	DirectionIn                   // radio to host
)

func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionIn:
		return "in"
	}
	return "unknown"
}

// Sink receives exchanged packets for external diagnostic capture.
// Observe must not retain data and should return quickly.
type Sink interface {
	Observe(dir Direction, data []byte)
}

// SetCaptureSink attaches a capture sink to the radio. Passing nil
// detaches the current sink.
func (r *Radio) SetCaptureSink(s Sink) {
	r.sink = s
}

func (r *Radio) capture(dir Direction, data []byte) {
	if r.sink != nil {
		r.sink.Observe(dir, data)
	}
}
