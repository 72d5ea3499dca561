package crazyradio

import (
	"errors"
	"sync"
)

var errTransport = errors.New("usb: transfer failed")

// testTransport is a scripted stand-in for the dongle. It tracks the
// registers the firmware would hold, records every transfer, and lets
// tests decide how the remote side answers.
type testTransport struct {
	mu sync.Mutex

	controls []controlCall
	writes   [][]byte

	// register file, as written by control transfers
	channel   Channel
	address   Address
	datarate  Datarate
	power     Power
	arc       uint16
	ard       uint16
	ackEnable bool

	// snapshots holds the register state observed at each bulk
	// write, for checking that no exchange ever sees a mix of two
	// configurations.
	snapshots []regSnapshot

	// respond builds the ack frame for the last written payload.
	// The default declines to answer, reporting arc retries.
	respond func(tt *testTransport, payload []byte) []byte

	failControl bool
	failBulk    bool

	// reading, if non-nil, receives one value when a bulk read
	// starts; gate, if non-nil, blocks the read until closed.
	reading chan struct{}
	gate    chan struct{}

	lastWrite []byte
	closed    bool
}

type controlCall struct {
	request uint8
	value   uint16
	index   uint16
	data    []byte
}

type regSnapshot struct {
	channel  Channel
	address  Address
	datarate Datarate
	power    Power
	arc      uint16
	ard      uint16
}

func (tt *testTransport) Control(request uint8, value, index uint16, data []byte) error {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.failControl {
		return errTransport
	}
	tt.controls = append(tt.controls, controlCall{request, value, index, append([]byte(nil), data...)})
	switch Command(request) {
	case CmdSetRadioChannel:
		tt.channel = Channel(value)
	case CmdSetRadioAddress:
		copy(tt.address[:], data)
	case CmdSetDataRate:
		tt.datarate = Datarate(value)
	case CmdSetRadioPower:
		tt.power = Power(value)
	case CmdSetRadioARC:
		tt.arc = value
	case CmdSetRadioARD:
		tt.ard = value
	case CmdAckEnable:
		tt.ackEnable = value != 0
	}
	return nil
}

func (tt *testTransport) BulkWrite(endpoint uint8, data []byte) error {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.failBulk {
		return errTransport
	}
	tt.writes = append(tt.writes, append([]byte(nil), data...))
	tt.lastWrite = append([]byte(nil), data...)
	tt.snapshots = append(tt.snapshots, regSnapshot{
		channel:  tt.channel,
		address:  tt.address,
		datarate: tt.datarate,
		power:    tt.power,
		arc:      tt.arc,
		ard:      tt.ard,
	})
	return nil
}

func (tt *testTransport) BulkRead(endpoint uint8, max int) ([]byte, error) {
	tt.mu.Lock()
	reading, gate := tt.reading, tt.gate
	tt.mu.Unlock()
	if reading != nil {
		reading <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.failBulk {
		return nil, errTransport
	}
	if tt.respond != nil {
		return tt.respond(tt, tt.lastWrite), nil
	}
	return []byte{byte(tt.arc) << ackRetryShift}, nil
}

func (tt *testTransport) Close() error {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.closed = true
	return nil
}

func (tt *testTransport) controlCount() int {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return len(tt.controls)
}

func (tt *testTransport) writeCount() int {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return len(tt.writes)
}

// ackFrame builds an ack frame answering with payload.
func ackFrame(status byte, payload ...byte) []byte {
	return append([]byte{status}, payload...)
}

// respondWith scripts a fixed ack frame for every exchange.
func respondWith(frame []byte) func(*testTransport, []byte) []byte {
	return func(*testTransport, []byte) []byte { return frame }
}
