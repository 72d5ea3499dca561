package crazyradio

// Command represents a vendor control request understood by the
// nRF24LU1 dongle firmware.
// See https://wiki.bitcraze.io/doc:crazyradio:usb:index
type Command byte

//go:generate stringer -type Command

const (
	CmdSetRadioChannel  Command = 0x01
	CmdSetRadioAddress  Command = 0x02
	CmdSetDataRate      Command = 0x03
	CmdSetRadioPower    Command = 0x04
	CmdSetRadioARD      Command = 0x05
	CmdSetRadioARC      Command = 0x06
	CmdAckEnable        Command = 0x10
	CmdSetContCarrier   Command = 0x20
	CmdScanChannels     Command = 0x21
	CmdLaunchBootloader Command = 0xFF
)

// USB addressing of the dongle.
const (
	// requestTypeVendorOut is the bmRequestType for host-to-device
	// vendor requests, the only control-transfer direction the
	// firmware's configuration map uses.
	requestTypeVendorOut = 0x40

	epDataOut = 0x01 // bulk OUT, data packets
	epDataIn  = 0x81 // bulk IN, ack frames
)

// Ack frame layout: byte 0 is a status bitfield, the rest is the
// payload the remote side attached to its ack.
const (
	ackReceivedBit      = 0x01
	ackPowerDetectorBit = 0x02
	ackRetryShift       = 2

	// maxAckFrame is one status byte plus a full ack payload.
	maxAckFrame = 1 + MaxPayload
)
