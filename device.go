package crazyradio

import (
	"fmt"
	"io"
	"time"

	usb "github.com/kevmo314/go-usb"
)

// Crazyradio USB identity.
const (
	usbVendorID  = 0x1915 // Nordic Semiconductor
	usbProductID = 0x7777 // Crazyradio (PA) dongle

	defaultTimeout = 1 * time.Second
)

// Transport is the USB capability a Radio drives: vendor control
// transfers for configuration and bulk transfers for data. The radio
// never enumerates or opens the device itself; it receives an
// already-open transport.
type Transport interface {
	Control(request uint8, value, index uint16, data []byte) error
	BulkWrite(endpoint uint8, data []byte) error
	BulkRead(endpoint uint8, max int) ([]byte, error)
	Close() error
}

// usbTransport implements Transport over a usbfs device handle.
type usbTransport struct {
	handle  *usb.DeviceHandle
	timeout time.Duration
}

func (t *usbTransport) Control(request uint8, value, index uint16, data []byte) error {
	_, err := t.handle.ControlTransfer(requestTypeVendorOut, request, value, index, data, t.timeout)
	return err
}

func (t *usbTransport) BulkWrite(endpoint uint8, data []byte) error {
	// Zero-length packets are legal here: a null data packet is the
	// protocol's presence probe.
	n, err := t.handle.BulkTransferWithOptions(endpoint, data, t.timeout, true)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

func (t *usbTransport) BulkRead(endpoint uint8, max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := t.handle.BulkTransfer(endpoint, buf, t.timeout)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (t *usbTransport) Close() error {
	return t.handle.Close()
}

func listDongles() ([]*usb.Device, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("usb enumeration: %w", err)
	}
	var dongles []*usb.Device
	for _, dev := range devices {
		if dev.Descriptor.VendorID == usbVendorID && dev.Descriptor.ProductID == usbProductID {
			dongles = append(dongles, dev)
		}
	}
	return dongles, nil
}

// ListSerials returns the serial numbers of all connected dongles.
func ListSerials() ([]string, error) {
	dongles, err := listDongles()
	if err != nil {
		return nil, err
	}
	serials := make([]string, 0, len(dongles))
	for _, dev := range dongles {
		h, err := dev.Open()
		if err != nil {
			continue
		}
		s, err := h.StringDescriptor(dev.Descriptor.SerialNumberIndex)
		_ = h.Close()
		if err != nil {
			continue
		}
		serials = append(serials, s)
	}
	return serials, nil
}

// Open opens the first Crazyradio dongle found and resets it to its
// boot configuration.
func Open() (*Radio, error) {
	return open(func(string) bool { return true })
}

// OpenSerial opens the dongle with the given serial number.
func OpenSerial(serial string) (*Radio, error) {
	return open(func(s string) bool { return s == serial })
}

func open(match func(serial string) bool) (*Radio, error) {
	dongles, err := listDongles()
	if err != nil {
		return nil, err
	}
	for _, dev := range dongles {
		h, err := dev.Open()
		if err != nil {
			continue
		}
		serial, _ := h.StringDescriptor(dev.Descriptor.SerialNumberIndex)
		if !match(serial) {
			_ = h.Close()
			continue
		}
		r, err := openRadio(h, dev.Descriptor.DeviceVersion, serial)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		return r, nil
	}
	return nil, ErrNotFound
}

// openRadio claims the dongle's single interface, checks the firmware
// version and resets the radio to boot values.
func openRadio(h *usb.DeviceHandle, bcdVersion uint16, serial string) (*Radio, error) {
	// A kernel driver may have bound the dongle; best effort.
	_ = h.DetachKernelDriver(0)
	if err := h.ClaimInterface(0); err != nil {
		return nil, fmt.Errorf("claim interface: %w", err)
	}
	// Firmware before 0.4 lacks the configuration requests used here.
	if bcdVersion < 0x0040 {
		return nil, fmt.Errorf("unsupported firmware version %s", bcdString(bcdVersion))
	}
	r := NewRadio(&usbTransport{handle: h, timeout: defaultTimeout})
	r.serial = serial
	r.version = bcdString(bcdVersion)
	if err := r.Apply(DefaultConfig()); err != nil {
		return nil, err
	}
	if err := r.SetArdBytes(MaxPayload); err != nil {
		return nil, err
	}
	return r, nil
}

func bcdString(v uint16) string {
	return fmt.Sprintf("%x.%02x", v>>8, v&0xFF)
}
