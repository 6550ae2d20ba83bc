package midi

import (
	"errors"
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"lpd8ctl/debug"
)

// DefaultMatch finds the LPD8 among the system's ports.
const DefaultMatch = "lpd8"

var (
	ErrDeviceNotFound = errors.New("no matching MIDI device")
	ErrScanTimeout    = errors.New("timed out listing MIDI ports")
)

// DeviceError is a failure to find or talk to the device.
type DeviceError struct {
	Op   string
	Port string
	Err  error
}

func (e *DeviceError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Sender accepts a SysEx payload without F0/F7 framing.
type Sender interface {
	Send(data []byte) error
}

// Port is an open output to the device.
type Port struct {
	out  drivers.Out
	send func(msg gomidi.Message) error
}

// OpenPort opens an output port for sending.
func OpenPort(out drivers.Out) (*Port, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, &DeviceError{Op: "open output", Port: out.String(), Err: err}
	}
	debug.Log("midi", "opened %s", out.String())
	return &Port{out: out, send: send}, nil
}

// Name returns the port name.
func (p *Port) Name() string {
	return p.out.String()
}

// Send frames data as SysEx and writes it.
func (p *Port) Send(data []byte) error {
	if err := p.send(gomidi.SysEx(data)); err != nil {
		return &DeviceError{Op: "send", Port: p.Name(), Err: err}
	}
	debug.Log("midi", "sent %d bytes to %s", len(data), p.Name())
	return nil
}

func (p *Port) Close() error {
	if err := p.out.Close(); err != nil {
		return &DeviceError{Op: "close", Port: p.Name(), Err: err}
	}
	return nil
}

// Match returns the index of the first name containing sub, ignoring
// case, or -1.
func Match(names []string, sub string) int {
	sub = strings.ToLower(sub)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), sub) {
			return i
		}
	}
	return -1
}
