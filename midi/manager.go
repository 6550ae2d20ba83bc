package midi

import (
	"context"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"lpd8ctl/debug"
)

// DeviceEvent is emitted when a matching port appears or goes away
type DeviceEvent struct {
	Type DeviceEventType
	Port string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// DeviceManager finds output ports whose name contains a match string and
// watches them come and go.
type DeviceManager struct {
	match       string
	list        func() []drivers.Out
	pollRate    time.Duration
	scanTimeout time.Duration

	mu      sync.RWMutex
	present map[string]bool
	events  chan DeviceEvent
}

// NewDeviceManager creates a manager matching port names against match
// (DefaultMatch when empty).
func NewDeviceManager(match string) *DeviceManager {
	if match == "" {
		match = DefaultMatch
	}
	return &DeviceManager{
		match:       match,
		list:        func() []drivers.Out { return gomidi.GetOutPorts() },
		pollRate:    time.Second,
		scanTimeout: 3 * time.Second,
		present:     make(map[string]bool),
		events:      make(chan DeviceEvent, 16),
	}
}

// Events returns a channel of connect/disconnect events. It is closed when
// Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Present returns the names of matching ports seen by the last scan.
func (dm *DeviceManager) Present() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.present))
	for name := range dm.present {
		names = append(names, name)
	}
	return names
}

// Ports lists every output port. Listing can hang on CoreMIDI, so it gives
// up after the scan timeout.
func (dm *DeviceManager) Ports(ctx context.Context) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- dm.list()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(dm.scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, &DeviceError{Op: "list ports", Err: ErrScanTimeout}
	}
}

// Names lists every output port name.
func (dm *DeviceManager) Names(ctx context.Context) ([]string, error) {
	outs, err := dm.Ports(ctx)
	if err != nil {
		return nil, err
	}
	return portNames(outs), nil
}

func portNames(outs []drivers.Out) []string {
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// FindPort opens the first output port matching the manager's string.
func (dm *DeviceManager) FindPort(ctx context.Context) (*Port, error) {
	outs, err := dm.Ports(ctx)
	if err != nil {
		return nil, err
	}
	i := Match(portNames(outs), dm.match)
	if i < 0 {
		return nil, &DeviceError{Op: "find output", Port: dm.match, Err: ErrDeviceNotFound}
	}
	return OpenPort(outs[i])
}

// WaitFor polls until a matching port shows up or ctx is done.
func (dm *DeviceManager) WaitFor(ctx context.Context) (*Port, error) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	for {
		port, err := dm.FindPort(ctx)
		if err == nil {
			return port, nil
		}
		debug.Log("midi", "waiting for %q: %v", dm.match, err)

		select {
		case <-ctx.Done():
			return nil, &DeviceError{Op: "wait", Port: dm.match, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	outs, err := dm.Ports(ctx)
	if err != nil {
		debug.Log("midi", "scan skipped: %v", err)
		return
	}

	seen := make(map[string]bool)
	for _, name := range portNames(outs) {
		if Match([]string{name}, dm.match) == 0 {
			seen[name] = true
		}
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	for name := range seen {
		if !dm.present[name] {
			dm.emit(DeviceEvent{Type: DeviceConnected, Port: name})
		}
	}
	for name := range dm.present {
		if !seen[name] {
			dm.emit(DeviceEvent{Type: DeviceDisconnected, Port: name})
		}
	}
	dm.present = seen
}

// emit drops the event if nobody is reading.
func (dm *DeviceManager) emit(ev DeviceEvent) {
	debug.Log("midi", "%s %s", ev.Port, ev.Type)
	select {
	case dm.events <- ev:
	default:
	}
}

// LazyPort finds and opens the device on first Send, and again after a
// failed send.
type LazyPort struct {
	dm   *DeviceManager
	mu   sync.Mutex
	port *Port
}

func (dm *DeviceManager) Lazy() *LazyPort {
	return &LazyPort{dm: dm}
}

func (l *LazyPort) Send(data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.port == nil {
		port, err := l.dm.FindPort(context.Background())
		if err != nil {
			return err
		}
		l.port = port
	}
	if err := l.port.Send(data); err != nil {
		l.port.Close()
		l.port = nil
		return err
	}
	return nil
}

func (l *LazyPort) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return nil
	}
	err := l.port.Close()
	l.port = nil
	return err
}

// FindPort opens the first output port whose name contains match.
func FindPort(ctx context.Context, match string) (*Port, error) {
	return NewDeviceManager(match).FindPort(ctx)
}
