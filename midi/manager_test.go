package midi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type fakeOut struct {
	name    string
	open    bool
	sent    [][]byte
	sendErr error
}

func (f *fakeOut) Open() error             { f.open = true; return nil }
func (f *fakeOut) Close() error            { f.open = false; return nil }
func (f *fakeOut) IsOpen() bool            { return f.open }
func (f *fakeOut) Number() int             { return 0 }
func (f *fakeOut) String() string          { return f.name }
func (f *fakeOut) Underlying() interface{} { return nil }
func (f *fakeOut) Send(data []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func testManager(match string, outs ...*fakeOut) *DeviceManager {
	dm := NewDeviceManager(match)
	dm.pollRate = time.Millisecond
	dm.list = func() []drivers.Out {
		ports := make([]drivers.Out, len(outs))
		for i, o := range outs {
			ports[i] = o
		}
		return ports
	}
	return dm
}

func TestMatch(t *testing.T) {
	names := []string{"Midi Through Port-0", "LPD8 mk2 MIDI 1", "lpd8 other"}
	assert.Equal(t, 1, Match(names, "lpd8"))
	assert.Equal(t, 1, Match(names, "LPD8"))
	assert.Equal(t, 0, Match(names, "through"))
	assert.Equal(t, -1, Match(names, "launchpad"))
	assert.Equal(t, -1, Match(nil, "lpd8"))
}

func TestDeviceError(t *testing.T) {
	err := &DeviceError{Op: "find output", Port: "lpd8", Err: ErrDeviceNotFound}
	assert.Equal(t, "find output lpd8: no matching MIDI device", err.Error())
	assert.True(t, errors.Is(err, ErrDeviceNotFound))

	var de *DeviceError
	assert.True(t, errors.As(error(err), &de))
	assert.Equal(t, "list ports: timed out listing MIDI ports", (&DeviceError{Op: "list ports", Err: ErrScanTimeout}).Error())
}

func TestFindPortSendsSysEx(t *testing.T) {
	through := &fakeOut{name: "Midi Through Port-0"}
	lpd8 := &fakeOut{name: "LPD8 mk2 MIDI 1"}
	dm := testManager("", through, lpd8)

	port, err := dm.FindPort(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LPD8 mk2 MIDI 1", port.Name())
	assert.True(t, lpd8.open)

	require.NoError(t, port.Send([]byte{0x47, 0x7F, 0x4C}))
	require.Len(t, lpd8.sent, 1)
	assert.Equal(t, []byte{0xF0, 0x47, 0x7F, 0x4C, 0xF7}, lpd8.sent[0])
	assert.Empty(t, through.sent)

	require.NoError(t, port.Close())
	assert.False(t, lpd8.open)
}

func TestFindPortNotFound(t *testing.T) {
	dm := testManager("lpd8", &fakeOut{name: "Midi Through Port-0"})
	_, err := dm.FindPort(context.Background())
	assert.True(t, errors.Is(err, ErrDeviceNotFound))
}

func TestSendError(t *testing.T) {
	boom := errors.New("boom")
	out := &fakeOut{name: "LPD8", sendErr: boom}
	port, err := OpenPort(out)
	require.NoError(t, err)

	err = port.Send([]byte{0x01})
	var de *DeviceError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "send", de.Op)
	assert.True(t, errors.Is(err, boom))
}

func TestPortsTimeout(t *testing.T) {
	dm := testManager("lpd8")
	block := make(chan struct{})
	defer close(block)
	dm.list = func() []drivers.Out {
		<-block
		return nil
	}
	dm.scanTimeout = 10 * time.Millisecond

	_, err := dm.Ports(context.Background())
	assert.True(t, errors.Is(err, ErrScanTimeout))
}

func TestWaitFor(t *testing.T) {
	lpd8 := &fakeOut{name: "LPD8 mk2"}
	calls := 0
	dm := testManager("lpd8")
	dm.list = func() []drivers.Out {
		calls++
		if calls < 3 {
			return nil
		}
		return []drivers.Out{lpd8}
	}

	port, err := dm.WaitFor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LPD8 mk2", port.Name())
	assert.GreaterOrEqual(t, calls, 3)
}

func TestWaitForCancelled(t *testing.T) {
	dm := testManager("lpd8")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := dm.WaitFor(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestScanEvents(t *testing.T) {
	lpd8 := &fakeOut{name: "LPD8 mk2"}
	var outs []drivers.Out
	dm := testManager("lpd8")
	dm.list = func() []drivers.Out { return outs }

	ctx := context.Background()
	dm.scan(ctx)
	assert.Empty(t, dm.Present())

	outs = []drivers.Out{lpd8, &fakeOut{name: "Midi Through"}}
	dm.scan(ctx)
	assert.Equal(t, []string{"LPD8 mk2"}, dm.Present())
	assert.Equal(t, DeviceEvent{Type: DeviceConnected, Port: "LPD8 mk2"}, <-dm.Events())

	outs = nil
	dm.scan(ctx)
	assert.Empty(t, dm.Present())
	ev := <-dm.Events()
	assert.Equal(t, DeviceDisconnected, ev.Type)
	assert.Equal(t, "disconnected", ev.Type.String())
}

func TestLazyPortReopens(t *testing.T) {
	lpd8 := &fakeOut{name: "LPD8"}
	dm := testManager("lpd8")
	var outs []drivers.Out
	dm.list = func() []drivers.Out { return outs }
	lazy := dm.Lazy()

	assert.True(t, errors.Is(lazy.Send([]byte{0x01}), ErrDeviceNotFound))

	outs = []drivers.Out{lpd8}
	require.NoError(t, lazy.Send([]byte{0x02}))
	assert.Equal(t, [][]byte{{0xF0, 0x02, 0xF7}}, lpd8.sent)
	require.NoError(t, lazy.Close())
	require.NoError(t, lazy.Close())
}
