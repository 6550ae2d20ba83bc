package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpd8ctl/midi"
	"lpd8ctl/program"
	"lpd8ctl/theme"
)

type fakeSender struct {
	sent [][]byte
	err  error
}

func (f *fakeSender) Send(data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func drums(t *testing.T) *program.Config {
	t.Helper()
	reg, err := program.DefaultRegistry()
	require.NoError(t, err)
	cfg, err := reg.Get(1)
	require.NoError(t, err)
	return cfg
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press runs the key and the command it returns, feeding the result back.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func TestSendToSlot(t *testing.T) {
	cfg := drums(t)
	sender := &fakeSender{}
	m := NewModel("drums.json", cfg, sender, nil, theme.New(nil))

	m = press(t, m, "3")
	assert.Equal(t, 3, m.Slot)
	require.Len(t, sender.sent, 1)

	want, err := program.Compile(cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, want, sender.sent[0])
	assert.Equal(t, "sent 171 bytes to program 3", m.status)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "sent 171 bytes to program 3")
}

func TestEnterResendsLastSlot(t *testing.T) {
	sender := &fakeSender{}
	m := NewModel("drums.json", drums(t), sender, nil, theme.New(nil))

	m = press(t, m, "2")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, sender.sent[0], sender.sent[1])
}

func TestSendError(t *testing.T) {
	sender := &fakeSender{err: &midi.DeviceError{Op: "find output", Port: "lpd8", Err: midi.ErrDeviceNotFound}}
	m := NewModel("drums.json", drums(t), sender, nil, theme.New(nil))

	m = press(t, m, "1")
	assert.True(t, errors.Is(m.err, midi.ErrDeviceNotFound))
	assert.Contains(t, m.View(), "no matching MIDI device")
}

func TestInvalidProgramIsNotSent(t *testing.T) {
	cfg := drums(t)
	cfg.KnobMax = cfg.KnobMax[:7]
	sender := &fakeSender{}
	m := NewModel("bad.json", cfg, sender, nil, theme.New(nil))
	require.Error(t, m.err)

	m = press(t, m, "1")
	assert.Empty(t, sender.sent)
	assert.True(t, errors.Is(m.err, program.ErrMalformedConfig))
}

func TestQuit(t *testing.T) {
	m := NewModel("drums.json", drums(t), &fakeSender{}, nil, theme.New(nil))
	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, "", next.View())
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.json")
	cfg := drums(t)
	require.NoError(t, cfg.Save(path))

	m := NewModel(path, cfg, &fakeSender{}, nil, theme.New(nil))
	cfg.Toggle = true
	require.NoError(t, cfg.Save(path))

	m = press(t, m, "r")
	assert.True(t, m.Config.Toggle)
	assert.Equal(t, "reloaded "+path, m.status)

	require.NoError(t, os.Remove(path))
	m = press(t, m, "r")
	assert.ErrorIs(t, m.err, os.ErrNotExist)
}

func TestDeviceEvents(t *testing.T) {
	dm := midi.NewDeviceManager("lpd8")
	m := NewModel("drums.json", drums(t), &fakeSender{}, dm, theme.New(nil))

	next, cmd := m.Update(DeviceEventMsg{Type: midi.DeviceConnected, Port: "LPD8 mk2"})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "LPD8 mk2")

	next, _ = m.Update(DeviceEventMsg{Type: midi.DeviceDisconnected, Port: "LPD8 mk2"})
	m = next.(Model)
	assert.Contains(t, m.View(), "no device")
}
