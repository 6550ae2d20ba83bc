package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lpd8ctl/debug"
	"lpd8ctl/midi"
	"lpd8ctl/program"
	"lpd8ctl/setting"
	"lpd8ctl/theme"
	"lpd8ctl/widgets"
)

var keyHelp = []widgets.KeySection{
	{Keys: []widgets.KeyBinding{
		{Key: "1-4", Desc: "send to program slot"},
		{Key: "enter", Desc: "send to last slot"},
		{Key: "r", Desc: "reload file"},
		{Key: "q", Desc: "quit"},
	}},
}

type Model struct {
	Path      string
	Config    *program.Config
	Sender    midi.Sender
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	Slot      int

	pads    []setting.Pad
	knobs   []setting.Knob
	status  string
	err     error
	device  string
	sending bool
	quit    bool
}

// SentMsg reports the result of sending the program to a slot.
type SentMsg struct {
	Slot  int
	Bytes int
	Err   error
}

type DeviceEventMsg midi.DeviceEvent

type reloadedMsg struct {
	cfg *program.Config
	err error
}

func NewModel(path string, cfg *program.Config, sender midi.Sender, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	m := Model{
		Path:      path,
		Sender:    sender,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Slot:      1,
	}
	m.setConfig(cfg)
	return m
}

func (m *Model) setConfig(cfg *program.Config) {
	m.Config = cfg
	m.pads, m.err = program.BuildPads(cfg)
	if m.err == nil {
		m.knobs, m.err = program.BuildKnobs(cfg)
	}
}

// Send compiles the program for slot and hands it to the sender. Nothing
// is sent if compilation fails.
func Send(sender midi.Sender, cfg *program.Config, slot int) tea.Cmd {
	return func() tea.Msg {
		data, err := program.Compile(cfg, slot)
		if err != nil {
			return SentMsg{Slot: slot, Err: err}
		}
		if err := sender.Send(data); err != nil {
			return SentMsg{Slot: slot, Err: err}
		}
		return SentMsg{Slot: slot, Bytes: len(data)}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func reload(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := program.Load(path)
		return reloadedMsg{cfg: cfg, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	if m.DeviceMgr == nil {
		return nil
	}
	return ListenForDevices(m.DeviceMgr)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit

		case "1", "2", "3", "4":
			m.Slot = int(msg.String()[0] - '0')
			return m.send()

		case "enter":
			return m.send()

		case "r":
			if m.Path != "" {
				return m, reload(m.Path)
			}
		}

	case SentMsg:
		m.sending = false
		if msg.Err != nil {
			m.err = msg.Err
			m.status = ""
			debug.Log("tui", "send to slot %d failed: %v", msg.Slot, msg.Err)
		} else {
			m.err = nil
			m.status = fmt.Sprintf("sent %d bytes to program %d", msg.Bytes, msg.Slot)
		}

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setConfig(msg.cfg)
		m.status = "reloaded " + m.Path

	case DeviceEventMsg:
		if msg.Type == midi.DeviceConnected {
			m.device = msg.Port
		} else if m.device == msg.Port {
			m.device = ""
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) send() (tea.Model, tea.Cmd) {
	if m.sending || m.Sender == nil {
		return m, nil
	}
	m.sending = true
	m.status = fmt.Sprintf("sending to program %d...", m.Slot)
	return m, Send(m.Sender, m.Config, m.Slot)
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	th := m.Theme

	device := "no device"
	if m.device != "" {
		device = m.device
	}
	header := th.Title().Render(fmt.Sprintf("lpd8ctl  %s  program %d  %s", m.Path, m.Slot, device))

	var globals string
	if m.Config != nil {
		globals = th.Label().Render(fmt.Sprintf("channel %s  pressure %s  full level %t  toggle %t",
			m.Config.GlobalChannel, m.Config.Pressure(), m.Config.FullLevel, m.Config.Toggle))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(globals)
	out.WriteString("\n\n")
	if m.pads != nil {
		out.WriteString(widgets.RenderPadGrid(th, m.pads))
		out.WriteString("\n\n")
	}
	if m.knobs != nil {
		out.WriteString(widgets.RenderKnobs(th, m.knobs, 16))
		out.WriteString("\n\n")
	}

	switch {
	case m.err != nil:
		out.WriteString(th.Error().Render("error: " + m.err.Error()))
	case m.status != "":
		out.WriteString(th.OK().Render(m.status))
	}
	out.WriteString("\n\n")

	help := lipgloss.NewStyle().Foreground(th.Muted()).Render(widgets.RenderKeyHelp(keyHelp))
	out.WriteString(help)

	return out.String()
}
