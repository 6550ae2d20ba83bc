package program

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"

	"lpd8ctl/setting"
)

// SysEx framing for the LPD8 mk2 "send program" message. F0/F7 are added
// by the transport.
const (
	SysExAkai     = 0x47
	SysExAkai2    = 0x7F
	SysExLPD8MK2  = 0x4C
	SysExSend     = 0x01
	SysExSpacer1  = 0x01
	SysExSpacer2  = 0x29
	headerLen     = 3 + 1 + 2
	globalsLen    = 1 + 4
	MessageLength = headerLen + globalsLen + NumPads*setting.PadLen + NumKnobs*setting.KnobLen
)

var (
	header = []int{SysExAkai, SysExAkai2, SysExLPD8MK2}
	spacer = []int{SysExSpacer1, SysExSpacer2}
)

func constants(ns []int) setting.Node {
	children := make([]setting.Node, len(ns))
	for i, n := range ns {
		children[i] = setting.Generic.MustEncode(n).Node()
	}
	return setting.Group(children...)
}

// Tree builds the encoding tree for cfg written to program slot (1-4).
// The slot is checked before anything else.
func Tree(cfg *Config, slot int) (setting.Node, error) {
	slotValue, err := setting.ProgramSlot.EncodeInt(slot)
	if err != nil {
		return setting.Node{}, err
	}
	if err := cfg.Validate(); err != nil {
		return setting.Node{}, err
	}

	globalChannel, err := setting.GlobalChannel.Encode(cfg.GlobalChannel)
	if err != nil {
		return setting.Node{}, err
	}
	pressure, err := setting.PressureMessage(cfg.Pressure())
	if err != nil {
		return setting.Node{}, err
	}
	fullLevel, err := setting.FullLevel.EncodeBool(cfg.FullLevel)
	if err != nil {
		return setting.Node{}, err
	}
	toggle, err := setting.Toggle.EncodeBool(cfg.Toggle)
	if err != nil {
		return setting.Node{}, err
	}

	pads, err := BuildPads(cfg)
	if err != nil {
		return setting.Node{}, err
	}
	knobs, err := BuildKnobs(cfg)
	if err != nil {
		return setting.Node{}, err
	}

	padNodes := make([]setting.Node, len(pads))
	for i, p := range pads {
		padNodes[i] = p.Node()
	}
	knobNodes := make([]setting.Node, len(knobs))
	for i, k := range knobs {
		knobNodes[i] = k.Node()
	}

	return setting.Group(
		constants(header),
		setting.Generic.MustEncode(SysExSend).Node(),
		constants(spacer),
		slotValue.Node(),
		globalChannel.Node(),
		pressure.Node(),
		fullLevel.Node(),
		toggle.Node(),
		setting.Group(padNodes...),
		setting.Group(knobNodes...),
	), nil
}

// BuildPads encodes pads 1..8. Fields are mapped by name, never by
// position, so on and off colours cannot be swapped.
func BuildPads(cfg *Config) ([]setting.Pad, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pads := make([]setting.Pad, NumPads)
	for i := range pads {
		pad, err := setting.NewPad(setting.PadFields{
			Note:     setting.RawScalar(cfg.PadNote[i]),
			CC:       setting.RawScalar(cfg.PadCC[i]),
			PCN:      setting.RawScalar(cfg.PadPCN[i]),
			Channel:  setting.RawScalar(cfg.PadChannel[i]),
			OnColor:  setting.RawColor(cfg.PadOnColor[i]),
			OffColor: setting.RawColor(cfg.PadOffColor[i]),
		})
		if err != nil {
			return nil, fmt.Errorf("pad %d: %w", i+1, err)
		}
		pads[i] = pad
	}
	return pads, nil
}

// BuildKnobs encodes knobs 1..8.
func BuildKnobs(cfg *Config) ([]setting.Knob, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	knobs := make([]setting.Knob, NumKnobs)
	for i := range knobs {
		knob, err := setting.NewKnob(setting.KnobFields{
			CC:      setting.RawScalar(cfg.KnobCC[i]),
			Channel: setting.RawScalar(cfg.KnobChannel[i]),
			Min:     setting.RawScalar(cfg.KnobMin[i]),
			Max:     setting.RawScalar(cfg.KnobMax[i]),
		})
		if err != nil {
			return nil, fmt.Errorf("knob %d: %w", i+1, err)
		}
		knobs[i] = knob
	}
	return knobs, nil
}

// Encode returns the flat sequence of encoded values.
func Encode(cfg *Config, slot int) ([]setting.Value, error) {
	tree, err := Tree(cfg, slot)
	if err != nil {
		return nil, err
	}
	return tree.Flatten(), nil
}

// Compile returns the SysEx payload for cfg written to program slot.
func Compile(cfg *Config, slot int) ([]byte, error) {
	tree, err := Tree(cfg, slot)
	if err != nil {
		return nil, err
	}
	return tree.Bytes(), nil
}

// Message wraps the compiled payload as a SysEx message.
func Message(cfg *Config, slot int) (gomidi.Message, error) {
	data, err := Compile(cfg, slot)
	if err != nil {
		return nil, err
	}
	return gomidi.SysEx(data), nil
}
