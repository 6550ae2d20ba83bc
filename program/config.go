package program

import (
	"errors"
	"fmt"

	"lpd8ctl/setting"
)

// NumPads and NumKnobs are fixed by the hardware.
const (
	NumPads  = 8
	NumKnobs = 8
)

var ErrMalformedConfig = errors.New("malformed program config")

// MalformedConfigError reports a missing or wrongly shaped field.
type MalformedConfigError struct {
	Field  string
	Reason string
}

func (e *MalformedConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *MalformedConfigError) Unwrap() error { return ErrMalformedConfig }

// Config is one program's settings as stored in a program file. Index i
// of every array describes pad or knob i+1.
type Config struct {
	GlobalChannel   setting.Input `json:"global_channel" yaml:"global_channel"`
	PressureMessage string        `json:"pressure_message,omitempty" yaml:"pressure_message,omitempty"`
	MessageType     string        `json:"message_type,omitempty" yaml:"message_type,omitempty"`
	FullLevel       bool          `json:"full_level" yaml:"full_level"`
	Toggle          bool          `json:"toggle" yaml:"toggle"`

	PadNote     []setting.Input      `json:"pad_note" yaml:"pad_note"`
	PadCC       []setting.Input      `json:"pad_cc" yaml:"pad_cc"`
	PadPCN      []setting.Input      `json:"pad_pcn" yaml:"pad_pcn"`
	PadChannel  []setting.Input      `json:"pad_channel" yaml:"pad_channel"`
	PadOffColor []setting.ColorInput `json:"pad_off_color" yaml:"pad_off_color"`
	PadOnColor  []setting.ColorInput `json:"pad_on_color" yaml:"pad_on_color"`

	KnobCC      []setting.Input `json:"knob_cc" yaml:"knob_cc"`
	KnobChannel []setting.Input `json:"knob_channel" yaml:"knob_channel"`
	KnobMin     []setting.Input `json:"knob_min" yaml:"knob_min"`
	KnobMax     []setting.Input `json:"knob_max" yaml:"knob_max"`
}

// Pressure returns the pressure message type, accepting the
// message_type alias.
func (c *Config) Pressure() string {
	if c.PressureMessage != "" {
		return c.PressureMessage
	}
	return c.MessageType
}

// Validate checks the record's shape. Value ranges are checked by the
// encoders when the program is compiled.
func (c *Config) Validate() error {
	if !c.GlobalChannel.IsSet() {
		return &MalformedConfigError{Field: "global_channel", Reason: "missing"}
	}
	if c.Pressure() == "" {
		return &MalformedConfigError{Field: "pressure_message", Reason: "missing"}
	}

	lengths := []struct {
		field string
		n     int
		want  int
	}{
		{"pad_note", len(c.PadNote), NumPads},
		{"pad_cc", len(c.PadCC), NumPads},
		{"pad_pcn", len(c.PadPCN), NumPads},
		{"pad_channel", len(c.PadChannel), NumPads},
		{"pad_off_color", len(c.PadOffColor), NumPads},
		{"pad_on_color", len(c.PadOnColor), NumPads},
		{"knob_cc", len(c.KnobCC), NumKnobs},
		{"knob_channel", len(c.KnobChannel), NumKnobs},
		{"knob_min", len(c.KnobMin), NumKnobs},
		{"knob_max", len(c.KnobMax), NumKnobs},
	}
	for _, l := range lengths {
		if l.n != l.want {
			return &MalformedConfigError{
				Field:  l.field,
				Reason: fmt.Sprintf("expected %d entries, found %d", l.want, l.n),
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.PadNote = append([]setting.Input(nil), c.PadNote...)
	out.PadCC = append([]setting.Input(nil), c.PadCC...)
	out.PadPCN = append([]setting.Input(nil), c.PadPCN...)
	out.PadChannel = append([]setting.Input(nil), c.PadChannel...)
	out.PadOffColor = append([]setting.ColorInput(nil), c.PadOffColor...)
	out.PadOnColor = append([]setting.ColorInput(nil), c.PadOnColor...)
	out.KnobCC = append([]setting.Input(nil), c.KnobCC...)
	out.KnobChannel = append([]setting.Input(nil), c.KnobChannel...)
	out.KnobMin = append([]setting.Input(nil), c.KnobMin...)
	out.KnobMax = append([]setting.Input(nil), c.KnobMax...)
	return &out
}

// SetPadColors overrides the off and/or on colour of the given pads
// (1-based). A nil colour is left unchanged; no pads means all of them.
func (c *Config) SetPadColors(off, on *setting.ColorInput, pads ...int) error {
	if len(c.PadOffColor) != NumPads || len(c.PadOnColor) != NumPads {
		return &MalformedConfigError{Field: "pad colours", Reason: fmt.Sprintf("expected %d entries", NumPads)}
	}
	if len(pads) == 0 {
		pads = []int{1, 2, 3, 4, 5, 6, 7, 8}
	}
	for _, p := range pads {
		if p < 1 || p > NumPads {
			return &setting.RangeError{Setting: "pad", Value: p, Lower: 1, Upper: NumPads}
		}
	}
	for _, p := range pads {
		if off != nil {
			c.PadOffColor[p-1] = *off
		}
		if on != nil {
			c.PadOnColor[p-1] = *on
		}
	}
	return nil
}
