package setting

import (
	"fmt"
	"strings"
)

// MIDI data byte range
const (
	MIDIMin = 0x00
	MIDIMax = 0x7F
)

// Spec describes one kind of encoded setting: the legal input domain and
// an optional transform applied before the final MIDI byte check.
type Spec struct {
	Name      string
	Lower     int
	Upper     int
	Transform func(int) int
}

func minusOne(v int) int { return v - 1 }

func invert(v int) int { return 1 - v }

var (
	Generic = Spec{Name: "value", Lower: MIDIMin, Upper: MIDIMax}
	Note    = Spec{Name: "note", Lower: MIDIMin, Upper: MIDIMax}
	CC      = Spec{Name: "cc", Lower: MIDIMin, Upper: MIDIMax}
	PCN     = Spec{Name: "pcn", Lower: MIDIMin, Upper: MIDIMax}
	Level   = Spec{Name: "level", Lower: MIDIMin, Upper: MIDIMax}

	// Channel 17 means "follow the global channel"
	Channel       = Spec{Name: "channel", Lower: 1, Upper: 17, Transform: minusOne}
	GlobalChannel = Spec{Name: "global channel", Lower: 1, Upper: 16, Transform: minusOne}

	ProgramSlot = Spec{Name: "program", Lower: 1, Upper: 4}

	Toggle = Spec{Name: "toggle", Lower: 0, Upper: 1}
	// The firmware stores full level inverted.
	FullLevel = Spec{Name: "full level", Lower: 0, Upper: 1, Transform: invert}
)

// Value is a single encoded MIDI data byte.
type Value struct {
	name  string
	input int
	out   uint8
}

// Encode runs the pipeline: domain check, transform, MIDI byte check.
func (s Spec) Encode(in Input) (Value, error) {
	n, err := in.resolve(s.Name)
	if err != nil {
		return Value{}, err
	}
	if n < s.Lower || n > s.Upper {
		return Value{}, &RangeError{Setting: s.Name, Value: n, Lower: s.Lower, Upper: s.Upper}
	}
	out := n
	if s.Transform != nil {
		out = s.Transform(n)
	}
	if out < MIDIMin || out > MIDIMax {
		return Value{}, &RangeError{Setting: s.Name, Value: out, Lower: MIDIMin, Upper: MIDIMax}
	}
	return Value{name: s.Name, input: n, out: uint8(out)}, nil
}

// EncodeInt is shorthand for Encode(Int(n)).
func (s Spec) EncodeInt(n int) (Value, error) {
	return s.Encode(Int(n))
}

// MustEncode panics on error. Only for constants.
func (s Spec) MustEncode(n int) Value {
	v, err := s.EncodeInt(n)
	if err != nil {
		panic(err)
	}
	return v
}

// EncodeBool encodes a boolean setting (Toggle, FullLevel).
func (s Spec) EncodeBool(b bool) (Value, error) {
	return s.Encode(Bool(b))
}

var pressureMessages = map[string]int{
	"off":        0,
	"channel":    1,
	"polyphonic": 2,
}

// PressureMessage encodes the aftertouch message type.
func PressureMessage(name string) (Value, error) {
	n, ok := pressureMessages[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Value{}, &UnknownEnumError{Setting: "pressure message", Value: name}
	}
	return Generic.EncodeInt(n)
}

// Byte returns the encoded data byte.
func (v Value) Byte() uint8 { return v.out }

// Int returns the encoded data byte as an int.
func (v Value) Int() int { return int(v.out) }

// Input returns the value before any transform was applied.
func (v Value) Input() int { return v.input }

// Name returns the setting name the value was encoded as.
func (v Value) Name() string { return v.name }

// Hex returns the canonical hex form of the encoded byte, e.g. "0x24".
func (v Value) Hex() string {
	return fmt.Sprintf("%#x", v.out)
}

func (v Value) String() string {
	return fmt.Sprintf("%s=%s", v.name, v.Hex())
}

// Node wraps the value as a tree leaf.
func (v Value) Node() Node {
	return Leaf(v)
}
