package setting

import "fmt"

// Scalar is a group field holding either a raw input or an already
// encoded value.
type Scalar struct {
	raw     Input
	encoded *Value
}

func RawScalar(in Input) Scalar { return Scalar{raw: in} }

func EncodedScalar(v Value) Scalar { return Scalar{encoded: &v} }

func (f Scalar) resolve(spec Spec) (Value, error) {
	if f.encoded != nil {
		return *f.encoded, nil
	}
	return spec.Encode(f.raw)
}

// ColorField is a group field holding either a raw colour or an already
// encoded one.
type ColorField struct {
	raw     ColorInput
	encoded *Color
}

func RawColor(in ColorInput) ColorField { return ColorField{raw: in} }

func EncodedColor(c Color) ColorField { return ColorField{encoded: &c} }

func (f ColorField) resolve() (Color, error) {
	if f.encoded != nil {
		return *f.encoded, nil
	}
	return f.raw.Encode()
}

// PadFields names every pad setting so callers never depend on
// argument position.
type PadFields struct {
	Note     Scalar
	CC       Scalar
	PCN      Scalar
	Channel  Scalar
	OnColor  ColorField
	OffColor ColorField
}

// Pad is the encoded configuration of one pad.
type Pad struct {
	Note     Value
	CC       Value
	PCN      Value
	Channel  Value
	OnColor  Color
	OffColor Color
}

// PadLen is the number of bytes a pad contributes.
const PadLen = 4 + 2*6

func NewPad(f PadFields) (Pad, error) {
	var p Pad
	var err error
	if p.Note, err = f.Note.resolve(Note); err != nil {
		return Pad{}, fmt.Errorf("note: %w", err)
	}
	if p.CC, err = f.CC.resolve(CC); err != nil {
		return Pad{}, fmt.Errorf("cc: %w", err)
	}
	if p.PCN, err = f.PCN.resolve(PCN); err != nil {
		return Pad{}, fmt.Errorf("pcn: %w", err)
	}
	if p.Channel, err = f.Channel.resolve(Channel); err != nil {
		return Pad{}, fmt.Errorf("channel: %w", err)
	}
	if p.OnColor, err = f.OnColor.resolve(); err != nil {
		return Pad{}, fmt.Errorf("on colour: %w", err)
	}
	if p.OffColor, err = f.OffColor.resolve(); err != nil {
		return Pad{}, fmt.Errorf("off colour: %w", err)
	}
	return p, nil
}

// Node emits note, cc, pcn, channel, on colour, off colour.
func (p Pad) Node() Node {
	return GroupOf(p.Note, p.CC, p.PCN, p.Channel, p.OnColor, p.OffColor)
}

type KnobFields struct {
	CC      Scalar
	Channel Scalar
	Min     Scalar
	Max     Scalar
}

// Knob is the encoded configuration of one knob.
type Knob struct {
	CC      Value
	Channel Value
	Min     Value
	Max     Value
}

const KnobLen = 4

func NewKnob(f KnobFields) (Knob, error) {
	var k Knob
	var err error
	if k.CC, err = f.CC.resolve(CC); err != nil {
		return Knob{}, fmt.Errorf("cc: %w", err)
	}
	if k.Channel, err = f.Channel.resolve(Channel); err != nil {
		return Knob{}, fmt.Errorf("channel: %w", err)
	}
	if k.Min, err = f.Min.resolve(Level); err != nil {
		return Knob{}, fmt.Errorf("min: %w", err)
	}
	if k.Max, err = f.Max.resolve(Level); err != nil {
		return Knob{}, fmt.Errorf("max: %w", err)
	}
	return k, nil
}

func (k Knob) Node() Node {
	return GroupOf(k.CC, k.Channel, k.Min, k.Max)
}
