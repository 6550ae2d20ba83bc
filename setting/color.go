package setting

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	colorMax = 0xFF
	// Colour components are split across two 7-bit data bytes.
	colorRadix = MIDIMax + 1
)

// RGB is a plain 8-bit colour.
type RGB [3]uint8

// Hex returns the colour as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ColorInput is a colour as written in a program file: three integers,
// three two-digit hex strings, or one "#rrggbb" string.
type ColorInput struct {
	components [3]Input
	hexcode    string
}

// RGBInput builds a colour input from integer components.
func RGBInput(r, g, b int) ColorInput {
	return ColorInput{components: [3]Input{Int(r), Int(g), Int(b)}}
}

// HexInput builds a colour input from hex strings, either three
// components ("ff", "00", "00") or one "#ff0000".
func HexInput(parts ...string) (ColorInput, error) {
	switch len(parts) {
	case 1:
		return ColorInput{hexcode: parts[0]}, nil
	case 3:
		return ColorInput{components: [3]Input{Hex(parts[0]), Hex(parts[1]), Hex(parts[2])}}, nil
	}
	return ColorInput{}, fmt.Errorf("colour needs 1 or 3 hex strings, got %d", len(parts))
}

// FromRGB converts a plain colour into an input.
func FromRGB(c RGB) ColorInput {
	return RGBInput(int(c[0]), int(c[1]), int(c[2]))
}

// MustParseColor parses "#rrggbb" or panics.
func MustParseColor(s string) ColorInput {
	c, err := HexInput(s)
	if err != nil {
		panic(err)
	}
	if _, err := c.RGB(); err != nil {
		panic(err)
	}
	return c
}

// IsSet reports whether the input holds a colour.
func (c ColorInput) IsSet() bool {
	return c.hexcode != "" || c.components[0].IsSet()
}

// isHexCode reports whether code is "#rgb" or "#rrggbb".
func isHexCode(code string) bool {
	if len(code) != 4 && len(code) != 7 {
		return false
	}
	for _, r := range code[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// RGB resolves the input to three components, range checked to 0..255.
func (c ColorInput) RGB() (RGB, error) {
	if c.hexcode != "" {
		code := c.hexcode
		if !strings.HasPrefix(code, "#") {
			code = "#" + code
		}
		if !isHexCode(code) {
			return RGB{}, fmt.Errorf("colour %q: %w", c.hexcode, ErrInvalidHex)
		}
		col, err := colorful.Hex(code)
		if err != nil {
			return RGB{}, fmt.Errorf("colour %q: %w", c.hexcode, ErrInvalidHex)
		}
		r, g, b := col.RGB255()
		return RGB{r, g, b}, nil
	}
	var out RGB
	for i, in := range c.components {
		n, err := in.resolve("colour")
		if err != nil {
			return RGB{}, err
		}
		if n < 0 || n > colorMax {
			return RGB{}, &RangeError{Setting: "colour", Value: n, Lower: 0, Upper: colorMax}
		}
		out[i] = uint8(n)
	}
	return out, nil
}

// Encode resolves and encodes the colour.
func (c ColorInput) Encode() (Color, error) {
	rgb, err := c.RGB()
	if err != nil {
		return Color{}, err
	}
	return NewColor(int(rgb[0]), int(rgb[1]), int(rgb[2]))
}

func (c ColorInput) String() string {
	if c.hexcode != "" {
		return c.hexcode
	}
	return fmt.Sprintf("[%s %s %s]", c.components[0], c.components[1], c.components[2])
}

func (c *ColorInput) assign(v any) error {
	switch x := v.(type) {
	case string:
		*c = ColorInput{hexcode: x}
		return nil
	case []any:
		if len(x) != 3 {
			return fmt.Errorf("colour needs 3 components, got %d", len(x))
		}
		var out ColorInput
		for i, p := range x {
			if err := out.components[i].assign(p); err != nil {
				return err
			}
		}
		*c = out
		return nil
	}
	return fmt.Errorf("unsupported colour %v (%T)", v, v)
}

func (c *ColorInput) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return c.assign(v)
}

func (c ColorInput) MarshalJSON() ([]byte, error) {
	if c.hexcode != "" {
		return json.Marshal(c.hexcode)
	}
	return json.Marshal(c.components)
}

func (c *ColorInput) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return c.assign(v)
}

func (c ColorInput) MarshalYAML() (any, error) {
	if c.hexcode != "" {
		return c.hexcode, nil
	}
	return c.components[:], nil
}

// Color is an encoded colour: six data bytes, high then low per component.
type Color struct {
	rgb    RGB
	values [6]Value
}

// NewColor encodes three 0..255 components.
func NewColor(r, g, b int) (Color, error) {
	var c Color
	for i, comp := range []int{r, g, b} {
		if comp < 0 || comp > colorMax {
			return Color{}, &RangeError{Setting: "colour", Value: comp, Lower: 0, Upper: colorMax}
		}
		c.rgb[i] = uint8(comp)
		high, err := Generic.EncodeInt(comp / colorRadix)
		if err != nil {
			return Color{}, err
		}
		low, err := Generic.EncodeInt(comp % colorRadix)
		if err != nil {
			return Color{}, err
		}
		c.values[2*i] = high
		c.values[2*i+1] = low
	}
	return c, nil
}

// RGB returns the original components.
func (c Color) RGB() RGB { return c.rgb }

// Node groups the six bytes.
func (c Color) Node() Node {
	children := make([]Node, len(c.values))
	for i, v := range c.values {
		children[i] = Leaf(v)
	}
	return Group(children...)
}
