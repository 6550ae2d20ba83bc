package setting

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input is a raw scalar as written in a program file: an integer, a
// boolean, or a hexadecimal string such as "0x24" or "24".
// The zero Input is unset.
type Input struct {
	n       int
	hex     string
	fromHex bool
	set     bool
}

// Int returns an integer input.
func Int(n int) Input { return Input{n: n, set: true} }

// Hex returns a hexadecimal string input.
func Hex(s string) Input { return Input{hex: s, fromHex: true, set: true} }

// Bool returns 1 for true and 0 for false.
func Bool(b bool) Input {
	if b {
		return Int(1)
	}
	return Int(0)
}

// IsSet reports whether the input holds a value.
func (in Input) IsSet() bool { return in.set }

// Ints converts a list of integers to inputs.
func Ints(ns ...int) []Input {
	out := make([]Input, len(ns))
	for i, n := range ns {
		out[i] = Int(n)
	}
	return out
}

func (in Input) resolve(name string) (int, error) {
	if !in.set {
		return 0, fmt.Errorf("%s: %w", name, ErrMissingValue)
	}
	if !in.fromHex {
		return in.n, nil
	}
	return parseHex(name, in.hex)
}

func parseHex(name, s string) (int, error) {
	t := strings.TrimSpace(strings.ToLower(s))
	t = strings.TrimPrefix(t, "0x")
	n, err := strconv.ParseUint(t, 16, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || t == "" {
		return 0, fmt.Errorf("%s %q: %w", name, s, ErrInvalidHex)
	}
	// too large for any domain; the range check reports it
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int(n), nil
}

// Resolve returns the numeric value of the input.
func (in Input) Resolve() (int, error) {
	return in.resolve("value")
}

func (in Input) String() string {
	if !in.set {
		return "unset"
	}
	if in.fromHex {
		return in.hex
	}
	return strconv.Itoa(in.n)
}

func (in *Input) assign(v any) error {
	switch x := v.(type) {
	case bool:
		*in = Bool(x)
	case string:
		*in = Hex(x)
	case float64:
		if x != float64(int(x)) {
			return fmt.Errorf("non-integer value %v", x)
		}
		*in = Int(int(x))
	case int:
		*in = Int(x)
	default:
		return fmt.Errorf("unsupported value %v (%T)", v, v)
	}
	return nil
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return in.assign(v)
}

func (in Input) MarshalJSON() ([]byte, error) {
	if !in.set {
		return []byte("null"), nil
	}
	if in.fromHex {
		return json.Marshal(in.hex)
	}
	return json.Marshal(in.n)
}

func (in *Input) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return in.assign(v)
}

func (in Input) MarshalYAML() (any, error) {
	if !in.set {
		return nil, nil
	}
	if in.fromHex {
		return in.hex, nil
	}
	return in.n, nil
}
