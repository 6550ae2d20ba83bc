package setting

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenericRange(t *testing.T) {
	for v := 0; v <= 127; v++ {
		got, err := Generic.EncodeInt(v)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%#x", v), got.Hex())
		assert.Equal(t, uint8(v), got.Byte())
	}

	for _, v := range []int{-1, 128, 255, 1000} {
		_, err := Generic.EncodeInt(v)
		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr, "value %d", v)
		assert.Equal(t, v, rangeErr.Value)
		assert.Equal(t, MIDIMax, rangeErr.Upper)
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestHexInput(t *testing.T) {
	v, err := Note.Encode(Hex("0x24"))
	require.NoError(t, err)
	assert.Equal(t, 36, v.Int())
	assert.Equal(t, "0x24", v.Hex())

	v, err = Note.Encode(Hex("7F"))
	require.NoError(t, err)
	assert.Equal(t, 127, v.Int())

	_, err = Note.Encode(Hex("0x80"))
	assert.ErrorIs(t, err, ErrOutOfRange)

	for _, big := range []string{"0x10000", "0xffffffff", "0x1ffffffffffffffffff"} {
		_, err = Note.Encode(Hex(big))
		var re *RangeError
		assert.ErrorAs(t, err, &re, big)
		assert.ErrorIs(t, err, ErrOutOfRange, big)
	}

	_, err = Note.Encode(Hex("zz"))
	assert.ErrorIs(t, err, ErrInvalidHex)

	_, err = Note.Encode(Hex(""))
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestChannel(t *testing.T) {
	for n := 1; n <= 17; n++ {
		v, err := Channel.EncodeInt(n)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%#x", n-1), v.Hex())
		assert.Equal(t, n, v.Input())
	}

	for _, n := range []int{0, 18} {
		_, err := Channel.EncodeInt(n)
		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, 1, rangeErr.Lower)
		assert.Equal(t, 17, rangeErr.Upper)
	}
}

func TestGlobalChannel(t *testing.T) {
	v, err := GlobalChannel.EncodeInt(16)
	require.NoError(t, err)
	assert.Equal(t, uint8(15), v.Byte())

	_, err = GlobalChannel.EncodeInt(17)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = GlobalChannel.EncodeInt(0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestToggleAndFullLevel(t *testing.T) {
	on, err := Toggle.EncodeBool(true)
	require.NoError(t, err)
	off, err := Toggle.EncodeBool(false)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), on.Byte())
	assert.Equal(t, uint8(0), off.Byte())

	full, err := FullLevel.EncodeBool(true)
	require.NoError(t, err)
	notFull, err := FullLevel.EncodeBool(false)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), full.Byte())
	assert.Equal(t, uint8(0x01), notFull.Byte())
	assert.Equal(t, off.Byte(), full.Byte())
}

func TestPressureMessage(t *testing.T) {
	cases := map[string]uint8{
		"off":        0,
		"channel":    1,
		"polyphonic": 2,
		"OFF":        0,
		"Polyphonic": 2,
	}
	for in, want := range cases {
		v, err := PressureMessage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.Byte(), in)
	}

	_, err := PressureMessage("invalid")
	var enumErr *UnknownEnumError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "invalid", enumErr.Value)
	assert.ErrorIs(t, err, ErrUnknownEnum)
}

func TestProgramSlot(t *testing.T) {
	for n := 1; n <= 4; n++ {
		v, err := ProgramSlot.EncodeInt(n)
		require.NoError(t, err)
		assert.Equal(t, uint8(n), v.Byte())
	}
	for _, n := range []int{0, 5, 127} {
		_, err := ProgramSlot.EncodeInt(n)
		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, 4, rangeErr.Upper)
	}
}

func TestInputDecoding(t *testing.T) {
	var ins []Input
	require.NoError(t, json.Unmarshal([]byte(`[36, "0x25", true, false]`), &ins))
	require.Len(t, ins, 4)

	want := []int{36, 37, 1, 0}
	for i, in := range ins {
		n, err := in.Resolve()
		require.NoError(t, err)
		assert.Equal(t, want[i], n)
	}

	var bad []Input
	assert.Error(t, json.Unmarshal([]byte(`[1.5]`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`[{}]`), &bad))

	var fromYAML []Input
	require.NoError(t, yaml.Unmarshal([]byte("[36, \"0x25\", true]"), &fromYAML))
	n, err := fromYAML[1].Resolve()
	require.NoError(t, err)
	assert.Equal(t, 37, n)

	out, err := json.Marshal([]Input{Int(3), Hex("0x10")})
	require.NoError(t, err)
	assert.JSONEq(t, `[3, "0x10"]`, string(out))
}

func TestUnsetInput(t *testing.T) {
	var in Input
	assert.False(t, in.IsSet())
	_, err := Note.Encode(in)
	assert.ErrorIs(t, err, ErrMissingValue)
	assert.True(t, Int(0).IsSet())

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestRangeErrorMessage(t *testing.T) {
	_, err := Channel.EncodeInt(18)
	require.Error(t, err)
	assert.Equal(t, "channel must be between 0x1 and 0x11, found 0x12", err.Error())
}
