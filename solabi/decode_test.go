package solabi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_TruncatedHead(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02}, []*Type{mustType(t, "uint256")})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Msg, "truncated")
}

func TestDecode_TruncatedContent(t *testing.T) {
	// one byte short of the declared dynamic length
	data, err := EncodeValue(Bytes([]byte("hello")), mustType(t, "bytes"))
	require.NoError(t, err)
	_, err = DecodeValue(data[:wordLen+wordLen+4], mustType(t, "bytes"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Msg, "length")
}

func TestDecode_OffsetOutOfBounds(t *testing.T) {
	data := unhex(t,
		"0000000000000000000000000000000000000000000000000000000000000080", // past the end
	)
	_, err := DecodeValue(data, mustType(t, "bytes"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Msg, "offset")
}

func TestDecode_HugeOffsetWord(t *testing.T) {
	data := unhex(t,
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	)
	_, err := DecodeValue(data, mustType(t, "string"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestDecode_HugeDeclaredCount(t *testing.T) {
	// a count word claiming far more elements than the buffer can hold must
	// fail before any allocation proportional to the claim; counts near the
	// top of the int range must not wrap the size arithmetic either
	counts := []struct {
		name string
		word string
	}{
		{"2^30", "0000000000000000000000000000000000000000000000000000000040000000"},
		{"2^58", "0000000000000000000000000000000000000000000000000400000000000000"},
		{"2^62", "0000000000000000000000000000000000000000000000004000000000000000"},
	}
	for _, tt := range counts {
		t.Run(tt.name, func(t *testing.T) {
			data := unhex(t,
				"0000000000000000000000000000000000000000000000000000000000000020",
				tt.word,
			)
			_, err := DecodeValue(data, mustType(t, "uint256[]"))
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Contains(t, de.Msg, "count")
		})
	}
}

func TestDecode_HugeDeclaredLength(t *testing.T) {
	data := unhex(t,
		"0000000000000000000000000000000000000000000000000000000000000020",
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	)
	_, err := DecodeValue(data, mustType(t, "bytes"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestDecode_RecursionLimit(t *testing.T) {
	depth := defaultMaxDepth + 2
	ty := mustType(t, "uint8"+strings.Repeat("[]", depth))

	v := ArrayOf()
	for i := 1; i < depth; i++ {
		v = ArrayOf(v)
	}
	data, err := EncodeValue(v, ty)
	require.NoError(t, err)

	_, err = DecodeValue(data, ty)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Msg, "depth")

	// a raised limit decodes the same buffer
	vs, err := DecodeWithOptions(data, []*Type{ty}, DecodeOptions{MaxDepth: depth + 4})
	require.NoError(t, err)
	assert.True(t, v.Equal(vs[0]))
}

func TestDecode_ErrorPaths(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefineStruct("Pair", []string{"left", "right"}, []string{"uint8", "bytes"}))
	ty, err := ParseType("Pair[]", reg)
	require.NoError(t, err)

	pair, err := StructOf("Pair", []string{"left", "right"}, []Value{mustUint(t, 1, 8), Bytes([]byte{0xaa})})
	require.NoError(t, err)
	data, err := EncodeValue(ArrayOf(pair, pair), ty)
	require.NoError(t, err)

	// corrupt the second element's bytes offset
	bad := append([]byte(nil), data...)
	copy(bad[len(bad)-wordLen*3:], unhex(t, "00000000000000000000000000000000000000000000000000000000ffffffff"))
	_, err = DecodeValue(bad, ty)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Path, "[1]")
}

// ============================================================
// Strict Mode
// ============================================================

func TestDecode_StrictBool(t *testing.T) {
	data := unhex(t, "0000000000000000000000000000000000000000000000000000000000000002")
	ty := mustType(t, "bool")

	v, err := DecodeValue(data, ty)
	require.NoError(t, err)
	assert.True(t, v.flag)

	_, err = DecodeWithOptions(data, []*Type{ty}, DecodeOptions{Strict: true})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestDecode_StrictUintExcessBits(t *testing.T) {
	data := unhex(t, "0000000000000000000000000000000000000000000000000000000000000100")
	ty := mustType(t, "uint8")

	// lenient masks down to the declared width
	v, err := DecodeValue(data, ty)
	require.NoError(t, err)
	n, err := v.AsUint()
	require.NoError(t, err)
	assert.True(t, n.IsZero())

	_, err = DecodeWithOptions(data, []*Type{ty}, DecodeOptions{Strict: true})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestDecode_StrictIntSignExtension(t *testing.T) {
	// -1 as int8 must be fully sign extended; a bare 0xff byte is not
	data := unhex(t, "00000000000000000000000000000000000000000000000000000000000000ff")
	ty := mustType(t, "int8")

	v, err := DecodeValue(data, ty)
	require.NoError(t, err)
	assert.True(t, v.Equal(mustInt(t, -1, 8)))

	_, err = DecodeWithOptions(data, []*Type{ty}, DecodeOptions{Strict: true})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestDecode_StrictAddressPadding(t *testing.T) {
	data := unhex(t, "0100000000000000000000001111111111111111111111111111111111111111")
	ty := mustType(t, "address")

	v, err := DecodeValue(data, ty)
	require.NoError(t, err)
	assert.Equal(t, testAddr(0x11), v.addr)

	_, err = DecodeWithOptions(data, []*Type{ty}, DecodeOptions{Strict: true})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Msg, "padding")
}

func TestDecode_StrictUnalignedOffset(t *testing.T) {
	data, err := EncodeValue(Bytes([]byte("abc")), mustType(t, "bytes"))
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	bad[wordLen-1] = 0x21 // nudge the offset off the word boundary
	_, err = DecodeWithOptions(bad, []*Type{mustType(t, "bytes")}, DecodeOptions{Strict: true})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Msg, "aligned")
}

func TestDecode_StrictDirtyContentPadding(t *testing.T) {
	data, err := EncodeValue(Bytes([]byte("abc")), mustType(t, "bytes"))
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	bad[len(bad)-1] = 0x01
	_, err = DecodeWithOptions(bad, []*Type{mustType(t, "bytes")}, DecodeOptions{Strict: true})
	var de *DecodeError
	require.ErrorAs(t, err, &de)

	// lenient reads only the declared bytes and ignores the padding
	v, err := DecodeValue(bad, mustType(t, "bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v.raw)
}

func TestDecode_EnumVariantBound(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefineEnum("Color", 3))
	ty, err := ParseType("Color", reg)
	require.NoError(t, err)

	ok := unhex(t, "0000000000000000000000000000000000000000000000000000000000000002")
	v, err := DecodeValue(ok, ty)
	require.NoError(t, err)
	assert.True(t, v.Matches(ty))

	bad := unhex(t, "0000000000000000000000000000000000000000000000000000000000000003")
	_, err = DecodeValue(bad, ty)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}
