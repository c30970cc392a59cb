package solabi

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, s string) *Type {
	t.Helper()
	ty, err := ParseType(s, nil)
	require.NoError(t, err)
	return ty
}

func mustUint(t *testing.T, v uint64, bits int) Value {
	t.Helper()
	val, err := Uint64(v, bits)
	require.NoError(t, err)
	return val
}

func mustInt(t *testing.T, v int64, bits int) Value {
	t.Helper()
	val, err := Int64(v, bits)
	require.NoError(t, err)
	return val
}

func unhex(t *testing.T, words ...string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(words, ""))
	require.NoError(t, err)
	return b
}

func testAddr(fill byte) [20]byte {
	var a [20]byte
	for i := range a {
		a[i] = fill
	}
	return a
}

// ============================================================
// Golden Vectors
// ============================================================

func TestEncode_GoldenStatic(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value Value
		hex   []string
	}{
		{
			name:  "uint256",
			typ:   "uint256",
			value: mustUint(t, 42, 256),
			hex:   []string{"000000000000000000000000000000000000000000000000000000000000002a"},
		},
		{
			name:  "bool true",
			typ:   "bool",
			value: Bool(true),
			hex:   []string{"0000000000000000000000000000000000000000000000000000000000000001"},
		},
		{
			name:  "int8 negative one",
			typ:   "int8",
			value: mustInt(t, -1, 8),
			hex:   []string{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		},
		{
			name:  "address",
			typ:   "address",
			value: Addr(testAddr(0x11)),
			hex:   []string{"0000000000000000000000001111111111111111111111111111111111111111"},
		},
		{
			name: "bytes4 left aligned",
			typ:  "bytes4",
			value: func() Value {
				v, err := FixedBytes([]byte{0xde, 0xad, 0xbe, 0xef})
				require.NoError(t, err)
				return v
			}(),
			hex: []string{"deadbeef00000000000000000000000000000000000000000000000000000000"},
		},
		{
			name:  "static tuple inlined",
			typ:   "(uint8,bool)",
			value: TupleOf(mustUint(t, 7, 8), Bool(true)),
			hex: []string{
				"0000000000000000000000000000000000000000000000000000000000000007",
				"0000000000000000000000000000000000000000000000000000000000000001",
			},
		},
		{
			name:  "static fixed array inlined",
			typ:   "uint16[3]",
			value: FixedArrayOf(mustUint(t, 1, 16), mustUint(t, 2, 16), mustUint(t, 3, 16)),
			hex: []string{
				"0000000000000000000000000000000000000000000000000000000000000001",
				"0000000000000000000000000000000000000000000000000000000000000002",
				"0000000000000000000000000000000000000000000000000000000000000003",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ty := mustType(t, tt.typ)
			got, err := EncodeValue(tt.value, ty)
			require.NoError(t, err)
			assert.Equal(t, unhex(t, tt.hex...), got)
		})
	}
}

func TestEncode_GoldenDynamic(t *testing.T) {
	t.Run("uint256 then bytes", func(t *testing.T) {
		got, err := Encode(
			[]Value{mustUint(t, 42, 256), Bytes([]byte("hello"))},
			[]*Type{mustType(t, "uint256"), mustType(t, "bytes")},
		)
		require.NoError(t, err)
		want := unhex(t,
			"000000000000000000000000000000000000000000000000000000000000002a",
			"0000000000000000000000000000000000000000000000000000000000000040",
			"0000000000000000000000000000000000000000000000000000000000000005",
			"68656c6c6f000000000000000000000000000000000000000000000000000000",
		)
		assert.Equal(t, want, got)
	})

	t.Run("dynamic uint8 array", func(t *testing.T) {
		got, err := EncodeValue(
			ArrayOf(mustUint(t, 1, 8), mustUint(t, 2, 8), mustUint(t, 3, 8)),
			mustType(t, "uint8[]"),
		)
		require.NoError(t, err)
		want := unhex(t,
			"0000000000000000000000000000000000000000000000000000000000000020",
			"0000000000000000000000000000000000000000000000000000000000000003",
			"0000000000000000000000000000000000000000000000000000000000000001",
			"0000000000000000000000000000000000000000000000000000000000000002",
			"0000000000000000000000000000000000000000000000000000000000000003",
		)
		assert.Equal(t, want, got)
	})

	t.Run("string array offsets are region relative", func(t *testing.T) {
		got, err := EncodeValue(
			ArrayOf(Str("ab"), Str("cd")),
			mustType(t, "string[]"),
		)
		require.NoError(t, err)
		want := unhex(t,
			"0000000000000000000000000000000000000000000000000000000000000020",
			"0000000000000000000000000000000000000000000000000000000000000002",
			"0000000000000000000000000000000000000000000000000000000000000040",
			"0000000000000000000000000000000000000000000000000000000000000080",
			"0000000000000000000000000000000000000000000000000000000000000002",
			"6162000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000002",
			"6364000000000000000000000000000000000000000000000000000000000000",
		)
		assert.Equal(t, want, got)
	})

	t.Run("empty bytes", func(t *testing.T) {
		got, err := EncodeValue(Bytes(nil), mustType(t, "bytes"))
		require.NoError(t, err)
		want := unhex(t,
			"0000000000000000000000000000000000000000000000000000000000000020",
			"0000000000000000000000000000000000000000000000000000000000000000",
		)
		assert.Equal(t, want, got)
	})
}

// ============================================================
// Round Trips
// ============================================================

func TestEncode_RoundTrip(t *testing.T) {
	bigNum := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	big, err := Uint(bigNum, 256)
	require.NoError(t, err)

	tests := []struct {
		typ   string
		value Value
	}{
		{"bool", Bool(false)},
		{"uint256", big},
		{"int16", mustInt(t, -300, 16)},
		{"address", Addr(testAddr(0xaa))},
		{"bytes", Bytes([]byte{1, 2, 3, 4, 5})},
		{"string", Str("solidity says hi")},
		{"uint8[]", ArrayOf(mustUint(t, 9, 8))},
		{"uint8[2][]", ArrayOf(
			FixedArrayOf(mustUint(t, 1, 8), mustUint(t, 2, 8)),
			FixedArrayOf(mustUint(t, 3, 8), mustUint(t, 4, 8)),
		)},
		{"(uint8,(uint8[],bool))", TupleOf(
			mustUint(t, 5, 8),
			TupleOf(ArrayOf(mustUint(t, 6, 8), mustUint(t, 7, 8)), Bool(true)),
		)},
		{"(bytes,string)[]", ArrayOf(
			TupleOf(Bytes([]byte{0xff}), Str("x")),
			TupleOf(Bytes(nil), Str("")),
		)},
		{"string[2]", FixedArrayOf(Str("left"), Str("right"))},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ty := mustType(t, tt.typ)
			data, err := EncodeValue(tt.value, ty)
			require.NoError(t, err)
			back, err := DecodeValue(data, ty)
			require.NoError(t, err)
			assert.True(t, tt.value.Equal(back), "decoded %s, want %s", back, tt.value)

			// strict mode accepts our own canonical output
			vs, err := DecodeWithOptions(data, []*Type{ty}, DecodeOptions{Strict: true})
			require.NoError(t, err)
			assert.True(t, tt.value.Equal(vs[0]))
		})
	}
}

func TestEncode_StructRoundTrip(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefineStruct("Person", []string{"name", "wallet"}, []string{"string", "address"}))
	ty, err := ParseType("Person[]", reg)
	require.NoError(t, err)

	alice, err := StructOf("Person", []string{"name", "wallet"}, []Value{Str("alice"), Addr(testAddr(0xaa))})
	require.NoError(t, err)
	bob, err := StructOf("Person", []string{"name", "wallet"}, []Value{Str("bob"), Addr(testAddr(0xbb))})
	require.NoError(t, err)

	val := ArrayOf(alice, bob)
	data, err := EncodeValue(val, ty)
	require.NoError(t, err)
	back, err := DecodeValue(data, ty)
	require.NoError(t, err)
	assert.True(t, val.Equal(back))
}

func TestEncode_Mismatch(t *testing.T) {
	_, err := EncodeValue(Bool(true), mustType(t, "uint8"))
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)

	_, err = Encode([]Value{Bool(true)}, nil)
	require.ErrorAs(t, err, &ee)
}

func TestEncode_UintOverflow(t *testing.T) {
	// value carries the right width tag but an oversized magnitude
	v := Value{kind: KindUint, num: uint256.NewInt(300), bits: 8}
	_, err := EncodeValue(v, mustType(t, "uint8"))
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Error(), "uint8")
}

func TestEncode_CallData(t *testing.T) {
	to := Addr(testAddr(0x22))
	amount := mustUint(t, 1000, 256)
	types := []*Type{mustType(t, "address"), mustType(t, "uint256")}

	data, err := EncodeCall("transfer", []Value{to, amount}, types)
	require.NoError(t, err)
	require.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, data[:4])
	require.Len(t, data, 4+64)

	sel, vals, err := DecodeCall(data, types)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0xa9, 0x05, 0x9c, 0xbb}, sel)
	require.Len(t, vals, 2)
	assert.True(t, vals[0].Equal(to))
	assert.True(t, vals[1].Equal(amount))
}
