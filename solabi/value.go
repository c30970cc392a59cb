package solabi

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// Value is a runtime ABI value, a tagged variant mirroring Type. Values are
// immutable once built: encoding reads, never mutates. Integer payloads are
// 256-bit words (two's complement for signed widths); enum values are plain
// uint8 values.
type Value struct {
	kind Kind

	flag   bool
	bits   int // Uint/Int bit width, FixedBytes byte width
	num    *uint256.Int
	raw    []byte // Bytes payload; FixedBytes significant bytes
	str    string
	addr   [20]byte
	fn     [24]byte
	elems  []Value
	name   string
	fields []string
}

// Bool returns a bool value.
func Bool(v bool) Value {
	return Value{kind: KindBool, flag: v}
}

// Addr returns a 20-byte address value.
func Addr(a [20]byte) Value {
	return Value{kind: KindAddress, addr: a}
}

// AddrFromBytes returns an address value from a 20-byte slice.
func AddrFromBytes(b []byte) (Value, error) {
	if len(b) != 20 {
		return Value{}, fmt.Errorf("solabi: address needs 20 bytes, got %d", len(b))
	}
	var a [20]byte
	copy(a[:], b)
	return Addr(a), nil
}

// Func returns a 24-byte function value (20-byte address + 4-byte selector).
func Func(f [24]byte) Value {
	return Value{kind: KindFunction, fn: f}
}

// Uint returns an unsigned integer value of the given bit width.
func Uint(v *uint256.Int, bits int) (Value, error) {
	if err := checkIntBits(bits); err != nil {
		return Value{}, err
	}
	return Value{kind: KindUint, num: new(uint256.Int).Set(v), bits: bits}, nil
}

// Uint64 returns an unsigned integer value from a uint64.
func Uint64(v uint64, bits int) (Value, error) {
	return Uint(uint256.NewInt(v), bits)
}

// Int returns a signed integer value of the given bit width. The payload is
// the 256-bit two's complement representation.
func Int(v *uint256.Int, bits int) (Value, error) {
	if err := checkIntBits(bits); err != nil {
		return Value{}, err
	}
	return Value{kind: KindInt, num: new(uint256.Int).Set(v), bits: bits}, nil
}

// Int64 returns a signed integer value from an int64.
func Int64(v int64, bits int) (Value, error) {
	z := new(uint256.Int)
	if v < 0 {
		z.SetUint64(uint64(-v))
		z.Neg(z)
	} else {
		z.SetUint64(uint64(v))
	}
	return Int(z, bits)
}

// FixedBytes returns a bytesN value; len(b) determines N and must be in
// [1, 32]. The bytes are the N significant bytes, left-aligned on the wire.
func FixedBytes(b []byte) (Value, error) {
	if len(b) < 1 || len(b) > 32 {
		return Value{}, &TypeError{
			Code: ErrInvalidBytesWidth,
			Name: fmt.Sprintf("bytes%d", len(b)),
			Msg:  fmt.Sprintf("fixed bytes width must be in [1, 32], got %d", len(b)),
		}
	}
	return Value{kind: KindFixedBytes, raw: append([]byte(nil), b...), bits: len(b)}, nil
}

// Bytes returns a dynamic byte string value.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: append([]byte(nil), b...)}
}

// Str returns a string value.
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// ArrayOf returns a dynamic-length array value.
func ArrayOf(elems ...Value) Value {
	return Value{kind: KindArray, elems: append([]Value(nil), elems...)}
}

// FixedArrayOf returns a fixed-length array value.
func FixedArrayOf(elems ...Value) Value {
	return Value{kind: KindFixedArray, elems: append([]Value(nil), elems...)}
}

// TupleOf returns a tuple value.
func TupleOf(elems ...Value) Value {
	return Value{kind: KindTuple, elems: append([]Value(nil), elems...)}
}

// StructOf returns a named struct value. Field names and values must have
// equal, nonzero length.
func StructOf(name string, fieldNames []string, fields []Value) (Value, error) {
	if len(fieldNames) == 0 || len(fieldNames) != len(fields) {
		return Value{}, &TypeError{
			Code: ErrBadStructFields,
			Name: name,
			Msg: fmt.Sprintf("struct %s needs equal, nonzero field name and value counts (%d names, %d values)",
				name, len(fieldNames), len(fields)),
		}
	}
	return Value{
		kind:   KindStruct,
		name:   name,
		fields: append([]string(nil), fieldNames...),
		elems:  append([]Value(nil), fields...),
	}, nil
}

// Wrap returns a named transparent wrapper around inner, the value form of a
// user-defined value type.
func Wrap(name string, inner Value) Value {
	return Value{kind: KindValue, name: name, elems: []Value{inner}}
}

// Kind returns the value's variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Bits returns the bit width of Uint/Int values, or the byte width of
// FixedBytes values.
func (v Value) Bits() int {
	return v.bits
}

// Name returns the name of Struct and wrapper values.
func (v Value) Name() string {
	return v.name
}

// Len returns the element count of Array/FixedArray/Tuple/Struct values.
func (v Value) Len() int {
	return len(v.elems)
}

// Items returns the elements of Array/FixedArray/Tuple/Struct values.
func (v Value) Items() []Value {
	return v.elems
}

// FieldNames returns the field names of a Struct value.
func (v Value) FieldNames() []string {
	return v.fields
}

func (v Value) wrongKind(want string) error {
	return fmt.Errorf("solabi: value is %s, not %s", v.kind, want)
}

// AsBool returns the payload of a bool value.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.wrongKind("bool")
	}
	return v.flag, nil
}

// AsUint returns the payload of an unsigned integer value.
func (v Value) AsUint() (*uint256.Int, error) {
	if v.kind != KindUint {
		return nil, v.wrongKind("uint")
	}
	return new(uint256.Int).Set(v.num), nil
}

// AsInt returns the two's complement payload of a signed integer value.
func (v Value) AsInt() (*uint256.Int, error) {
	if v.kind != KindInt {
		return nil, v.wrongKind("int")
	}
	return new(uint256.Int).Set(v.num), nil
}

// AsAddr returns the payload of an address value.
func (v Value) AsAddr() ([20]byte, error) {
	if v.kind != KindAddress {
		return [20]byte{}, v.wrongKind("address")
	}
	return v.addr, nil
}

// AsFunc returns the payload of a function value.
func (v Value) AsFunc() ([24]byte, error) {
	if v.kind != KindFunction {
		return [24]byte{}, v.wrongKind("function")
	}
	return v.fn, nil
}

// AsBytes returns the payload of a dynamic bytes value.
func (v Value) AsBytes() ([]byte, error) {
	if v.kind != KindBytes {
		return nil, v.wrongKind("bytes")
	}
	return append([]byte(nil), v.raw...), nil
}

// AsFixedBytes returns the significant bytes of a bytesN value.
func (v Value) AsFixedBytes() ([]byte, error) {
	if v.kind != KindFixedBytes {
		return nil, v.wrongKind("fixed bytes")
	}
	return append([]byte(nil), v.raw...), nil
}

// AsStr returns the payload of a string value.
func (v Value) AsStr() (string, error) {
	if v.kind != KindString {
		return "", v.wrongKind("string")
	}
	return v.str, nil
}

// Unwrap returns the inner value of a named wrapper.
func (v Value) Unwrap() (Value, error) {
	if v.kind != KindValue {
		return Value{}, v.wrongKind("value type")
	}
	return v.elems[0], nil
}

// Matches reports whether the value is well-typed against t: variant tags
// match, widths match exactly, and aggregate members match element-wise with
// lengths agreeing for fixed arrays, tuples, and structs. Enum types match
// uint8 values whose magnitude is below the variant count.
func (v Value) Matches(t *Type) bool {
	switch t.kind {
	case KindBool, KindAddress, KindFunction, KindBytes, KindString:
		return v.kind == t.kind
	case KindUint, KindInt, KindFixedBytes:
		return v.kind == t.kind && v.bits == t.bits
	case KindEnum:
		return v.kind == KindUint && v.bits == 8 &&
			v.num.IsUint64() && v.num.Uint64() < uint64(t.variants)
	case KindArray:
		if v.kind != KindArray {
			return false
		}
		for _, e := range v.elems {
			if !e.Matches(t.elem) {
				return false
			}
		}
		return true
	case KindFixedArray:
		if v.kind != KindFixedArray || len(v.elems) != t.size {
			return false
		}
		for _, e := range v.elems {
			if !e.Matches(t.elem) {
				return false
			}
		}
		return true
	case KindTuple:
		return v.kind == KindTuple && v.matchMembers(t)
	case KindStruct:
		if v.kind != KindStruct || v.name != t.name || len(v.fields) != len(t.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i] != t.fields[i] {
				return false
			}
		}
		return v.matchMembers(t)
	case KindValue:
		return v.kind == KindValue && v.name == t.name && v.elems[0].Matches(t.elem)
	default:
		return false
	}
}

func (v Value) matchMembers(t *Type) bool {
	if len(v.elems) != len(t.tuple) {
		return false
	}
	for i, e := range v.elems {
		if !e.Matches(t.tuple[i]) {
			return false
		}
	}
	return true
}

// Equal reports deep structural equality of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.bits != o.bits || v.name != o.name {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.flag == o.flag
	case KindUint, KindInt:
		return v.num.Eq(o.num)
	case KindAddress:
		return v.addr == o.addr
	case KindFunction:
		return v.fn == o.fn
	case KindBytes, KindFixedBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindString:
		return v.str == o.str
	case KindStruct:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i] != o.fields[i] {
				return false
			}
		}
		fallthrough
	case KindArray, KindFixedArray, KindTuple, KindValue:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
