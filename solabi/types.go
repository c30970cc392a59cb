package solabi

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a resolved ABI type variant.
type Kind uint8

const (
	KindBool Kind = iota
	KindUint
	KindInt
	KindFixedBytes
	KindAddress
	KindFunction
	KindBytes
	KindString
	KindArray
	KindFixedArray
	KindTuple
	KindStruct
	KindEnum
	KindValue // user-defined transparent wrapper
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFixedBytes:
		return "fixed bytes"
	case KindAddress:
		return "address"
	case KindFunction:
		return "function"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFixedArray:
		return "fixed array"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindValue:
		return "value type"
	default:
		return "unknown"
	}
}

// Type is a resolved ABI type. Types are immutable after construction:
// whether a type is dynamic, and its static encoded size, are computed once
// when the type is built so the codec never re-traverses the tree per use.
type Type struct {
	kind Kind

	bits     int      // Uint/Int width in bits; FixedBytes width in bytes
	size     int      // FixedArray element count
	elem     *Type    // Array/FixedArray element; Value underlying type
	tuple    []*Type  // Tuple/Struct member types
	name     string   // Struct/Enum/Value name
	fields   []string // Struct field names, parallel to tuple
	variants int      // Enum variant count

	dynamic bool
	encSize int // static head/tail encoded byte size, -1 when dynamic
	minSize int // smallest byte size any encoding of this type occupies
}

// maxEncodedSize caps the minimum encoded size of a constructible type.
// Types beyond it could never decode from a real buffer, and admitting them
// would let nested fixed-array dimensions overflow the precomputed sizes.
const maxEncodedSize = 1 << 40

// BoolType returns the bool type.
func BoolType() *Type {
	return &Type{kind: KindBool, encSize: wordLen, minSize: wordLen}
}

// AddressType returns the 20-byte address type.
func AddressType() *Type {
	return &Type{kind: KindAddress, encSize: wordLen, minSize: wordLen}
}

// FunctionType returns the 24-byte function type (address + selector).
func FunctionType() *Type {
	return &Type{kind: KindFunction, encSize: wordLen, minSize: wordLen}
}

// BytesType returns the dynamic byte string type.
func BytesType() *Type {
	return &Type{kind: KindBytes, dynamic: true, encSize: -1, minSize: wordLen}
}

// StringType returns the UTF-8 string type.
func StringType() *Type {
	return &Type{kind: KindString, dynamic: true, encSize: -1, minSize: wordLen}
}

// UintType returns an unsigned integer type of the given bit width.
// The width must be a multiple of 8 in [8, 256].
func UintType(bits int) (*Type, error) {
	if err := checkIntBits(bits); err != nil {
		return nil, err
	}
	return &Type{kind: KindUint, bits: bits, encSize: wordLen, minSize: wordLen}, nil
}

// IntType returns a signed (two's complement) integer type of the given bit
// width. The width must be a multiple of 8 in [8, 256].
func IntType(bits int) (*Type, error) {
	if err := checkIntBits(bits); err != nil {
		return nil, err
	}
	return &Type{kind: KindInt, bits: bits, encSize: wordLen, minSize: wordLen}, nil
}

// FixedBytesType returns a bytesN type with N in [1, 32].
func FixedBytesType(width int) (*Type, error) {
	if width < 1 || width > 32 {
		return nil, &TypeError{
			Code: ErrInvalidBytesWidth,
			Name: fmt.Sprintf("bytes%d", width),
			Msg:  fmt.Sprintf("fixed bytes width must be in [1, 32], got %d", width),
		}
	}
	return &Type{kind: KindFixedBytes, bits: width, encSize: wordLen, minSize: wordLen}, nil
}

// ArrayType returns a dynamic-length array of elem.
func ArrayType(elem *Type) *Type {
	return &Type{kind: KindArray, elem: elem, dynamic: true, encSize: -1, minSize: wordLen}
}

// FixedArrayType returns a fixed-length array of elem. Size must be positive.
func FixedArrayType(elem *Type, size int) (*Type, error) {
	if size <= 0 {
		return nil, &TypeError{
			Code: ErrZeroSizeArray,
			Name: fmt.Sprintf("%s[%d]", elem, size),
			Msg:  fmt.Sprintf("array size must be positive, got %d", size),
		}
	}
	// elem.minSize is at least one word, so the division bounds the product
	// before it can overflow
	if size > maxEncodedSize/elem.minSize {
		return nil, &TypeError{
			Code: ErrTypeTooLarge,
			Name: fmt.Sprintf("%s[%d]", elem, size),
			Msg:  fmt.Sprintf("array of %d elements exceeds the maximum encodable size", size),
		}
	}
	t := &Type{kind: KindFixedArray, elem: elem, size: size, minSize: size * elem.minSize}
	if elem.dynamic {
		t.dynamic = true
		t.encSize = -1
	} else {
		t.encSize = size * elem.encSize
	}
	return t, nil
}

// TupleType returns an anonymous tuple of the given member types.
// Tuples must have at least one member.
func TupleType(members ...*Type) (*Type, error) {
	if len(members) == 0 {
		return nil, &TypeError{
			Code: ErrEmptyTuple,
			Name: "()",
			Msg:  "tuple must have at least one member",
		}
	}
	t := &Type{kind: KindTuple, tuple: members}
	var err error
	if t.dynamic, t.encSize, t.minSize, err = seqLayout("()", members); err != nil {
		return nil, err
	}
	return t, nil
}

// StructType returns a named struct type. Field names and types must have
// equal, nonzero length.
func StructType(name string, fieldNames []string, fieldTypes []*Type) (*Type, error) {
	if len(fieldNames) == 0 || len(fieldNames) != len(fieldTypes) {
		return nil, &TypeError{
			Code: ErrBadStructFields,
			Name: name,
			Msg: fmt.Sprintf("struct %s needs equal, nonzero field name and type counts (%d names, %d types)",
				name, len(fieldNames), len(fieldTypes)),
		}
	}
	t := &Type{kind: KindStruct, name: name, fields: fieldNames, tuple: fieldTypes}
	var err error
	if t.dynamic, t.encSize, t.minSize, err = seqLayout(name, fieldTypes); err != nil {
		return nil, err
	}
	return t, nil
}

// EnumType returns a named enum type with the given variant count.
// Variant count must be in [1, 256]; values encode as uint8 indices.
func EnumType(name string, variants int) (*Type, error) {
	if variants < 1 || variants > 256 {
		return nil, &TypeError{
			Code: ErrTooManyVariants,
			Name: name,
			Msg:  fmt.Sprintf("enum %s has %d variants, must be in [1, 256]", name, variants),
		}
	}
	return &Type{kind: KindEnum, name: name, variants: variants, encSize: wordLen, minSize: wordLen}, nil
}

// ValueKindType returns a named transparent wrapper (a user-defined value
// type) around an underlying type. It encodes identically to the underlying
// type.
func ValueKindType(name string, underlying *Type) *Type {
	return &Type{
		kind:    KindValue,
		name:    name,
		elem:    underlying,
		dynamic: underlying.dynamic,
		encSize: underlying.encSize,
		minSize: underlying.minSize,
	}
}

func checkIntBits(bits int) error {
	if bits%8 != 0 || bits < 8 || bits > 256 {
		return &TypeError{
			Code: ErrInvalidIntWidth,
			Name: strconv.Itoa(bits),
			Msg:  fmt.Sprintf("integer width must be a multiple of 8 in [8, 256], got %d", bits),
		}
	}
	return nil
}

// seqLayout computes the dynamic flag, static encoded size, and minimum
// encoded size of a member sequence. Every member's minSize is already
// capped, so the running sum is checked against the cap before it can
// overflow.
func seqLayout(name string, members []*Type) (dynamic bool, encSize, minSize int, err error) {
	for _, m := range members {
		minSize += m.minSize
		if minSize > maxEncodedSize {
			return false, 0, 0, &TypeError{
				Code: ErrTypeTooLarge,
				Name: name,
				Msg:  fmt.Sprintf("aggregate of %d members exceeds the maximum encodable size", len(members)),
			}
		}
		if m.dynamic {
			dynamic = true
			continue
		}
		encSize += m.encSize
	}
	if dynamic {
		encSize = -1
	}
	return dynamic, encSize, minSize, nil
}

// Kind returns the type's variant tag.
func (t *Type) Kind() Kind {
	return t.kind
}

// Bits returns the bit width of Uint/Int types, or the byte width of
// FixedBytes types. Zero for everything else.
func (t *Type) Bits() int {
	return t.bits
}

// Size returns the element count of a FixedArray, zero otherwise.
func (t *Type) Size() int {
	return t.size
}

// Elem returns the element type of Array/FixedArray, or the underlying type
// of a Value wrapper.
func (t *Type) Elem() *Type {
	return t.elem
}

// Members returns the member types of a Tuple or Struct.
func (t *Type) Members() []*Type {
	return t.tuple
}

// Name returns the user-defined name of Struct/Enum/Value types.
func (t *Type) Name() string {
	return t.name
}

// FieldNames returns the field names of a Struct, parallel to Members.
func (t *Type) FieldNames() []string {
	return t.fields
}

// Variants returns the variant count of an Enum.
func (t *Type) Variants() int {
	return t.variants
}

// IsDynamic reports whether values of this type encode through offset
// indirection: Bytes, String, Array, and any aggregate with a dynamic member.
func (t *Type) IsDynamic() bool {
	return t.dynamic
}

// EncodedSize returns the head/tail encoded byte size of a static type,
// or -1 for dynamic types.
func (t *Type) EncodedSize() int {
	return t.encSize
}

// NestingDepth returns 0 for simple types and 1 plus the deepest member
// depth for aggregates. Value wrappers are transparent.
func (t *Type) NestingDepth() int {
	switch t.kind {
	case KindArray, KindFixedArray:
		return 1 + t.elem.NestingDepth()
	case KindTuple, KindStruct:
		deepest := 0
		for _, m := range t.tuple {
			if d := m.NestingDepth(); d > deepest {
				deepest = d
			}
		}
		return 1 + deepest
	case KindValue:
		return t.elem.NestingDepth()
	default:
		return 0
	}
}

// String returns the canonical type name. Structs render as their underlying
// tuple, enums as uint8, value types as their underlying type. Single-member
// tuples carry a trailing comma so they round-trip distinctly from a
// parenthesized type.
func (t *Type) String() string {
	var sb strings.Builder
	t.writeName(&sb)
	return sb.String()
}

func (t *Type) writeName(sb *strings.Builder) {
	switch t.kind {
	case KindBool:
		sb.WriteString("bool")
	case KindAddress:
		sb.WriteString("address")
	case KindFunction:
		sb.WriteString("function")
	case KindBytes:
		sb.WriteString("bytes")
	case KindString:
		sb.WriteString("string")
	case KindUint:
		sb.WriteString("uint")
		sb.WriteString(strconv.Itoa(t.bits))
	case KindInt:
		sb.WriteString("int")
		sb.WriteString(strconv.Itoa(t.bits))
	case KindFixedBytes:
		sb.WriteString("bytes")
		sb.WriteString(strconv.Itoa(t.bits))
	case KindEnum:
		sb.WriteString("uint8")
	case KindValue:
		t.elem.writeName(sb)
	case KindArray:
		t.elem.writeName(sb)
		sb.WriteString("[]")
	case KindFixedArray:
		t.elem.writeName(sb)
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.size))
		sb.WriteByte(']')
	case KindTuple, KindStruct:
		sb.WriteByte('(')
		for i, m := range t.tuple {
			if i > 0 {
				sb.WriteByte(',')
			}
			m.writeName(sb)
		}
		if len(t.tuple) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	}
}

// Equal reports structural equality, including widths, array sizes, and
// struct names and field names.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindUint, KindInt, KindFixedBytes:
		return t.bits == o.bits
	case KindArray:
		return t.elem.Equal(o.elem)
	case KindFixedArray:
		return t.size == o.size && t.elem.Equal(o.elem)
	case KindTuple:
		return typesEqual(t.tuple, o.tuple)
	case KindStruct:
		if t.name != o.name || len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i] != o.fields[i] {
				return false
			}
		}
		return typesEqual(t.tuple, o.tuple)
	case KindEnum:
		return t.name == o.name && t.variants == o.variants
	case KindValue:
		return t.name == o.name && t.elem.Equal(o.elem)
	default:
		return true
	}
}

func typesEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
