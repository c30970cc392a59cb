package solabi

import (
	"fmt"
	"strings"
)

// Signature renders a function signature, name(type1,type2,...), using
// canonical type names. Unlike Type.String, single-member tuples carry no
// trailing comma here; signatures feed the selector hash and must match the
// form contract toolchains produce.
func Signature(name string, types []*Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeSigName(&sb, t)
	}
	sb.WriteByte(')')
	return sb.String()
}

func writeSigName(sb *strings.Builder, t *Type) {
	switch t.kind {
	case KindTuple, KindStruct:
		sb.WriteByte('(')
		for i, m := range t.tuple {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeSigName(sb, m)
		}
		sb.WriteByte(')')
	case KindArray:
		writeSigName(sb, t.elem)
		sb.WriteString("[]")
	case KindFixedArray:
		writeSigName(sb, t.elem)
		fmt.Fprintf(sb, "[%d]", t.size)
	case KindValue:
		writeSigName(sb, t.elem)
	default:
		t.writeName(sb)
	}
}

// Selector returns the 4-byte function selector: the leading bytes of the
// Keccak-256 of the canonical signature.
func Selector(name string, types []*Type) [4]byte {
	h := Keccak256([]byte(Signature(name, types)))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// SelectorOf hashes an already-rendered signature string.
func SelectorOf(signature string) [4]byte {
	h := Keccak256([]byte(signature))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// EncodeCall builds contract call data: the function selector followed by
// the head/tail encoding of the arguments.
func EncodeCall(name string, values []Value, types []*Type) ([]byte, error) {
	sel := Selector(name, types)
	return EncodeCallSelector(sel, values, types)
}

// EncodeCallSelector is EncodeCall with a precomputed selector.
func EncodeCallSelector(sel [4]byte, values []Value, types []*Type) ([]byte, error) {
	args, err := Encode(values, types)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 4+len(args))
	out = append(out, sel[:]...)
	return append(out, args...), nil
}

// DecodeCall splits call data into its selector and decoded arguments.
func DecodeCall(data []byte, types []*Type) ([4]byte, []Value, error) {
	var sel [4]byte
	if len(data) < 4 {
		return sel, nil, &DecodeError{Msg: fmt.Sprintf("call data needs a 4-byte selector, got %d bytes", len(data))}
	}
	copy(sel[:], data[:4])
	values, err := Decode(data[4:], types)
	if err != nil {
		return sel, nil, err
	}
	return sel, values, nil
}
