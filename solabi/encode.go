package solabi

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Encode renders a value sequence into canonical head/tail ABI form, one
// head slot per value with tails appended in order of appearance. Top-level
// sequences encode exactly like an implicit tuple.
func Encode(values []Value, types []*Type) ([]byte, error) {
	if len(values) != len(types) {
		return nil, &EncodeError{Msg: fmt.Sprintf("%d values against %d types", len(values), len(types))}
	}
	for i, v := range values {
		if !v.Matches(types[i]) {
			return nil, &EncodeError{
				Path: fmt.Sprintf("[%d]", i),
				Msg:  fmt.Sprintf("%s value does not match type %s", v.kind, types[i]),
			}
		}
	}
	return encodeSeq(nil, values, types, nil, "")
}

// EncodeValue encodes a single value; shorthand for a one-element sequence.
func EncodeValue(v Value, t *Type) ([]byte, error) {
	return Encode([]Value{v}, []*Type{t})
}

// encodeSeq writes the head/tail encoding of a member sequence. Offsets in
// head slots are measured from the start of this sequence's own content
// region, never the outermost buffer. names, when non-nil, are struct field
// names used for error paths.
func encodeSeq(buf []byte, values []Value, types []*Type, names []string, path string) ([]byte, error) {
	headSize := 0
	for _, t := range types {
		if t.dynamic {
			headSize += wordLen
		} else {
			headSize += t.encSize
		}
	}

	head := make([]byte, 0, headSize)
	var tail []byte
	var err error
	for i, t := range types {
		p := childPath(path, names, i)
		if !t.dynamic {
			if head, err = encodeStatic(head, values[i], t, p); err != nil {
				return nil, err
			}
			continue
		}
		head = appendUintWord(head, uint256.NewInt(uint64(headSize+len(tail))))
		if tail, err = encodeTail(tail, values[i], t, p); err != nil {
			return nil, err
		}
	}
	return append(append(buf, head...), tail...), nil
}

// encodeStatic inlines a static value: one word for atoms, concatenated
// member encodings for static aggregates, no offset indirection.
func encodeStatic(buf []byte, v Value, t *Type, path string) ([]byte, error) {
	if isAtomic(t) {
		w, err := encodeWord(v, t)
		if err != nil {
			return nil, &EncodeError{Path: path, Msg: err.Error()}
		}
		return append(buf, w[:]...), nil
	}
	switch t.kind {
	case KindFixedArray:
		var err error
		for i, e := range v.elems {
			if buf, err = encodeStatic(buf, e, t.elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return nil, err
			}
		}
		return buf, nil
	case KindTuple, KindStruct:
		var err error
		for i, m := range t.tuple {
			if buf, err = encodeStatic(buf, v.elems[i], m, childPath(path, t.fields, i)); err != nil {
				return nil, err
			}
		}
		return buf, nil
	case KindValue:
		return encodeStatic(buf, v.elems[0], t.elem, path)
	default:
		return nil, &EncodeError{Path: path, Msg: fmt.Sprintf("cannot inline %s", t.kind)}
	}
}

// encodeTail writes the content region of a dynamic value.
func encodeTail(buf []byte, v Value, t *Type, path string) ([]byte, error) {
	switch t.kind {
	case KindBytes:
		buf = appendUintWord(buf, uint256.NewInt(uint64(len(v.raw))))
		return appendPadded(buf, v.raw), nil
	case KindString:
		buf = appendUintWord(buf, uint256.NewInt(uint64(len(v.str))))
		return appendPadded(buf, []byte(v.str)), nil
	case KindArray:
		buf = appendUintWord(buf, uint256.NewInt(uint64(len(v.elems))))
		return encodeElems(buf, v.elems, t.elem, path)
	case KindFixedArray:
		return encodeElems(buf, v.elems, t.elem, path)
	case KindTuple, KindStruct:
		return encodeSeq(buf, v.elems, t.tuple, t.fields, path)
	case KindValue:
		return encodeTail(buf, v.elems[0], t.elem, path)
	default:
		return nil, &EncodeError{Path: path, Msg: fmt.Sprintf("%s has no tail form", t.kind)}
	}
}

func encodeElems(buf []byte, elems []Value, elem *Type, path string) ([]byte, error) {
	types := make([]*Type, len(elems))
	for i := range types {
		types[i] = elem
	}
	return encodeSeq(buf, elems, types, nil, path)
}

// childPath names the i-th slot under path, by field name for structs and
// by index otherwise.
func childPath(path string, names []string, i int) string {
	if i < len(names) {
		return path + "." + names[i]
	}
	return fmt.Sprintf("%s[%d]", path, i)
}
