package solabi

import "fmt"

// EncodePacked renders values in the packed, non-reversible layout: atoms at
// their exact natural byte width with no 32-byte padding, bytes and strings
// inlined raw with no length prefix, tuple members concatenated back to
// back. Array elements keep their padded word form, so a packed uint8[2] is
// 64 bytes while a packed (uint8,uint8) is 2.
//
// Packed output concatenates variable-length fields without delimiters and
// is not uniquely reversible. Use it for hashing or opaque comparison only;
// there is no packed decoder.
func EncodePacked(values []Value, types []*Type) ([]byte, error) {
	if len(values) != len(types) {
		return nil, &EncodeError{Msg: fmt.Sprintf("%d values against %d types", len(values), len(types))}
	}
	var buf []byte
	var err error
	for i, v := range values {
		p := fmt.Sprintf("[%d]", i)
		if !v.Matches(types[i]) {
			return nil, &EncodeError{
				Path: p,
				Msg:  fmt.Sprintf("%s value does not match type %s", v.kind, types[i]),
			}
		}
		if buf, err = appendPacked(buf, v, types[i], p); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func appendPacked(buf []byte, v Value, t *Type, path string) ([]byte, error) {
	switch t.kind {
	case KindBool:
		if v.flag {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case KindUint, KindInt:
		if t.kind == KindUint && !uintFits(v.num, t.bits) {
			return nil, &EncodeError{Path: path, Msg: fmt.Sprintf("value does not fit in uint%d", t.bits)}
		}
		if t.kind == KindInt && !intFits(v.num, t.bits) {
			return nil, &EncodeError{Path: path, Msg: fmt.Sprintf("value does not fit in int%d", t.bits)}
		}
		w := v.num.Bytes32()
		return append(buf, w[wordLen-t.bits/8:]...), nil
	case KindEnum:
		if !v.num.IsUint64() || v.num.Uint64() >= uint64(t.variants) {
			return nil, &EncodeError{Path: path, Msg: fmt.Sprintf("enum %s has no variant %s", t.name, v.num)}
		}
		w := v.num.Bytes32()
		return append(buf, w[wordLen-1]), nil
	case KindAddress:
		return append(buf, v.addr[:]...), nil
	case KindFunction:
		return append(buf, v.fn[:]...), nil
	case KindFixedBytes:
		return append(buf, v.raw...), nil
	case KindBytes:
		return append(buf, v.raw...), nil
	case KindString:
		return append(buf, v.str...), nil
	case KindArray, KindFixedArray:
		return appendPackedElems(buf, v.elems, t.elem, path)
	case KindTuple, KindStruct:
		var err error
		for i, m := range t.tuple {
			if buf, err = appendPacked(buf, v.elems[i], m, childPath(path, t.fields, i)); err != nil {
				return nil, err
			}
		}
		return buf, nil
	case KindValue:
		return appendPacked(buf, v.elems[0], t.elem, path)
	default:
		return nil, &EncodeError{Path: path, Msg: fmt.Sprintf("%s cannot be packed", t.kind)}
	}
}

// appendPackedElems writes array elements as full padded words. Elements
// must be single-word atoms; nested arrays and dynamic elements have no
// packed form.
func appendPackedElems(buf []byte, elems []Value, elem *Type, path string) ([]byte, error) {
	under := elem
	for under.kind == KindValue {
		under = under.elem
	}
	if !isAtomic(under) {
		return nil, &EncodeError{
			Path: path,
			Msg:  fmt.Sprintf("array of %s cannot be packed", elem),
		}
	}
	for i, e := range elems {
		for e.kind == KindValue {
			e = e.elems[0]
		}
		w, err := encodeWord(e, under)
		if err != nil {
			return nil, &EncodeError{Path: fmt.Sprintf("%s[%d]", path, i), Msg: err.Error()}
		}
		buf = append(buf, w[:]...)
	}
	return buf, nil
}
