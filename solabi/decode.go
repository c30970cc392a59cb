package solabi

import (
	"fmt"

	"github.com/holiman/uint256"
)

// DecodeOptions tune decoding. Strict rejects non-canonical words: boolean
// words beyond 0/1, integer words with excess or badly sign-extended high
// bits, dirty padding on addresses and fixed bytes, and unaligned offsets.
// MaxDepth bounds aggregate nesting; zero means the default of 16.
type DecodeOptions struct {
	Strict   bool
	MaxDepth int
}

const defaultMaxDepth = 16

// Decode parses head/tail ABI data into a value sequence with default
// options. Top-level sequences decode exactly like an implicit tuple. Every
// offset and length is bounds-checked against the buffer before use;
// malformed input yields a DecodeError, never a panic.
func Decode(data []byte, types []*Type) ([]Value, error) {
	return DecodeWithOptions(data, types, DecodeOptions{})
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(data []byte, types []*Type, opts DecodeOptions) ([]Value, error) {
	d := decoder{
		strict:   opts.Strict,
		maxDepth: opts.MaxDepth,
	}
	if d.maxDepth <= 0 {
		d.maxDepth = defaultMaxDepth
	}
	return d.decodeSeq(data, 0, types, nil, "", 0)
}

// DecodeValue decodes a single value; shorthand for a one-element sequence.
func DecodeValue(data []byte, t *Type) (Value, error) {
	vs, err := Decode(data, []*Type{t})
	if err != nil {
		return Value{}, err
	}
	return vs[0], nil
}

type decoder struct {
	strict   bool
	maxDepth int
}

func (d *decoder) errAt(path string, base int, format string, args ...any) error {
	return &DecodeError{Path: path, Offset: base, Msg: fmt.Sprintf(format, args...)}
}

// decodeSeq reads one member sequence from region. base is the absolute
// byte offset of region within the original buffer, carried for error
// reporting only; offsets inside region are relative to its start.
func (d *decoder) decodeSeq(region []byte, base int, types []*Type, names []string, path string, depth int) ([]Value, error) {
	headSize := 0
	for _, t := range types {
		if t.dynamic {
			headSize += wordLen
		} else {
			headSize += t.encSize
		}
	}
	if len(region) < headSize {
		return nil, d.errAt(path, base, "buffer truncated: head needs %d bytes, %d remain", headSize, len(region))
	}

	values := make([]Value, len(types))
	cursor := 0
	for i, t := range types {
		p := childPath(path, names, i)
		if !t.dynamic {
			v, err := d.decodeStatic(region[cursor:cursor+t.encSize], base+cursor, t, p, depth)
			if err != nil {
				return nil, err
			}
			values[i] = v
			cursor += t.encSize
			continue
		}

		offWord := new(uint256.Int).SetBytes(region[cursor : cursor+wordLen])
		if !offWord.IsUint64() || offWord.Uint64() > uint64(len(region)) {
			return nil, d.errAt(p, base+cursor, "offset %s is out of bounds (region is %d bytes)", offWord, len(region))
		}
		offset := int(offWord.Uint64())
		if d.strict && offset%wordLen != 0 {
			return nil, d.errAt(p, base+cursor, "offset %d is not word aligned", offset)
		}
		if len(region)-offset < t.minSize {
			return nil, d.errAt(p, base+cursor, "offset %d leaves %d bytes, %s needs at least %d",
				offset, len(region)-offset, t, t.minSize)
		}
		v, err := d.decodeTail(region[offset:], base+offset, t, p, depth+1)
		if err != nil {
			return nil, err
		}
		values[i] = v
		cursor += wordLen
	}
	return values, nil
}

// decodeStatic reads an inlined static value: one word for atoms, member
// encodings back to back for static aggregates.
func (d *decoder) decodeStatic(b []byte, base int, t *Type, path string, depth int) (Value, error) {
	if isAtomic(t) {
		v, err := decodeWord(b[:wordLen], t, d.strict)
		if err != nil {
			return Value{}, d.errAt(path, base, "%s", err)
		}
		return v, nil
	}

	if depth >= d.maxDepth {
		return Value{}, d.errAt(path, base, "nesting exceeds depth limit %d", d.maxDepth)
	}
	switch t.kind {
	case KindFixedArray:
		elems := make([]Value, t.size)
		stride := t.elem.encSize
		for i := range elems {
			v, err := d.decodeStatic(b[i*stride:(i+1)*stride], base+i*stride, t.elem,
				fmt.Sprintf("%s[%d]", path, i), depth+1)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{kind: KindFixedArray, elems: elems}, nil
	case KindTuple, KindStruct:
		elems := make([]Value, len(t.tuple))
		cursor := 0
		for i, m := range t.tuple {
			v, err := d.decodeStatic(b[cursor:cursor+m.encSize], base+cursor, m,
				childPath(path, t.fields, i), depth+1)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
			cursor += m.encSize
		}
		if t.kind == KindStruct {
			return Value{kind: KindStruct, name: t.name, fields: t.fields, elems: elems}, nil
		}
		return Value{kind: KindTuple, elems: elems}, nil
	case KindValue:
		inner, err := d.decodeStatic(b, base, t.elem, path, depth)
		if err != nil {
			return Value{}, err
		}
		return Wrap(t.name, inner), nil
	default:
		return Value{}, d.errAt(path, base, "cannot decode %s inline", t.kind)
	}
}

// decodeTail reads the content region of a dynamic value.
func (d *decoder) decodeTail(sub []byte, base int, t *Type, path string, depth int) (Value, error) {
	if depth > d.maxDepth {
		return Value{}, d.errAt(path, base, "nesting exceeds depth limit %d", d.maxDepth)
	}

	switch t.kind {
	case KindBytes, KindString:
		length, err := d.readLength(sub, base, path)
		if err != nil {
			return Value{}, err
		}
		if length > len(sub)-wordLen {
			return Value{}, d.errAt(path, base, "declared length %d exceeds remaining %d bytes", length, len(sub)-wordLen)
		}
		content := sub[wordLen : wordLen+length]
		if d.strict {
			if err := d.checkContentPadding(sub, length, base, path); err != nil {
				return Value{}, err
			}
		}
		if t.kind == KindString {
			return Str(string(content)), nil
		}
		return Bytes(content), nil

	case KindArray:
		count, err := d.readLength(sub, base, path)
		if err != nil {
			return Value{}, err
		}
		// bound the element count against the bytes actually present before
		// allocating anything proportional to it; comparing in the division
		// domain keeps huge declared counts from overflowing the product
		if avail := len(sub) - wordLen; count > avail/t.elem.minSize {
			return Value{}, d.errAt(path, base, "declared count %d needs at least %d bytes each, %d remain",
				count, t.elem.minSize, avail)
		}
		elemTypes := repeatType(t.elem, count)
		elems, err := d.decodeSeq(sub[wordLen:], base+wordLen, elemTypes, nil, path, depth)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindArray, elems: elems}, nil

	case KindFixedArray:
		elems, err := d.decodeSeq(sub, base, repeatType(t.elem, t.size), nil, path, depth)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindFixedArray, elems: elems}, nil

	case KindTuple, KindStruct:
		elems, err := d.decodeSeq(sub, base, t.tuple, t.fields, path, depth)
		if err != nil {
			return Value{}, err
		}
		if t.kind == KindStruct {
			return Value{kind: KindStruct, name: t.name, fields: t.fields, elems: elems}, nil
		}
		return Value{kind: KindTuple, elems: elems}, nil

	case KindValue:
		inner, err := d.decodeTail(sub, base, t.elem, path, depth)
		if err != nil {
			return Value{}, err
		}
		return Wrap(t.name, inner), nil

	default:
		return Value{}, d.errAt(path, base, "%s has no tail form", t.kind)
	}
}

// readLength reads a leading count/length word and bounds it to a
// non-negative int.
func (d *decoder) readLength(sub []byte, base int, path string) (int, error) {
	if len(sub) < wordLen {
		return 0, d.errAt(path, base, "buffer truncated: missing length word")
	}
	n := new(uint256.Int).SetBytes(sub[:wordLen])
	if !n.IsUint64() || n.Uint64() > uint64(int(^uint(0)>>1)) {
		return 0, d.errAt(path, base, "length %s is out of range", n)
	}
	return int(n.Uint64()), nil
}

func (d *decoder) checkContentPadding(sub []byte, length, base int, path string) error {
	padded := padLen(length)
	if padded > len(sub)-wordLen {
		return d.errAt(path, base, "content padding truncated")
	}
	for _, b := range sub[wordLen+length : wordLen+padded] {
		if b != 0 {
			return d.errAt(path, base, "content has dirty padding")
		}
	}
	return nil
}

func repeatType(t *Type, n int) []*Type {
	types := make([]*Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}
