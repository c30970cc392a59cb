package solabi

import (
	"fmt"

	"github.com/holiman/uint256"
)

// wordLen is the ABI word size. Every head slot and every atomic encoding
// occupies exactly one word.
const wordLen = 32

// padLen rounds n up to the next word boundary.
func padLen(n int) int {
	return (n + wordLen - 1) / wordLen * wordLen
}

// appendPadded appends b right-padded with zeros to the next word boundary.
func appendPadded(buf, b []byte) []byte {
	buf = append(buf, b...)
	for pad := padLen(len(b)) - len(b); pad > 0; pad-- {
		buf = append(buf, 0)
	}
	return buf
}

// appendUintWord appends the 32-byte big-endian encoding of v.
func appendUintWord(buf []byte, v *uint256.Int) []byte {
	w := v.Bytes32()
	return append(buf, w[:]...)
}

// uintFits reports whether v fits in an unsigned integer of the given bit
// width.
func uintFits(v *uint256.Int, bits int) bool {
	return v.BitLen() <= bits
}

// intFits reports whether the two's complement word v is a valid sign
// extension of a signed integer of the given bit width.
func intFits(v *uint256.Int, bits int) bool {
	if bits == 256 {
		return true
	}
	ext := new(uint256.Int).ExtendSign(v, uint256.NewInt(uint64(bits/8-1)))
	return ext.Eq(v)
}

// encodeWord renders the single-word encoding of a static atomic value.
// The value must already match t.
func encodeWord(v Value, t *Type) ([wordLen]byte, error) {
	var w [wordLen]byte
	switch t.kind {
	case KindBool:
		if v.flag {
			w[wordLen-1] = 1
		}
	case KindUint:
		if !uintFits(v.num, t.bits) {
			return w, fmt.Errorf("value does not fit in uint%d", t.bits)
		}
		w = v.num.Bytes32()
	case KindInt:
		if !intFits(v.num, t.bits) {
			return w, fmt.Errorf("value does not fit in int%d", t.bits)
		}
		w = v.num.Bytes32()
	case KindEnum:
		if !v.num.IsUint64() || v.num.Uint64() >= uint64(t.variants) {
			return w, fmt.Errorf("enum %s has no variant %s", t.name, v.num)
		}
		w = v.num.Bytes32()
	case KindAddress:
		copy(w[wordLen-20:], v.addr[:])
	case KindFunction:
		copy(w[:], v.fn[:])
	case KindFixedBytes:
		copy(w[:], v.raw)
	default:
		return w, fmt.Errorf("%s is not an atomic type", t.kind)
	}
	return w, nil
}

// decodeWord interprets one 32-byte word as a static atomic value. Under
// strict mode any byte outside the value's significant region must be zero
// (or a valid sign extension for signed integers).
func decodeWord(word []byte, t *Type, strict bool) (Value, error) {
	switch t.kind {
	case KindBool:
		for _, b := range word[:wordLen-1] {
			if b != 0 {
				if strict {
					return Value{}, fmt.Errorf("bool word has nonzero high bytes")
				}
				return Bool(true), nil
			}
		}
		switch word[wordLen-1] {
		case 0:
			return Bool(false), nil
		case 1:
			return Bool(true), nil
		default:
			if strict {
				return Value{}, fmt.Errorf("bool word is not canonically 0 or 1")
			}
			return Bool(true), nil
		}

	case KindUint, KindEnum:
		n := new(uint256.Int).SetBytes(word)
		bits := t.bits
		if t.kind == KindEnum {
			bits = 8
		}
		if !uintFits(n, bits) {
			if strict {
				return Value{}, fmt.Errorf("uint%d word has excess high bits", bits)
			}
			mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bits))
			mask.Sub(mask, uint256.NewInt(1))
			n.And(n, mask)
		}
		if t.kind == KindEnum {
			if !n.IsUint64() || n.Uint64() >= uint64(t.variants) {
				return Value{}, fmt.Errorf("enum %s has no variant %s", t.name, n)
			}
		}
		return Uint(n, bits)

	case KindInt:
		n := new(uint256.Int).SetBytes(word)
		if !intFits(n, t.bits) {
			if strict {
				return Value{}, fmt.Errorf("int%d word is not sign extended", t.bits)
			}
			n.ExtendSign(n, uint256.NewInt(uint64(t.bits/8-1)))
		}
		return Int(n, t.bits)

	case KindAddress:
		if strict {
			for _, b := range word[:wordLen-20] {
				if b != 0 {
					return Value{}, fmt.Errorf("address word has dirty padding")
				}
			}
		}
		var a [20]byte
		copy(a[:], word[wordLen-20:])
		return Addr(a), nil

	case KindFunction:
		if strict {
			for _, b := range word[24:] {
				if b != 0 {
					return Value{}, fmt.Errorf("function word has dirty padding")
				}
			}
		}
		var f [24]byte
		copy(f[:], word[:24])
		return Func(f), nil

	case KindFixedBytes:
		if strict {
			for _, b := range word[t.bits:] {
				if b != 0 {
					return Value{}, fmt.Errorf("bytes%d word has dirty padding", t.bits)
				}
			}
		}
		return FixedBytes(word[:t.bits])

	default:
		return Value{}, fmt.Errorf("%s is not an atomic type", t.kind)
	}
}

// isAtomic reports whether t encodes as exactly one word with no structure.
func isAtomic(t *Type) bool {
	switch t.kind {
	case KindBool, KindUint, KindInt, KindEnum, KindAddress, KindFunction, KindFixedBytes:
		return true
	default:
		return false
	}
}
