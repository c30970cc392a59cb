package solabi

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// CoerceValue parses a human-written literal into a Value of the given type:
// decimal or 0x-hex integers, true/false, 0x-hex byte strings and addresses,
// optionally quoted strings, and bracketed/parenthesized composites for
// arrays and tuples.
func CoerceValue(s string, t *Type) (Value, error) {
	s = strings.TrimSpace(s)
	switch t.kind {
	case KindBool:
		switch s {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("solabi: %q is not a bool literal", s)

	case KindUint, KindEnum:
		n, err := coerceUint(s)
		if err != nil {
			return Value{}, err
		}
		bits := t.bits
		if t.kind == KindEnum {
			bits = 8
		}
		return Uint(n, bits)

	case KindInt:
		neg := strings.HasPrefix(s, "-")
		n, err := coerceUint(strings.TrimPrefix(s, "-"))
		if err != nil {
			return Value{}, err
		}
		if neg {
			n.Neg(n)
		}
		return Int(n, t.bits)

	case KindAddress:
		b, err := coerceHex(s, 20)
		if err != nil {
			return Value{}, err
		}
		return AddrFromBytes(b)

	case KindFunction:
		b, err := coerceHex(s, 24)
		if err != nil {
			return Value{}, err
		}
		var f [24]byte
		copy(f[:], b)
		return Func(f), nil

	case KindFixedBytes:
		b, err := coerceHex(s, t.bits)
		if err != nil {
			return Value{}, err
		}
		return FixedBytes(b)

	case KindBytes:
		b, err := coerceHex(s, -1)
		if err != nil {
			return Value{}, err
		}
		return Bytes(b), nil

	case KindString:
		if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
			s = s[1 : len(s)-1]
		}
		return Str(s), nil

	case KindArray, KindFixedArray:
		parts, err := splitComposite(s, '[', ']')
		if err != nil {
			return Value{}, err
		}
		if t.kind == KindFixedArray && len(parts) != t.size {
			return Value{}, fmt.Errorf("solabi: %s needs %d elements, got %d", t, t.size, len(parts))
		}
		elems := make([]Value, len(parts))
		for i, p := range parts {
			if elems[i], err = CoerceValue(p, t.elem); err != nil {
				return Value{}, err
			}
		}
		if t.kind == KindFixedArray {
			return FixedArrayOf(elems...), nil
		}
		return ArrayOf(elems...), nil

	case KindTuple, KindStruct:
		parts, err := splitComposite(s, '(', ')')
		if err != nil {
			return Value{}, err
		}
		if len(parts) != len(t.tuple) {
			return Value{}, fmt.Errorf("solabi: %s needs %d members, got %d", t, len(t.tuple), len(parts))
		}
		elems := make([]Value, len(parts))
		for i, p := range parts {
			if elems[i], err = CoerceValue(p, t.tuple[i]); err != nil {
				return Value{}, err
			}
		}
		if t.kind == KindStruct {
			return StructOf(t.name, t.fields, elems)
		}
		return TupleOf(elems...), nil

	case KindValue:
		inner, err := CoerceValue(s, t.elem)
		if err != nil {
			return Value{}, err
		}
		return Wrap(t.name, inner), nil

	default:
		return Value{}, fmt.Errorf("solabi: cannot coerce into %s", t)
	}
}

func coerceUint(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := uint256.FromHex(s)
		if err != nil {
			return nil, fmt.Errorf("solabi: bad hex integer %q: %w", s, err)
		}
		return n, nil
	}
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("solabi: bad integer %q: %w", s, err)
	}
	return n, nil
}

// coerceHex decodes a 0x-prefixed hex literal. width -1 accepts any even
// length.
func coerceHex(s string, width int) ([]byte, error) {
	body, ok := strings.CutPrefix(s, "0x")
	if !ok {
		body, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return nil, fmt.Errorf("solabi: %q is not a 0x hex literal", s)
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("solabi: bad hex literal %q: %w", s, err)
	}
	if width >= 0 && len(b) != width {
		return nil, fmt.Errorf("solabi: hex literal %q needs %d bytes, got %d", s, width, len(b))
	}
	return b, nil
}

// splitComposite strips the outer open/close delimiters and splits the body
// at top-level commas, respecting nested brackets, parens, and double
// quotes. An empty body yields no parts.
func splitComposite(s string, open, close byte) ([]string, error) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return nil, fmt.Errorf("solabi: composite literal %q must be wrapped in %c...%c", s, open, close)
	}
	body := s[1 : len(s)-1]
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("solabi: unbalanced composite literal %q", s)
			}
		case c == ',' && depth == 0:
			parts = append(parts, body[start:i])
			start = i + 1
		}
	}
	if depth != 0 || inQuote {
		return nil, fmt.Errorf("solabi: unbalanced composite literal %q", s)
	}
	return append(parts, body[start:]), nil
}
