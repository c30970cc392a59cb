package solabi

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// String renders the value as a literal that CoerceValue accepts back for
// the same type: composite values in brackets and parens, byte-like values
// as 0x hex, signed integers in decimal with two's complement interpreted.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.flag))
	case KindUint:
		sb.WriteString(v.num.Dec())
	case KindInt:
		if v.num.Sign() < 0 {
			sb.WriteByte('-')
			sb.WriteString(new(uint256.Int).Neg(v.num).Dec())
		} else {
			sb.WriteString(v.num.Dec())
		}
	case KindAddress:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(v.addr[:]))
	case KindFunction:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(v.fn[:]))
	case KindBytes, KindFixedBytes:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(v.raw))
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindArray, KindFixedArray:
		sb.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case KindTuple, KindStruct:
		sb.WriteByte('(')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(')')
	case KindValue:
		v.elems[0].write(sb)
	}
}
