package solabi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// EncodeType returns the canonical EIP-712 type string of a struct type: the
// primary struct's signature first, then the signature of every struct
// transitively referenced by its fields, each once, sorted lexicographically
// by name.
func EncodeType(t *Type) (string, error) {
	if t.kind != KindStruct {
		return "", fmt.Errorf("solabi: eip712 primary type must be a struct, got %s", t.kind)
	}

	deps := make(map[string]*Type)
	collectStructDeps(t, deps)
	delete(deps, t.name)

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	writeStructSignature(&sb, t)
	for _, name := range names {
		writeStructSignature(&sb, deps[name])
	}
	return sb.String(), nil
}

// collectStructDeps gathers every struct type reachable through t's fields,
// including t itself, keyed by name.
func collectStructDeps(t *Type, deps map[string]*Type) {
	switch t.kind {
	case KindStruct:
		if _, seen := deps[t.name]; seen {
			return
		}
		deps[t.name] = t
		for _, f := range t.tuple {
			collectStructDeps(f, deps)
		}
	case KindArray, KindFixedArray, KindValue:
		collectStructDeps(t.elem, deps)
	case KindTuple:
		for _, m := range t.tuple {
			collectStructDeps(m, deps)
		}
	}
}

// writeStructSignature renders Name(type1 name1,type2 name2,...), with
// nested structs referenced by bare name.
func writeStructSignature(sb *strings.Builder, t *Type) {
	sb.WriteString(t.name)
	sb.WriteByte('(')
	for i, f := range t.tuple {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeFieldTypeName(sb, f)
		sb.WriteByte(' ')
		sb.WriteString(t.fields[i])
	}
	sb.WriteByte(')')
}

func writeFieldTypeName(sb *strings.Builder, t *Type) {
	switch t.kind {
	case KindStruct:
		sb.WriteString(t.name)
	case KindArray:
		writeFieldTypeName(sb, t.elem)
		sb.WriteString("[]")
	case KindFixedArray:
		writeFieldTypeName(sb, t.elem)
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.size))
		sb.WriteByte(']')
	case KindValue:
		writeFieldTypeName(sb, t.elem)
	default:
		t.writeName(sb)
	}
}

// TypeHash returns the Keccak-256 of the canonical EIP-712 type string.
func TypeHash(t *Type) ([32]byte, error) {
	enc, err := EncodeType(t)
	if err != nil {
		return [32]byte{}, err
	}
	return Keccak256([]byte(enc)), nil
}

// StructHash returns keccak(typeHash || encodeData) of a struct value
// against its type.
func StructHash(v Value, t *Type) ([32]byte, error) {
	if t.kind != KindStruct {
		return [32]byte{}, fmt.Errorf("solabi: eip712 struct hash needs a struct type, got %s", t.kind)
	}
	if !v.Matches(t) {
		return [32]byte{}, &EncodeError{Msg: fmt.Sprintf("%s value does not match struct %s", v.kind, t.name)}
	}
	return structHash(v, t)
}

func structHash(v Value, t *Type) ([32]byte, error) {
	th, err := TypeHash(t)
	if err != nil {
		return [32]byte{}, err
	}
	buf := append([]byte(nil), th[:]...)
	for i, f := range t.tuple {
		w, err := dataWord(v.elems[i], f)
		if err != nil {
			return [32]byte{}, err
		}
		buf = append(buf, w[:]...)
	}
	return Keccak256(buf), nil
}

// dataWord renders a field's 32-byte EIP-712 representation: atoms keep
// their word encoding, dynamic bytes and strings hash their content, arrays
// hash the concatenation of their element words, and nested structs hash
// recursively.
func dataWord(v Value, t *Type) ([32]byte, error) {
	switch t.kind {
	case KindBool, KindUint, KindInt, KindEnum, KindAddress, KindFunction, KindFixedBytes:
		return encodeWord(v, t)
	case KindBytes:
		return Keccak256(v.raw), nil
	case KindString:
		return Keccak256([]byte(v.str)), nil
	case KindArray, KindFixedArray:
		var buf []byte
		for _, e := range v.elems {
			w, err := dataWord(e, t.elem)
			if err != nil {
				return [32]byte{}, err
			}
			buf = append(buf, w[:]...)
		}
		return Keccak256(buf), nil
	case KindTuple:
		var buf []byte
		for i, m := range t.tuple {
			w, err := dataWord(v.elems[i], m)
			if err != nil {
				return [32]byte{}, err
			}
			buf = append(buf, w[:]...)
		}
		return Keccak256(buf), nil
	case KindStruct:
		return structHash(v, t)
	case KindValue:
		return dataWord(v.elems[0], t.elem)
	default:
		return [32]byte{}, fmt.Errorf("solabi: %s has no eip712 data word", t.kind)
	}
}

// Domain holds the EIP712Domain fields. Absent optional fields (empty
// strings, nil pointers) are omitted from both the domain type signature and
// the hashed data, not zero-filled.
type Domain struct {
	Name              string
	Version           string
	ChainID           *uint256.Int
	VerifyingContract *[20]byte
	Salt              *[32]byte
}

// Separator returns the domain separator: the struct hash of the
// EIP712Domain pseudo-struct restricted to the fields present.
func (d Domain) Separator() [32]byte {
	var sig strings.Builder
	var data []byte

	sig.WriteString("EIP712Domain(")
	first := true
	field := func(decl string, word [32]byte) {
		if !first {
			sig.WriteByte(',')
		}
		first = false
		sig.WriteString(decl)
		data = append(data, word[:]...)
	}

	if d.Name != "" {
		field("string name", Keccak256([]byte(d.Name)))
	}
	if d.Version != "" {
		field("string version", Keccak256([]byte(d.Version)))
	}
	if d.ChainID != nil {
		field("uint256 chainId", d.ChainID.Bytes32())
	}
	if d.VerifyingContract != nil {
		var w [32]byte
		copy(w[wordLen-20:], d.VerifyingContract[:])
		field("address verifyingContract", w)
	}
	if d.Salt != nil {
		field("bytes32 salt", *d.Salt)
	}
	sig.WriteByte(')')

	th := Keccak256([]byte(sig.String()))
	return Keccak256(th[:], data)
}

// SigningHash returns the EIP-712 signing digest
// keccak(0x19 0x01 || domainSeparator || structHash(v, t)).
func SigningHash(d Domain, v Value, t *Type) ([32]byte, error) {
	sh, err := StructHash(v, t)
	if err != nil {
		return [32]byte{}, err
	}
	sep := d.Separator()
	return Keccak256([]byte{0x19, 0x01}, sep[:], sh[:]), nil
}
