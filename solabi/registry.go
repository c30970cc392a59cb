package solabi

import (
	"fmt"
	"strconv"
	"strings"
)

// Registry holds user-defined type definitions consulted during resolution:
// structs, enums, and transparent value-type wrappers. Field and underlying
// types are kept as specifier strings and resolved on demand, so definitions
// may reference each other in any registration order. A Registry must not be
// mutated concurrently with resolution.
type Registry struct {
	structs map[string]structDef
	enums   map[string]int
	aliases map[string]string // value type name -> underlying specifier
}

type structDef struct {
	fieldNames []string
	fieldTypes []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		structs: make(map[string]structDef),
		enums:   make(map[string]int),
		aliases: make(map[string]string),
	}
}

// DefineStruct registers a struct definition. Field names and type strings
// must have equal, nonzero length, and the name must be free.
func (r *Registry) DefineStruct(name string, fieldNames, fieldTypes []string) error {
	if len(fieldNames) == 0 || len(fieldNames) != len(fieldTypes) {
		return &TypeError{
			Code: ErrBadStructFields,
			Name: name,
			Msg: fmt.Sprintf("struct needs equal, nonzero field name and type counts (%d names, %d types)",
				len(fieldNames), len(fieldTypes)),
		}
	}
	if err := r.checkFree(name); err != nil {
		return err
	}
	r.structs[name] = structDef{
		fieldNames: append([]string(nil), fieldNames...),
		fieldTypes: append([]string(nil), fieldTypes...),
	}
	return nil
}

// DefineEnum registers an enum definition with the given variant count.
func (r *Registry) DefineEnum(name string, variants int) error {
	if variants < 1 || variants > 256 {
		return &TypeError{
			Code: ErrTooManyVariants,
			Name: name,
			Msg:  fmt.Sprintf("enum has %d variants, must be in [1, 256]", variants),
		}
	}
	if err := r.checkFree(name); err != nil {
		return err
	}
	r.enums[name] = variants
	return nil
}

// DefineValueType registers a transparent wrapper around an underlying type
// specifier string.
func (r *Registry) DefineValueType(name, underlying string) error {
	if err := r.checkFree(name); err != nil {
		return err
	}
	r.aliases[name] = underlying
	return nil
}

func (r *Registry) checkFree(name string) error {
	_, s := r.structs[name]
	_, e := r.enums[name]
	_, a := r.aliases[name]
	if s || e || a {
		return fmt.Errorf("solabi: type %q already defined", name)
	}
	return nil
}

// Resolve turns a parsed specifier into a Type, looking bare identifiers up
// in the builtin keyword table and then in reg. A nil reg resolves builtins
// only.
func Resolve(spec *TypeSpecifier, reg *Registry) (*Type, error) {
	rs := resolver{reg: reg, active: make(map[string]bool)}
	return rs.resolve(spec)
}

// ParseType parses and resolves a type string in one step.
func ParseType(s string, reg *Registry) (*Type, error) {
	spec, err := ParseSpecifier(s)
	if err != nil {
		return nil, err
	}
	return Resolve(spec, reg)
}

// CheckSyntax parses a type string and validates everything short of name
// resolution: grammar, integer and bytes widths, and array sizes. Unknown
// identifiers pass, so callers can vet type strings whose custom names are
// supplied elsewhere. Mapping stems still fail.
func CheckSyntax(s string) error {
	spec, err := ParseSpecifier(s)
	if err != nil {
		return err
	}
	return checkSpecSyntax(spec)
}

func checkSpecSyntax(spec *TypeSpecifier) error {
	switch spec.kind {
	case stemMapping:
		return &TypeError{
			Code: ErrMappingNotSupported,
			Name: spec.Span(),
			Msg:  "mapping types cannot be encoded",
		}
	case stemTuple:
		for _, e := range spec.elems {
			if err := checkSpecSyntax(e); err != nil {
				return err
			}
		}
	case stemIdent:
		// unknown identifiers are permitted here; bad builtin widths are not
		if _, _, err := builtinType(spec.Stem()); err != nil {
			return err
		}
	}
	return checkDims(spec)
}

func checkDims(spec *TypeSpecifier) error {
	for _, d := range spec.dims {
		if !d.Dynamic && d.Size == 0 {
			return &TypeError{
				Code: ErrZeroSizeArray,
				Name: spec.Span(),
				Msg:  "array dimension must be positive",
			}
		}
	}
	return nil
}

type resolver struct {
	reg    *Registry
	active map[string]bool // names currently being resolved, for cycle detection
}

func (rs *resolver) resolve(spec *TypeSpecifier) (*Type, error) {
	var stem *Type
	var err error

	switch spec.kind {
	case stemMapping:
		return nil, &TypeError{
			Code: ErrMappingNotSupported,
			Name: spec.Span(),
			Msg:  "mapping types cannot be encoded",
		}
	case stemTuple:
		members := make([]*Type, len(spec.elems))
		for i, e := range spec.elems {
			if members[i], err = rs.resolve(e); err != nil {
				return nil, err
			}
		}
		if stem, err = TupleType(members...); err != nil {
			return nil, err
		}
	case stemIdent:
		if stem, err = rs.resolveIdent(spec.Stem()); err != nil {
			return nil, err
		}
	}

	// dimensions apply innermost first, which is their source order
	for _, d := range spec.dims {
		if d.Dynamic {
			stem = ArrayType(stem)
			continue
		}
		if stem, err = FixedArrayType(stem, d.Size); err != nil {
			// keep the constructor's code and message but report the span
			// from the specifier being resolved
			if te, ok := err.(*TypeError); ok {
				te.Name = spec.Span()
			}
			return nil, err
		}
	}
	return stem, nil
}

func (rs *resolver) resolveIdent(name string) (*Type, error) {
	if t, ok, err := builtinType(name); err != nil {
		return nil, err
	} else if ok {
		return t, nil
	}

	if rs.reg != nil {
		if rs.active[name] {
			return nil, &TypeError{
				Code: ErrCyclicDefinition,
				Name: name,
				Msg:  "type definition references itself",
			}
		}
		if def, ok := rs.reg.structs[name]; ok {
			rs.active[name] = true
			defer delete(rs.active, name)
			fieldTypes := make([]*Type, len(def.fieldTypes))
			for i, ft := range def.fieldTypes {
				spec, err := ParseSpecifier(ft)
				if err != nil {
					return nil, err
				}
				if fieldTypes[i], err = rs.resolve(spec); err != nil {
					return nil, err
				}
			}
			return StructType(name, def.fieldNames, fieldTypes)
		}
		if variants, ok := rs.reg.enums[name]; ok {
			return EnumType(name, variants)
		}
		if underlying, ok := rs.reg.aliases[name]; ok {
			rs.active[name] = true
			defer delete(rs.active, name)
			spec, err := ParseSpecifier(underlying)
			if err != nil {
				return nil, err
			}
			inner, err := rs.resolve(spec)
			if err != nil {
				return nil, err
			}
			return ValueKindType(name, inner), nil
		}
	}

	return nil, &TypeError{
		Code: ErrUnknownName,
		Name: name,
		Msg:  "unknown type name",
	}
}

// builtinType maps a bare identifier stem to a builtin type. The second
// return is false for identifiers that are not builtin keywords; the error
// is non-nil for keyword shapes with invalid widths (uint7, bytes33).
func builtinType(stem string) (*Type, bool, error) {
	switch stem {
	case "bool":
		return BoolType(), true, nil
	case "address":
		return AddressType(), true, nil
	case "function":
		return FunctionType(), true, nil
	case "bytes":
		return BytesType(), true, nil
	case "string":
		return StringType(), true, nil
	case "uint", "int":
		// bare forms alias the full 256-bit width
		var t *Type
		var err error
		if stem == "uint" {
			t, err = UintType(256)
		} else {
			t, err = IntType(256)
		}
		return t, true, err
	}

	if rest, ok := strings.CutPrefix(stem, "uint"); ok && allDigits(rest) {
		n, err := parseWidth(stem, rest)
		if err != nil {
			return nil, true, err
		}
		t, err := UintType(n)
		return t, true, err
	}
	if rest, ok := strings.CutPrefix(stem, "int"); ok && allDigits(rest) {
		n, err := parseWidth(stem, rest)
		if err != nil {
			return nil, true, err
		}
		t, err := IntType(n)
		return t, true, err
	}
	if rest, ok := strings.CutPrefix(stem, "bytes"); ok && allDigits(rest) {
		n, err := parseWidth(stem, rest)
		if err != nil {
			return nil, true, err
		}
		t, err := FixedBytesType(n)
		return t, true, err
	}
	return nil, false, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func parseWidth(stem, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &TypeError{Code: widthCode(stem), Name: stem, Msg: "width out of range"}
	}
	if n == 0 {
		return 0, &TypeError{Code: widthCode(stem), Name: stem, Msg: "type would be zero-width"}
	}
	return n, nil
}

func widthCode(stem string) TypeErrorCode {
	if strings.HasPrefix(stem, "bytes") {
		return ErrInvalidBytesWidth
	}
	return ErrInvalidIntWidth
}
