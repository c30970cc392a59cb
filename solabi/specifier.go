package solabi

import (
	"strconv"
	"strings"
)

// Dim is one array dimension of a type specifier. A dynamic dimension ("[]")
// has Dynamic set; otherwise Size holds the literal count. A literal 0 is
// accepted by the grammar and rejected at resolution.
type Dim struct {
	Size    int
	Dynamic bool
}

func (d Dim) String() string {
	if d.Dynamic {
		return "[]"
	}
	return "[" + strconv.Itoa(d.Size) + "]"
}

type stemKind uint8

const (
	stemIdent stemKind = iota
	stemTuple
	stemMapping
)

// TypeSpecifier is the parsed form of a type-descriptor string: a stem plus
// an ordered list of array dimensions, innermost first ("uint8[2][]" has stem
// "uint8" and dimensions [2], []). Spans index into the original input so
// errors can point under the source text. Specifiers are immutable once
// parsed.
type TypeSpecifier struct {
	input      string
	start, end int
	stemStart  int
	stemEnd    int
	kind       stemKind
	elems      []*TypeSpecifier // tuple member specifiers
	dims       []Dim
}

// grammar nesting bound, keeps deeply nested tuple input from exhausting the
// stack before resolution ever sees it
const maxSpecifierDepth = 64

// ParseSpecifier parses a type-descriptor string into a TypeSpecifier.
// The grammar covers bare identifiers, parenthesized tuples, and trailing
// array dimensions; it does not resolve names or validate widths.
func ParseSpecifier(s string) (*TypeSpecifier, error) {
	return parseSpecAt(s, 0, len(s), 0)
}

func parseSpecAt(input string, start, end, depth int) (*TypeSpecifier, error) {
	if depth > maxSpecifierDepth {
		return nil, &GrammarError{Msg: "type nesting too deep", Start: start, End: end}
	}
	for start < end && input[start] == ' ' {
		start++
	}
	for end > start && input[end-1] == ' ' {
		end--
	}
	if start == end {
		return nil, &GrammarError{Msg: "empty type string", Start: start, End: end}
	}

	spec := &TypeSpecifier{input: input, start: start, end: end}

	// Strip trailing bracket groups. They come off outermost first, so the
	// collected list is reversed into source order afterwards.
	dimEnd := end
	for dimEnd > start && input[dimEnd-1] == ']' {
		i := dimEnd - 2
		for i >= start && isDigit(input[i]) {
			i--
		}
		if i < start || input[i] != '[' {
			return nil, &GrammarError{Msg: "malformed array dimension", Start: max(i, start), End: dimEnd}
		}
		digits := input[i+1 : dimEnd-1]
		if digits == "" {
			spec.dims = append(spec.dims, Dim{Dynamic: true})
		} else {
			if len(digits) > 1 && digits[0] == '0' {
				return nil, &GrammarError{Msg: "array dimension has leading zero", Start: i + 1, End: dimEnd - 1}
			}
			n, err := strconv.Atoi(digits)
			if err != nil {
				return nil, &GrammarError{Msg: "array dimension out of range", Start: i + 1, End: dimEnd - 1}
			}
			spec.dims = append(spec.dims, Dim{Size: n})
		}
		dimEnd = i
	}
	for l, r := 0, len(spec.dims)-1; l < r; l, r = l+1, r-1 {
		spec.dims[l], spec.dims[r] = spec.dims[r], spec.dims[l]
	}

	if dimEnd == start {
		return nil, &GrammarError{Msg: "missing type stem before array dimensions", Start: start, End: end}
	}
	spec.stemStart, spec.stemEnd = start, dimEnd

	stem := input[start:dimEnd]
	switch {
	case stem[0] == '(':
		spec.kind = stemTuple
		if err := parseTupleStem(spec, depth); err != nil {
			return nil, err
		}
	case strings.HasPrefix(stem, "mapping("):
		spec.kind = stemMapping
		if err := checkBalancedParens(input, start+len("mapping"), dimEnd); err != nil {
			return nil, err
		}
	default:
		spec.kind = stemIdent
		if err := checkIdent(input, start, dimEnd); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// parseTupleStem splits a parenthesized stem at depth-one commas and parses
// each element recursively. A single trailing comma is permitted; tuple
// arity is carried by element count, not punctuation.
func parseTupleStem(spec *TypeSpecifier, depth int) error {
	input, lo, hi := spec.input, spec.stemStart, spec.stemEnd
	if input[hi-1] != ')' {
		return &GrammarError{Msg: "unclosed tuple", Start: lo, End: hi}
	}

	pd := 0
	elemStart := lo + 1
	sawTrailingComma := false
	for i := lo; i < hi; i++ {
		switch input[i] {
		case '(':
			pd++
		case ')':
			pd--
			if pd < 0 {
				return &GrammarError{Msg: "unbalanced parentheses", Start: i, End: i + 1}
			}
			if pd == 0 && i != hi-1 {
				return &GrammarError{Msg: "text after tuple close", Start: i + 1, End: hi}
			}
		case ',':
			if pd == 1 {
				if err := appendTupleElem(spec, elemStart, i, depth); err != nil {
					return err
				}
				elemStart = i + 1
			}
		}
	}
	if pd != 0 {
		return &GrammarError{Msg: "unbalanced parentheses", Start: lo, End: hi}
	}

	last := strings.TrimSpace(input[elemStart : hi-1])
	if last == "" {
		if len(spec.elems) == 0 {
			return &GrammarError{Msg: "empty tuple", Start: lo, End: hi}
		}
		sawTrailingComma = true
	}
	if !sawTrailingComma {
		if err := appendTupleElem(spec, elemStart, hi-1, depth); err != nil {
			return err
		}
	}
	return nil
}

func appendTupleElem(spec *TypeSpecifier, lo, hi, depth int) error {
	if strings.TrimSpace(spec.input[lo:hi]) == "" {
		return &GrammarError{Msg: "empty tuple element", Start: lo, End: hi}
	}
	elem, err := parseSpecAt(spec.input, lo, hi, depth+1)
	if err != nil {
		return err
	}
	spec.elems = append(spec.elems, elem)
	return nil
}

func checkBalancedParens(input string, lo, hi int) error {
	if lo >= hi || input[lo] != '(' || input[hi-1] != ')' {
		return &GrammarError{Msg: "malformed mapping type", Start: lo, End: hi}
	}
	pd := 0
	for i := lo; i < hi; i++ {
		switch input[i] {
		case '(':
			pd++
		case ')':
			pd--
			if pd < 0 {
				return &GrammarError{Msg: "unbalanced parentheses", Start: i, End: i + 1}
			}
		}
	}
	if pd != 0 {
		return &GrammarError{Msg: "unbalanced parentheses", Start: lo, End: hi}
	}
	return nil
}

func checkIdent(input string, lo, hi int) error {
	for i := lo; i < hi; i++ {
		c := input[i]
		if isIdentStart(c) || (i > lo && isDigit(c)) {
			continue
		}
		return &GrammarError{Msg: "invalid character in type name", Start: i, End: i + 1}
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

// Span returns the full text of the specifier.
func (s *TypeSpecifier) Span() string {
	return s.input[s.start:s.end]
}

// Stem returns the stem text, with array dimensions stripped.
func (s *TypeSpecifier) Stem() string {
	return s.input[s.stemStart:s.stemEnd]
}

// Dims returns the array dimensions in source order, innermost first.
func (s *TypeSpecifier) Dims() []Dim {
	return s.dims
}

// Pos returns the byte-offset range of the specifier within the original
// input string.
func (s *TypeSpecifier) Pos() (start, end int) {
	return s.start, s.end
}

// IsTuple reports whether the stem is a parenthesized tuple.
func (s *TypeSpecifier) IsTuple() bool {
	return s.kind == stemTuple
}

// TupleElems returns the member specifiers of a tuple stem, nil otherwise.
func (s *TypeSpecifier) TupleElems() []*TypeSpecifier {
	return s.elems
}

// Equal reports whether two specifiers have the same structural content
// (stem text, dimensions, and tuple members), regardless of their position
// in their source strings.
func (s *TypeSpecifier) Equal(o *TypeSpecifier) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.kind != o.kind || len(s.dims) != len(o.dims) || len(s.elems) != len(o.elems) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != o.dims[i] {
			return false
		}
	}
	if s.kind == stemTuple {
		for i := range s.elems {
			if !s.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return s.Stem() == o.Stem()
}
