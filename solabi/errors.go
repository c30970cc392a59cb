package solabi

import "fmt"

// GrammarError reports a malformed type specifier string. Start and End are
// byte offsets of the offending subspan within the input.
type GrammarError struct {
	Msg   string
	Start int
	End   int
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("solabi: grammar error at [%d:%d]: %s", e.Start, e.End, e.Msg)
}

// TypeErrorCode classifies type construction and resolution failures.
type TypeErrorCode uint8

const (
	ErrInvalidIntWidth TypeErrorCode = iota
	ErrInvalidBytesWidth
	ErrZeroSizeArray
	ErrEmptyTuple
	ErrBadStructFields
	ErrTooManyVariants
	ErrUnknownName
	ErrMappingNotSupported
	ErrCyclicDefinition
	ErrTypeTooLarge
)

func (c TypeErrorCode) String() string {
	switch c {
	case ErrInvalidIntWidth:
		return "InvalidIntWidth"
	case ErrInvalidBytesWidth:
		return "InvalidBytesWidth"
	case ErrZeroSizeArray:
		return "ZeroSizeArray"
	case ErrEmptyTuple:
		return "EmptyTuple"
	case ErrBadStructFields:
		return "BadStructFields"
	case ErrTooManyVariants:
		return "TooManyVariants"
	case ErrUnknownName:
		return "UnknownName"
	case ErrMappingNotSupported:
		return "MappingNotSupported"
	case ErrCyclicDefinition:
		return "CyclicDefinition"
	case ErrTypeTooLarge:
		return "TypeTooLarge"
	default:
		return "Unknown"
	}
}

// TypeError reports an invalid type: a bad width, a zero-size dimension, an
// unresolved name, or a mapping where an encodable type is required. Name
// holds the offending type name or span text.
type TypeError struct {
	Code TypeErrorCode
	Name string
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("solabi: type error (%s) in %q: %s", e.Code, e.Name, e.Msg)
}

// DecodeError reports malformed encoded data. Path locates the failing slot
// within the aggregate ("[3].field"), Offset is the byte offset into the
// buffer where the violation was detected.
type DecodeError struct {
	Path   string
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("solabi: decode error at byte %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("solabi: decode error at %s (byte %d): %s", e.Path, e.Offset, e.Msg)
}

// EncodeError reports a value that does not satisfy the type it is being
// encoded against. Path locates the mismatched slot.
type EncodeError struct {
	Path string
	Msg  string
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return "solabi: encode error: " + e.Msg
	}
	return fmt.Sprintf("solabi: encode error at %s: %s", e.Path, e.Msg)
}
