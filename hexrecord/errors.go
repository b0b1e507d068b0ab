package hexrecord

import "fmt"

// ParserErrorKind classifies why a line was rejected.
type ParserErrorKind int

const (
	// InvalidRecord means the line is missing the start code, is truncated
	// or contains a non-hex digit
	InvalidRecord ParserErrorKind = iota

	// InvalidLength means the declared length exceeds MaxLength
	InvalidLength

	// InvalidType means the type field is not one of the known record types
	InvalidType

	// InvalidChecksum means the checksum field does not match the record
	InvalidChecksum
)

// String returns the wire code of the kind.
func (k ParserErrorKind) String() string {
	switch k {
	case InvalidRecord:
		return "INVALID_RECORD"
	case InvalidLength:
		return "INVALID_LENGTH"
	case InvalidType:
		return "INVALID_TYPE"
	case InvalidChecksum:
		return "INVALID_CHECKSUM"
	default:
		return "UNKNOWN_PARSER_ERROR"
	}
}

// ParserError is returned by Parse for any malformed line.
type ParserError struct {
	Kind ParserErrorKind

	// Detail is optional human-readable context
	Detail string
}

func (e *ParserError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("hex record: %s", e.Kind)
	}
	return fmt.Sprintf("hex record: %s: %s", e.Kind, e.Detail)
}

// Code returns the stable wire code, e.g. "INVALID_CHECKSUM".
func (e *ParserError) Code() string {
	return e.Kind.String()
}

// Is reports whether target is a *ParserError of the same kind, so that
// errors.Is(err, &ParserError{Kind: InvalidChecksum}) works.
func (e *ParserError) Is(target error) bool {
	t, ok := target.(*ParserError)
	return ok && t.Kind == e.Kind
}
