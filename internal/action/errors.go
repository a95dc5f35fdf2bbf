package action

import "fmt"

// UnknownActionError reports a token whose tag matches no known variant.
// The raw token is kept for diagnostics.
type UnknownActionError struct {
	Token string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action token %q", e.Token)
}

// ArityMismatchError reports a recognized tag carrying the wrong number of
// fields.
type ArityMismatchError struct {
	Tag  string
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("action %s: expected %d fields, got %d", e.Tag, e.Want, e.Got)
}

// FieldParseError reports a field segment that is not a valid integer.
type FieldParseError struct {
	Tag      string
	Position int
	Segment  string
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("action %s: invalid field %q at position %d", e.Tag, e.Segment, e.Position)
}

// IsDecodeError reports whether err originated from Decode, as opposed to a
// handler or transport failure.
func IsDecodeError(err error) bool {
	switch err.(type) {
	case *UnknownActionError, *ArityMismatchError, *FieldParseError:
		return true
	default:
		return false
	}
}

// DecodeErrorKind labels a decode failure for metrics.
func DecodeErrorKind(err error) string {
	switch err.(type) {
	case *UnknownActionError:
		return "unknown_action"
	case *ArityMismatchError:
		return "arity_mismatch"
	case *FieldParseError:
		return "field_parse"
	default:
		return "unknown"
	}
}
