// errors.go defines the closed set of failures produced by measurement
// arithmetic and the textual codec.
//
// Every failure is an *Error carrying a Kind. Callers match kinds with
// errors.Is against the sentinels below, or with errors.As to inspect the
// numeric sub-kind and the offending byte offset. The sentinels are
// compared by kind only, never by identity.

package measure

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind is the top-level failure category.
type Kind uint8

const (
	// KindOverflow: a sum or conversion exceeded the largest representable span.
	KindOverflow Kind = iota + 1
	// KindUnderflow: a difference fell below the smallest representable span.
	KindUnderflow
	// KindParseInt: a count in a textual duration was not a valid integer.
	KindParseInt
	// KindSyntax: a textual duration was structurally malformed.
	KindSyntax
)

var kindNames = map[Kind]string{
	KindOverflow:  "overflow",
	KindUnderflow: "underflow",
	KindParseInt:  "parse_int",
	KindSyntax:    "syntax",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IntErrorKind says why a count failed to parse.
type IntErrorKind uint8

const (
	IntEmpty IntErrorKind = iota + 1
	IntInvalidDigit
	IntOverflow
	IntUnderflow
	// IntUnknown keeps the numeric parser's own diagnostic in Error.Reason.
	IntUnknown
)

var intKindNames = map[IntErrorKind]string{
	IntEmpty:        "empty",
	IntInvalidDigit: "invalid_digit",
	IntOverflow:     "overflow",
	IntUnderflow:    "underflow",
	IntUnknown:      "unknown",
}

func (k IntErrorKind) String() string {
	if s, ok := intKindNames[k]; ok {
		return s
	}
	return "IntErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Error is the failure type for every fallible operation in this package.
type Error struct {
	Kind Kind
	// Int is set only when Kind is KindParseInt.
	Int IntErrorKind
	// Reason describes a syntax failure, or holds the unclassified
	// diagnostic for IntUnknown.
	Reason string
	// Offset is the byte offset into the decoded input, or -1 when the
	// failure did not come from Decode.
	Offset int

	cause error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrOverflow  = &Error{Kind: KindOverflow, Offset: -1}
	ErrUnderflow = &Error{Kind: KindUnderflow, Offset: -1}
	ErrParseInt  = &Error{Kind: KindParseInt, Offset: -1}
	ErrSyntax    = &Error{Kind: KindSyntax, Offset: -1}
)

func (e *Error) Error() string {
	msg := "measure: " + e.Kind.String()
	if e.Offset >= 0 {
		msg += " at offset " + strconv.Itoa(e.Offset)
	}
	switch {
	case e.Kind == KindParseInt && e.Int == IntUnknown:
		msg += ": " + e.Int.String() + ": " + e.Reason
	case e.Kind == KindParseInt && e.Int != 0:
		msg += ": " + e.Int.String()
	case e.Reason != "":
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is an *Error of the same kind. A target with
// Int set must also match the numeric sub-kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Int == 0 || t.Int == e.Int)
}

// Unwrap returns the numeric parser error behind a KindParseInt failure.
func (e *Error) Unwrap() error { return e.cause }

// errorJSON is the structured form surfaced by the CLI and MCP server.
type errorJSON struct {
	Kind    string `json:"kind"`
	IntKind string `json:"int_kind,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Offset  *int   `json:"offset,omitempty"`
	Message string `json:"message"`
}

// MarshalJSON encodes the error as a structured object.
func (e *Error) MarshalJSON() ([]byte, error) {
	j := errorJSON{
		Kind:    e.Kind.String(),
		Reason:  e.Reason,
		Message: e.Error(),
	}
	if e.Int != 0 {
		j.IntKind = e.Int.String()
	}
	if e.Offset >= 0 {
		off := e.Offset
		j.Offset = &off
	}
	return json.Marshal(j)
}

// AsError extracts the *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func syntaxError(offset int, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func overflowAt(offset int) *Error {
	return &Error{Kind: KindOverflow, Offset: offset}
}

// parseCount parses an unsigned decimal count token. Failures are
// classified by inspecting the parser's error values rather than its text.
func parseCount(tok string, offset int) (int64, error) {
	if tok == "" {
		return 0, &Error{Kind: KindParseInt, Int: IntEmpty, Offset: offset}
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err == nil {
		return n, nil
	}
	return 0, classifyInt(tok, err, offset)
}

func classifyInt(tok string, err error, offset int) *Error {
	e := &Error{Kind: KindParseInt, Offset: offset, cause: err}
	switch {
	case errors.Is(err, strconv.ErrRange) && len(tok) > 0 && tok[0] == '-':
		e.Int = IntUnderflow
	case errors.Is(err, strconv.ErrRange):
		e.Int = IntOverflow
	case errors.Is(err, strconv.ErrSyntax):
		e.Int = IntInvalidDigit
	default:
		e.Int = IntUnknown
		e.Reason = err.Error()
	}
	return e
}
