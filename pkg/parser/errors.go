package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pie-lang/pie/pkg/ast"
)

// Error is implemented by every diagnostic the parser returns. Span locates
// the primary offending bytes; Title and Help are the headline and the
// explanatory line of a rendered report.
type Error interface {
	error
	Span() ast.Span
	Title() string
	Help() string
}

var (
	_ Error = (*MismatchError)(nil)
	_ Error = (*ChoiceError)(nil)
	_ Error = (*MissingError)(nil)
	_ Error = (*ReadingError)(nil)
	_ Error = (*EncodingError)(nil)
	_ Error = (*GrammarError)(nil)
)

// ErrInvalidUTF8 is wrapped by EncodingError.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

func describe(e Error) string {
	return fmt.Sprintf("parser: %s at %s: %s", strings.ToLower(e.Title()), e.Span(), e.Help())
}

// MismatchError reports a structurally mandatory position holding a node of
// the wrong kind.
type MismatchError struct {
	Loc      ast.Span
	Actual   string
	Expected string
}

func (e *MismatchError) Error() string  { return describe(e) }
func (e *MismatchError) Span() ast.Span { return e.Loc }
func (e *MismatchError) Title() string  { return "Unexpected token" }
func (e *MismatchError) Help() string {
	return fmt.Sprintf("encountered %s when %s was expected", quote(e.Actual), quote(e.Expected))
}

// ChoiceError reports that none of a fixed, ordered set of alternatives
// matched. Expected preserves the order the alternatives were declared in.
type ChoiceError struct {
	Loc      ast.Span
	Actual   string
	Expected []string
}

func (e *ChoiceError) Error() string  { return describe(e) }
func (e *ChoiceError) Span() ast.Span { return e.Loc }
func (e *ChoiceError) Title() string  { return "Unexpected token" }
func (e *ChoiceError) Help() string {
	return fmt.Sprintf("encountered %s when %s was expected", quote(e.Actual), oneOf(e.Expected))
}

// MissingError reports an absent mandatory field on a correctly kinded node.
// Token names the node, What the field that could not be found.
type MissingError struct {
	Loc   ast.Span
	Token string
	What  string
}

func (e *MissingError) Error() string  { return describe(e) }
func (e *MissingError) Span() ast.Span { return e.Loc }
func (e *MissingError) Title() string  { return "Missing data" }
func (e *MissingError) Help() string {
	return fmt.Sprintf("couldn't extract %s for %s", quote(e.What), quote(e.Token))
}

// ReadOp names the byte source operation that failed.
type ReadOp uint8

const (
	// ReadSeek means positioning the byte source at the span offset failed.
	ReadSeek ReadOp = iota
	// ReadShort means fewer than span length bytes could be read.
	ReadShort
)

func (op ReadOp) String() string {
	if op == ReadSeek {
		return "seek"
	}
	return "read"
}

// ReadingError reports that the text under a span could not be recovered
// from the byte source.
type ReadingError struct {
	Loc ast.Span
	Op  ReadOp
	Err error
}

func (e *ReadingError) Error() string  { return describe(e) }
func (e *ReadingError) Span() ast.Span { return e.Loc }
func (e *ReadingError) Title() string  { return "Couldn't read source" }
func (e *ReadingError) Unwrap() error  { return e.Err }
func (e *ReadingError) Help() string {
	if e.Err == nil {
		return e.Op.String() + " failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// EncodingError reports extracted bytes that are not valid UTF-8.
type EncodingError struct {
	Loc ast.Span
	Err error
}

func (e *EncodingError) Error() string  { return describe(e) }
func (e *EncodingError) Span() ast.Span { return e.Loc }
func (e *EncodingError) Title() string  { return "Input isn't valid UTF-8" }
func (e *EncodingError) Unwrap() error  { return e.Err }
func (e *EncodingError) Help() string {
	if e.Err == nil {
		return ErrInvalidUTF8.Error()
	}
	return e.Err.Error()
}

// GrammarError reports that the grammar provider could not be set up or
// failed to produce a tree.
type GrammarError struct {
	Err error
}

func (e *GrammarError) Error() string  { return fmt.Sprintf("parser: grammar error: %v", e.Err) }
func (e *GrammarError) Span() ast.Span { return ast.ZeroSpan() }
func (e *GrammarError) Title() string  { return "Grammar error" }
func (e *GrammarError) Unwrap() error  { return e.Err }
func (e *GrammarError) Help() string {
	if e.Err == nil {
		return "grammar provider unavailable"
	}
	return e.Err.Error()
}

func quote(s string) string {
	return "`" + s + "'"
}

// oneOf renders labels as "one of: `a', `b', `c'".
func oneOf(labels []string) string {
	quoted := make([]string, len(labels))
	for i, label := range labels {
		quoted[i] = quote(label)
	}
	return "one of: " + strings.Join(quoted, ", ")
}

// AsError extracts the parser diagnostic carried by err, if any.
func AsError(err error) (Error, bool) {
	if err == nil {
		return nil, false
	}
	var perr Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
