package parser

import (
	"fmt"

	"github.com/tuannm99/novaquery/internal/sql/lexer"
)

type ErrorKind uint8

const (
	KindEmptyInput ErrorKind = iota + 1
	KindUnexpectedToken
	KindPrematureEnd
	KindMissingSeparator
	KindUnknownStatement
)

// SyntaxError is returned for every parse failure. Error() yields the
// message only; there is no position information.
type SyntaxError struct {
	Kind ErrorKind
	Msg  string
}

func (e *SyntaxError) Error() string { return e.Msg }

// Is matches any *SyntaxError of the same kind, so callers can use
// errors.Is(err, parser.ErrPrematureEnd).
func (e *SyntaxError) Is(target error) bool {
	t, ok := target.(*SyntaxError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyInput       = &SyntaxError{Kind: KindEmptyInput, Msg: "empty statement"}
	ErrUnexpectedToken  = &SyntaxError{Kind: KindUnexpectedToken, Msg: "unexpected token"}
	ErrPrematureEnd     = &SyntaxError{Kind: KindPrematureEnd, Msg: "unexpected end of statement"}
	ErrMissingSeparator = &SyntaxError{Kind: KindMissingSeparator, Msg: "parsing error missing ','"}
	ErrUnknownStatement = &SyntaxError{Kind: KindUnknownStatement, Msg: "undefined query type"}
)

// unexpectedToken renders "error: expected <X> found <Y>", or
// "error: expected <X>" when the stream ended. expected is a description
// string or a lexer.Kind for punctuation.
func unexpectedToken(expected any, found lexer.Token, ok bool) *SyntaxError {
	if !ok {
		return &SyntaxError{
			Kind: KindPrematureEnd,
			Msg:  fmt.Sprintf("error: expected <%v>", expected),
		}
	}
	return &SyntaxError{
		Kind: KindUnexpectedToken,
		Msg:  fmt.Sprintf("error: expected <%v> found <%v>", expected, found),
	}
}
