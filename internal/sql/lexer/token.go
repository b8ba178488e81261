package lexer

import "strings"

// Kind classifies a token.
type Kind uint8

const (
	Identifier Kind = iota + 1
	LeftParenthesis
	RightParenthesis
	Comma
	Semicolon
	Number
	String
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case LeftParenthesis:
		return "("
	case RightParenthesis:
		return ")"
	case Comma:
		return ","
	case Semicolon:
		return ";"
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit. Text is only set for Identifier, Number
// and String; it is kept exactly as written.
type Token struct {
	Kind Kind
	Text string
}

func Ident(text string) Token { return Token{Kind: Identifier, Text: text} }
func Num(text string) Token { return Token{Kind: Number, Text: text} }
func Str(text string) Token { return Token{Kind: String, Text: text} }
func Punct(kind Kind) Token { return Token{Kind: kind} }
func (t Token) IsIdent() bool { return t.Kind == Identifier }
func (t Token) Is(k Kind) bool { return t.Kind == k }

// String returns the display form used in syntax errors.
func (t Token) String() string {
	switch t.Kind {
	case Identifier, Number:
		return t.Text
	case String:
		return "'" + t.Text + "'"
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]struct{}{
	"create":  {},
	"table":   {},
	"insert":  {},
	"into":    {},
	"values":  {},
	"delete":  {},
	"from":    {},
	"where":   {},
	"select":  {},
	"int":     {},
	"integer": {},
}

// IsKeyword reports whether s is a reserved word, ignoring case.
func IsKeyword(s string) bool {
	_, ok := keywords[strings.ToLower(s)]
	return ok
}

// Normalize lower-cases identifiers that are reserved keywords and leaves
// everything else untouched. The slice is modified in place and returned.
func Normalize(tokens []Token) []Token {
	for i, t := range tokens {
		if t.Kind == Identifier && IsKeyword(t.Text) {
			tokens[i].Text = strings.ToLower(t.Text)
		}
	}
	return tokens
}
