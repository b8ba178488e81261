package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits src into tokens in source order. Error offsets are byte
// offsets into src.
//
// Rules:
//   - words ([A-Za-z_][A-Za-z0-9_]*) are identifiers, case preserved
//   - '=' and '*' are single-character identifiers
//   - numbers: optional '-', digits, at most one '.'
//   - strings: single quoted, no escapes
func Tokenize(src string) ([]Token, error) {
	var out []Token

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case unicode.IsSpace(r):
			i += size

		case r == '(':
			out = append(out, Punct(LeftParenthesis))
			i++
		case r == ')':
			out = append(out, Punct(RightParenthesis))
			i++
		case r == ',':
			out = append(out, Punct(Comma))
			i++
		case r == ';':
			out = append(out, Punct(Semicolon))
			i++
		case r == '=' || r == '*':
			out = append(out, Ident(string(r)))
			i++

		case r == '\'':
			end := strings.IndexByte(src[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("lexer: unterminated string at offset %d", i)
			}
			out = append(out, Str(src[i+1:i+1+end]))
			i += end + 2

		case unicode.IsDigit(r) || (r == '-' && i+1 < len(src) && isDigitByte(src[i+1])):
			n, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			out = append(out, Num(src[i:n]))
			i = n

		case isIdentStart(r):
			end := i + size
			for end < len(src) {
				nr, ns := utf8.DecodeRuneInString(src[end:])
				if !isIdentPart(nr) {
					break
				}
				end += ns
			}
			out = append(out, Ident(src[i:end]))
			i = end

		default:
			return nil, fmt.Errorf("lexer: unexpected character %q at offset %d", r, i)
		}
	}

	return out, nil
}

// scanNumber returns the byte offset one past the number starting at i.
func scanNumber(src string, i int) (int, error) {
	start := i
	if src[i] == '-' {
		i++
	}
	dot := false
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsDigit(r):
		case r == '.':
			if dot {
				return 0, fmt.Errorf("lexer: malformed number at offset %d", start)
			}
			dot = true
		case isIdentStart(r):
			return 0, fmt.Errorf("lexer: malformed number at offset %d", start)
		default:
			return i, nil
		}
		i += size
	}
	return i, nil
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
