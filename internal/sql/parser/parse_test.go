package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaquery/internal/sql/lexer"
)

func tokenize(t *testing.T, sql string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize(sql)
	require.NoError(t, err, "tokenize %q", sql)
	return toks
}

func parseString(t *testing.T, sql string) (Node, error) {
	t.Helper()
	return Parse(tokenize(t, sql))
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParse_FirstTokenNotKeyword(t *testing.T) {
	_, err := parseString(t, "(create table t (a int);")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, "error: expected <statement keyword> found <(>", err.Error())
}

func TestParse_UnknownStatement(t *testing.T) {
	_, err := parseString(t, "update t set a = 1;")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownStatement)
	assert.Equal(t, "undefined query type", err.Error())
}

func TestParse_KeywordsAreCaseSensitive(t *testing.T) {
	_, err := parseString(t, "CREATE TABLE t (a int);")
	require.ErrorIs(t, err, ErrUnknownStatement)
}

func TestParse_CreateTable(t *testing.T) {
	stmt, err := parseString(t, "create table t (a int, b int, c int);")
	require.NoError(t, err)

	s, ok := stmt.(*Create)
	require.True(t, ok, "want *Create, got %T", stmt)

	want := &Create{Table: &TableDefinition{
		Name: "t",
		Columns: []Node{
			&TableColumn{Name: "a", Type: Integer},
			&TableColumn{Name: "b", Type: Integer},
			&TableColumn{Name: "c", Type: Integer},
		},
	}}
	assert.Equal(t, want, s)
}

func TestParse_CreateTable_NColumns(t *testing.T) {
	for n := 1; n <= 8; n++ {
		defs := make([]string, n)
		for i := range defs {
			defs[i] = fmt.Sprintf("c%d whatever", i)
		}
		sql := fmt.Sprintf("create table t (%s);", strings.Join(defs, ", "))

		stmt, err := parseString(t, sql)
		require.NoError(t, err, sql)

		cols := stmt.(*Create).Table.Columns
		require.Len(t, cols, n)
		for i, c := range cols {
			tc := c.(*TableColumn)
			assert.Equal(t, fmt.Sprintf("c%d", i), tc.Name)
			assert.Equal(t, Integer, tc.Type)
			assert.Nil(t, tc.Default)
		}
	}
}

func TestParse_CreateTable_MissingComma(t *testing.T) {
	_, err := parseString(t, "create table t (a int b int);")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSeparator)
	assert.NotErrorIs(t, err, ErrUnexpectedToken)
	assert.Contains(t, err.Error(), "missing ','")
	assert.Contains(t, err.Error(), "expected <,> found <b>")
}

func TestParse_CreateTable_EndBeforeSeparator(t *testing.T) {
	_, err := parseString(t, "create table t (a int")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrematureEnd)
	assert.Equal(t, "parsing error missing ','", err.Error())
}

func TestParse_CreateTable_Errors(t *testing.T) {
	cases := []struct {
		sql  string
		kind *SyntaxError
		msg  string
	}{
		{"create table 1 (a int);", ErrUnexpectedToken, "error: expected <table name> found <1>"},
		{"create table", ErrPrematureEnd, "error: expected <table name>"},
		{"create table t a int);", ErrUnexpectedToken, "error: expected <(> found <a>"},
		{"create table t", ErrPrematureEnd, "error: expected <(>"},
		{"create table t ('a' int);", ErrUnexpectedToken, "error: expected <column name> found <'a'>"},
		{"create table t (a);", ErrUnexpectedToken, "error: expected <column type> found <)>"},
		{"create table t (a int;", ErrUnexpectedToken, "error: expected <)> found <;>"},
		{"create table t (a int)", ErrPrematureEnd, "error: expected <;>"},
		{"create table t (a int) x", ErrUnexpectedToken, "error: expected <;> found <x>"},
	}

	for _, tc := range cases {
		_, err := parseString(t, tc.sql)
		require.Error(t, err, tc.sql)
		assert.ErrorIs(t, err, tc.kind, tc.sql)
		assert.Equal(t, tc.msg, err.Error(), tc.sql)
	}
}

func TestParse_Delete_WithWhere(t *testing.T) {
	stmt, err := parseString(t, "delete from users where id = 42")
	require.NoError(t, err)

	want := &Delete{
		From: &From{Table: "users"},
		Where: &Where{Condition: &Equal{
			Left:  &Identifier{Name: "col"},
			Right: &NumberLiteral{Text: "5"},
		}},
	}
	assert.Equal(t, want, stmt)
}

func TestParse_Delete_NoCondition(t *testing.T) {
	stmt, err := parseString(t, "delete from users")
	require.NoError(t, err)

	d, ok := stmt.(*Delete)
	require.True(t, ok, "want *Delete, got %T", stmt)
	assert.Equal(t, "users", d.From.Table)
	assert.Nil(t, d.Where.Condition)

	stmt, err = parseString(t, "delete from users where")
	require.NoError(t, err)
	assert.Nil(t, stmt.(*Delete).Where.Condition)
}

func TestParse_Delete_BadTable(t *testing.T) {
	_, err := parseString(t, "delete from 12 where a = 1")
	require.ErrorIs(t, err, ErrUnexpectedToken)

	_, err = parseString(t, "delete from")
	require.ErrorIs(t, err, ErrPrematureEnd)
}

func TestParse_Insert(t *testing.T) {
	stmt, err := parseString(t, "insert into users values (1, 'abc', 3);")
	require.NoError(t, err)

	want := &Insert{
		Table: &TableDefinition{Name: "table_name"},
		Values: &Values{Literals: []Node{
			&NumberLiteral{Text: "1"},
			&StringLiteral{Text: "abc"},
			&NumberLiteral{Text: "3"},
		}},
	}
	assert.Equal(t, want, stmt)
}

func TestParse_Insert_WithColumns(t *testing.T) {
	stmt, err := parseString(t, "insert into users (id, name) values (7, 'x');")
	require.NoError(t, err)

	s := stmt.(*Insert)
	assert.Equal(t, "table_name", s.Table.Name)
	assert.Equal(t, []Node{&Column{Name: "id"}, &Column{Name: "name"}}, s.Table.Columns)
	assert.Equal(t, []Node{&NumberLiteral{Text: "7"}, &StringLiteral{Text: "x"}}, s.Values.Literals)
}

func TestParse_Insert_Truncated(t *testing.T) {
	stmt, err := parseString(t, "insert into")
	require.NoError(t, err)

	s := stmt.(*Insert)
	assert.Empty(t, s.Table.Columns)
	assert.Empty(t, s.Values.Literals)
}

func TestParse_Select(t *testing.T) {
	stmt, err := parseString(t, "select col1, col2 from t")
	require.NoError(t, err)

	want := &Select{
		Table:   &TableDefinition{Name: "t"},
		Columns: []*Column{{Name: "col1"}, {Name: "col2"}},
	}
	assert.Equal(t, want, stmt)
}

func TestParse_Select_Errors(t *testing.T) {
	cases := []struct {
		sql  string
		kind *SyntaxError
	}{
		{"select from t", ErrUnexpectedToken},
		{"select a, 1 from t", ErrUnexpectedToken},
		{"select a, b", ErrPrematureEnd},
		{"select a from", ErrPrematureEnd},
		{"select a from 'x'", ErrUnexpectedToken},
		{"select", ErrPrematureEnd},
	}
	for _, tc := range cases {
		_, err := parseString(t, tc.sql)
		require.Error(t, err, tc.sql)
		assert.ErrorIs(t, err, tc.kind, tc.sql)
	}
}

func TestParse_Deterministic(t *testing.T) {
	inputs := []string{
		"create table t (a int, b int);",
		"create table t (a int b int);",
		"select a from t",
		"select from t",
		"insert into t values (1);",
		"delete from t where a = 1",
	}
	for _, in := range inputs {
		n1, err1 := parseString(t, in)
		n2, err2 := parseString(t, in)
		assert.Equal(t, n1, n2, in)
		if err1 != nil {
			require.Error(t, err2, in)
			assert.Equal(t, err1.Error(), err2.Error(), in)
		}
	}
}

func TestParse_MalformedNeverYieldsPartialTree(t *testing.T) {
	inputs := [][]lexer.Token{
		{lexer.Punct(lexer.Semicolon)},
		{lexer.Num("1")},
		{lexer.Ident("create")},
		{lexer.Ident("create"), lexer.Ident("table"), lexer.Punct(lexer.Comma)},
		{lexer.Ident("create"), lexer.Ident("table"), lexer.Ident("t"), lexer.Punct(lexer.LeftParenthesis)},
		{lexer.Ident("create"), lexer.Ident("table"), lexer.Ident("t"), lexer.Punct(lexer.LeftParenthesis), lexer.Punct(lexer.RightParenthesis)},
		{lexer.Ident("delete")},
		{lexer.Ident("delete"), lexer.Ident("from"), lexer.Str("t")},
		{lexer.Ident("select"), lexer.Punct(lexer.LeftParenthesis)},
		{lexer.Ident("select"), lexer.Ident("a"), lexer.Ident("from"), lexer.Num("3")},
		{lexer.Ident("drop"), lexer.Ident("table")},
	}
	for _, in := range inputs {
		var (
			n   Node
			err error
		)
		require.NotPanics(t, func() { n, err = Parse(in) }, "%v", in)
		require.Error(t, err, "%v", in)
		assert.True(t, n == nil, "%v: want nil node, got %T", in, n)

		var se *SyntaxError
		assert.True(t, errors.As(err, &se), "%v: want *SyntaxError, got %T", in, err)
	}
}

func TestParseSQL_NormalizesKeywords(t *testing.T) {
	stmt, err := ParseSQL("SELECT Name FROM Users")
	require.NoError(t, err)

	s := stmt.(*Select)
	assert.Equal(t, "Users", s.Table.Name)
	assert.Equal(t, []*Column{{Name: "Name"}}, s.Columns)
}

func TestParseSQL_LexError(t *testing.T) {
	_, err := ParseSQL("select a from t where a > 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokenize")
}

func TestStream(t *testing.T) {
	s := NewStream([]int{1, 2})

	v, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, _ = s.Next()
	assert.Equal(t, 1, v)
	v, _ = s.Next()
	assert.Equal(t, 2, v)

	_, ok = s.Peek()
	assert.False(t, ok)
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestParseSQL_FailedSelectReturnsNilNode(t *testing.T) {
	for _, sql := range []string{"select from t", "select a, 1 from t", "select a from", "select"} {
		n, err := ParseSQL(sql)
		require.Error(t, err, sql)
		assert.True(t, n == nil, "%q: want nil node, got %T", sql, n)
	}
}
