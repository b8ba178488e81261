package parser

// Node is the root interface for every syntax tree variant. The set is
// closed: only types in this file implement it.
type Node interface {
	node()
}

// Type is a declared column type.
type Type uint8

const (
	Integer Type = iota + 1
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	default:
		return "UNKNOWN"
	}
}

// Condition is a comparison expression used by WHERE.
type Condition interface {
	condition()
}

// Equal compares two nodes, typically an *Identifier and a literal.
type Equal struct {
	Left  Node
	Right Node
}

func (*Equal) condition() {}

// ----- CREATE TABLE -----

type Create struct {
	Table *TableDefinition
}

func (*Create) node() {}

// TableDefinition names a table and, depending on the statement, its
// columns: *TableColumn for CREATE, *Column for INSERT, none for SELECT.
type TableDefinition struct {
	Name    string
	Columns []Node
}

func (*TableDefinition) node() {}

type TableColumn struct {
	Name string
	Type Type
	// Default is reserved; the grammar never sets it.
	Default Node
}

func (*TableColumn) node() {}

// ----- DELETE -----

type Delete struct {
	From  *From
	Where *Where
}

func (*Delete) node() {}

type From struct {
	Table string
}

func (*From) node() {}

// Where holds an optional filter. A nil Condition means no filter.
type Where struct {
	Condition Condition
}

func (*Where) node() {}

// ----- INSERT -----

type Insert struct {
	Table  *TableDefinition
	Values *Values
}

func (*Insert) node() {}

// Values holds *NumberLiteral and *StringLiteral nodes in source order.
type Values struct {
	Literals []Node
}

func (*Values) node() {}

// ----- SELECT -----

type Column struct {
	Name string
}

func (*Column) node() {}

type Select struct {
	Table   *TableDefinition
	Columns []*Column
}

func (*Select) node() {}

// ----- Leaves -----

type Identifier struct {
	Name string
}

func (*Identifier) node() {}

// NumberLiteral keeps the number as written.
type NumberLiteral struct {
	Text string
}

func (*NumberLiteral) node() {}

type StringLiteral struct {
	Text string
}

func (*StringLiteral) node() {}
