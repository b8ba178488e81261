package executor

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/tuannm99/novaquery/internal/datamanager"
	"github.com/tuannm99/novaquery/internal/sql/parser"
)

// tableStore is a small seam for unit-testing Executor without a real
// data manager.
type tableStore interface {
	CreateTable(name string, columns []string) error
	SaveTo(name string, row []string) error
	Range(name string, from, n int) ([][]string, bool)
	Columns(name string) ([]string, bool)
	DeleteWhere(name string, pred func(columns, row []string) bool) (int, error)
}

// Executor runs parsed statements against a table store.
type Executor struct {
	Store tableStore

	// statement cache keyed by SQL text; nil when disabled.
	mu    sync.Mutex
	cache *lru.Cache

	// for unit-test: inject parse behavior
	parseFn func(sql string) (parser.Node, error)
}

// NewExecutor returns an executor over dm. cacheSize <= 0 disables the
// parsed statement cache.
func NewExecutor(dm *datamanager.Manager, cacheSize int) *Executor {
	return newExecutor(dm, cacheSize)
}

// NewExecutorForTest allows injecting a fake store.
func NewExecutorForTest(store tableStore, cacheSize int) *Executor {
	return newExecutor(store, cacheSize)
}

func newExecutor(store tableStore, cacheSize int) *Executor {
	ex := &Executor{Store: store, parseFn: parser.ParseSQL}
	if cacheSize > 0 {
		ex.cache = lru.New(cacheSize)
	}
	return ex
}

// ExecSQL is the top-level entry: SQL string -> Result.
func (e *Executor) ExecSQL(sql string) (*Result, error) {
	node, err := e.parse(sql)
	if err != nil {
		return nil, err
	}
	return e.Exec(node)
}

func (e *Executor) parse(sql string) (parser.Node, error) {
	if e.cache != nil {
		e.mu.Lock()
		v, ok := e.cache.Get(sql)
		e.mu.Unlock()
		if ok {
			return v.(parser.Node), nil
		}
	}

	node, err := e.parseFn(sql)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.mu.Lock()
		e.cache.Add(sql, node)
		e.mu.Unlock()
	}
	return node, nil
}

// Exec runs an already parsed statement.
func (e *Executor) Exec(node parser.Node) (*Result, error) {
	switch n := node.(type) {
	case *parser.Create:
		return e.execCreate(n)
	case *parser.Insert:
		return e.execInsert(n)
	case *parser.Select:
		return e.execSelect(n)
	case *parser.Delete:
		return e.execDelete(n)
	default:
		return nil, fmt.Errorf("executor: unsupported statement %T", node)
	}
}

func (e *Executor) execCreate(n *parser.Create) (*Result, error) {
	cols := make([]string, 0, len(n.Table.Columns))
	for _, c := range n.Table.Columns {
		tc, ok := c.(*parser.TableColumn)
		if !ok {
			return nil, fmt.Errorf("executor: unexpected column node %T", c)
		}
		cols = append(cols, tc.Name)
	}

	if err := e.Store.CreateTable(n.Table.Name, cols); err != nil {
		return nil, err
	}
	slog.Debug("executor: table created", "table", n.Table.Name, "columns", len(cols))
	return &Result{Message: fmt.Sprintf("'%s' was created", n.Table.Name)}, nil
}

func (e *Executor) execInsert(n *parser.Insert) (*Result, error) {
	name := n.Table.Name
	cols, ok := e.Store.Columns(name)
	if !ok {
		return nil, fmt.Errorf("executor: table %q not found", name)
	}

	values := make([]string, 0, len(n.Values.Literals))
	for _, lit := range n.Values.Literals {
		v, err := literalText(lit)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	row, err := arrangeRow(cols, n.Table.Columns, values)
	if err != nil {
		return nil, err
	}

	if err := e.Store.SaveTo(name, row); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: 1, Message: fmt.Sprintf("1 row inserted into '%s'", name)}, nil
}

// arrangeRow orders values by the table's columns. With no explicit
// column list the values must cover every column; otherwise unnamed
// columns are left empty.
func arrangeRow(tableCols []string, named []parser.Node, values []string) ([]string, error) {
	if len(named) == 0 {
		if len(values) != len(tableCols) {
			return nil, fmt.Errorf("executor: expected %d values, got %d", len(tableCols), len(values))
		}
		return values, nil
	}

	if len(named) != len(values) {
		return nil, fmt.Errorf("executor: %d columns but %d values", len(named), len(values))
	}

	row := make([]string, len(tableCols))
	seen := make([]bool, len(tableCols))
	for i, node := range named {
		c, ok := node.(*parser.Column)
		if !ok {
			return nil, fmt.Errorf("executor: unexpected column node %T", node)
		}
		idx := indexOf(tableCols, c.Name)
		if idx < 0 {
			return nil, fmt.Errorf("executor: unknown column %q", c.Name)
		}
		if seen[idx] {
			return nil, fmt.Errorf("executor: column %q specified more than once", c.Name)
		}
		seen[idx] = true
		row[idx] = values[i]
	}
	return row, nil
}

func (e *Executor) execSelect(n *parser.Select) (*Result, error) {
	name := n.Table.Name
	cols, ok := e.Store.Columns(name)
	if !ok {
		return nil, fmt.Errorf("executor: table %q not found", name)
	}

	var (
		proj  []int
		names []string
	)
	for _, c := range n.Columns {
		if c.Name == "*" {
			for i, cn := range cols {
				proj = append(proj, i)
				names = append(names, cn)
			}
			continue
		}
		idx := indexOf(cols, c.Name)
		if idx < 0 {
			return nil, fmt.Errorf("executor: unknown column %q", c.Name)
		}
		proj = append(proj, idx)
		names = append(names, c.Name)
	}

	rows, _ := e.Store.Range(name, 0, -1)

	res := &Result{Columns: names}
	for _, r := range rows {
		out := make([]any, len(proj))
		for i, idx := range proj {
			out[i] = r[idx]
		}
		res.Rows = append(res.Rows, out)
	}
	res.AffectedRows = int64(len(res.Rows))
	return res, nil
}

func (e *Executor) execDelete(n *parser.Delete) (*Result, error) {
	name := n.From.Table
	cols, ok := e.Store.Columns(name)
	if !ok {
		return nil, fmt.Errorf("executor: table %q not found", name)
	}

	var pred func(columns, row []string) bool
	if n.Where != nil && n.Where.Condition != nil {
		p, err := buildPredicate(cols, n.Where.Condition)
		if err != nil {
			return nil, err
		}
		pred = p
	}

	removed, err := e.Store.DeleteWhere(name, pred)
	if err != nil {
		return nil, err
	}
	return &Result{
		AffectedRows: int64(removed),
		Message:      fmt.Sprintf("%d rows deleted from '%s'", removed, name),
	}, nil
}

func buildPredicate(cols []string, cond parser.Condition) (func(columns, row []string) bool, error) {
	eq, ok := cond.(*parser.Equal)
	if !ok {
		return nil, fmt.Errorf("executor: unsupported condition %T", cond)
	}

	id, ok := eq.Left.(*parser.Identifier)
	if !ok {
		return nil, fmt.Errorf("executor: left side of '=' must be a column, got %T", eq.Left)
	}
	idx := indexOf(cols, id.Name)
	if idx < 0 {
		return nil, fmt.Errorf("executor: unknown column %q", id.Name)
	}

	want, err := literalText(eq.Right)
	if err != nil {
		return nil, err
	}

	return func(_, row []string) bool {
		return idx < len(row) && row[idx] == want
	}, nil
}

func literalText(n parser.Node) (string, error) {
	switch v := n.(type) {
	case *parser.NumberLiteral:
		return v.Text, nil
	case *parser.StringLiteral:
		return v.Text, nil
	default:
		return "", fmt.Errorf("executor: expected literal, got %T", n)
	}
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}
