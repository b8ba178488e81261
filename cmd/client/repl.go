package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tuannm99/novaquery/internal/datamanager"
	"github.com/tuannm99/novaquery/internal/sql/executor"
)

const (
	prompt     = "novaquery> "
	contPrompt = "...> "
)

const helpText = `meta commands:
  \q | quit | exit       quit
  \history               print history
  \tables                list tables (--local only)
  \row <table> <n>       print row n of table, counted from 0 (--local only)
  \help                  show help

sql:
  create table <t> (<col> <type>, ...);
  insert into <t> [(<col>, ...)] values (<lit>, ...);
  select <col>, ... from <t>
  delete from <t> [where ...]
  a statement runs once it contains ';' outside quotes, or on an empty line`

var errColor = color.New(color.FgHiRed)

// execer runs one statement; implemented by the remote client and the
// embedded executor.
type execer interface {
	Exec(sql string) (*executor.Result, error)
}

// catalog exposes the embedded store to meta commands.
type catalog interface {
	Tables() []string
	Row(table string, id int) (*executor.Result, bool)
}

type localExec struct {
	dm *datamanager.Manager
	ex *executor.Executor
}

func newLocalExec(cacheSize int) localExec {
	dm := datamanager.New()
	return localExec{dm: dm, ex: executor.NewExecutor(dm, cacheSize)}
}

func (l localExec) Exec(sql string) (*executor.Result, error) { return l.ex.ExecSQL(sql) }

func (l localExec) Tables() []string { return l.dm.Tables() }

// Row returns row id of table as a one-row result.
func (l localExec) Row(table string, id int) (*executor.Result, bool) {
	cols, ok := l.dm.Columns(table)
	if !ok {
		return nil, false
	}
	row, ok := l.dm.RowFrom(table, id)
	if !ok {
		return nil, false
	}
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &executor.Result{Columns: cols, Rows: [][]any{cells}, AffectedRows: 1}, true
}

// runMeta handles one meta command and reports whether the REPL should
// exit.
func runMeta(w io.Writer, line string, ex execer, h *History) bool {
	args := strings.Fields(line)
	switch args[0] {
	case "\\q", "quit", "exit":
		return true
	case "\\help":
		fmt.Fprintln(w, helpText)
	case "\\history":
		h.Print(w, 50)
	case "\\tables", "\\row":
		cat, ok := ex.(catalog)
		if !ok {
			printError(w, fmt.Errorf("%s requires --local", args[0]))
			return false
		}
		if args[0] == "\\tables" {
			printTables(w, cat.Tables())
			return false
		}
		printRow(w, cat, args[1:])
	default:
		printError(w, fmt.Errorf("unknown command: %s", line))
	}
	return false
}

func printTables(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "(no tables)")
		return
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}

func printRow(w io.Writer, cat catalog, args []string) {
	if len(args) != 2 {
		printError(w, errors.New("usage: \\row <table> <n>"))
		return
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		printError(w, fmt.Errorf("bad row number %q", args[1]))
		return
	}
	res, ok := cat.Row(args[0], id)
	if !ok {
		printError(w, fmt.Errorf("no row %d in %q", id, args[0]))
		return
	}
	printResult(w, res)
}

// statementComplete reports whether buf holds a ';' outside single quotes.
func statementComplete(buf string) bool {
	inQuote := false
	for _, r := range buf {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == ';' && !inQuote:
			return true
		}
	}
	return false
}

func isMetaCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "\\") || line == "quit" || line == "exit"
}

// printError prints err with a single "error: " prefix; parser messages
// already carry one.
func printError(w io.Writer, err error) {
	errColor.Fprintf(w, "error: %s\n", strings.TrimPrefix(err.Error(), "error: "))
}

func printResult(w io.Writer, res *executor.Result) {
	if res == nil {
		return
	}
	if len(res.Columns) == 0 {
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
			return
		}
		fmt.Fprintf(w, "OK (%d affected)\n", res.AffectedRows)
		return
	}

	cols := res.Columns
	cells := make([][]string, len(res.Rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for r, row := range res.Rows {
		cells[r] = make([]string, len(cols))
		for i := range cols {
			s := "NULL"
			if i < len(row) && row[i] != nil {
				s = fmt.Sprintf("%v", row[i])
			}
			cells[r][i] = s
			widths[i] = max(widths[i], len(s))
		}
	}

	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprint(w, padRight(values[i], widths[i]))
		}
		fmt.Fprintln(w)
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w)
	for _, row := range cells {
		printRow(row)
	}

	fmt.Fprintf(w, "(%d rows)\n", res.AffectedRows)
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
