package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// History keeps executed statements in memory, capped at max entries, and
// mirrors them to a file, one compacted statement per line.
type History struct {
	path  string
	max   int
	lines []string
}

// NewHistory returns an empty history backed by path. max <= 0 disables the
// in-memory cap; the file itself is never truncated.
func NewHistory(path string, max int) *History {
	return &History{path: path, max: max}
}

// push records stmt in memory and returns its compacted form, or "" when
// there is nothing to record.
func (h *History) push(stmt string) string {
	stmt = compactOneLine(stmt)
	if stmt == "" {
		return ""
	}
	h.lines = append(h.lines, stmt)
	if h.max > 0 && len(h.lines) > h.max {
		h.lines = append(h.lines[:0], h.lines[len(h.lines)-h.max:]...)
	}
	return stmt
}

// Load replays the history file into memory. A missing file is not an
// error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}
	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		h.push(line)
	}
	return nil
}

// Append records stmt and appends it to the history file.
func (h *History) Append(stmt string) error {
	stmt = h.push(stmt)
	if stmt == "" || h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, err = fmt.Fprintln(f, stmt)
	return err
}

func (h *History) Lines() []string { return h.lines }

// Print writes the last n entries, numbered from the start of history.
func (h *History) Print(w io.Writer, last int) {
	if last <= 0 || last > len(h.lines) {
		last = len(h.lines)
	}
	for i := len(h.lines) - last; i < len(h.lines); i++ {
		fmt.Fprintf(w, "%5d  %s\n", i+1, h.lines[i])
	}
}

// compactOneLine collapses all whitespace runs into single spaces.
func compactOneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".novaquery_history"
	}
	return filepath.Join(home, ".novaquery_history")
}
