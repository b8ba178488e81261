package parser

// Stream is a single-pass cursor with one element of lookahead.
type Stream[T any] struct {
	items []T
	pos   int
}

func NewStream[T any](items []T) *Stream[T] {
	return &Stream[T]{items: items}
}

// Next consumes and returns the next element.
func (s *Stream[T]) Next() (T, bool) {
	v, ok := s.Peek()
	if ok {
		s.pos++
	}
	return v, ok
}

// Peek returns the next element without consuming it.
func (s *Stream[T]) Peek() (T, bool) {
	var zero T
	if s.pos >= len(s.items) {
		return zero, false
	}
	return s.items[s.pos], true
}
