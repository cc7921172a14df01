package lineset

import (
	"encoding/json"
	"errors"
)

var (
	// ErrQuantityFloor is returned when a quantity below 1 is requested.
	// Callers that want a line gone must use Remove.
	ErrQuantityFloor = errors.New("quantity must be at least 1")
)

// Line is a single keyed entry carrying a quantity. WithQuantity returns a
// copy with the quantity replaced, which lets lines recompute derived fields
// (an order line recomputes its total there).
type Line[ID comparable, T any] interface {
	LineID() ID
	LineQuantity() int
	WithQuantity(n int) T
}

// Set is an ordered collection of lines keyed by identity. Iteration follows
// insertion order; lookups go through an index map.
type Set[ID comparable, T Line[ID, T]] struct {
	lines []T
	index map[ID]int
}

func New[ID comparable, T Line[ID, T]]() *Set[ID, T] {
	return &Set[ID, T]{index: make(map[ID]int)}
}

// UpsertIncrement inserts the line with quantity forced to 1, or increments
// the existing entry by 1. On increment every other field of the input is
// ignored: the first insertion wins.
func (s *Set[ID, T]) UpsertIncrement(line T) {
	id := line.LineID()
	if pos, ok := s.index[id]; ok {
		existing := s.lines[pos]
		s.lines[pos] = existing.WithQuantity(existing.LineQuantity() + 1)
		return
	}
	s.index[id] = len(s.lines)
	s.lines = append(s.lines, line.WithQuantity(1))
}

// Increment adds 1 to the quantity of an existing entry. Unknown ids are a
// no-op.
func (s *Set[ID, T]) Increment(id ID) {
	if pos, ok := s.index[id]; ok {
		line := s.lines[pos]
		s.lines[pos] = line.WithQuantity(line.LineQuantity() + 1)
	}
}

// DecrementOrRemove subtracts 1 from the quantity, removing the entry
// entirely when the quantity would fall below 1. Unknown ids are a no-op.
func (s *Set[ID, T]) DecrementOrRemove(id ID) {
	pos, ok := s.index[id]
	if !ok {
		return
	}
	line := s.lines[pos]
	if line.LineQuantity() > 1 {
		s.lines[pos] = line.WithQuantity(line.LineQuantity() - 1)
		return
	}
	s.removeAt(id, pos)
}

// Remove deletes the entry if present.
func (s *Set[ID, T]) Remove(id ID) {
	if pos, ok := s.index[id]; ok {
		s.removeAt(id, pos)
	}
}

// SetQuantity replaces the quantity of an existing entry. Values below 1 are
// rejected with ErrQuantityFloor and leave the set untouched; unknown ids
// are a no-op.
func (s *Set[ID, T]) SetQuantity(id ID, n int) error {
	if n < 1 {
		return ErrQuantityFloor
	}
	if pos, ok := s.index[id]; ok {
		s.lines[pos] = s.lines[pos].WithQuantity(n)
	}
	return nil
}

// Get returns the stored line for an id.
func (s *Set[ID, T]) Get(id ID) (T, bool) {
	if pos, ok := s.index[id]; ok {
		return s.lines[pos], true
	}
	var zero T
	return zero, false
}

// Len returns the number of distinct lines.
func (s *Set[ID, T]) Len() int {
	return len(s.lines)
}

// Lines returns the lines in insertion order. The slice is a copy; mutating
// it does not affect the set.
func (s *Set[ID, T]) Lines() []T {
	out := make([]T, len(s.lines))
	copy(out, s.lines)
	return out
}

// Clear removes every line.
func (s *Set[ID, T]) Clear() {
	s.lines = nil
	s.index = make(map[ID]int)
}

func (s *Set[ID, T]) removeAt(id ID, pos int) {
	s.lines = append(s.lines[:pos], s.lines[pos+1:]...)
	delete(s.index, id)
	// Entries after the removed position shifted left by one.
	for i := pos; i < len(s.lines); i++ {
		s.index[s.lines[i].LineID()] = i
	}
}

// MarshalJSON encodes the set as the ordered array of lines.
func (s *Set[ID, T]) MarshalJSON() ([]byte, error) {
	if s.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.lines)
}

// UnmarshalJSON restores the set from an array of lines, rebuilding the
// index.
func (s *Set[ID, T]) UnmarshalJSON(data []byte) error {
	var lines []T
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	s.lines = lines
	s.index = make(map[ID]int, len(lines))
	for i, line := range lines {
		s.index[line.LineID()] = i
	}
	return nil
}
