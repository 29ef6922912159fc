// Package history keeps the back/forward history of rendered search pages.
//
// Stack is an in-memory history for a single process. Store persists tabs
// of history in sqlite so that separate CLI runs can keep paging and going
// back and forward through the same search.
package history

import (
	"errors"
	"sync"

	"github.com/rubiojr/letterpress/pkg/search"
)

var ErrNoEntry = errors.New("no history entry")

// Entry is one history entry.
type Entry struct {
	Index    int
	URL      string
	Snapshot search.Snapshot
}

// Stack is an in-memory browser-like history. Push drops the forward
// entries; Replace overwrites the current one.
type Stack struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
}

func NewStack() *Stack {
	return &Stack{pos: -1}
}

func (s *Stack) Push(snap search.Snapshot, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries[:s.pos+1], Entry{Index: s.pos + 1, URL: url, Snapshot: snap})
	s.pos++
	return nil
}

// Replace overwrites the current entry, or adds the first one.
func (s *Stack) Replace(snap search.Snapshot, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < 0 {
		s.entries = []Entry{{Index: 0, URL: url, Snapshot: snap}}
		s.pos = 0
		return nil
	}
	s.entries[s.pos] = Entry{Index: s.pos, URL: url, Snapshot: snap}
	return nil
}

func (s *Stack) Current() (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < 0 {
		return Entry{}, ErrNoEntry
	}
	return s.entries[s.pos], nil
}

func (s *Stack) Back() (Entry, error) {
	return s.move(-1)
}

func (s *Stack) Forward() (Entry, error) {
	return s.move(1)
}

func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Stack) move(delta int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.pos + delta
	if s.pos < 0 || target < 0 || target >= len(s.entries) {
		return Entry{}, ErrNoEntry
	}
	s.pos = target
	return s.entries[s.pos], nil
}

var _ search.History = (*Stack)(nil)
