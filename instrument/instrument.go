/*
Package instrument implements named operation counters used to measure how
often an algorithm touches pixel memory.

A nil *Counter is valid and discards everything added to it, so code can be
instrumented unconditionally.
*/
package instrument

import (
	"fmt"
	"io"
	"sort"
	"sync/atomic"
)

// PixMem is the conventional name of the counter tracking pixel array
// accesses.
const PixMem = "pixmem"

// Counter is a named, monotonically increasing counter.
type Counter struct {
	name string
	n    atomic.Uint64
}

// New returns a zeroed counter with the given name.
func New(name string) *Counter {
	return &Counter{name: name}
}

// Name returns the counter name.
func (c *Counter) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Add increments the counter by n.
func (c *Counter) Add(n uint64) {
	if c == nil {
		return
	}
	c.n.Add(n)
}

// Value returns the current count.
func (c *Counter) Value() uint64 {
	if c == nil {
		return 0
	}
	return c.n.Load()
}

// Reset sets the counter back to zero.
func (c *Counter) Reset() {
	if c == nil {
		return
	}
	c.n.Store(0)
}

// Set is a group of counters that are reset and reported together.
type Set struct {
	counters map[string]*Counter
}

// NewSet returns a set holding a fresh counter for each name.
func NewSet(names ...string) *Set {
	s := &Set{counters: make(map[string]*Counter, len(names))}
	for _, name := range names {
		s.counters[name] = New(name)
	}
	return s
}

// Get returns the named counter, or nil if the set doesn't hold it.
func (s *Set) Get(name string) *Counter {
	return s.counters[name]
}

// Reset zeroes every counter in the set.
func (s *Set) Reset() {
	for _, c := range s.counters {
		c.Reset()
	}
}

// Snapshot returns the current value of every counter.
func (s *Set) Snapshot() map[string]uint64 {
	m := make(map[string]uint64, len(s.counters))
	for name, c := range s.counters {
		m[name] = c.Value()
	}
	return m
}

// Print writes one "name value" line per counter, sorted by name.
func (s *Set) Print(w io.Writer) error {
	names := make([]string, 0, len(s.counters))
	for name := range s.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%-12s %d\n", name, s.counters[name].Value()); err != nil {
			return err
		}
	}
	return nil
}
