package cache

// A Line is one cache slot within a set, holding validity, the dirty
// flag, and the tag of the memory block it caches.
type Line struct {
	Valid bool
	Dirty bool
	Tag   uint64
}

// A Set is one associative bucket of the cache. Resident lines are kept
// in recency order, most recently used first, so the replacement victim
// is always the last line.
type Set struct {
	lines    []Line
	capacity int
}

func newSet(associativity int) Set {
	return Set{
		lines:    make([]Line, 0, associativity),
		capacity: associativity,
	}
}

// Find returns the position of the valid resident line holding tag.
func (s *Set) Find(tag uint64) (pos int, found bool) {
	for i := range s.lines {
		if s.lines[i].Valid && s.lines[i].Tag == tag {
			return i, true
		}
	}

	return 0, false
}

// Promote moves the line at pos to the most-recently-used position. The
// relative order of all other lines is preserved.
func (s *Set) Promote(pos int) {
	if pos == 0 {
		return
	}

	promoted := s.lines[pos]
	copy(s.lines[1:pos+1], s.lines[:pos])
	s.lines[0] = promoted
}

// InsertMRU places line at the most-recently-used position. The caller
// must evict first if the set is full.
func (s *Set) InsertMRU(line Line) {
	if len(s.lines) == s.capacity {
		panic("cache: inserting into a full set")
	}

	s.lines = append(s.lines, Line{})
	copy(s.lines[1:], s.lines[:len(s.lines)-1])
	s.lines[0] = line
}

// EvictLRU removes and returns the least-recently-used line. It must
// not be called on an empty set.
func (s *Set) EvictLRU() Line {
	if len(s.lines) == 0 {
		panic("cache: evicting from an empty set")
	}

	victim := s.lines[len(s.lines)-1]
	s.lines = s.lines[:len(s.lines)-1]

	return victim
}

// Len returns the number of resident lines.
func (s *Set) Len() int {
	return len(s.lines)
}

// IsFull returns true when the set holds as many lines as its
// associativity allows.
func (s *Set) IsFull() bool {
	return len(s.lines) == s.capacity
}

// Lines returns the resident lines in recency order, most recently used
// first. The returned slice is owned by the set and must not be
// modified.
func (s *Set) Lines() []Line {
	return s.lines
}
