// Package cache implements a set-associative cache model with LRU
// replacement and write-back dirty tracking.
package cache

// Outcome describes how one access was served.
type Outcome int

// The possible outcomes of an access.
const (
	Hit Outcome = iota
	MissNoEvict
	MissWithEvict
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case MissNoEvict:
		return "miss"
	case MissWithEvict:
		return "miss+eviction"
	default:
		return "unknown"
	}
}

// An AccessResult reports how one access was served and whether a dirty
// line had to be written back to make room.
type AccessResult struct {
	Outcome      Outcome
	EvictedDirty bool
}

// A Cache is a fixed array of independent LRU sets. Its geometry is
// immutable after construction.
type Cache struct {
	name string
	sets []Set

	setIndexBits    int
	blockOffsetBits int
	associativity   int
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// NumSets returns the number of sets in the cache.
func (c *Cache) NumSets() int {
	return len(c.sets)
}

// Associativity returns the number of lines per set.
func (c *Cache) Associativity() int {
	return c.associativity
}

// SetIndexBits returns the number of address bits that select a set.
func (c *Cache) SetIndexBits() int {
	return c.setIndexBits
}

// BlockOffsetBits returns the number of address bits that select a byte
// within a block.
func (c *Cache) BlockOffsetBits() int {
	return c.blockOffsetBits
}

// BlockSize returns the number of bytes per cache block.
func (c *Cache) BlockSize() uint64 {
	return uint64(1) << uint(c.blockOffsetBits)
}

// Set returns the set at the given index.
func (c *Cache) Set(index uint64) *Set {
	return &c.sets[index]
}

// Access serves one load or store that maps to the set at setIndex with
// the given tag.
//
// A hit promotes the line to most-recently-used and, on a store, marks
// it dirty. A dirty flag is never cleared by a later load; only
// eviction removes it. A miss allocates a new most-recently-used line,
// evicting the least-recently-used line first when the set is full.
func (c *Cache) Access(setIndex, tag uint64, isWrite bool) AccessResult {
	set := &c.sets[setIndex]

	if pos, found := set.Find(tag); found {
		if isWrite {
			set.lines[pos].Dirty = true
		}

		set.Promote(pos)

		return AccessResult{Outcome: Hit}
	}

	result := AccessResult{Outcome: MissNoEvict}
	if set.IsFull() {
		victim := set.EvictLRU()
		result.Outcome = MissWithEvict
		result.EvictedDirty = victim.Dirty
	}

	set.InsertMRU(Line{Valid: true, Dirty: isWrite, Tag: tag})

	return result
}

// DirtyLineCount counts the lines still resident in the cache with the
// dirty flag set. It supports the end-of-run write-back accounting and
// does not modify the cache.
func (c *Cache) DirtyLineCount() uint64 {
	count := uint64(0)

	for i := range c.sets {
		for _, line := range c.sets[i].lines {
			if line.Valid && line.Dirty {
				count++
			}
		}
	}

	return count
}
