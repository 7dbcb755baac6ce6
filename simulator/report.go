package simulator

import "fmt"

// A Report holds the final counters of one run. The dirty byte totals
// are dirty line and dirty eviction counts multiplied by the block
// size.
type Report struct {
	Hits               uint64
	Misses             uint64
	Evictions          uint64
	DirtyBytes         uint64
	DirtyEvictionBytes uint64
}

// Summary formats the report as a single summary line.
func (r Report) Summary() string {
	return fmt.Sprintf(
		"hits:%d misses:%d evictions:%d "+
			"dirty_bytes_in_cache:%d dirty_bytes_evicted:%d",
		r.Hits, r.Misses, r.Evictions,
		r.DirtyBytes, r.DirtyEvictionBytes)
}
