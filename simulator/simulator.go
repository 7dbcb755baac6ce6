// Package simulator replays memory traces through a cache model and
// accumulates hit, miss, eviction, and dirty write-back statistics.
package simulator

import (
	"sync"

	"github.com/sarchlab/csim/addressing"
	"github.com/sarchlab/csim/cache"
	"github.com/sarchlab/csim/datarecording"
	"github.com/sarchlab/csim/monitoring"
	"github.com/sarchlab/csim/trace"
)

const (
	accessTableName = "trace_accesses"
	reportTableName = "report"
)

// accessEntry is one simulated access in the recording database.
type accessEntry struct {
	Seq          uint64
	Op           string
	Address      uint64
	SetIndex     uint64
	Tag          uint64
	Outcome      string
	EvictedDirty bool
}

// reportEntry is the final counter row in the recording database.
type reportEntry struct {
	RunID              string
	Hits               uint64
	Misses             uint64
	Evictions          uint64
	DirtyBytes         uint64
	DirtyEvictionBytes uint64
}

// A Simulator drives trace records through a cache, one at a time, and
// owns the counters for the duration of the run.
type Simulator struct {
	id       string
	cache    *cache.Cache
	decoder  addressing.Decoder
	recorder datarecording.DataRecorder
	monitor  *monitoring.Monitor
	progress *monitoring.ProgressBar

	reportLock sync.Mutex
	report     Report
	numRecords uint64
	done       bool
}

// ID returns the unique identifier of this run.
func (s *Simulator) ID() string {
	return s.id
}

// Cache returns the cache the simulator drives.
func (s *Simulator) Cache() *cache.Cache {
	return s.cache
}

// Run consumes src to exhaustion and returns the final counters. The
// dirty bytes still resident in the cache are folded into the report
// only here, at the end of the run, never per access. Run must be
// called exactly once.
func (s *Simulator) Run(src trace.Source) Report {
	if s.done {
		panic("simulator: the run has already completed")
	}

	if s.monitor != nil {
		s.progress = s.monitor.CreateProgressBar(
			"Trace "+s.id, 0)
	}

	for rec, ok := src.Next(); ok; rec, ok = src.Next() {
		s.simulate(rec)
	}

	s.finalize()

	return s.report
}

func (s *Simulator) simulate(rec trace.Record) {
	s.numRecords++

	if s.progress != nil {
		s.progress.IncrementFinished(1)
	}

	if rec.Op != trace.OpLoad && rec.Op != trace.OpStore {
		return
	}

	tag, setIndex, _ := s.decoder.Decode(rec.Address)
	result := s.cache.Access(setIndex, tag, rec.Op == trace.OpStore)

	s.countResult(result)

	if s.recorder != nil {
		s.recorder.InsertData(accessTableName, accessEntry{
			Seq:          s.numRecords,
			Op:           rec.Op.String(),
			Address:      rec.Address,
			SetIndex:     setIndex,
			Tag:          tag,
			Outcome:      result.Outcome.String(),
			EvictedDirty: result.EvictedDirty,
		})
	}
}

func (s *Simulator) countResult(result cache.AccessResult) {
	s.reportLock.Lock()
	defer s.reportLock.Unlock()

	switch result.Outcome {
	case cache.Hit:
		s.report.Hits++
	case cache.MissNoEvict:
		s.report.Misses++
	case cache.MissWithEvict:
		s.report.Misses++
		s.report.Evictions++

		if result.EvictedDirty {
			s.report.DirtyEvictionBytes += s.cache.BlockSize()
		}
	}
}

func (s *Simulator) finalize() {
	s.reportLock.Lock()
	s.report.DirtyBytes = s.cache.DirtyLineCount() * s.cache.BlockSize()
	s.reportLock.Unlock()

	s.done = true

	if s.progress != nil {
		s.monitor.CompleteProgressBar(s.progress)
	}

	if s.recorder != nil {
		s.recorder.InsertData(reportTableName, reportEntry{
			RunID:              s.id,
			Hits:               s.report.Hits,
			Misses:             s.report.Misses,
			Evictions:          s.report.Evictions,
			DirtyBytes:         s.report.DirtyBytes,
			DirtyEvictionBytes: s.report.DirtyEvictionBytes,
		})
		s.recorder.Flush()
	}
}

// Counters exposes the live counter values to the monitor.
func (s *Simulator) Counters() map[string]uint64 {
	s.reportLock.Lock()
	defer s.reportLock.Unlock()

	return map[string]uint64{
		"records":              s.numRecords,
		"hits":                 s.report.Hits,
		"misses":               s.report.Misses,
		"evictions":            s.report.Evictions,
		"dirty_bytes_evicted":  s.report.DirtyEvictionBytes,
		"dirty_bytes_in_cache": s.report.DirtyBytes,
	}
}

var _ monitoring.CounterSource = (*Simulator)(nil)
