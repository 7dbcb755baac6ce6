// Package trace reads memory traces in the valgrind lackey text format,
// one access per line, e.g. "L 7ff0,8" or " S 10,1".
package trace

// An Op is the operation code of one trace record.
type Op int

// The operation codes a trace can carry. OpOther covers records the
// simulator accepts but does not count, such as instruction loads.
const (
	OpOther Op = iota
	OpLoad
	OpStore
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "L"
	case OpStore:
		return "S"
	default:
		return "other"
	}
}

// A Record is one memory access read from a trace.
type Record struct {
	Op      Op
	Address uint64
	Size    int32
}

// A Source produces trace records one at a time. A source is finite and
// cannot be restarted.
type Source interface {
	// Next returns the next record. The second return value is false
	// when the trace is exhausted.
	Next() (Record, bool)
}
