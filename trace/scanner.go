package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Scanner reads records from a text trace. Lines that do not parse
// are skipped and counted, never surfaced as errors; a partially
// readable trace still produces a run.
type Scanner struct {
	lines   *bufio.Scanner
	skipped uint64
}

// NewScanner creates a scanner that reads trace records from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lines: bufio.NewScanner(r)}
}

// Next returns the next well-formed record in the trace.
func (s *Scanner) Next() (Record, bool) {
	for s.lines.Scan() {
		rec, err := ParseRecord(s.lines.Text())
		if err != nil {
			s.skipped++
			continue
		}

		return rec, true
	}

	return Record{}, false
}

// SkippedLines returns the number of lines that failed to parse so far.
func (s *Scanner) SkippedLines() uint64 {
	return s.skipped
}

// ParseRecord parses one trace line of the form "OP ADDRESS,SIZE", with
// the operation a single character and the address in hexadecimal.
// Operations other than L and S parse as OpOther.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("trace: malformed record %q", line)
	}

	if len(fields[0]) != 1 {
		return Record{}, fmt.Errorf(
			"trace: malformed operation in record %q", line)
	}

	rec := Record{}

	switch fields[0] {
	case "L":
		rec.Op = OpLoad
	case "S":
		rec.Op = OpStore
	default:
		rec.Op = OpOther
	}

	addrSize := strings.SplitN(fields[1], ",", 2)
	if len(addrSize) != 2 {
		return Record{}, fmt.Errorf(
			"trace: missing access size in record %q", line)
	}

	addr, err := strconv.ParseUint(addrSize[0], 16, 64)
	if err != nil {
		return Record{}, fmt.Errorf(
			"trace: malformed address in record %q", line)
	}

	size, err := strconv.ParseInt(addrSize[1], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf(
			"trace: malformed access size in record %q", line)
	}

	rec.Address = addr
	rec.Size = int32(size)

	return rec, nil
}
