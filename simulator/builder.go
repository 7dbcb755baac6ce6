package simulator

import (
	"github.com/rs/xid"

	"github.com/sarchlab/csim/addressing"
	"github.com/sarchlab/csim/cache"
	"github.com/sarchlab/csim/datarecording"
	"github.com/sarchlab/csim/monitoring"
)

// Builder can be used to build a simulation run.
type Builder struct {
	setIndexBits    int
	blockOffsetBits int
	associativity   int

	recordingOn    bool
	outputFileName string

	monitorOn   bool
	monitorPort int
	openBrowser bool
}

// MakeBuilder creates a new builder with a 1-set, direct-mapped,
// 1-byte-block geometry, no recording, and no monitoring.
func MakeBuilder() Builder {
	return Builder{
		associativity: 1,
	}
}

// WithSetIndexBits sets the number of set index bits of the cache.
func (b Builder) WithSetIndexBits(setIndexBits int) Builder {
	b.setIndexBits = setIndexBits
	return b
}

// WithBlockOffsetBits sets the number of block offset bits of the
// cache.
func (b Builder) WithBlockOffsetBits(blockOffsetBits int) Builder {
	b.blockOffsetBits = blockOffsetBits
	return b
}

// WithAssociativity sets the number of lines per set.
func (b Builder) WithAssociativity(associativity int) Builder {
	b.associativity = associativity
	return b
}

// WithRecording makes the run record every access and the final report
// into a SQLite database.
func (b Builder) WithRecording() Builder {
	b.recordingOn = true
	return b
}

// WithOutputFileName sets a custom file name for the recording
// database.
func (b Builder) WithOutputFileName(fileName string) Builder {
	b.recordingOn = true
	b.outputFileName = fileName
	return b
}

// WithMonitor makes the run serve live progress and counters over HTTP
// on the given port. Port 0 picks a random port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithBrowser makes the monitor open its dashboard in a browser.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("simulator: monitor options cannot be set " +
			"when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("simulator: output file name cannot be set " +
			"when recording is disabled")
	}
}

// Build builds the simulator. Invalid cache geometries panic here,
// before any trace record is consumed.
func (b Builder) Build() *Simulator {
	b.parametersMustBeValid()

	s := &Simulator{
		id: xid.New().String(),
	}

	s.cache = cache.MakeBuilder().
		WithSetIndexBits(b.setIndexBits).
		WithBlockOffsetBits(b.blockOffsetBits).
		WithAssociativity(b.associativity).
		Build("Cache")

	s.decoder = addressing.Decoder{
		SetIndexBits:    b.setIndexBits,
		BlockOffsetBits: b.blockOffsetBits,
	}

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "csim_run_" + s.id
		}

		s.recorder = datarecording.New(outputPath)
		s.recorder.CreateTable(accessTableName, accessEntry{})
		s.recorder.CreateTable(reportTableName, reportEntry{})
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		if b.openBrowser {
			s.monitor.WithBrowser()
		}

		s.monitor.RegisterCache(s.cache)
		s.monitor.RegisterCounters(s)
		s.monitor.StartServer()
	}

	return s
}
