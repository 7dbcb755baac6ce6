// csim replays a memory trace through a set-associative, write-back,
// LRU cache model and prints the resulting hit, miss, and eviction
// counts.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/csim/simulator"
	"github.com/sarchlab/csim/trace"
)

var (
	setIndexBits    int
	associativity   int
	blockOffsetBits int
	traceFileName   string
	recordFileName  string
	monitorOn       bool
	monitorPort     int
	openBrowser     bool
)

var rootCmd = &cobra.Command{
	Use:   "csim",
	Short: "csim simulates a set-associative cache over a memory trace.",
	Long: `csim replays a text memory trace (one "OP ADDRESS,SIZE" access per ` +
		`line, addresses in hexadecimal) through a set-associative, ` +
		`write-back cache with LRU replacement, and reports hits, misses, ` +
		`evictions, and dirty-byte totals.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().IntVarP(&setIndexBits, "set-bits", "s", 0,
		"number of set index bits (the cache has 2^s sets)")
	rootCmd.Flags().IntVarP(&associativity, "associativity", "E", 1,
		"number of lines per set")
	rootCmd.Flags().IntVarP(&blockOffsetBits, "block-bits", "b", 0,
		"number of block offset bits (each block holds 2^b bytes)")
	rootCmd.Flags().StringVarP(&traceFileName, "trace", "t", "",
		"path of the trace file to replay")
	rootCmd.Flags().StringVar(&recordFileName, "record", "",
		"record per-access results into a SQLite database")
	rootCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"serve live progress and counters over HTTP")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port of the monitoring server (default random)")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false,
		"open the monitor dashboard in a browser")

	err := rootCmd.MarkFlagRequired("trace")
	if err != nil {
		panic(err)
	}
}

func run(_ *cobra.Command, _ []string) error {
	traceFile, err := os.Open(traceFileName)
	if err != nil {
		return fmt.Errorf("cannot open trace: %w", err)
	}
	defer traceFile.Close()

	b := simulator.MakeBuilder().
		WithSetIndexBits(setIndexBits).
		WithBlockOffsetBits(blockOffsetBits).
		WithAssociativity(associativity)

	if recordFileName != "" {
		b = b.WithOutputFileName(recordFileName)
	}

	if monitorOn {
		b = b.WithMonitor(monitorPortNumber())

		if openBrowser {
			b = b.WithBrowser()
		}
	}

	s := b.Build()

	scanner := trace.NewScanner(traceFile)
	report := s.Run(scanner)

	fmt.Println(report.Summary())

	if skipped := scanner.SkippedLines(); skipped > 0 {
		fmt.Fprintf(os.Stderr,
			"%d malformed trace lines skipped\n", skipped)
	}

	return nil
}

// monitorPortNumber falls back to CSIM_MONITOR_PORT, which can come
// from the environment or a .env file, when no port flag is given.
func monitorPortNumber() int {
	if monitorPort != 0 {
		return monitorPort
	}

	env := os.Getenv("CSIM_MONITOR_PORT")
	if env == "" {
		return 0
	}

	port, err := strconv.Atoi(env)
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"Ignoring invalid CSIM_MONITOR_PORT %q\n", env)
		return 0
	}

	return port
}

func main() {
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
