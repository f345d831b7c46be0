package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/gcptr"
)

var (
	statsJSON  bool
	statsCount int
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	cmd.Flags().IntVar(&statsCount, "count", 100, "Number of allocations in the workload")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run a workload on the default context and print registry statistics",
		Long: `The stats command builds and tears down a list of tracked nodes in the
default context, then prints the statistics of every registry.

Example:
  gcinspect stats --count 1000
  gcinspect stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

// node owns a tracked pointer to its successor; disposing it releases the
// rest of the list.
type node struct {
	ID   int
	Next *gcptr.Pointer[node]
}

func (n *node) Dispose() {
	n.Next.Release()
}

func runStats() error {
	head := gcptr.New[node](nil)
	for i := statsCount; i > 0; i-- {
		n := &node{ID: i, Next: head}
		head = gcptr.New(n)
	}
	printVerbose("built list of %d node(s)\n", statsCount)

	buf := gcptr.NewSlice(make([]float64, statsCount))
	for i, v := range buf.All() {
		*v = float64(i) / 2
	}
	buf.Release()
	head.Release()

	stats := gcptr.Default.Stats()
	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	for _, s := range stats {
		printInfo("%-20s records=%d refs=%d constructed=%d freed=%d (arrays %d) sweeps=%d faults=%d\n",
			s.Name, s.Records, s.Refs, s.Constructed, s.Freed(), s.FreedArrays, s.Collections, s.Faults)
	}
	return nil
}
