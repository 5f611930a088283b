// listkit-bench measures the listkit containers under a set of workloads
// and optionally exports the results as Prometheus text.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	workloadPath string
	metricsOut   string
	verbose      bool
	onlyKind     string

	rootCmd = &cobra.Command{
		Use:   "listkit-bench",
		Short: "Benchmark the listkit ArrayList and LinkedList",
		Long: `listkit-bench runs append, insert, remove, lookup, traversal and
sort workloads against both containers and prints a timing table.
Workloads come from a YAML file (--workloads) or a built-in set.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runBench,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&workloadPath, "workloads", "w", "", "YAML workload file (default: built-in set)")
	rootCmd.Flags().StringVarP(&metricsOut, "metrics-out", "m", "", "write results to this Prometheus textfile")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log container debug events to stderr")
	rootCmd.Flags().StringVar(&onlyKind, "kind", "", "run only workloads of this kind")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	log := newLogger(cmd.ErrOrStderr())

	wf := defaultWorkloads()
	if workloadPath != "" {
		var err error
		if wf, err = loadWorkloads(workloadPath); err != nil {
			return err
		}
	}

	runID := uuid.NewString()
	fmt.Fprintln(out, "listkit benchmark")
	fmt.Fprintln(out, "=================")
	fmt.Fprintf(out, "Run ID: %s\n", runID)
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Fprintln(out)

	metrics := newBenchMetrics(runID)
	results := runAll(cmd.Context(), wf, onlyKind, log)
	failed := 0
	for _, r := range results {
		fmt.Fprintln(out, r)
		metrics.record(r)
		if r.Err != nil {
			failed++
		}
	}

	if metricsOut != "" {
		if err := metrics.writeTextfile(metricsOut); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info("metrics written", slog.String("path", metricsOut), slog.String("run_id", runID))
	}
	if failed > 0 {
		return fmt.Errorf("%d workloads failed", failed)
	}
	return nil
}

// runAll runs every selected workload against each of its containers,
// in file order.
func runAll(ctx context.Context, wf WorkloadFile, kind string, log *slog.Logger) []BenchResult {
	if ctx == nil {
		ctx = context.Background()
	}
	rng := rand.New(rand.NewSource(wf.Seed))
	var results []BenchResult
	for _, w := range wf.Workloads {
		if kind != "" && w.Kind != kind {
			continue
		}
		for _, c := range w.containers() {
			log.Debug("workload start", slog.String("name", w.Name), slog.String("container", c))
			results = append(results, runWorkload(ctx, w, c, rng, log))
		}
	}
	return results
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
