package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func TestParseWorkloads(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, wf WorkloadFile)
	}{
		{
			name: "defaults filled in",
			yaml: `
seed: 7
workloads:
  - kind: sort
    size: 100
`,
			check: func(t *testing.T, wf WorkloadFile) {
				assert.Equal(t, int64(7), wf.Seed)
				require.Len(t, wf.Workloads, 1)
				w := wf.Workloads[0]
				assert.Equal(t, "sort", w.Name)
				assert.Equal(t, ContainerBoth, w.Container)
				assert.Equal(t, []string{ContainerArray, ContainerLinked}, w.containers())
			},
		},
		{
			name: "deque runs on linked only",
			yaml: `
workloads:
  - name: queue
    kind: deque
    ops: 10
`,
			check: func(t *testing.T, wf WorkloadFile) {
				assert.Equal(t, []string{ContainerLinked}, wf.Workloads[0].containers())
			},
		},
		{
			name:    "no workloads",
			yaml:    "seed: 1\n",
			wantErr: "no workloads",
		},
		{
			name:    "unknown kind",
			yaml:    "workloads:\n  - kind: shuffle\n",
			wantErr: `unknown kind "shuffle"`,
		},
		{
			name:    "unknown container",
			yaml:    "workloads:\n  - kind: sort\n    container: tree\n",
			wantErr: `unknown container "tree"`,
		},
		{
			name:    "negative size",
			yaml:    "workloads:\n  - kind: sort\n    size: -3\n",
			wantErr: "negative size or ops",
		},
		{
			name:    "deque on array",
			yaml:    "workloads:\n  - kind: deque\n    container: array\n",
			wantErr: "deque needs the linked container",
		},
		{
			name:    "not yaml",
			yaml:    "workloads: [",
			wantErr: "parse workloads",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := parseWorkloads([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, wf)
		})
	}
}

func TestDefaultWorkloadsAreValid(t *testing.T) {
	wf := defaultWorkloads()
	for _, w := range wf.Workloads {
		assert.True(t, knownKinds[w.Kind], w.Name)
		assert.NotEmpty(t, w.containers(), w.Name)
	}
}

func TestRunAll(t *testing.T) {
	wf := WorkloadFile{
		Seed: 3,
		Workloads: []Workload{
			{Name: "append", Kind: KindAppend, Container: ContainerBoth, Ops: 50},
			{Name: "insert", Kind: KindInsertMiddle, Container: ContainerArray, Size: 10, Ops: 20},
			{Name: "remove", Kind: KindRemoveMiddle, Container: ContainerLinked, Size: 30, Ops: 20},
			{Name: "get", Kind: KindRandomGet, Container: ContainerBoth, Size: 10, Ops: 100},
			{Name: "cursor", Kind: KindCursorSweep, Container: ContainerBoth, Size: 100},
			{Name: "split", Kind: KindSplitSweep, Container: ContainerBoth, Size: 100, Workers: 3},
			{Name: "evens", Kind: KindRemoveIf, Container: ContainerBoth, Size: 10},
			{Name: "sort", Kind: KindSort, Container: ContainerBoth, Size: 64},
			{Name: "queue", Kind: KindDeque, Container: ContainerBoth, Ops: 40},
		},
	}
	results := runAll(context.Background(), wf, "", quiet)
	require.Len(t, results, 15)

	byKey := map[string]BenchResult{}
	for _, r := range results {
		require.NoError(t, r.Err, "%s [%s]", r.Name, r.Container)
		byKey[r.Name+"/"+r.Container] = r
	}
	assert.Equal(t, 50, byKey["append/array"].Ops)
	assert.Equal(t, 20, byKey["insert/array"].Ops)
	assert.Equal(t, 100, byKey["cursor/linked"].Ops)
	assert.Equal(t, "sum 4950", byKey["cursor/array"].Extra)
	assert.Equal(t, "sum 4950", byKey["split/linked"].Extra)
	assert.Equal(t, 100, byKey["split/array"].Ops)
	assert.Equal(t, 10, byKey["evens/linked"].Ops)
	assert.Equal(t, 64, byKey["sort/array"].Ops)
	assert.Equal(t, 40, byKey["queue/linked"].Ops)
	assert.True(t, strings.HasPrefix(byKey["get/linked"].Extra, "sum "))

	only := runAll(context.Background(), wf, KindSort, quiet)
	require.Len(t, only, 2)
	assert.Equal(t, "sort", only[0].Name)
}

func TestBenchResultString(t *testing.T) {
	ok := BenchResult{Name: "Sort", Container: "array", Duration: 2 * time.Second, Ops: 10}
	assert.Contains(t, ok.String(), "Sort [array]")
	assert.Contains(t, ok.String(), "(10 ops, 5.00 ops/sec)")

	bad := BenchResult{Name: "Sort", Container: "linked", Err: errors.New("boom")}
	assert.Contains(t, bad.String(), "ERROR: boom")
}

func TestMetricsTextfile(t *testing.T) {
	m := newBenchMetrics("run-1")
	m.record(BenchResult{Name: "Sort", Container: "array", Duration: time.Second, Ops: 100})
	m.record(BenchResult{Name: "Sort", Container: "linked", Err: errors.New("boom")})

	path := filepath.Join(t.TempDir(), "bench.prom")
	require.NoError(t, m.writeTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `listkit_bench_operations{container="array",run_id="run-1",workload="Sort"} 100`)
	assert.Contains(t, text, `listkit_bench_operations_per_second{container="array",run_id="run-1",workload="Sort"} 100`)
	assert.Contains(t, text, `listkit_bench_failures_total{container="linked",run_id="run-1",workload="Sort"} 1`)
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	wl := filepath.Join(dir, "workloads.yaml")
	require.NoError(t, os.WriteFile(wl, []byte("workloads:\n  - kind: append\n    ops: 10\n"), 0644))
	prom := filepath.Join(dir, "out.prom")

	var out, errOut strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--workloads", wl, "--metrics-out", prom})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "listkit benchmark")
	assert.Contains(t, out.String(), "append [array]")
	assert.Contains(t, out.String(), "append [linked]")
	_, err := os.Stat(prom)
	assert.NoError(t, err)
}
