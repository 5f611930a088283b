package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Workload kinds
const (
	KindAppend       = "append"
	KindInsertMiddle = "insert-middle"
	KindRemoveMiddle = "remove-middle"
	KindRandomGet    = "random-get"
	KindCursorSweep  = "cursor-sweep"
	KindSplitSweep   = "split-sweep"
	KindRemoveIf     = "remove-if"
	KindSort         = "sort"
	KindDeque        = "deque"
)

// Containers a workload can target.
const (
	ContainerArray  = "array"
	ContainerLinked = "linked"
	ContainerBoth   = "both"
)

// Workload describes one benchmark: what to do, to which container, and
// how big the list is before the timed part starts.
type Workload struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Container string `yaml:"container"`
	Size      int    `yaml:"size"`
	Ops       int    `yaml:"ops"`
	Workers   int    `yaml:"workers"`
}

// WorkloadFile is the top level of a YAML workload file.
type WorkloadFile struct {
	Seed      int64      `yaml:"seed"`
	Workloads []Workload `yaml:"workloads"`
}

var knownKinds = map[string]bool{
	KindAppend:       true,
	KindInsertMiddle: true,
	KindRemoveMiddle: true,
	KindRandomGet:    true,
	KindCursorSweep:  true,
	KindSplitSweep:   true,
	KindRemoveIf:     true,
	KindSort:         true,
	KindDeque:        true,
}

// defaultWorkloads is used when no workload file is given.
func defaultWorkloads() WorkloadFile {
	return WorkloadFile{
		Seed: 1,
		Workloads: []Workload{
			{Name: "Append", Kind: KindAppend, Container: ContainerBoth, Ops: 1_000_000},
			{Name: "Insert middle", Kind: KindInsertMiddle, Container: ContainerBoth, Size: 10_000, Ops: 10_000},
			{Name: "Remove middle", Kind: KindRemoveMiddle, Container: ContainerBoth, Size: 20_000, Ops: 10_000},
			{Name: "Random get", Kind: KindRandomGet, Container: ContainerBoth, Size: 10_000, Ops: 100_000},
			{Name: "Cursor sweep", Kind: KindCursorSweep, Container: ContainerBoth, Size: 1_000_000},
			{Name: "Split sweep", Kind: KindSplitSweep, Container: ContainerBoth, Size: 1_000_000},
			{Name: "Remove if (even)", Kind: KindRemoveIf, Container: ContainerBoth, Size: 1_000_000},
			{Name: "Sort", Kind: KindSort, Container: ContainerBoth, Size: 200_000},
			{Name: "Deque push/poll", Kind: KindDeque, Container: ContainerLinked, Ops: 1_000_000},
		},
	}
}

// loadWorkloads reads a workload file. Missing fields get defaults.
func loadWorkloads(path string) (WorkloadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorkloadFile{}, fmt.Errorf("read workloads: %w", err)
	}
	return parseWorkloads(data)
}

func parseWorkloads(data []byte) (WorkloadFile, error) {
	var wf WorkloadFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return WorkloadFile{}, fmt.Errorf("parse workloads: %w", err)
	}
	if len(wf.Workloads) == 0 {
		return WorkloadFile{}, errors.New("parse workloads: no workloads")
	}
	for i := range wf.Workloads {
		w := &wf.Workloads[i]
		if !knownKinds[w.Kind] {
			return WorkloadFile{}, fmt.Errorf("workload %d: unknown kind %q", i, w.Kind)
		}
		if w.Name == "" {
			w.Name = w.Kind
		}
		switch w.Container {
		case "":
			w.Container = ContainerBoth
		case ContainerArray, ContainerLinked, ContainerBoth:
		default:
			return WorkloadFile{}, fmt.Errorf("workload %q: unknown container %q", w.Name, w.Container)
		}
		if w.Size < 0 || w.Ops < 0 {
			return WorkloadFile{}, fmt.Errorf("workload %q: negative size or ops", w.Name)
		}
		if w.Kind == KindDeque && w.Container == ContainerArray {
			return WorkloadFile{}, fmt.Errorf("workload %q: deque needs the linked container", w.Name)
		}
	}
	return wf, nil
}

// containers expands a workload's container field.
func (w Workload) containers() []string {
	switch w.Container {
	case ContainerArray:
		return []string{ContainerArray}
	case ContainerLinked:
		return []string{ContainerLinked}
	}
	if w.Kind == KindDeque {
		return []string{ContainerLinked}
	}
	return []string{ContainerArray, ContainerLinked}
}
