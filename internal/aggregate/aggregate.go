// Package aggregate accumulates per-thread, per-function execution
// statistics from completed calls and renders the ranked report printed at
// shutdown.
package aggregate

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/LudovicRousseau/PCSC-devel/internal/decoder"
)

// FunctionStat holds the executions of one function on one thread.
type FunctionStat struct {
	Name         string
	Occurrences  int
	TotalElapsed float64
	Executions   []float64
}

// Aggregator collects CallRecords from all sessions. Record is safe under
// concurrent calls; Report must only run after every session has joined.
type Aggregator struct {
	mu      sync.Mutex
	threads map[string]map[string]*FunctionStat
	order   []string
}

func New() *Aggregator {
	return &Aggregator{threads: make(map[string]map[string]*FunctionStat)}
}

// Record implements decoder.Recorder.
func (a *Aggregator) Record(threadID string, rec decoder.CallRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats, ok := a.threads[threadID]
	if !ok {
		stats = make(map[string]*FunctionStat)
		a.threads[threadID] = stats
		a.order = append(a.order, threadID)
	}
	st, ok := stats[rec.Function]
	if !ok {
		st = &FunctionStat{Name: rec.Function}
		stats[rec.Function] = st
	}
	st.Occurrences++
	st.TotalElapsed += rec.Elapsed
	st.Executions = append(st.Executions, rec.Elapsed)
}

// ThreadStats is one thread's section of the report, ranked by descending
// total elapsed time with stable ties.
type ThreadStats struct {
	ThreadID string
	Stats    []FunctionStat
}

// Report is the final per-thread listing. TotalElapsed is the run's
// wall-clock span, used for the percentage column.
type Report struct {
	TotalElapsed float64
	Threads      []ThreadStats
}

// Report builds the ranked listing. Threads appear in first-sighting
// order; within a thread, functions rank by descending total elapsed time.
func (a *Aggregator) Report(totalElapsed float64) *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := &Report{TotalElapsed: totalElapsed}
	for _, threadID := range a.order {
		stats := a.threads[threadID]
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Strings(names)
		ts := ThreadStats{ThreadID: threadID}
		for _, name := range names {
			ts.Stats = append(ts.Stats, *stats[name])
		}
		sort.SliceStable(ts.Stats, func(i, j int) bool {
			return ts.Stats[i].TotalElapsed > ts.Stats[j].TotalElapsed
		})
		r.Threads = append(r.Threads, ts)
	}
	return r
}

// Render writes one ranked table per thread. With a zero wall-clock span
// the percentage column is undefined and left blank instead of dividing
// by zero.
func (r *Report) Render(w io.Writer) {
	for _, ts := range r.Threads {
		fmt.Fprintf(w, "\nResults for thread %s\n", ts.ThreadID)
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"occurrences", "total time (s)", "%", "function"})
		table.SetAutoFormatHeaders(false)
		for _, st := range ts.Stats {
			percent := ""
			if r.TotalElapsed > 0 {
				percent = strconv.FormatFloat(st.TotalElapsed/r.TotalElapsed*100, 'f', 2, 64)
			}
			table.Append([]string{
				strconv.Itoa(st.Occurrences),
				strconv.FormatFloat(st.TotalElapsed, 'f', 6, 64),
				percent,
				st.Name,
			})
		}
		table.Render()
	}
}
