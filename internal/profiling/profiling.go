package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Process-wide accumulator of named wall-clock timings for hot paths.

type entry struct {
	total time.Duration
	count int64
}

var (
	mu     sync.Mutex
	totals = make(map[string]*entry)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("world.buildChunk")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := totals[name]
		if e == nil {
			e = &entry{}
			totals[name] = e
		}
		e.total += d
		e.count++
		mu.Unlock()
	}
}

// Reset clears all accumulated totals.
func Reset() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Stat is one accumulated timer.
type Stat struct {
	Name  string
	Total time.Duration
	Count int64
}

// Mean is the average duration per tracked call.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot returns all timers ordered by descending total.
func Snapshot() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(totals))
	for k, e := range totals {
		out = append(out, Stat{Name: k, Total: e.total, Count: e.count})
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Name < out[j].Name
		}
		return out[i].Total > out[j].Total
	})
	return out
}

// TopN formats the n largest totals.
// Example: "world.buildChunk:42.1ms/64, meshing.extract:12ms/64"
func TopN(n int) string {
	list := Snapshot()
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, s := range list[:n] {
		parts = append(parts, s.Name+":"+formatMs(s.Total)+"/"+strconv.FormatInt(s.Count, 10))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing .0.
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	return strconv.FormatFloat(float64(int64(ms*10))/10, 'f', -1, 64) + "ms"
}
