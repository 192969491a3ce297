// Package status collects named runtime counters from the frame loop and the
// remote host. Writers cache cell pointers; readers take a Snapshot.
package status

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync/atomic"
)

// Registry groups metric maps by value type
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all maps
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot renders every metric as text keyed by name
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, r.TotalCount())
	r.Bools.Range(func(k string, p *atomic.Bool) {
		out[k] = strconv.FormatBool(p.Load())
	})
	r.Ints.Range(func(k string, p *atomic.Int64) {
		out[k] = strconv.FormatInt(p.Load(), 10)
	})
	r.Floats.Range(func(k string, p *AtomicFloat) {
		out[k] = strconv.FormatFloat(p.Get(), 'f', 2, 64)
	})
	r.Strings.Range(func(k string, p *AtomicString) {
		out[k] = p.Load()
	})
	return out
}

// WriteTo writes one "name=value" line per metric, sorted by name
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	snap := r.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var total int64
	for _, k := range keys {
		n, err := fmt.Fprintf(w, "%s=%s\n", k, snap[k])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
