package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	started      time.Time
	requestCount map[metricKey]int64
	errorCount   map[metricKey]int64
	latency      map[metricKey]time.Duration
}

// Counter is one row of a metrics snapshot.
type Counter struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
	// AvgLatencyMs is only set for request counters.
	AvgLatencyMs float64 `json:"avg_latency_ms,omitempty"`
}

// Snapshot is the JSON document served at /metrics.
type Snapshot struct {
	UptimeSeconds int64     `json:"uptime_seconds"`
	Requests      []Counter `json:"requests"`
	Errors        []Counter `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[metricKey]int64),
		errorCount:   make(map[metricKey]int64),
		latency:      make(map[metricKey]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := counterKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := counterKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the counters, sorted by method, path and label.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Requests: []Counter{}, Errors: []Counter{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      make([]Counter, 0, len(m.requestCount)),
		Errors:        make([]Counter, 0, len(m.errorCount)),
	}
	for key, count := range m.requestCount {
		c := key.counter(count)
		c.AvgLatencyMs = float64(m.latency[key].Microseconds()) / 1000 / float64(count)
		snap.Requests = append(snap.Requests, c)
	}
	for key, count := range m.errorCount {
		snap.Errors = append(snap.Errors, key.counter(count))
	}
	sortCounters(snap.Requests)
	sortCounters(snap.Errors)
	return snap
}

type metricKey struct {
	path   string
	method string
	label  string
}

func counterKey(path, method, label string) metricKey {
	return metricKey{path: path, method: method, label: label}
}

func (k metricKey) counter(count int64) Counter {
	return Counter{Method: k.method, Path: k.path, Label: k.label, Count: count}
}

func sortCounters(counters []Counter) {
	sort.Slice(counters, func(i, j int) bool {
		a, b := counters[i], counters[j]
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Label < b.Label
	})
}
