// Package metrics keeps in-process counters and latency histograms for the
// transcode servers and exposes them in the Prometheus text format.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type collector interface {
	write(sb *strings.Builder)
}

type counterVec struct {
	name   string
	help   string
	labels []string

	mu     sync.RWMutex
	values map[string]float64
}

type histogramVec struct {
	name    string
	help    string
	labels  []string
	buckets []float64

	mu     sync.RWMutex
	values map[string]*histogramValue
}

type histogramValue struct {
	counts []uint64
	sum    float64
	total  uint64
}

const labelSep = "\xff"

var (
	httpRequests = newCounterVec("transcode_http_requests_total", "HTTP API requests by route and status.", []string{"path", "status"})
	httpLatency  = newHistogramVec("transcode_http_request_duration_seconds", "HTTP API handler latency by route.", []string{"path"})
	rpcRequests  = newCounterVec("transcode_rpc_requests_total", "gRPC requests by method and status code.", []string{"method", "code"})
	rpcLatency   = newHistogramVec("transcode_rpc_duration_seconds", "gRPC handler latency by method.", []string{"method"})
	codecResults = newCounterVec("transcode_codec_results_total", "Codec applications by codec and outcome.", []string{"codec", "outcome"})

	collectors = []collector{httpRequests, httpLatency, rpcRequests, rpcLatency, codecResults}
)

func newCounterVec(name, help string, labels []string) *counterVec {
	return &counterVec{name: name, help: help, labels: labels, values: make(map[string]float64)}
}

func newHistogramVec(name, help string, labels []string) *histogramVec {
	return &histogramVec{
		name:    name,
		help:    help,
		labels:  labels,
		buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		values:  make(map[string]*histogramValue),
	}
}

func labelKey(labels, values []string) string {
	if len(values) != len(labels) {
		panic(fmt.Sprintf("expected %d labels, got %d", len(labels), len(values)))
	}
	return strings.Join(values, labelSep)
}

func (cv *counterVec) inc(values ...string) {
	key := labelKey(cv.labels, values)
	cv.mu.Lock()
	cv.values[key]++
	cv.mu.Unlock()
}

func (cv *counterVec) value(values ...string) float64 {
	key := labelKey(cv.labels, values)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	return cv.values[key]
}

func (cv *counterVec) write(sb *strings.Builder) {
	writeHeader(sb, cv.name, cv.help, "counter")
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	for _, key := range sortedKeys(cv.values) {
		sb.WriteString(cv.name)
		writeLabels(sb, cv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", cv.values[key])
	}
}

func (hv *histogramVec) observe(sample float64, values ...string) {
	key := labelKey(hv.labels, values)
	hv.mu.Lock()
	defer hv.mu.Unlock()
	entry, ok := hv.values[key]
	if !ok {
		entry = &histogramValue{counts: make([]uint64, len(hv.buckets)+1)}
		hv.values[key] = entry
	}
	entry.sum += sample
	entry.total++
	idx := sort.SearchFloat64s(hv.buckets, sample)
	entry.counts[idx]++
}

func (hv *histogramVec) write(sb *strings.Builder) {
	writeHeader(sb, hv.name, hv.help, "histogram")
	hv.mu.RLock()
	defer hv.mu.RUnlock()
	for _, key := range sortedKeys(hv.values) {
		entry := hv.values[key]
		cumulative := uint64(0)
		for i, upper := range hv.buckets {
			cumulative += entry.counts[i]
			sb.WriteString(hv.name + "_bucket")
			writeLabels(sb, hv.labels, key, strconv.FormatFloat(upper, 'g', -1, 64))
			fmt.Fprintf(sb, " %d\n", cumulative)
		}
		cumulative += entry.counts[len(hv.buckets)]
		sb.WriteString(hv.name + "_bucket")
		writeLabels(sb, hv.labels, key, "+Inf")
		fmt.Fprintf(sb, " %d\n", cumulative)

		sb.WriteString(hv.name + "_sum")
		writeLabels(sb, hv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", entry.sum)
		sb.WriteString(hv.name + "_count")
		writeLabels(sb, hv.labels, key, "")
		fmt.Fprintf(sb, " %d\n", entry.total)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeLabels renders {a="x",b="y"} for key, appending le when set.
func writeLabels(sb *strings.Builder, labels []string, key, le string) {
	if len(labels) == 0 && le == "" {
		return
	}
	pairs := make([]string, 0, len(labels)+1)
	if len(labels) > 0 {
		for i, part := range strings.Split(key, labelSep) {
			pairs = append(pairs, labels[i]+"=\""+escapeLabel(part)+"\"")
		}
	}
	if le != "" {
		pairs = append(pairs, "le=\""+le+"\"")
	}
	sb.WriteString("{" + strings.Join(pairs, ",") + "}")
}

func writeHeader(sb *strings.Builder, name, help, metricType string) {
	fmt.Fprintf(sb, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, metricType)
}

func escapeLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\n", "\\n")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// Handler exposes the registry in the Prometheus text exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		for _, c := range collectors {
			c.write(&sb)
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = w.Write([]byte(sb.String()))
	})
}

// ObserveHTTPRequest records one HTTP API request.
func ObserveHTTPRequest(path string, status int, dur time.Duration) {
	httpRequests.inc(path, strconv.Itoa(status))
	httpLatency.observe(dur.Seconds(), path)
}

// ObserveRPC records one gRPC call; code is the gRPC status code name.
func ObserveRPC(method, code string, dur time.Duration) {
	rpcRequests.inc(method, code)
	rpcLatency.observe(dur.Seconds(), method)
}

// RecordCodecResult counts one codec application as "ok" or the failure kind.
func RecordCodecResult(codec string, ok bool, kind string) {
	outcome := "ok"
	if !ok {
		outcome = strings.TrimSpace(kind)
		if outcome == "" {
			outcome = "error"
		}
	}
	codecResults.inc(codec, outcome)
}

// CodecResults returns the current count for a codec and outcome.
func CodecResults(codec, outcome string) float64 {
	return codecResults.value(codec, outcome)
}
