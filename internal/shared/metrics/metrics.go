// Package metrics keeps process-wide counters and histograms and renders them
// in the Prometheus text exposition format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Upload stages.
const (
	StageStored      = "stored"
	StageParseFailed = "parse_failed"
	StageIndexed     = "indexed"
	StageIndexFailed = "index_failed"
)

var (
	generationStarted   = newCounter("question_generation_started_total", "Total question generations started")
	generationCompleted = newCounter("question_generation_completed_total", "Total question generations completed")
	generationFailed    = newCounter("question_generation_failed_total", "Total question generations failed")
	retrievalDegraded   = newCounter("reference_retrieval_degraded_total", "Generations that ran without reference questions")

	uploadStages = map[string]*counter{
		StageStored:      newCounter("resume_upload_stored_total", "Resumes stored"),
		StageParseFailed: newCounter("resume_upload_parse_failed_total", "Resumes whose parse stage failed"),
		StageIndexed:     newCounter("resume_upload_indexed_total", "Resumes indexed for similarity search"),
		StageIndexFailed: newCounter("resume_upload_index_failed_total", "Resumes whose index stage failed"),
	}

	httpRequests = newLabeledCounter("http_requests_total", "HTTP requests by method and status class", "method", "status")

	generationDuration = newHistogram("question_generation_duration_ms", "Question generation duration in milliseconds",
		[]float64{500, 1000, 2500, 5000, 10000, 20000, 40000, 60000})
)

// IncGenerationStarted increments the question generation started counter.
func IncGenerationStarted() { generationStarted.inc() }

// IncGenerationCompleted increments the question generation completed counter.
func IncGenerationCompleted() { generationCompleted.inc() }

// IncGenerationFailed increments the question generation failed counter.
func IncGenerationFailed() { generationFailed.inc() }

// IncRetrievalDegraded counts generations that proceeded without reference questions.
func IncRetrievalDegraded() { retrievalDegraded.inc() }

// IncUploadStage counts an upload pipeline outcome. Unknown stages are ignored.
func IncUploadStage(stage string) {
	if c, ok := uploadStages[stage]; ok {
		c.inc()
	}
}

// ObserveHTTPRequest counts a finished request under its status class (2xx, 4xx...).
func ObserveHTTPRequest(method string, status int) {
	httpRequests.inc(method, strconv.Itoa(status/100)+"xx")
}

// ObserveGenerationDurationMs records a generation duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	generationDuration.observe(max(value, 0))
}

// NowMillis returns the wall clock in milliseconds.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(Render()))
	}
}

// Render renders every metric in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	for _, c := range []*counter{generationStarted, generationCompleted, generationFailed, retrievalDegraded} {
		c.write(&buf)
	}
	for _, stage := range []string{StageStored, StageParseFailed, StageIndexed, StageIndexFailed} {
		uploadStages[stage].write(&buf)
	}
	httpRequests.write(&buf)
	generationDuration.write(&buf)
	return buf.String()
}

type counter struct {
	name, help string
	value      atomic.Uint64
}

func newCounter(name, help string) *counter {
	return &counter{name: name, help: help}
}

func (c *counter) inc() { c.value.Add(1) }

func (c *counter) write(buf *bytes.Buffer) {
	writeHeader(buf, c.name, c.help, "counter")
	fmt.Fprintf(buf, "%s %d\n", c.name, c.value.Load())
}

type labeledCounter struct {
	name, help string
	labels     []string

	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter(name, help string, labels ...string) *labeledCounter {
	return &labeledCounter{name: name, help: help, labels: labels, values: map[string]uint64{}}
}

func (c *labeledCounter) inc(values ...string) {
	var key bytes.Buffer
	for i, label := range c.labels {
		if i > 0 {
			key.WriteByte(',')
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		fmt.Fprintf(&key, "%s=%q", label, v)
	}
	c.mu.Lock()
	c.values[key.String()]++
	c.mu.Unlock()
}

func (c *labeledCounter) write(buf *bytes.Buffer) {
	c.mu.Lock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%s{%s} %d\n", c.name, k, c.values[k])
	}
	c.mu.Unlock()

	writeHeader(buf, c.name, c.help, "counter")
	for _, line := range lines {
		buf.WriteString(line)
	}
}

// histogram stores per-bucket counts; write accumulates them into le buckets.
type histogram struct {
	name, help string
	bounds     []float64

	mu     sync.Mutex
	counts []uint64
	sum    float64
	total  uint64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, bounds: bounds, counts: make([]uint64, len(bounds))}
}

func (h *histogram) observe(value float64) {
	i := sort.SearchFloat64s(h.bounds, value)
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < len(h.counts) {
		h.counts[i]++
	}
	h.sum += value
	h.total++
}

// cumulative returns the le bucket counts, the sum and the total.
func (h *histogram) cumulative() ([]uint64, float64, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]uint64, len(h.counts))
	var running uint64
	for i, n := range h.counts {
		running += n
		out[i] = running
	}
	return out, h.sum, h.total
}

func (h *histogram) write(buf *bytes.Buffer) {
	buckets, sum, total := h.cumulative()
	writeHeader(buf, h.name, h.help, "histogram")
	for i, bound := range h.bounds {
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", h.name, formatFloat(bound), buckets[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", h.name, total)
	fmt.Fprintf(buf, "%s_sum %s\n", h.name, formatFloat(sum))
	fmt.Fprintf(buf, "%s_count %d\n", h.name, total)
}

func writeHeader(buf *bytes.Buffer, name, help, kind string) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
