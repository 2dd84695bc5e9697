// Package bench sends the same request repeatedly and summarizes latencies
// with an HDR histogram.
package bench

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	clienthttp "github.com/wesleyorama2/httpclient/http"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Config controls a benchmark run.
type Config struct {
	// Requests is the total number of requests to send
	Requests int
	// Concurrency is the number of workers sending requests (default: 1)
	Concurrency int
	// Options are applied to every Fetch call
	Options []clienthttp.Option
}

// Recorder aggregates request outcomes. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	statuses map[int]int64
	total    int64
	errors   int64
	bytes    int64
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		hist:     hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		statuses: make(map[int]int64),
	}
}

// Record adds one outcome. Failed requests count as errors and are not
// part of the latency distribution.
func (r *Recorder) Record(latency time.Duration, resp *clienthttp.Response, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	if err != nil {
		r.errors++
		return
	}

	micros := latency.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	// RecordValue only fails out of range, which the clamp above prevents
	_ = r.hist.RecordValue(micros)

	r.statuses[resp.StatusCode()]++
	r.bytes += int64(len(resp.Body()))
}

// Summary returns the aggregated results
func (r *Recorder) Summary(elapsed time.Duration) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Requests: r.total,
		Errors:   r.errors,
		Bytes:    r.bytes,
		Statuses: make(map[int]int64, len(r.statuses)),
		Elapsed:  elapsed,
	}
	for code, count := range r.statuses {
		s.Statuses[code] = count
	}
	if r.hist.TotalCount() > 0 {
		s.Min = micros(r.hist.Min())
		s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
		s.P50 = micros(r.hist.ValueAtQuantile(50))
		s.P90 = micros(r.hist.ValueAtQuantile(90))
		s.P99 = micros(r.hist.ValueAtQuantile(99))
		s.Max = micros(r.hist.Max())
	}
	if elapsed > 0 {
		s.RPS = float64(r.total) / elapsed.Seconds()
	}
	return s
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// Summary describes a finished benchmark run
type Summary struct {
	Requests int64
	Errors   int64
	Bytes    int64
	Statuses map[int]int64
	Min      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P90      time.Duration
	P99      time.Duration
	Max      time.Duration
	Elapsed  time.Duration
	RPS      float64
}

// ErrorRate returns the fraction of requests that failed
func (s Summary) ErrorRate() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Requests)
}

// String renders the summary as a text report
func (s Summary) String() string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("Requests:  %d (%d errors, %.1f%%)\n", s.Requests, s.Errors, s.ErrorRate()*100))
	buf.WriteString(fmt.Sprintf("Duration:  %s (%.1f req/s)\n", s.Elapsed.Round(time.Millisecond), s.RPS))
	buf.WriteString(fmt.Sprintf("Received:  %d bytes\n", s.Bytes))

	if len(s.Statuses) > 0 {
		codes := make([]int, 0, len(s.Statuses))
		for code := range s.Statuses {
			codes = append(codes, code)
		}
		sort.Ints(codes)

		buf.WriteString("Status codes:\n")
		for _, code := range codes {
			buf.WriteString(fmt.Sprintf("  %d: %d\n", code, s.Statuses[code]))
		}
	}

	buf.WriteString("Latency:\n")
	buf.WriteString(fmt.Sprintf("  min %s  mean %s  p50 %s  p90 %s  p99 %s  max %s\n",
		s.Min, s.Mean.Round(time.Microsecond), s.P50, s.P90, s.P99, s.Max))

	return buf.String()
}

// Run sends cfg.Requests requests to rawURL through client and returns the
// summary. Each request is an independent Fetch call. Cancelling ctx stops
// the run early; the summary then covers the requests already sent.
func Run(ctx context.Context, client *clienthttp.Client, rawURL string, cfg Config) (Summary, error) {
	if cfg.Requests < 1 {
		return Summary{}, fmt.Errorf("requests must be at least 1")
	}
	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > cfg.Requests {
		workers = cfg.Requests
	}

	recorder := NewRecorder()
	var issued atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil && issued.Add(1) <= int64(cfg.Requests) {
				reqStart := time.Now()
				resp, err := client.Fetch(ctx, rawURL, cfg.Options...)
				recorder.Record(time.Since(reqStart), resp, err)
			}
		}()
	}
	wg.Wait()

	return recorder.Summary(time.Since(start)), ctx.Err()
}
