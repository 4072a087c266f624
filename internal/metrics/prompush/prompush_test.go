package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"catalogsummary/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "job", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: "catalog_summary"},
		{name: "explicit job name is preserved", jobName: "nightly", gatewayURL: "http://pushgateway:9091", wantJobName: "nightly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend(%q, %q) = %v, %v; want nil, error", tt.jobName, tt.gatewayURL, b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestBackendRecordsByName(t *testing.T) {
	b, err := NewBackend("job", "http://unused:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter(metrics.RowsTotal, 4, metrics.Labels{"kind": "loaded"})
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": "loaded"})
	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "clean", "status": "success"})
	b.IncCounter(metrics.ChartsTotal, 1, metrics.Labels{"chart": "ratings", "status": "failure"})
	b.IncCounter("unknown_metric", 1, nil)
	b.ObserveHistogram(metrics.StageDurationSeconds, 0.25, metrics.Labels{"stage": "clean", "status": "success"})
	b.ObserveHistogram("unknown_metric", 1, nil)

	if got := testutil.ToFloat64(b.rowCounter.WithLabelValues("loaded")); got != 5 {
		t.Fatalf("rows{loaded}=%v; want 5", got)
	}
	if got := testutil.ToFloat64(b.stageCounter.WithLabelValues("clean", "success")); got != 1 {
		t.Fatalf("stage{clean,success}=%v; want 1", got)
	}
	if got := testutil.ToFloat64(b.chartCounter.WithLabelValues("ratings", "failure")); got != 1 {
		t.Fatalf("charts{ratings,failure}=%v; want 1", got)
	}
	if got := testutil.CollectAndCount(b.stageDuration); got != 1 {
		t.Fatalf("stage summary series=%d; want 1", got)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	var (
		mu     sync.Mutex
		paths  []string
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("nightly", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"kind": "loaded"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != "PUT /metrics/job/nightly" {
		t.Fatalf("requests=%v; want one PUT /metrics/job/nightly", paths)
	}
	if !strings.Contains(bodies[0], metrics.RowsTotal) {
		t.Fatalf("pushed body does not mention %s", metrics.RowsTotal)
	}
}
