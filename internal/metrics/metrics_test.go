package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	fb := install(t)

	RecordStep("jobA", "load", nil, 2*time.Second)
	RecordStep("jobB", "report", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 || len(fb.callsHistograms) != 2 {
		t.Fatalf("counters=%d histograms=%d; want 2/2", len(fb.callsCounters), len(fb.callsHistograms))
	}

	cc0 := fb.callsCounters[0]
	if cc0.name != StageTotal || cc0.delta != 1 {
		t.Fatalf("counter[0] = %#v", cc0)
	}
	if cc0.labels["job"] != "jobA" || cc0.labels["stage"] != "load" || cc0.labels["status"] != "success" {
		t.Fatalf("counter[0].labels = %v", cc0.labels)
	}
	if got := fb.callsCounters[1].labels["status"]; got != "failure" {
		t.Fatalf("counter[1].status=%q; want failure", got)
	}

	h1 := fb.callsHistograms[1]
	if h1.name != StageDurationSeconds || h1.value != 1.5 {
		t.Fatalf("hist[1] = %#v", h1)
	}
}

func TestRecordRow_SkipsNonPositive(t *testing.T) {
	fb := install(t)

	RecordRow("job", "loaded", 0)
	RecordRow("job", "loaded", -3)
	RecordRow("job", "duplicates_dropped", 2)

	if len(fb.callsCounters) != 1 {
		t.Fatalf("calls=%d; want 1", len(fb.callsCounters))
	}
	c := fb.callsCounters[0]
	if c.name != RowsTotal || c.delta != 2 || c.labels["kind"] != "duplicates_dropped" {
		t.Fatalf("call=%#v", c)
	}
}

func TestRecordChart(t *testing.T) {
	fb := install(t)

	RecordChart("job", "ratings", nil)
	RecordChart("job", "heatmap", errors.New("no data"))

	if got := fb.callsCounters[0].labels["status"]; got != "success" {
		t.Fatalf("status=%q", got)
	}
	if got := fb.callsCounters[1].labels["chart"]; got != "heatmap" {
		t.Fatalf("chart=%q", got)
	}
}

func TestSetBackendNilKeepsCurrentAndFlushDelegates(t *testing.T) {
	fb := install(t)
	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("flushCount=%d; want 1", fb.flushCount)
	}

	Reset()
	if _, ok := backend.(nopBackend); !ok {
		t.Fatalf("Reset did not restore the nop backend")
	}
}
