package datadog

import (
	"reflect"
	"testing"

	"catalogsummary/internal/metrics"
)

type call struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	calls  []call
	closed int
}

func (f *fakeClient) Count(name string, value int64, tags []string, rate float64) error {
	f.calls = append(f.calls, call{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, rate float64) error {
	f.calls = append(f.calls, call{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func TestNewBackendRequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

func TestNewBackendUDP(t *testing.T) {
	// UDP clients do not need a listening agent to be constructed.
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "catalog_summary.", GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestBackendForwardsWithSortedTags(t *testing.T) {
	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"kind": "loaded", "job": "j"})
	b.ObserveHistogram(metrics.StageDurationSeconds, 0.5, metrics.Labels{"stage": "load"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []call{
		{"count", metrics.RowsTotal, 3, []string{"job:j", "kind:loaded"}},
		{"histogram", metrics.StageDurationSeconds, 0.5, []string{"stage:load"}},
	}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls=%+v; want %+v", fc.calls, want)
	}
	if fc.closed != 1 {
		t.Fatalf("closed=%d; want 1", fc.closed)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var b Backend
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if labelsToTags(nil) != nil {
		t.Fatalf("labelsToTags(nil) should be nil")
	}
}
