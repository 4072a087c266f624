package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Recorded is one chart captured by a Recorder.
type Recorded struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Chart any    `json:"chart"`
}

// Recorder is a Backend that keeps every chart description in order. Fail,
// when set, is returned for charts with that name instead of recording them.
type Recorder struct {
	mu     sync.Mutex
	charts []Recorded
	Fail   map[string]error
}

func (r *Recorder) record(kind, name string, c any) error {
	if err := r.Fail[name]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts = append(r.charts, Recorded{Kind: kind, Name: name, Chart: c})
	return nil
}

func (r *Recorder) RenderPie(c Pie) error             { return r.record("pie", c.Name, c) }
func (r *Recorder) RenderBar(c Bar) error             { return r.record("bar", c.Name, c) }
func (r *Recorder) RenderLine(c Line) error           { return r.record("line", c.Name, c) }
func (r *Recorder) RenderHistogram(c Histogram) error { return r.record("histogram", c.Name, c) }
func (r *Recorder) RenderHeatmap(c Heatmap) error     { return r.record("heatmap", c.Name, c) }

// Charts returns the recorded charts in render order.
func (r *Recorder) Charts() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.charts...)
}

// Names lists the recorded chart names in render order.
func (r *Recorder) Names() []string {
	cs := r.Charts()
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// JSONFile records charts and writes them all to Path on Flush.
type JSONFile struct {
	Recorder
	Path string
}

// NewJSONFile writes to dir/charts.json.
func NewJSONFile(dir string) *JSONFile {
	return &JSONFile{Path: filepath.Join(dir, "charts.json")}
}

// Flush writes the recorded charts as an indented JSON array.
func (j *JSONFile) Flush() error {
	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	b, err := json.MarshalIndent(j.Charts(), "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode charts: %w", err)
	}
	if err := os.WriteFile(j.Path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", j.Path, err)
	}
	return nil
}
