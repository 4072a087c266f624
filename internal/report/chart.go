// Package report turns a summary into charts and a statistics block. Chart
// descriptions are plain values; a Backend decides how they are drawn.
package report

import "errors"

// ErrNoData marks a chart whose series is empty.
var ErrNoData = errors.New("report: no data to plot")

// Slice is one wedge of a pie chart.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Pie describes a pie chart.
type Pie struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Slices []Slice `json:"slices"`
}

// Bar describes a bar chart with one series.
type Bar struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
	Values     []int    `json:"values"`
	Color      string   `json:"color,omitempty"`
}

// Line describes a line chart with one series.
type Line struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	X      []string `json:"x"`
	Y      []int    `json:"y"`
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
}

// Histogram describes binned counts with an optional density overlay that
// has one value per bin.
type Histogram struct {
	Name    string    `json:"name"`
	Title   string    `json:"title"`
	Edges   []float64 `json:"edges"`
	Counts  []int     `json:"counts"`
	Density []float64 `json:"density,omitempty"`
}

// Heatmap describes a grid of counts: Counts[i][j] is row Rows[i], column
// Columns[j].
type Heatmap struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
	Counts  [][]int  `json:"counts"`
}

// Backend draws chart descriptions.
type Backend interface {
	RenderPie(Pie) error
	RenderBar(Bar) error
	RenderLine(Line) error
	RenderHistogram(Histogram) error
	RenderHeatmap(Heatmap) error
}

// Flusher is implemented by backends that write their output once all
// charts are in.
type Flusher interface {
	Flush() error
}
