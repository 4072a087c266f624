// Package echarts renders chart descriptions as standalone HTML pages using
// go-echarts. Each chart is written to its own <name>.html under Dir.
package echarts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"catalogsummary/internal/report"
)

// Backend writes one HTML file per chart.
type Backend struct {
	Dir string

	// Width and Height size each chart; go-echarts defaults apply when empty.
	Width, Height string
}

// New returns a Backend writing to dir.
func New(dir string) *Backend { return &Backend{Dir: dir, Width: "960px", Height: "540px"} }

type renderer interface {
	Render(w io.Writer) error
}

func (b *Backend) write(name string, c renderer) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("echarts: create %s: %w", b.Dir, err)
	}
	path := filepath.Join(b.Dir, name+".html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("echarts: create %s: %w", path, err)
	}
	if err := c.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("echarts: render %s: %w", path, err)
	}
	return f.Close()
}

func (b *Backend) init(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: b.Width, Height: b.Height})
}

// Path returns the file a chart is written to.
func (b *Backend) Path(name string) string { return filepath.Join(b.Dir, name+".html") }

// RenderPie draws a pie with percentage labels.
func (b *Backend) RenderPie(c report.Pie) error {
	data := make([]opts.PieData, len(c.Slices))
	for i, s := range c.Slices {
		data[i] = opts.PieData{Name: s.Label, Value: s.Value}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(b.init(c.Title), charts.WithTitleOpts(opts.Title{Title: c.Title}))
	pie.AddSeries(c.Name, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Formatter: "{b}: {d}%"}),
	)
	return b.write(c.Name, pie)
}

// RenderBar draws a single-series bar chart.
func (b *Backend) RenderBar(c report.Bar) error {
	data := make([]opts.BarData, len(c.Values))
	for i, v := range c.Values {
		data[i] = opts.BarData{Name: c.Categories[i], Value: v}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(b.init(c.Title), charts.WithTitleOpts(opts.Title{Title: c.Title}))
	bar.SetXAxis(c.Categories).AddSeries("count", data, charts.WithItemStyleOpts(opts.ItemStyle{
		Color:       c.Color,
		BorderColor: "black",
	}))
	return b.write(c.Name, bar)
}

// RenderLine draws a single-series line chart.
func (b *Backend) RenderLine(c report.Line) error {
	data := make([]opts.LineData, len(c.Y))
	for i, v := range c.Y {
		data[i] = opts.LineData{Value: v}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		b.init(c.Title),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YLabel}),
	)
	line.SetXAxis(c.X).AddSeries("titles", data)
	return b.write(c.Name, line)
}

// RenderHistogram draws bins as bars labelled by their range, with the
// density overlay as a line when present.
func (b *Backend) RenderHistogram(c report.Histogram) error {
	labels := report.BinLabels(c.Edges)
	data := make([]opts.BarData, len(c.Counts))
	for i, n := range c.Counts {
		data[i] = opts.BarData{Name: labels[i], Value: n}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		b.init(c.Title),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "minutes"}),
	)
	bar.SetXAxis(labels).AddSeries("count", data)

	if len(c.Density) == len(c.Counts) && len(c.Density) > 0 {
		kde := make([]opts.LineData, len(c.Density))
		for i, d := range c.Density {
			kde[i] = opts.LineData{Value: d}
		}
		line := charts.NewLine()
		line.SetXAxis(labels).AddSeries("density", kde)
		bar.Overlap(line)
	}
	return b.write(c.Name, bar)
}

// RenderHeatmap draws the grid with columns on the x axis and rows on the
// y axis.
func (b *Backend) RenderHeatmap(c report.Heatmap) error {
	var data []opts.HeatMapData
	maxCount := 0
	for i, row := range c.Counts {
		for j, n := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, n}})
			if n > maxCount {
				maxCount = n
			}
		}
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		b.init(c.Title),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: c.Rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: 0,
			Max: float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#fff5eb", "#fd8d3c", "#7f2704"},
			},
		}),
	)
	hm.SetXAxis(c.Columns).AddSeries("count", data)
	return b.write(c.Name, hm)
}
