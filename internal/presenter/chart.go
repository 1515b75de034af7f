package presenter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"StockVisualizer/internal/model"
)

const (
	colorOpen   = "#8884d8"
	colorHigh   = "#82ca9d"
	colorLow    = "#ff7300"
	colorClose  = "#ff0000"
	colorVolume = "#8884d8"
)

// ChartWriter writes an HTML page with the price and volume charts each time
// a series loads successfully.
type ChartWriter struct {
	Dir    string
	logger *zap.Logger
}

func NewChartWriter(dir string, logger *zap.Logger) *ChartWriter {
	return &ChartWriter{Dir: dir, logger: logger}
}

// Render is an orchestrator.Listener. Non-success views are ignored.
func (c *ChartWriter) Render(v model.View) {
	if v.Status != model.StatusSuccess || len(v.Series) == 0 {
		return
	}
	path, err := c.WriteFile(v.Symbol, v.Series)
	if err != nil {
		c.logger.Warn("write chart", zap.String("symbol", v.Symbol), zap.Error(err))
		return
	}
	c.logger.Info("chart written", zap.String("symbol", v.Symbol), zap.String("path", path))
}

// WriteFile renders the charts to <Dir>/<symbol>.html.
func (c *ChartWriter) WriteFile(symbol string, series model.NormalizedSeries) (string, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(c.Dir, symbol+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := RenderPage(f, symbol, series); err != nil {
		return "", err
	}
	return path, nil
}

// RenderPage writes a line chart of OHLC and a bar chart of volume, oldest
// day on the left.
func RenderPage(w io.Writer, symbol string, series model.NormalizedSeries) error {
	points := chronological(series)
	dates := make([]string, len(points))
	open := make([]opts.LineData, len(points))
	high := make([]opts.LineData, len(points))
	low := make([]opts.LineData, len(points))
	closing := make([]opts.LineData, len(points))
	volume := make([]opts.BarData, len(points))
	for i, p := range points {
		dates[i] = p.Date
		open[i] = opts.LineData{Value: p.Open}
		high[i] = opts.LineData{Value: p.High}
		low[i] = opts.LineData{Value: p.Low}
		closing[i] = opts.LineData{Value: p.Close}
		volume[i] = opts.BarData{Value: p.Volume}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: symbol + " Stock Data"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
	)
	line.SetXAxis(dates).
		AddSeries("open", open, charts.WithLineStyleOpts(opts.LineStyle{Color: colorOpen})).
		AddSeries("high", high, charts.WithLineStyleOpts(opts.LineStyle{Color: colorHigh})).
		AddSeries("low", low, charts.WithLineStyleOpts(opts.LineStyle{Color: colorLow})).
		AddSeries("close", closing, charts.WithLineStyleOpts(opts.LineStyle{Color: colorClose}))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "200px"}),
	)
	bar.SetXAxis(dates).
		AddSeries("volume", volume, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorVolume}))

	page := components.NewPage()
	page.AddCharts(line, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	return nil
}

// chronological returns a date-ascending copy; the provider lists newest first.
func chronological(series model.NormalizedSeries) model.NormalizedSeries {
	out := make(model.NormalizedSeries, len(series))
	copy(out, series)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
