package presenter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"StockVisualizer/internal/model"
)

// tableRows caps how many days the console shows.
const tableRows = 10

// Console writes status changes and a short OHLCV table to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render is an orchestrator.Listener.
func (c *Console) Render(v model.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.w, FormatView(v))
}

// Prompt prints the selectable symbols.
func (c *Console) Prompt(symbols []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "Symbols: %s\nEnter a symbol (or \"quit\"): ", strings.Join(symbols, " "))
}

// FormatView renders one view as text.
func FormatView(v model.View) string {
	var b strings.Builder
	switch v.Status {
	case model.StatusIdle:
		b.WriteString("idle\n")
	case model.StatusLoading:
		b.WriteString(fmt.Sprintf("Loading %s...\n", v.Symbol))
	case model.StatusError:
		b.WriteString(fmt.Sprintf("%s: %s\n", v.Symbol, v.ErrorMessage))
	case model.StatusSuccess:
		b.WriteString(fmt.Sprintf("\n%s Stock Data | %d days\n", v.Symbol, len(v.Series)))
		b.WriteString(FormatTable(v.Series, tableRows))
	}
	return b.String()
}

// FormatTable renders up to limit points in series order (limit <= 0: all).
func FormatTable(series model.NormalizedSeries, limit int) string {
	if limit <= 0 || limit > len(series) {
		limit = len(series)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %10s %10s %10s %10s %12s\n", "date", "open", "high", "low", "close", "volume"))
	for _, p := range series[:limit] {
		b.WriteString(fmt.Sprintf("%-10s %10.2f %10.2f %10.2f %10.2f %12d\n",
			p.Date, p.Open, p.High, p.Low, p.Close, p.Volume))
	}
	if limit < len(series) {
		b.WriteString(fmt.Sprintf("... %d more\n", len(series)-limit))
	}
	return b.String()
}
