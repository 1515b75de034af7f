package collector

import (
	"context"

	"StockVisualizer/internal/model"
)

// DataClient fetches a symbol's daily series from a market data provider.
// A cancelled ctx must surface as ErrCancelled, never as a provider error.
type DataClient interface {
	Fetch(ctx context.Context, symbol string) (model.RawSeries, error)
	Name() string
}
