package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockVisualizer/internal/model"
)

// MockClient returns generated or fixed data for development and testing.
type MockClient struct {
	Price float64
	Days  int
	Data  map[string]model.RawSeries // fixed series per symbol, optional
	Now   func() time.Time
}

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) Fetch(ctx context.Context, symbol string) (model.RawSeries, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	if raw, ok := m.Data[symbol]; ok {
		return raw, nil
	}
	days := m.Days
	if days <= 0 {
		days = 30
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return generateMockRecords(price, days, now()), nil
}

// generateMockRecords yields newest-first records, matching the provider.
func generateMockRecords(basePrice float64, count int, now time.Time) model.RawSeries {
	raw := make(model.RawSeries, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 - float64(i-count/2)*0.001)
		raw[i] = model.RawDailyRecord{
			Date:   now.AddDate(0, 0, -i).Format("2006-01-02"),
			Open:   formatPrice(p * 0.999),
			High:   formatPrice(p * 1.005),
			Low:    formatPrice(p * 0.995),
			Close:  formatPrice(p),
			Volume: strconv.Itoa(1000000 + i*1000),
		}
	}
	return raw
}

func formatPrice(p float64) string { return fmt.Sprintf("%.4f", p) }
