package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"StockVisualizer/internal/model"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co"
	seriesField    = "Time Series (Daily)"
)

// Labels used by the provider inside each daily record.
const (
	fieldOpen   = "1. open"
	fieldHigh   = "2. high"
	fieldLow    = "3. low"
	fieldClose  = "4. close"
	fieldVolume = "5. volume"
)

// Top-level fields Alpha Vantage uses for notices on a 200 response.
var noticeFields = []string{"Error Message", "Note", "Information"}

// AlphaVantageClient implements DataClient against the TIME_SERIES_DAILY endpoint.
type AlphaVantageClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	logger  *zap.Logger
}

// NewAlphaVantageClient creates a client with optional proxy support.
func NewAlphaVantageClient(baseURL, apiKey, proxyURL string, timeout time.Duration, logger *zap.Logger) *AlphaVantageClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AlphaVantageClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

func (c *AlphaVantageClient) Name() string { return "alphavantage" }

func (c *AlphaVantageClient) endpoint(symbol string) string {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("apikey", c.APIKey)
	return c.BaseURL + "/query?" + q.Encode()
}

// Fetch issues a single GET; there is no retry.
func (c *AlphaVantageClient) Fetch(ctx context.Context, symbol string) (model.RawSeries, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(symbol), nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, &NetworkError{Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("provider returned non-2xx",
			zap.String("symbol", symbol), zap.Int("status", resp.StatusCode), zap.Int("body_bytes", len(body)))
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}

	raw, err := ParseDaily(body)
	if err != nil {
		return nil, err
	}

	// The selection may have moved on while we were parsing.
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched daily series", zap.String("symbol", symbol), zap.Int("records", len(raw)))
	return raw, nil
}

// ParseDaily extracts the daily records in the order the body lists them.
// encoding/json would lose that order when decoding into a map.
func ParseDaily(body []byte) (model.RawSeries, error) {
	if !gjson.ValidBytes(body) {
		return nil, &FormatError{Detail: "response is not valid JSON"}
	}
	doc := gjson.ParseBytes(body)
	series := doc.Get(gjson.Escape(seriesField))
	if !series.Exists() || !series.IsObject() {
		return nil, &FormatError{Detail: providerNotice(doc)}
	}

	raw := make(model.RawSeries, 0, 128)
	series.ForEach(func(date, rec gjson.Result) bool {
		raw = append(raw, model.RawDailyRecord{
			Date:   date.String(),
			Open:   rec.Get(gjson.Escape(fieldOpen)).String(),
			High:   rec.Get(gjson.Escape(fieldHigh)).String(),
			Low:    rec.Get(gjson.Escape(fieldLow)).String(),
			Close:  rec.Get(gjson.Escape(fieldClose)).String(),
			Volume: rec.Get(gjson.Escape(fieldVolume)).String(),
		})
		return true
	})
	return raw, nil
}

func providerNotice(doc gjson.Result) string {
	for _, f := range noticeFields {
		if v := doc.Get(gjson.Escape(f)); v.Exists() {
			return v.String()
		}
	}
	return ""
}
