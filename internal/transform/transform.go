package transform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"StockVisualizer/internal/model"
)

// MalformedRecordError reports a field that could not be parsed. The date it
// belongs to is left out of the series.
type MalformedRecordError struct {
	Date  string
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s: %s=%q: %v", e.Date, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Transform converts raw provider records into a normalized series, one point
// per record, in input order. Records with unparsable fields are dropped and
// reported through the returned error (errors.Join of *MalformedRecordError);
// the series is still valid when err != nil.
func Transform(raw model.RawSeries) (model.NormalizedSeries, error) {
	series := make(model.NormalizedSeries, 0, len(raw))
	var errs []error
	for _, rec := range raw {
		p, err := Point(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		series = append(series, p)
	}
	return series, errors.Join(errs...)
}

// Point normalizes a single record.
func Point(rec model.RawDailyRecord) (model.NormalizedPoint, error) {
	p := model.NormalizedPoint{Date: rec.Date}
	var err error
	if p.Open, err = parsePrice(rec.Open); err != nil {
		return p, malformed(rec, "open", rec.Open, err)
	}
	if p.High, err = parsePrice(rec.High); err != nil {
		return p, malformed(rec, "high", rec.High, err)
	}
	if p.Low, err = parsePrice(rec.Low); err != nil {
		return p, malformed(rec, "low", rec.Low, err)
	}
	if p.Close, err = parsePrice(rec.Close); err != nil {
		return p, malformed(rec, "close", rec.Close, err)
	}
	if p.Volume, err = parseVolume(rec.Volume); err != nil {
		return p, malformed(rec, "volume", rec.Volume, err)
	}
	return p, nil
}

func malformed(rec model.RawDailyRecord, field, value string, err error) error {
	return &MalformedRecordError{Date: rec.Date, Field: field, Value: value, Err: err}
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	// NaN/Inf parse fine but cannot be cached as JSON.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return v, nil
}

// parseVolume accepts integers and integer-valued decimals such as "1000.0".
func parseVolume(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(f), nil
}
