package model

// RawDailyRecord is one provider record with its fields still in string form.
type RawDailyRecord struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// RawSeries holds provider records in the order the response listed them.
type RawSeries []RawDailyRecord

// NormalizedPoint represents a single trading day after type conversion.
type NormalizedPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// NormalizedSeries keeps the provider's ordering (usually newest first).
type NormalizedSeries []NormalizedPoint

// Dates returns the date of every point, in series order.
func (s NormalizedSeries) Dates() []string {
	dates := make([]string, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}
