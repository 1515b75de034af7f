package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockVisualizer/internal/model"
)

func rec(date, o, h, l, c, v string) model.RawDailyRecord {
	return model.RawDailyRecord{Date: date, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestTransform_SinglePoint(t *testing.T) {
	series, err := Transform(model.RawSeries{rec("2024-01-01", "100.0", "101", "99", "100.5", "1000")})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, model.NormalizedPoint{
		Date: "2024-01-01", Open: 100.0, High: 101, Low: 99, Close: 100.5, Volume: 1000,
	}, series[0])
}

func TestTransform_PreservesCountAndOrder(t *testing.T) {
	raw := model.RawSeries{
		rec("2024-01-05", "5", "5", "5", "5", "5"),
		rec("2024-01-03", "3", "3", "3", "3", "3"),
		rec("2024-01-04", "4", "4", "4", "4", "4"),
		rec("2024-01-01", "1", "1", "1", "1", "1"),
	}
	series, err := Transform(raw)
	require.NoError(t, err)
	require.Len(t, series, len(raw))
	for i, p := range series {
		assert.Equal(t, raw[i].Date, p.Date)
	}
}

func TestTransform_Empty(t *testing.T) {
	series, err := Transform(nil)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestTransform_MalformedFieldDropsOnlyThatDate(t *testing.T) {
	raw := model.RawSeries{
		rec("2024-01-03", "3", "3", "3", "3", "300"),
		rec("2024-01-02", "n/a", "2", "2", "2", "200"),
		rec("2024-01-01", "1", "1", "1", "1", "lots"),
	}
	series, err := Transform(raw)
	require.Error(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "2024-01-03", series[0].Date)

	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "2024-01-02", mre.Date)
	assert.Equal(t, "open", mre.Field)
	assert.Contains(t, err.Error(), "2024-01-01")
	assert.Contains(t, err.Error(), "volume")
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1000", 1000, false},
		{" 42 ", 42, false},
		{"1000.0", 1000, false},
		{"1000.5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVolume(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParsePrice_RejectsNonFinite(t *testing.T) {
	_, err := parsePrice("NaN")
	assert.Error(t, err)
	_, err = parsePrice("+Inf")
	assert.Error(t, err)
	v, err := parsePrice("420.69")
	require.NoError(t, err)
	assert.InDelta(t, 420.69, v, 1e-9)
}
