package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"done":       StatusDone,
		"Completed":  StatusDone,
		" PAID ":     StatusDone,
		"pending":    StatusPending,
		"processing": StatusPending,
		"cancelled":  StatusCancelled,
		"canceled":   StatusCancelled,
		"":           StatusUnknown,
		"refunded":   StatusUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeStatus(in), "input %q", in)
	}
}

func TestAsNumber(t *testing.T) {
	assert.Equal(t, 12.5, asNumber(12.5, 0))
	assert.Equal(t, 3.0, asNumber(3, 0))
	assert.Equal(t, 7.0, asNumber(int64(7), 0))
	assert.Equal(t, 99.5, asNumber(" 99.5 ", 0))
	assert.Equal(t, 42.0, asNumber(json.Number("42"), 0))
	assert.Equal(t, 10.25, asNumber(decimal.NewFromFloat(10.25), 0))

	assert.Equal(t, 5.0, asNumber(nil, 5))
	assert.Equal(t, 5.0, asNumber("Rs. 100", 5))
	assert.Equal(t, 5.0, asNumber(math.NaN(), 5))
	assert.Equal(t, 5.0, asNumber(math.Inf(1), 5))
	assert.Equal(t, 5.0, asNumber(struct{}{}, 5))
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "abc", asString(" abc "))
	assert.Equal(t, "17", asString(17))
	assert.Equal(t, "17", asString(json.Number("17")))
	assert.Equal(t, "17", asString(float64(17)))
	assert.Equal(t, "", asString(nil))
	assert.Equal(t, "", asString(true))
}

func TestToMillis(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, ts.UnixMilli(), toMillis(ts))
	assert.Equal(t, ts.UnixMilli(), toMillis(&ts))
	assert.Equal(t, int64(1500), toMillis(int64(1500)))
	assert.Equal(t, int64(1500), toMillis(1500.0))

	fromDate := toMillis("2026-03-01")
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local).UnixMilli(), fromDate)

	assert.Zero(t, toMillis(nil))
	assert.Zero(t, toMillis(time.Time{}))
	assert.Zero(t, toMillis((*time.Time)(nil)))
	assert.Zero(t, toMillis("yesterday"))
	assert.Zero(t, toMillis(math.NaN()))
}

func TestFormatLKR(t *testing.T) {
	assert.Equal(t, "Rs. 125,000", FormatLKR(125000))
	assert.Equal(t, "Rs. 0", FormatLKR(0))
}

func TestDayBoundaries(t *testing.T) {
	ms := time.Date(2026, 3, 1, 13, 45, 12, 0, time.Local).UnixMilli()
	assert.Equal(t, "2026-03-01", dayKey(ms))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local).UnixMilli(), startOfDayMs(ms))
	assert.Equal(t, startOfDayMs(ms)+dayMs-1, endOfDayMs(ms))
}
