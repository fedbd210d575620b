package report

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const dayMs = int64(24 * time.Hour / time.Millisecond)

// Status is the closed order-status set every raw spelling collapses into.
type Status string

const (
	StatusDone      Status = "done"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusUnknown   Status = "unknown"
)

var statusAliases = map[string]Status{
	"done":       StatusDone,
	"completed":  StatusDone,
	"paid":       StatusDone,
	"pending":    StatusPending,
	"processing": StatusPending,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
}

// NormalizeStatus maps any raw status spelling to the closed set. It is
// total: unmatched and empty inputs yield StatusUnknown.
func NormalizeStatus(s string) Status {
	v := strings.ToLower(strings.TrimSpace(s))
	if st, ok := statusAliases[v]; ok {
		return st
	}
	return StatusUnknown
}

// asNumber coerces v to a finite float64 with a fallback. Receipts are
// schema-on-read, so numerics may arrive as numbers, strings or nothing.
func asNumber(v any, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	case float32:
		return asNumber(float64(n), fallback)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return fallback
		}
		return asNumber(f, fallback)
	case decimal.Decimal:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return fallback
		}
		return asNumber(f, fallback)
	default:
		return fallback
	}
}

// asString coerces identifier fields that may arrive as strings or numbers.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// toMillis normalizes a timestamp of any supported shape to epoch
// milliseconds. Unsupported or zero values yield 0, which excludes the
// record from day bucketing without failing the whole report.
func toMillis(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case time.Time:
		if t.IsZero() {
			return 0
		}
		return t.UnixMilli()
	case *time.Time:
		if t == nil || t.IsZero() {
			return 0
		}
		return t.UnixMilli()
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return toMillis(f)
	case string:
		s := strings.TrimSpace(t)
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.UnixMilli()
		}
		if ts, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			return ts.UnixMilli()
		}
		return 0
	default:
		return 0
	}
}

var lkrPrinter = message.NewPrinter(language.English)

// FormatLKR renders an amount the way the admin UI shows money.
func FormatLKR(amount float64) string {
	return lkrPrinter.Sprintf("Rs. %v", number.Decimal(amount))
}

// dayKey buckets an epoch-millisecond timestamp into its local calendar day.
func dayKey(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02")
}

func startOfDayMs(ms int64) int64 {
	t := time.UnixMilli(ms).Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UnixMilli()
}

func endOfDayMs(ms int64) int64 {
	t := time.UnixMilli(ms).Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location()).UnixMilli()
}
