package report

import (
	"fmt"
	"time"
)

type Preset string

const (
	PresetLast7Days  Preset = "7d"
	PresetLast30Days Preset = "30d"
	PresetCustom     Preset = "custom"
)

// Range is an inclusive millisecond interval anchored at local-day
// boundaries: FromMs is a start-of-day, ToMs an end-of-day.
type Range struct {
	FromMs int64 `json:"fromMs"`
	ToMs   int64 `json:"toMs"`
}

// Days returns the number of calendar days the range covers.
func (r Range) Days() int {
	return int((r.ToMs-r.FromMs)/dayMs) + 1
}

func (r Range) Contains(ms int64) bool {
	return ms >= r.FromMs && ms <= r.ToMs
}

// ResolveRange converts a preset into a concrete interval. For 7d/30d the
// upper bound is end-of-day "now" and the lower bound is now-(N-1) days,
// start-of-day. Custom takes two YYYY-MM-DD dates in local time; an inverted
// pair is swapped so FromMs always holds the earlier bound.
func ResolveRange(preset Preset, from, to string, now time.Time) (Range, error) {
	nowMs := now.UnixMilli()
	switch preset {
	case PresetLast7Days:
		return Range{FromMs: startOfDayMs(nowMs - 6*dayMs), ToMs: endOfDayMs(nowMs)}, nil
	case PresetLast30Days:
		return Range{FromMs: startOfDayMs(nowMs - 29*dayMs), ToMs: endOfDayMs(nowMs)}, nil
	case PresetCustom:
		f, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return Range{}, fmt.Errorf("bad from date [%s]: %w", from, err)
		}
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return Range{}, fmt.Errorf("bad to date [%s]: %w", to, err)
		}
		if f.After(t) {
			f, t = t, f
		}
		return Range{FromMs: startOfDayMs(f.UnixMilli()), ToMs: endOfDayMs(t.UnixMilli())}, nil
	default:
		return Range{}, fmt.Errorf("unknown range preset [%s]", preset)
	}
}
