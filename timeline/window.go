package timeline

import (
	"math"

	"github.com/stsysd/lifemap/model"
)

// MinDisplaySpan is the narrowest window autoscaling may produce, in years.
const MinDisplaySpan = 20

// Window is the visible age range [Start, Start+Span].
type Window struct {
	Start float64 `json:"start"`
	Span  float64 `json:"span"`
}

// End returns the last visible age.
func (w Window) End() float64 {
	return w.Start + w.Span
}

// Visible reports whether an item is shown under the view mode.
// past keeps items that started by currentAge; future keeps items still running at currentAge.
func Visible(a Ages, mode model.ViewMode, currentAge float64) bool {
	switch mode {
	case model.ViewPast:
		return a.Start <= currentAge
	case model.ViewFuture:
		return a.EndOrStart() >= currentAge
	default:
		return true
	}
}

// VisibleItems filters normalized ages by view mode.
func VisibleItems(ages []Ages, mode model.ViewMode, currentAge float64) []Ages {
	var out []Ages
	for _, a := range ages {
		if Visible(a, mode, currentAge) {
			out = append(out, a)
		}
	}
	return out
}

// SelectWindow chooses the visible age window for the already filtered items.
// Without autoscale the whole configured range is shown. A non-positive ageRange
// yields an empty window.
func SelectWindow(visible []Ages, ageRange, currentAge int, mode model.ViewMode, autoScale bool) Window {
	if ageRange <= 0 {
		return Window{}
	}
	full := Window{Start: 0, Span: float64(ageRange)}
	if !autoScale || ageRange < MinDisplaySpan {
		return full
	}

	limit := float64(ageRange)
	now := float64(currentAge)

	if len(visible) == 0 {
		switch mode {
		case model.ViewFuture:
			span := max(min(limit-now, 40), MinDisplaySpan)
			return clampWindow(now, now+span, limit)
		case model.ViewPast:
			return clampWindow(0, max(now, MinDisplaySpan), limit)
		default:
			return clampWindow(0, min(limit, 40), limit)
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, a := range visible {
		lo = min(lo, a.Start)
		hi = max(hi, a.EndOrStart())
	}
	pad := max((hi-lo)*0.1, 5)
	start := math.Floor(max(0, lo-pad))
	end := math.Ceil(hi + pad)

	switch mode {
	case model.ViewFuture:
		start = max(start, now)
		if end-start < MinDisplaySpan {
			end = start + MinDisplaySpan
		}
	case model.ViewPast:
		end = min(end, max(now, 0))
		if end-start < MinDisplaySpan {
			start = max(0, end-MinDisplaySpan)
		}
		if end-start < MinDisplaySpan {
			end = start + MinDisplaySpan
		}
	default:
		if end-start < MinDisplaySpan {
			mid := (start + end) / 2
			start = max(0, math.Floor(mid-MinDisplaySpan/2))
			end = start + MinDisplaySpan
		}
	}
	return clampWindow(start, end, limit)
}

// clampWindow keeps [start, end] inside [0, limit] by moving start rather than shrinking the span.
func clampWindow(start, end, limit float64) Window {
	span := min(end-start, limit)
	if start+span > limit {
		start = limit - span
	}
	start = max(0, start)
	return Window{Start: start, Span: span}
}
