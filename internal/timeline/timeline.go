// Package timeline maps calendar dates and column offsets to pixel
// coordinates. It is pure: no state beyond the Scale value, no errors,
// all inputs clamped or defaulted.
package timeline

import (
	"math"
	"time"
)

const (
	// HeaderHeight is the fixed vertical offset above the first day.
	HeaderHeight = 80.0

	// BottomPadding is the extra space appended below the last day so the
	// final cards are not flush with the scroll end.
	BottomPadding = 200.0

	// Zoom is pixels per day. The UI exposes it as a 0.5–5.0 slider with
	// 0.1 steps.
	MinZoom     = 0.5
	MaxZoom     = 5.0
	ZoomStep    = 0.1
	DefaultZoom = 1.0
)

// Scale converts dates to vertical pixels for one zoom level.
type Scale struct {
	// Start is the timeline epoch. Dates before it clamp to the header
	// offset rather than going negative.
	Start time.Time

	// Zoom is pixels per day.
	Zoom float64
}

// NewScale builds a scale with the zoom clamped to its UI range.
func NewScale(start time.Time, zoom float64) Scale {
	return Scale{Start: start, Zoom: ClampZoom(zoom)}
}

// ClampZoom bounds a zoom factor to the slider range.
func ClampZoom(z float64) float64 {
	if z < MinZoom || math.IsNaN(z) {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// DateToY returns the vertical pixel for a date. Fractional pixels are
// fine; callers that need whole pixels round themselves.
func (s Scale) DateToY(d time.Time) float64 {
	days := daysBetween(s.Start, d)
	if days < 0 {
		days = 0
	}
	return days*s.Zoom + HeaderHeight
}

// TotalHeight returns the scrollable pixel height needed to reach end.
func (s Scale) TotalHeight(end time.Time) float64 {
	days := daysBetween(s.Start, end)
	if days < 0 {
		days = 0
	}
	return days*s.Zoom + BottomPadding
}

// daysBetween counts calendar days from a to b, fractional when the times
// are not aligned to midnight.
func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// OffsetToX converts a card's horizontal offset percentage into the pixel
// coordinate of the card's center. 0% puts the card's left edge at the
// container's left edge, 100% its right edge at the container's right
// edge. An unmeasured container (width 0) yields the 0 sentinel rather
// than failing; out-of-range percentages are clamped best-effort.
func OffsetToX(pct, containerWidth, cardWidth float64) float64 {
	if containerWidth <= 0 {
		return 0
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	travel := containerWidth - cardWidth
	if travel < 0 {
		travel = 0
	}
	return travel*(pct/100) + cardWidth/2
}
