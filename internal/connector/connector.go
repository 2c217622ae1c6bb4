// Package connector derives the renderable curve for every link between
// two currently visible cards.
package connector

import (
	"fmt"
	"math"

	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/measure"
	"github.com/maruten0420/REDZONE-history/internal/timeline"
)

const (
	// TargetGap ends the curve slightly above the target card so it
	// terminates at the node marker instead of under the card border.
	TargetGap = 6.0

	// MinHandle floors the control-point offset so short links still
	// bulge instead of kinking.
	MinHandle = 50.0

	// HandleFraction scales the control-point offset with the vertical
	// distance between the endpoints.
	HandleFraction = 0.4

	// StrokeWidth is the visible stroke; HitStrokeWidth is the invisible
	// widened stroke layered on top for pointer and finger targeting.
	StrokeWidth    = 2.0
	HitStrokeWidth = 24.0
)

// Curve is one renderable connector between two visible cards.
type Curve struct {
	SourceID string `json:"source"`
	TargetID string `json:"target"`
	Color    string `json:"color"`

	// Endpoints: source bottom-center, just above target top-center.
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`

	// Handle is the vertical control-point offset.
	Handle float64 `json:"handle"`
}

// Path emits the cubic Bézier as an SVG path. Both control points sit
// directly below/above their endpoints, so the curve leaves the source
// straight down and enters the target straight up no matter how far apart
// the cards sit horizontally; that is what keeps stacked links readable.
func (c Curve) Path() string {
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		c.X1, c.Y1,
		c.X1, c.Y1+c.Handle,
		c.X2, c.Y2-c.Handle,
		c.X2, c.Y2)
}

// Route computes curves for every link whose source and target are both
// in the visible category. Dangling targets and cross-category targets
// are silently skipped; that is steady state, not an error.
func Route(doc document.Document, cat document.Category, scale timeline.Scale, snap measure.Snapshot, cardWidth float64) []Curve {
	visible := make(map[string]document.Event, len(doc))
	for _, ev := range doc {
		if ev.Category != cat {
			continue
		}
		if _, dup := visible[ev.ID]; dup {
			continue // first match wins under duplicate ids
		}
		visible[ev.ID] = ev
	}

	curves := make([]Curve, 0)
	for _, src := range doc {
		if src.Category != cat {
			continue
		}
		for _, link := range src.Links {
			tgt, ok := visible[link.TargetID]
			if !ok {
				continue
			}

			srcHeight, _ := snap.Height(src.ID) // 0 until observed
			y1 := scale.DateToY(src.Day()) + srcHeight
			y2 := scale.DateToY(tgt.Day()) - TargetGap

			handle := math.Abs(y2-y1) * HandleFraction
			if handle < MinHandle {
				handle = MinHandle
			}

			curves = append(curves, Curve{
				SourceID: src.ID,
				TargetID: tgt.ID,
				Color:    link.Color,
				X1:       timeline.OffsetToX(src.XOffset, snap.ContainerWidth, cardWidth),
				Y1:       y1,
				X2:       timeline.OffsetToX(tgt.XOffset, snap.ContainerWidth, cardWidth),
				Y2:       y2,
				Handle:   handle,
			})
		}
	}
	return curves
}
