// Package measure keeps the live layout measurements the geometry depends
// on: the timeline container's pixel width and each visible card's
// rendered height. Geometry code pulls a Snapshot through the Provider
// interface and never touches the observation mechanics.
package measure

import "sync"

// Snapshot is a point-in-time view of the measured layout.
type Snapshot struct {
	// ContainerWidth is the pixel width of the scrollable timeline
	// column. 0 means not measured yet.
	ContainerWidth float64

	// Heights maps event id to rendered card height in pixels. A card
	// that has not been observed yet is simply absent.
	Heights map[string]float64
}

// Height returns the measured height for an event id, or ok=false when
// the card has not been observed (mount race, hidden category).
func (s Snapshot) Height(id string) (float64, bool) {
	h, ok := s.Heights[id]
	return h, ok
}

// Provider supplies the current measurements.
type Provider interface {
	Measurements() Snapshot
}

// Tracker is a live Provider fed by the browser's resize observations.
// The editor page reports the container width and per-card heights after
// every resize, content change, or category switch.
type Tracker struct {
	mu      sync.RWMutex
	width   float64
	heights map[string]float64
}

// NewTracker returns an empty tracker: width 0, no cards observed.
func NewTracker() *Tracker {
	return &Tracker{heights: make(map[string]float64)}
}

// Report records a fresh set of observations. Heights merge over the
// previous report so partial observations (a single card's content
// changing) do not drop the rest.
func (t *Tracker) Report(containerWidth float64, heights map[string]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if containerWidth > 0 {
		t.width = containerWidth
	}
	for id, h := range heights {
		if h > 0 {
			t.heights[id] = h
		}
	}
}

// Prune drops measurements for cards no longer in the visible set
// (category switch unmounts them).
func (t *Tracker) Prune(visible map[string]bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.heights {
		if !visible[id] {
			delete(t.heights, id)
		}
	}
}

// Measurements implements Provider.
func (t *Tracker) Measurements() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	heights := make(map[string]float64, len(t.heights))
	for id, h := range t.heights {
		heights[id] = h
	}
	return Snapshot{ContainerWidth: t.width, Heights: heights}
}
