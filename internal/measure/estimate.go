package measure

import "strings"

// Metrics are the card-box constants the height heuristic needs. Static
// rendering has no browser to observe, so heights are estimated from text
// length instead, the same way the SVG text sizing works: average glyph
// width as a fraction of the font size.
type Metrics struct {
	CardWidth   float64 // card box width in pixels
	BaseHeight  float64 // date row, title row, padding
	LineHeight  float64 // one wrapped description line
	FontSize    float64
	GlyphFactor float64 // average glyph width / font size; ~0.6 for proportional fonts
}

// DefaultMetrics matches the editor page's card layout.
func DefaultMetrics() Metrics {
	return Metrics{
		CardWidth:   240,
		BaseHeight:  64,
		LineHeight:  18,
		FontSize:    13,
		GlyphFactor: 0.6,
	}
}

// CardText is the content that drives a card's estimated height.
type CardText struct {
	ID          string
	Title       string
	Description string
}

// Estimator is a Provider for static (server-side) rendering: a fixed
// container width and text-derived card heights.
type Estimator struct {
	snap Snapshot
}

// NewEstimator precomputes a snapshot for the given cards.
func NewEstimator(containerWidth float64, m Metrics, cards []CardText) *Estimator {
	heights := make(map[string]float64, len(cards))
	for _, c := range cards {
		heights[c.ID] = m.estimateHeight(c)
	}
	return &Estimator{snap: Snapshot{ContainerWidth: containerWidth, Heights: heights}}
}

// Measurements implements Provider.
func (e *Estimator) Measurements() Snapshot {
	return e.snap
}

func (m Metrics) estimateHeight(c CardText) float64 {
	h := m.BaseHeight
	if c.Description != "" {
		h += float64(m.wrapLines(c.Description)) * m.LineHeight
	}
	// Long titles wrap onto a second row.
	if m.textWidth(c.Title) > m.CardWidth-20 {
		h += m.LineHeight
	}
	return h
}

// wrapLines estimates how many lines a description occupies in the card
// body at the metric's font.
func (m Metrics) wrapLines(text string) int {
	perLine := (m.CardWidth - 20) / (m.FontSize * m.GlyphFactor)
	if perLine < 1 {
		perLine = 1
	}
	lines := 0
	for _, para := range strings.Split(text, "\n") {
		n := len([]rune(para))
		lines += n/int(perLine) + 1
	}
	return lines
}

func (m Metrics) textWidth(text string) float64 {
	return float64(len([]rune(text))) * m.FontSize * m.GlyphFactor
}
