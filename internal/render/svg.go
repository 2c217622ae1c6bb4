// Package render turns the document into SVG, a full editor page, and
// PNG snapshots.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/maruten0420/REDZONE-history/internal/connector"
	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/measure"
	"github.com/maruten0420/REDZONE-history/internal/style"
	"github.com/maruten0420/REDZONE-history/internal/timeline"
)

// axisX is the horizontal position of the timeline's vertical line; the
// card column starts to its right.
const axisX = 48.0

// SVG renders one category column: axis, year ticks, connectors (under
// the cards) and the cards themselves. Every card group and connector
// carries data attributes the editor page wires gestures to.
func SVG(doc document.Document, cat document.Category, scale timeline.Scale, snap measure.Snapshot, sheet *style.Sheet) string {
	width := snap.ContainerWidth
	if width <= 0 {
		width = 960
	}
	cardW := sheet.CardWidth(width)

	last := scale.Start
	for _, ev := range doc {
		if d := ev.Day(); d.After(last) {
			last = d
		}
	}
	height := scale.TotalHeight(last)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`,
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, sheet.Page.Background)

	writeAxis(&b, scale, last, height, sheet)

	visible := doc.FilterCategory(cat)
	for _, c := range connector.Route(doc, cat, scale, snap, cardW) {
		writeConnector(&b, c, sheet)
	}
	for _, ev := range visible {
		writeCard(&b, ev, scale, snap, cardW, sheet)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// writeAxis draws the vertical line and one tick per year between the
// epoch and the last event.
func writeAxis(b *strings.Builder, scale timeline.Scale, last time.Time, height float64, sheet *style.Sheet) {
	fmt.Fprintf(b, `<line x1="%.0f" y1="0" x2="%.0f" y2="%.0f" stroke="%s" stroke-width="2"/>`,
		axisX, axisX, height, sheet.Axis.Line)

	for year := scale.Start.Year(); year <= last.Year(); year++ {
		tick := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		y := scale.DateToY(tick)
		fmt.Fprintf(b, `<line x1="%.0f" y1="%.1f" x2="%.0f" y2="%.1f" stroke="%s"/>`,
			axisX-6, y, axisX+6, y, sheet.Axis.Line)
		fmt.Fprintf(b, `<text x="%.0f" y="%.1f" fill="%s" font-size="11" text-anchor="end">%d</text>`,
			axisX-10, y+4, sheet.Axis.Tick, year)
	}
}

// writeConnector emits the visible curve plus the widened invisible hit
// stroke layered on top; the thin stroke alone is too small a pointer
// target.
func writeConnector(b *strings.Builder, c connector.Curve, sheet *style.Sheet) {
	path := c.Path()
	fmt.Fprintf(b, `<path d="%s" fill="none" stroke="%s" stroke-width="%.1f" class="conn" data-source="%s" data-target="%s"/>`,
		path, escape(c.Color), sheet.Connector.StrokeWidth, escape(c.SourceID), escape(c.TargetID))
	fmt.Fprintf(b, `<path d="%s" fill="none" stroke="transparent" stroke-width="%.0f" class="conn-hit" data-source="%s" data-target="%s"/>`,
		path, connector.HitStrokeWidth, escape(c.SourceID), escape(c.TargetID))
}

func writeCard(b *strings.Builder, ev document.Event, scale timeline.Scale, snap measure.Snapshot, cardW float64, sheet *style.Sheet) {
	centerX := timeline.OffsetToX(ev.XOffset, snap.ContainerWidth, cardW)
	left := centerX - cardW/2
	top := scale.DateToY(ev.Day())
	h, ok := snap.Height(ev.ID)
	if !ok {
		h = sheet.Card.BaseHeight
	}

	fmt.Fprintf(b, `<g class="card" data-id="%s" transform="translate(%.1f %.1f)">`, escape(ev.ID), left, top)
	fmt.Fprintf(b, `<rect width="%.0f" height="%.0f" rx="6" fill="%s" stroke="%s" stroke-width="1.5"/>`,
		cardW, h, sheet.Card.Background, sheet.BorderColor(ev.BorderColor))
	// Node marker at top-center; connectors terminate just above it.
	fmt.Fprintf(b, `<circle cx="%.0f" cy="0" r="4" fill="%s"/>`, cardW/2, sheet.Accent(ev.Category))
	fmt.Fprintf(b, `<text x="10" y="18" fill="%s" font-size="10">%s</text>`, sheet.Page.Subtle, escape(ev.Date))
	fmt.Fprintf(b, `<text x="10" y="36" fill="%s" font-size="%.0f" font-weight="bold">%s</text>`,
		sheet.Page.Text, sheet.Card.FontSize+1, escape(ev.Title))

	y := sheet.Card.BaseHeight - 10
	for _, line := range wrapText(ev.Description, cardW-20, sheet.Card.FontSize) {
		fmt.Fprintf(b, `<text x="10" y="%.0f" fill="%s" font-size="%.0f">%s</text>`,
			y, sheet.Page.Subtle, sheet.Card.FontSize, escape(line))
		y += sheet.Card.LineHeight
	}
	b.WriteString(`</g>`)
}

// wrapText splits text into lines that fit maxWidth at the given font
// size, using the same average-glyph-width heuristic the height
// estimator uses. Exact glyph metrics need a browser; close is fine.
func wrapText(text string, maxWidth, fontSize float64) []string {
	if text == "" {
		return nil
	}
	perLine := int(maxWidth / (fontSize * 0.6))
	if perLine < 1 {
		perLine = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > perLine {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
