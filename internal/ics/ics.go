// Package ics converts calendar files into timeline events, so an
// existing ICS export can seed a document instead of retyping every
// entry by hand.
package ics

import (
	"bytes"
	"fmt"

	ical "github.com/arran4/golang-ical"

	"github.com/maruten0420/REDZONE-history/internal/document"
)

// Import parses an ICS payload and maps each VEVENT onto a fresh event
// in the given category: SUMMARY becomes the title, DESCRIPTION the
// body, DTSTART the date. VEVENTs without a start date are skipped;
// recurrence rules are not expanded (each VEVENT yields one card).
func Import(data []byte, cat document.Category) (document.Document, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ics parse: %w", err)
	}

	doc := make(document.Document, 0)
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil || start.IsZero() {
			continue
		}

		ev := document.NewEvent(cat)
		ev.Date = start.Format(document.DateLayout)
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			ev.Title = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
			ev.Description = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
			ev.URL = p.Value
		}
		doc = append(doc, ev)
	}

	if len(doc) == 0 {
		return nil, fmt.Errorf("ics: no datable events found")
	}
	return document.Normalize(doc), nil
}
