package document

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Category is one of the three fixed topical columns.
type Category string

const (
	CategoryTechnique Category = "technique"
	CategoryAuthor    Category = "author"
	CategoryOther     Category = "other"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryTechnique, CategoryAuthor, CategoryOther}
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTechnique, CategoryAuthor, CategoryOther:
		return true
	}
	return false
}

// Border color tags. Purely cosmetic.
const (
	BorderDefault = "default"
	BorderRed     = "red"
	BorderBlue    = "blue"
)

// DefaultXOffset is the horizontal position assigned to events that never
// had one (documents written before the field existed).
const DefaultXOffset = 50

// DateLayout is the wire format for event dates. No time of day, no zone;
// dates are parsed as local midnight.
const DateLayout = "2006-01-02"

// Link is a directed, colored connector from its owning event to TargetID.
type Link struct {
	TargetID string `json:"targetId"`
	Color    string `json:"color"`
}

// Event is a single dated, categorized card. The only persisted entity.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Category    Category `json:"category"`
	URL         string   `json:"url,omitempty"`
	Links       []Link   `json:"links"`
	XOffset     float64  `json:"xOffset"`
	BorderColor string   `json:"borderColor"`
}

// Day returns the event's date at local midnight. Unparseable dates
// resolve to the zero time, which the layout clamps to the top.
func (e Event) Day() time.Time {
	t, err := time.ParseInLocation(DateLayout, e.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Document is the whole persisted event list.
type Document []Event

// FilterCategory returns the events in one column, preserving order.
func (d Document) FilterCategory(cat Category) Document {
	out := make(Document, 0, len(d))
	for _, ev := range d {
		if ev.Category == cat {
			out = append(out, ev)
		}
	}
	return out
}

// eventWire mirrors Event but keeps optional fields as pointers so that
// "absent" and "zero" can be told apart while decoding old documents.
type eventWire struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Category    Category `json:"category"`
	URL         string   `json:"url,omitempty"`
	Links       []Link   `json:"links"`
	XOffset     *float64 `json:"xOffset"`
	BorderColor string   `json:"borderColor"`
}

// Parse decodes a persisted document. The top-level value must be a JSON
// array; anything else is an error and the caller's current document is
// left untouched. Missing optional fields are defaulted.
func Parse(data []byte) (Document, error) {
	var wire []eventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("document must be a JSON array of events: %w", err)
	}

	doc := make(Document, 0, len(wire))
	for _, w := range wire {
		ev := Event{
			ID:          w.ID,
			Title:       w.Title,
			Description: w.Description,
			Date:        w.Date,
			Category:    w.Category,
			URL:         w.URL,
			Links:       w.Links,
			BorderColor: w.BorderColor,
		}
		if w.XOffset != nil {
			ev.XOffset = *w.XOffset
		} else {
			ev.XOffset = DefaultXOffset
		}
		doc = append(doc, ev)
	}
	return Normalize(doc), nil
}

// Export serializes the document. Defaults applied on import become
// explicit fields, so export(import(x)) round-trips.
func Export(doc Document) ([]byte, error) {
	return json.MarshalIndent(Normalize(doc), "", "  ")
}

// Normalize applies the defaulting rules for every ingestion boundary
// (remote load, file import, cache restore). Idempotent: normalizing an
// already-normalized document is a no-op.
func Normalize(doc Document) Document {
	out := make(Document, len(doc))
	for i, ev := range doc {
		if ev.BorderColor == "" {
			ev.BorderColor = BorderDefault
		}
		if ev.Category == "" {
			ev.Category = CategoryOther
		}
		if ev.Links == nil {
			ev.Links = []Link{}
		}
		out[i] = ev
	}
	return out
}

// ClampOffset bounds an x-offset percentage to [0,100]. Every code path
// that writes an offset goes through this; render paths also clamp so a
// hand-edited import cannot push a card off-screen.
func ClampOffset(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// NewEvent creates a fresh event for the currently active column: a new
// id, today's date, centered offset and no links.
func NewEvent(active Category) Event {
	if !ValidCategory(active) {
		active = CategoryOther
	}
	return Event{
		ID:          newID(),
		Date:        time.Now().Format(DateLayout),
		Category:    active,
		XOffset:     DefaultXOffset,
		BorderColor: BorderDefault,
		Links:       []Link{},
	}
}

func newID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived id; uniqueness is best effort.
		return fmt.Sprintf("ev-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
