package document

import (
	"fmt"
	"sync"
)

// Store is the single owner of the in-memory document. All mutation flows
// through its named operations; components below the top level never hold
// a writable reference into the event list.
type Store struct {
	mu   sync.Mutex
	doc  Document
	subs []func(Document)
}

// NewStore returns a store holding an empty document.
func NewStore() *Store {
	return &Store{doc: Document{}}
}

// Subscribe registers fn to run after every committed mutation, with a
// copy of the new document. Used for the best-effort cache snapshot.
func (s *Store) Subscribe(fn func(Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Seed installs the initially loaded document without notifying
// subscribers. Used once at startup, before the loading state clears.
func (s *Store) Seed(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = Normalize(doc)
}

// Reset replaces the whole document (file import, cache restore,
// reset-to-remote) and notifies.
func (s *Store) Reset(doc Document) {
	s.mu.Lock()
	s.doc = Normalize(doc)
	s.mu.Unlock()
	s.notify()
}

// Events returns a copy of the current document.
func (s *Store) Events() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Find returns the event with the given id. Under duplicate ids (possible
// in hand-edited imports) the first match wins.
func (s *Store) Find(id string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.doc {
		if ev.ID == id {
			return copyEvent(ev), true
		}
	}
	return Event{}, false
}

// Append adds a new event to the document.
func (s *Store) Append(ev Event) {
	s.mu.Lock()
	s.doc = append(s.doc, Normalize(Document{ev})[0])
	s.mu.Unlock()
	s.notify()
}

// Replace swaps the event with the given id for ev (edit-form commit).
func (s *Store) Replace(id string, ev Event) error {
	s.mu.Lock()
	found := false
	for i := range s.doc {
		if s.doc[i].ID == id {
			ev.ID = id
			ev.XOffset = ClampOffset(ev.XOffset)
			s.doc[i] = Normalize(Document{ev})[0]
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("event not found: %s", id)
	}
	s.notify()
	return nil
}

// Remove deletes the event with the given id. Links in other events that
// point at the removed id are left in place and simply stop rendering;
// there is no cascade.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	filtered := make(Document, 0, len(s.doc))
	found := false
	for _, ev := range s.doc {
		if ev.ID == id && !found {
			found = true
			continue
		}
		filtered = append(filtered, ev)
	}
	s.doc = filtered
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("event not found: %s", id)
	}
	s.notify()
	return nil
}

// SetOffset commits a drag session's final offset, clamped to [0,100].
func (s *Store) SetOffset(id string, pct float64) error {
	s.mu.Lock()
	found := false
	for i := range s.doc {
		if s.doc[i].ID == id {
			s.doc[i].XOffset = ClampOffset(pct)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("event not found: %s", id)
	}
	s.notify()
	return nil
}

// AddLink attaches a directed link from the event with id to targetID.
// Self-links are refused here (the editing surface); imported documents
// containing them are not specially handled.
func (s *Store) AddLink(id, targetID, color string) error {
	if id == targetID {
		return fmt.Errorf("an event cannot link to itself")
	}
	s.mu.Lock()
	found := false
	for i := range s.doc {
		if s.doc[i].ID == id {
			s.doc[i].Links = append(s.doc[i].Links, Link{TargetID: targetID, Color: color})
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("event not found: %s", id)
	}
	s.notify()
	return nil
}

// RemoveLink deletes the first link from id to targetID.
func (s *Store) RemoveLink(id, targetID string) error {
	s.mu.Lock()
	found := false
	for i := range s.doc {
		if s.doc[i].ID != id {
			continue
		}
		for j, l := range s.doc[i].Links {
			if l.TargetID == targetID {
				s.doc[i].Links = append(s.doc[i].Links[:j], s.doc[i].Links[j+1:]...)
				found = true
				break
			}
		}
		break
	}
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("link not found: %s -> %s", id, targetID)
	}
	s.notify()
	return nil
}

// Visible returns the events in the given category, the only ones mounted
// at a time.
func (s *Store) Visible(cat Category) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Document, 0, len(s.doc))
	for _, ev := range s.doc {
		if ev.Category == cat {
			out = append(out, copyEvent(ev))
		}
	}
	return out
}

// snapshot deep-copies the document. Link slices are copied too: later
// in-place link mutations must not show through documents already handed
// to readers or cache subscribers.
func (s *Store) snapshot() Document {
	out := make(Document, len(s.doc))
	for i, ev := range s.doc {
		out[i] = copyEvent(ev)
	}
	return out
}

func copyEvent(ev Event) Event {
	links := make([]Link, len(ev.Links))
	copy(links, ev.Links)
	ev.Links = links
	return ev
}

func (s *Store) notify() {
	s.mu.Lock()
	doc := s.snapshot()
	subs := make([]func(Document), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(doc)
	}
}
