package document

import "testing"

func seeded() *Store {
	s := NewStore()
	s.Seed(Document{
		{ID: "a", Date: "2020-01-01", Category: CategoryTechnique, Links: []Link{{TargetID: "b", Color: "#f00"}}},
		{ID: "b", Date: "2020-02-01", Category: CategoryTechnique},
		{ID: "c", Date: "2020-03-01", Category: CategoryAuthor},
	})
	return s
}

func TestRemoveLeavesDanglingLinks(t *testing.T) {
	s := seeded()

	if err := s.Remove("b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	a, ok := s.Find("a")
	if !ok {
		t.Fatal("event a disappeared")
	}
	// No cascade: a's link to the deleted event stays and simply stops
	// rendering.
	if len(a.Links) != 1 || a.Links[0].TargetID != "b" {
		t.Errorf("expected dangling link to b preserved, got %v", a.Links)
	}
}

func TestFindFirstMatchWinsOnDuplicateIDs(t *testing.T) {
	s := NewStore()
	s.Seed(Document{
		{ID: "dup", Title: "first", Date: "2020-01-01", Category: CategoryOther},
		{ID: "dup", Title: "second", Date: "2020-01-02", Category: CategoryOther},
	})

	ev, ok := s.Find("dup")
	if !ok {
		t.Fatal("Find failed")
	}
	if ev.Title != "first" {
		t.Errorf("expected first match to win, got %q", ev.Title)
	}
}

func TestSetOffsetClamps(t *testing.T) {
	s := seeded()

	if err := s.SetOffset("a", 140); err != nil {
		t.Fatalf("SetOffset failed: %v", err)
	}
	ev, _ := s.Find("a")
	if ev.XOffset != 100 {
		t.Errorf("expected clamped offset 100, got %v", ev.XOffset)
	}

	if err := s.SetOffset("a", -3); err != nil {
		t.Fatalf("SetOffset failed: %v", err)
	}
	ev, _ = s.Find("a")
	if ev.XOffset != 0 {
		t.Errorf("expected clamped offset 0, got %v", ev.XOffset)
	}
}

func TestSetOffsetUnknownEvent(t *testing.T) {
	s := seeded()
	if err := s.SetOffset("nope", 10); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestAddLinkRefusesSelfLink(t *testing.T) {
	s := seeded()
	if err := s.AddLink("a", "a", "#000"); err == nil {
		t.Error("expected self-link to be refused")
	}
}

func TestRemoveLinkDeletesFirstMatch(t *testing.T) {
	s := seeded()
	if err := s.RemoveLink("a", "b"); err != nil {
		t.Fatalf("RemoveLink failed: %v", err)
	}
	a, _ := s.Find("a")
	if len(a.Links) != 0 {
		t.Errorf("expected no links left, got %v", a.Links)
	}
	if err := s.RemoveLink("a", "b"); err == nil {
		t.Error("expected error removing missing link")
	}
}

func TestVisibleFiltersByCategory(t *testing.T) {
	s := seeded()
	vis := s.Visible(CategoryTechnique)
	if len(vis) != 2 {
		t.Fatalf("expected 2 technique events, got %d", len(vis))
	}
	vis = s.Visible(CategoryOther)
	if len(vis) != 0 {
		t.Errorf("expected no other events, got %d", len(vis))
	}
}

func TestSubscribersSeeCommittedMutations(t *testing.T) {
	s := seeded()
	var last Document
	calls := 0
	s.Subscribe(func(doc Document) {
		last = doc
		calls++
	})

	s.Append(NewEvent(CategoryOther))
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	if len(last) != 4 {
		t.Errorf("expected 4 events in snapshot, got %d", len(last))
	}

	// Seed must not notify; it happens before the loading state clears.
	s.Seed(Document{})
	if calls != 1 {
		t.Errorf("Seed must not notify subscribers, got %d calls", calls)
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	s := seeded()
	evs := s.Events()
	evs[0].Title = "mutated"
	orig, _ := s.Find(evs[0].ID)
	if orig.Title == "mutated" {
		t.Error("Events must return a copy, not a live reference")
	}
}

func TestSnapshotDetachedFromLinkMutation(t *testing.T) {
	s := NewStore()
	s.Seed(Document{
		{ID: "a", Date: "2020-01-01", Category: CategoryTechnique,
			Links: []Link{{TargetID: "x", Color: "#f00"}, {TargetID: "y", Color: "#00f"}}},
		{ID: "x", Date: "2020-02-01", Category: CategoryTechnique},
		{ID: "y", Date: "2020-03-01", Category: CategoryTechnique},
	})

	before := s.Events()
	found, _ := s.Find("a")

	if err := s.RemoveLink("a", "x"); err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}

	// The in-place shift inside RemoveLink must not reach through slices
	// handed out earlier.
	if got := before[0].Links[0].TargetID; got != "x" {
		t.Errorf("earlier snapshot changed underneath: Links[0].TargetID = %q, want %q", got, "x")
	}
	if got := found.Links[0].TargetID; got != "x" {
		t.Errorf("earlier Find result changed underneath: Links[0].TargetID = %q, want %q", got, "x")
	}
}
