package hover

import (
	"testing"
	"time"
)

// Short thresholds keep the timer tests fast.
func fastCoordinator() *Coordinator {
	return NewCoordinatorWithDelays(10*time.Millisecond, 20*time.Millisecond)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestMouseHoverImmediate(t *testing.T) {
	c := fastCoordinator()
	c.HoverCard("a")
	if c.HoveredCard() != "a" {
		t.Errorf("expected hovered a, got %q", c.HoveredCard())
	}
	c.LeaveCard()
	if c.HoveredCard() != "" {
		t.Errorf("expected cleared hover, got %q", c.HoveredCard())
	}
}

func TestLongPressSetsHoverAfterDelay(t *testing.T) {
	c := fastCoordinator()
	c.PressCard("a")
	if c.HoveredCard() != "" {
		t.Error("hover must not fire before the threshold")
	}
	waitFor(t, func() bool { return c.HoveredCard() == "a" })
}

func TestEarlyReleaseCancelsLongPress(t *testing.T) {
	c := fastCoordinator()
	c.PressCard("a")
	c.Release()
	time.Sleep(30 * time.Millisecond)
	if c.HoveredCard() != "" {
		t.Errorf("cancelled press must not fire, got %q", c.HoveredCard())
	}
}

func TestEarlyMoveCancelsLongPress(t *testing.T) {
	c := fastCoordinator()
	c.HoverCard("keep") // existing state survives a cancelled press
	c.PressCard("a")
	c.CancelPress()
	time.Sleep(30 * time.Millisecond)
	if c.HoveredCard() != "keep" {
		t.Errorf("expected state untouched by cancelled press, got %q", c.HoveredCard())
	}
}

func TestConnectionHighlight(t *testing.T) {
	c := fastCoordinator()
	c.HoverConnection("a", "b")

	conn, ok := c.Highlighted()
	if !ok || conn.SourceID != "a" || conn.TargetID != "b" {
		t.Fatalf("expected highlighted (a,b), got %+v ok=%v", conn, ok)
	}
	if !c.Emphasized("a") || !c.Emphasized("b") {
		t.Error("both endpoint cards must be emphasized")
	}
	if c.Emphasized("c") {
		t.Error("unrelated card must not be emphasized")
	}

	c.LeaveConnection()
	if _, ok := c.Highlighted(); ok {
		t.Error("expected highlight cleared")
	}
}

func TestConnectionLongPress(t *testing.T) {
	c := fastCoordinator()
	c.PressConnection("a", "b")
	waitFor(t, func() bool {
		_, ok := c.Highlighted()
		return ok
	})
	c.Release()
	if _, ok := c.Highlighted(); ok {
		t.Error("release must clear the highlight")
	}
}

func TestLastWriterWins(t *testing.T) {
	c := fastCoordinator()
	c.HoverCard("a")
	c.HoverCard("b")
	if c.HoveredCard() != "b" {
		t.Errorf("expected last hover to win, got %q", c.HoveredCard())
	}

	c.HoverConnection("a", "b")
	c.HoverConnection("c", "d")
	conn, _ := c.Highlighted()
	if conn.SourceID != "c" {
		t.Errorf("expected last connection to win, got %+v", conn)
	}
}

func TestNewPressReplacesPending(t *testing.T) {
	c := fastCoordinator()
	c.PressCard("a")
	c.PressCard("b")
	waitFor(t, func() bool { return c.HoveredCard() != "" })
	if c.HoveredCard() != "b" {
		t.Errorf("expected replacing press to win, got %q", c.HoveredCard())
	}
}
