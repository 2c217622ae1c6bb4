// Package drag implements the per-card lock/unlock and drag-to-reposition
// state machine. A card starts locked; a double-tap unlocks it; while
// unlocked a pointer-down opens a drag session that tracks an uncommitted
// display offset and commits exactly once on release.
package drag

import "sync"

// State is the card's interaction mode.
type State int

const (
	Locked State = iota
	Unlocked
	Dragging
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Controller runs one card's state machine. Not safe for concurrent use;
// the Manager serializes access the way the single UI thread does.
type Controller struct {
	state State

	// Drag session, valid while state == Dragging. Travel is measured
	// once at drag start and not re-measured mid-drag.
	startX      float64
	startOffset float64
	travel      float64
	display     float64

	commit func(pct float64)
}

// NewController returns a locked controller. commit receives the final
// clamped offset percentage once per completed drag session.
func NewController(commit func(pct float64)) *Controller {
	return &Controller{state: Locked, commit: commit}
}

// State returns the current interaction mode.
func (c *Controller) State() State {
	return c.state
}

// ToggleLock flips between Locked and Unlocked on a double-tap. The lock
// gesture is not reachable mid-drag.
func (c *Controller) ToggleLock() {
	switch c.state {
	case Locked:
		c.state = Unlocked
	case Unlocked:
		c.state = Locked
	}
}

// PointerDown starts a drag session when the card is unlocked. While
// locked it only raises the card (the Manager side). currentOffset is the
// card's committed offset and travel the column's available distance
// (container width minus card width), both captured at this instant.
func (c *Controller) PointerDown(x, currentOffset, travel float64) {
	if c.state != Unlocked {
		return
	}
	c.state = Dragging
	c.startX = x
	c.startOffset = currentOffset
	c.travel = travel
	c.display = currentOffset
}

// PointerMove recomputes the uncommitted display offset. Applied
// immediately, no debounce; later moves always override earlier ones.
// A non-positive travel distance disables movement.
func (c *Controller) PointerMove(x float64) {
	if c.state != Dragging || c.travel <= 0 {
		return
	}
	c.display = clamp(c.startOffset + (x-c.startX)/c.travel*100)
}

// PointerUp ends the session, committing the final offset exactly once,
// and returns to Unlocked. The release listener is document-global, so
// this fires wherever the pointer ends up.
func (c *Controller) PointerUp() {
	if c.state != Dragging {
		return
	}
	c.state = Unlocked
	if c.commit != nil {
		c.commit(clamp(c.display))
	}
}

// DisplayOffset returns the position to render: the live drag offset
// while dragging, otherwise the committed value. An external change
// (edit-form slider) shows up immediately when not dragging.
func (c *Controller) DisplayOffset(committed float64) float64 {
	if c.state == Dragging {
		return c.display
	}
	return committed
}

func clamp(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Manager owns one controller per card and the "active" (raised) card,
// last-writer-wins.
type Manager struct {
	mu       sync.Mutex
	cards    map[string]*Controller
	activeID string
	commit   func(id string, pct float64)
}

// NewManager builds a manager committing through fn (the owning store).
func NewManager(fn func(id string, pct float64)) *Manager {
	return &Manager{cards: make(map[string]*Controller), commit: fn}
}

// controller returns the card's controller, creating a locked one on
// first contact.
func (m *Manager) controller(id string) *Controller {
	c, ok := m.cards[id]
	if !ok {
		c = NewController(func(pct float64) {
			if m.commit != nil {
				m.commit(id, pct)
			}
		})
		m.cards[id] = c
	}
	return c
}

// ToggleLock handles a double-tap on the card body: lock toggle plus
// raising the card.
func (m *Manager) ToggleLock(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controller(id).ToggleLock()
	m.activeID = id
}

// PointerDown handles mouse-down/touch-start on a card. Locked cards only
// become active; unlocked cards start dragging.
func (m *Manager) PointerDown(id string, x, currentOffset, travel float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controller(id).PointerDown(x, currentOffset, travel)
	m.activeID = id
}

// PointerMove routes a move to the card's session.
func (m *Manager) PointerMove(id string, x float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controller(id).PointerMove(x)
}

// PointerUp ends the card's session, if any.
func (m *Manager) PointerUp(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controller(id).PointerUp()
}

// State returns the card's interaction mode.
func (m *Manager) State(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller(id).State()
}

// ActiveID returns the raised card, if any.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// DisplayOffset returns the position to render for a card.
func (m *Manager) DisplayOffset(id string, committed float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller(id).DisplayOffset(committed)
}
