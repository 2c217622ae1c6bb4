// Package hover tracks the cross-cutting highlight state: which card's
// description popover is showing and which connection is emphasized. One
// of each, last-writer-wins. Mouse hover applies immediately; touch goes
// through cancellable long-press timers.
package hover

import (
	"sync"
	"time"
)

// Long-press thresholds. Cards show their popover sooner than connectors
// highlight, since the connector gesture competes with scrolling.
const (
	CardPressDelay      = 500 * time.Millisecond
	ConnectorPressDelay = 1000 * time.Millisecond
)

// Connection identifies a highlighted connector by its two endpoints.
type Connection struct {
	SourceID string
	TargetID string
}

// Coordinator is the single holder of hover/highlight state.
type Coordinator struct {
	mu sync.Mutex

	cardDelay time.Duration
	connDelay time.Duration

	hoveredCard string
	highlighted Connection
	hasConn     bool

	pending *time.Timer
}

// NewCoordinator returns a coordinator with the default long-press
// thresholds.
func NewCoordinator() *Coordinator {
	return NewCoordinatorWithDelays(CardPressDelay, ConnectorPressDelay)
}

// NewCoordinatorWithDelays allows tests to shrink the thresholds.
func NewCoordinatorWithDelays(card, conn time.Duration) *Coordinator {
	return &Coordinator{cardDelay: card, connDelay: conn}
}

// HoverCard sets the hovered card immediately (mouse enter).
func (c *Coordinator) HoverCard(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.hoveredCard = id
}

// LeaveCard clears the hovered card (mouse leave).
func (c *Coordinator) LeaveCard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.hoveredCard = ""
}

// PressCard arms the card long-press timer (touch start). An earlier
// pending press, card or connector, is replaced.
func (c *Coordinator) PressCard(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.pending = time.AfterFunc(c.cardDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.hoveredCard = id
	})
}

// HoverConnection highlights a connection immediately (mouse over the
// widened hit stroke).
func (c *Coordinator) HoverConnection(sourceID, targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.highlighted = Connection{SourceID: sourceID, TargetID: targetID}
	c.hasConn = true
}

// LeaveConnection clears the highlighted connection.
func (c *Coordinator) LeaveConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.hasConn = false
	c.highlighted = Connection{}
}

// PressConnection arms the connector long-press timer (touch start on the
// hit stroke).
func (c *Coordinator) PressConnection(sourceID, targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.pending = time.AfterFunc(c.connDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.highlighted = Connection{SourceID: sourceID, TargetID: targetID}
		c.hasConn = true
	})
}

// CancelPress aborts a pending long-press without touching current state
// (finger moved before the threshold).
func (c *Coordinator) CancelPress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
}

// Release ends a touch interaction: cancels any pending press and clears
// both pieces of state.
func (c *Coordinator) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.hoveredCard = ""
	c.hasConn = false
	c.highlighted = Connection{}
}

// HoveredCard returns the card whose popover is showing, "" when none.
func (c *Coordinator) HoveredCard() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hoveredCard
}

// Highlighted returns the emphasized connection, if any.
func (c *Coordinator) Highlighted() (Connection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlighted, c.hasConn
}

// Emphasized reports whether a card sits at either end of the highlighted
// connection and should render raised.
func (c *Coordinator) Emphasized(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasConn && (c.highlighted.SourceID == id || c.highlighted.TargetID == id)
}

func (c *Coordinator) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}
