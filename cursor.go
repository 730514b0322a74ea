package orbus

import "github.com/google/uuid"

// Cursor is a subscriber's read position on a DeviceNode: the last
// generation it has successfully copied. synced distinguishes "never
// read" from "caught up at generation 0". A fresh cursor reads from the
// oldest record still in the node's ring.
type Cursor struct {
	lastGeneration uint64
	synced         bool
}

// Subscription pairs a borrowed *DeviceNode with its own Cursor. It is
// the handle returned by DeviceMaster.CreateSubscription; subscribers
// never own the node itself, only this borrow plus their cursor
// (spec.md 3, Lifecycle).
type Subscription struct {
	ID   uuid.UUID
	node *DeviceNode
	cur  Cursor
}

func newSubscription(node *DeviceNode) *Subscription {
	return &Subscription{ID: uuid.New(), node: node}
}

// Copy reads the next unseen record into out, advancing the
// subscription's cursor. Returns false if there is nothing new.
func (s *Subscription) Copy(out []byte) bool {
	return s.node.Copy(&s.cur, out)
}

// CheckUpdate reports whether new data is available without consuming
// it.
func (s *Subscription) CheckUpdate() bool {
	return s.node.CheckUpdate(&s.cur)
}

// Node returns the underlying DeviceNode this subscription borrows.
func (s *Subscription) Node() *DeviceNode {
	return s.node
}

// RegisterCallback registers sink on the underlying node.
func (s *Subscription) RegisterCallback(sink *Notifier) {
	s.node.RegisterCallback(sink)
	defaultLogger.Debug("subscription registered callback",
		"subscription", s.ID, "topic", s.node.meta.Name, "instance", s.node.instance)
}

// UnregisterCallback unregisters sink from the underlying node.
func (s *Subscription) UnregisterCallback(sink *Notifier) {
	s.node.UnregisterCallback(sink)
	defaultLogger.Debug("subscription unregistered callback",
		"subscription", s.ID, "topic", s.node.meta.Name, "instance", s.node.instance)
}
