package orbus

import "sync"

// Publisher is a publish-side handle on a DeviceNode. It carries the
// queue depth the caller requested; that depth is only applied to the
// node on the handle's first Publish call, per spec.md 4.4's queue
// growth semantics ("a publisher handle carries a requested depth; on
// the handle's first publish, if the node's depth is smaller, the
// node's buffer is reallocated").
type Publisher struct {
	node               *DeviceNode
	requestedQueueSize int
	applyGrowOnce      sync.Once
}

func newPublisher(node *DeviceNode, requestedQueueSize int) *Publisher {
	return &Publisher{node: node, requestedQueueSize: requestedQueueSize}
}

// Publish writes record to the underlying node, applying this
// handle's requested queue growth first if it hasn't been applied yet.
func (p *Publisher) Publish(record []byte) error {
	p.applyGrowOnce.Do(func() {
		p.node.growTo(p.requestedQueueSize)
	})
	return p.node.Publish(record)
}

// Node returns the underlying DeviceNode this publisher writes to.
func (p *Publisher) Node() *DeviceNode {
	return p.node
}
