package orbus

import "sync"

// nodeKey identifies a DeviceNode by (topic identity, instance index).
type nodeKey struct {
	topic    uint64
	instance int
}

// DeviceMaster is the process-wide registry mapping (TopicMeta,
// instance) to DeviceNode. It lazily materializes nodes on first
// publisher or subscriber and never destroys them before Teardown.
// Grounded on the teacher's EngineRouter (engine_registry.go): a map
// behind a single mutex, held only across lookup/insert.
type DeviceMaster struct {
	cfg Config

	mu    sync.RWMutex
	nodes map[nodeKey]*DeviceNode
}

// NewMaster creates a private registry governed by cfg. Most callers
// use Default() instead; NewMaster exists for tests that want
// isolation from the package-wide singleton.
func NewMaster(cfg Config) *DeviceMaster {
	return &DeviceMaster{
		cfg:   cfg,
		nodes: make(map[nodeKey]*DeviceNode),
	}
}

var (
	defaultMasterOnce sync.Once
	defaultMaster     *DeviceMaster
)

// Default returns the lazily-initialized, process-wide DeviceMaster,
// matching spec.md 9's "Global registry ... Implementers should expose
// it as a lazily-initialized singleton."
func Default() *DeviceMaster {
	defaultMasterOnce.Do(func() {
		defaultMaster = NewMaster(DefaultConfig())
	})
	return defaultMaster
}

func (m *DeviceMaster) resolveDepth(meta *TopicMeta, requested int) int {
	if requested > 0 {
		return requested
	}
	if meta.DefaultQueueDepth > 0 {
		return meta.DefaultQueueDepth
	}
	return m.cfg.DefaultQueueDepth
}

// countForTopic returns how many instances of meta already exist.
// Must be called with m.mu held.
func (m *DeviceMaster) countForTopic(topicID uint64) int {
	n := 0
	for k := range m.nodes {
		if k.topic == topicID {
			n++
		}
	}
	return n
}

// openOrCreate looks up (meta, instance), creating it on first use.
// requestedQueueSize is only honored at creation time; an existing
// node's depth is changed solely through a Publisher's first Publish
// (see growTo / Publisher.Publish), per spec.md 4.4.
func (m *DeviceMaster) openOrCreate(meta *TopicMeta, instance, requestedQueueSize int) (*DeviceNode, error) {
	key := nodeKey{meta.id, instance}

	m.mu.RLock()
	if node, ok := m.nodes[key]; ok {
		m.mu.RUnlock()
		return node, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if node, ok := m.nodes[key]; ok {
		return node, nil
	}

	if m.cfg.MaxInstances > 0 && m.countForTopic(meta.id) >= m.cfg.MaxInstances {
		return nil, ErrInstanceExhausted
	}

	depth := m.resolveDepth(meta, requestedQueueSize)
	node := newDeviceNode(meta, instance, depth, defaultLogger)
	m.nodes[key] = node
	return node, nil
}

// openNextFreePublisher scans instances 0,1,2,... for the lowest index
// that is either unmaterialized or materialized-but-never-advertised,
// reserving it so a concurrent caller can't claim the same slot. See
// spec.md 4.1.
func (m *DeviceMaster) openNextFreePublisher(meta *TopicMeta, requestedQueueSize int) (*DeviceNode, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for instance := 0; ; instance++ {
		if m.cfg.MaxInstances > 0 && instance >= m.cfg.MaxInstances {
			return nil, 0, ErrInstanceExhausted
		}

		key := nodeKey{meta.id, instance}
		node, ok := m.nodes[key]
		if !ok {
			depth := m.resolveDepth(meta, requestedQueueSize)
			node = newDeviceNode(meta, instance, depth, defaultLogger)
			node.reserved = true
			m.nodes[key] = node
			return node, instance, nil
		}

		if !node.reserved && !node.isAdvertised() {
			node.reserved = true
			return node, instance, nil
		}
	}
}

// Lookup returns the node for (meta, instance) if it has already been
// materialized.
func (m *DeviceMaster) Lookup(meta *TopicMeta, instance int) (*DeviceNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[nodeKey{meta.id, instance}]
	return node, ok
}

// CreatePublisher auto-assigns the lowest free instance of meta and
// returns a Publisher for it. If instance is non-nil, the chosen index
// is written into it.
func (m *DeviceMaster) CreatePublisher(meta *TopicMeta, instance *int, qsize int) (*Publisher, error) {
	node, inst, err := m.openNextFreePublisher(meta, qsize)
	if err != nil {
		return nil, err
	}
	if instance != nil {
		*instance = inst
	}
	return newPublisher(node, qsize), nil
}

// CreatePublisherFixed returns a Publisher targeting a specific
// instance, materializing it if needed.
func (m *DeviceMaster) CreatePublisherFixed(meta *TopicMeta, instance, qsize int) (*Publisher, error) {
	node, err := m.openOrCreate(meta, instance, qsize)
	if err != nil {
		return nil, err
	}
	return newPublisher(node, qsize), nil
}

// CreateSubscription returns a fresh Subscription (node borrow plus a
// zero cursor) for (meta, instance), materializing the node if needed.
func (m *DeviceMaster) CreateSubscription(meta *TopicMeta, instance int) (*Subscription, error) {
	node, err := m.openOrCreate(meta, instance, 0)
	if err != nil {
		return nil, err
	}
	return newSubscription(node), nil
}

// NamedNodeStats is a DeviceNode's stats snapshot labeled with the
// topic name and instance it belongs to, for metrics export.
type NamedNodeStats struct {
	Topic    string
	Instance int
	NodeStats
}

// AllStats returns a point-in-time snapshot of every materialized
// node's counters, consumed by the metrics exporters in metrics.go.
func (m *DeviceMaster) AllStats() []NamedNodeStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]NamedNodeStats, 0, len(m.nodes))
	for key, node := range m.nodes {
		out = append(out, NamedNodeStats{
			Topic:     node.meta.Name,
			Instance:  key.instance,
			NodeStats: node.Stats(),
		})
	}
	return out
}

// Teardown empties every node's callback list and drops the registry's
// references, matching spec.md 3's Lifecycle: "destroyed in a single
// teardown pass that first empties the callback list." Intended for
// process shutdown and test cleanup, not for routine use.
func (m *DeviceMaster) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, node := range m.nodes {
		node.teardown()
	}
	m.nodes = make(map[nodeKey]*DeviceNode)
}
