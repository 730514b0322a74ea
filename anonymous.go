package orbus

// anonymousQueueDepth is the queue depth instance 0 is created with by
// the anonymous fast path when it doesn't already exist, per spec.md
// 4.6 ("open_or_create(meta, 0, default_queue_depth=1)").
const anonymousQueueDepth = 1

// PublishAnonymous publishes record to instance 0 of meta without
// requiring the caller to hold a long-lived Publisher handle.
func PublishAnonymous(meta *TopicMeta, record []byte) error {
	node, err := Default().openOrCreate(meta, 0, anonymousQueueDepth)
	if err != nil {
		return err
	}
	return node.Publish(record)
}

// CopyAnonymous copies the latest record published to instance 0 of
// meta, unconditionally (no cursor persists across calls: repeated
// calls with no intervening publish return the same record). Returns
// false if instance 0 has never been published to.
func CopyAnonymous(meta *TopicMeta, out []byte) bool {
	node, err := Default().openOrCreate(meta, 0, anonymousQueueDepth)
	if err != nil {
		return false
	}
	return node.copyLatest(out)
}
