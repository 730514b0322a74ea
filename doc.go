// Package orbus is an in-process publish/subscribe bus for small,
// fixed-size typed records exchanged between goroutines of a single
// application - the kind of tens-to-hundreds-of-named-streams bus a
// robotics or flight-control stack uses to move sensor and actuator
// data between producers and consumers that run at different rates.
//
// # Model
//
// Records are grouped into topics (a TopicMeta: name, fixed record
// size, default queue depth), each of which may have multiple
// independent instances (sensor 0, 1, 2, ...). A DeviceMaster lazily
// materializes a DeviceNode per (topic, instance) the first time a
// publisher or subscriber asks for it. Each DeviceNode owns a bounded
// ring buffer and a monotonically increasing generation counter;
// subscribers track their own read position (a Cursor) so a slow
// subscriber simply skips forward to the oldest still-available record
// instead of blocking a publisher or losing track of where it is.
//
// # Usage
//
//	type SensorSample struct {
//	    TimestampUs int64
//	    Value       float64
//	}
//
//	meta, _ := orbus.RegisterTopic("sensor.temperature", int(unsafe.Sizeof(SensorSample{})), 8)
//
//	pub, _ := orbus.Default().CreatePublisherFixed(meta, 0, 8)
//	sub, _ := orbus.Default().CreateSubscription(meta, 0)
//
//	_ = pub.Publish(encode(SensorSample{TimestampUs: 1, Value: 21.5}))
//
//	var out SensorSample
//	buf := make([]byte, meta.RecordSize)
//	if sub.Copy(buf) {
//	    decode(buf, &out)
//	}
//
// Callers that don't want to manage a long-lived handle can use the
// anonymous fast path instead:
//
//	_ = orbus.PublishAnonymous(meta, encode(sample))
//	ok := orbus.CopyAnonymous(meta, buf)
//
// Multiple subscriptions across different topics can be waited on
// together with a PollSet, which wakes as soon as any member has new
// data or a timeout elapses.
//
// # Non-goals
//
// No inter-process or networked transport, no persistence, no dynamic
// schemas, no priority/QoS beyond queue depth, no message filtering
// beyond "new since my last cursor," and no ordering guarantee across
// distinct topics or across distinct publishers of the same topic
// beyond per-publication atomicity.
package orbus
