package orbus

import "errors"

// Core failure kinds. Copy/CheckUpdate report "no data" as a plain
// bool rather than an error (spec.md's single-success-discipline
// boundary); the sentinels below back the error-returning operations
// that remain - RegisterTopic, Publish, CreatePublisher/
// CreatePublisherFixed and CreateSubscription. They are returned
// unwrapped, so callers can match them with errors.Is or ==.
var (
	// ErrRecordSize is returned when a Publish payload does not match
	// the topic's registered record size.
	ErrRecordSize = errors.New("orbus: record size mismatch")

	// ErrInstanceExhausted is returned by the registry when a topic's
	// Config.MaxInstances bound would be exceeded.
	ErrInstanceExhausted = errors.New("orbus: instance limit exhausted")

	// ErrDuplicateTopic is returned by RegisterTopic for a name already
	// registered with a different record size.
	ErrDuplicateTopic = errors.New("orbus: topic already registered with a different record size")
)
