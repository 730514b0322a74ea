package orbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioSingleTopicRoundTrip implements spec.md 8's scenario 1.
func TestScenarioSingleTopicRoundTrip(t *testing.T) {
	meta, err := RegisterTopic("orbus_test", 4, 1)
	require.NoError(t, err)
	master := NewMaster(DefaultConfig())

	pub, err := master.CreatePublisherFixed(meta, 0, 1)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(packU32(2)))

	sub, err := master.CreateSubscription(meta, 0)
	require.NoError(t, err)

	assert.True(t, sub.CheckUpdate(), "check_update should be true on first read")

	out := make([]byte, 4)
	require.True(t, sub.Copy(out))
	assert.Equal(t, uint32(2), unpackU32(out))
	assert.False(t, sub.CheckUpdate())

	require.NoError(t, pub.Publish(packU32(2)))
	require.NoError(t, pub.Publish(packU32(2)))

	require.True(t, sub.Copy(out))
	assert.Equal(t, uint32(2), unpackU32(out))
	assert.False(t, sub.CheckUpdate())
}

// TestScenarioMultiInstanceAutoIndexing implements spec.md 8's scenario 2.
func TestScenarioMultiInstanceAutoIndexing(t *testing.T) {
	meta, err := RegisterTopic("orbus_multitest", 4, 1)
	require.NoError(t, err)
	master := NewMaster(DefaultConfig())

	var pubs []*Publisher
	for want := 0; want < 4; want++ {
		var instance int
		pub, err := master.CreatePublisher(meta, &instance, 1)
		require.NoError(t, err)
		assert.Equal(t, want, instance)
		pubs = append(pubs, pub)
	}

	for k, pub := range pubs {
		sub, err := master.CreateSubscription(meta, k)
		require.NoError(t, err)
		require.NoError(t, pub.Publish(packU32(uint32(100+k))))

		out := make([]byte, 4)
		require.True(t, sub.Copy(out))
		assert.Equal(t, uint32(100+k), unpackU32(out))
	}
}

// TestScenarioQueueDepth16Overflow implements spec.md 8's scenario 3.
func TestScenarioQueueDepth16Overflow(t *testing.T) {
	meta, err := RegisterTopic("orbus_test_medium_queue", 4, 16)
	require.NoError(t, err)
	master := NewMaster(DefaultConfig())

	sub, err := master.CreateSubscription(meta, 0)
	require.NoError(t, err)
	pub, err := master.CreatePublisherFixed(meta, 0, 16)
	require.NoError(t, err)

	out := make([]byte, 4)
	require.NoError(t, pub.Publish(packU32(0)))
	require.True(t, sub.Copy(out)) // synchronize

	for v := 0; v <= 13; v++ {
		require.NoError(t, pub.Publish(packU32(uint32(v))))
	}
	for v := 0; v <= 13; v++ {
		require.True(t, sub.Copy(out))
		assert.Equal(t, uint32(v), unpackU32(out))
	}

	for v := 0; v <= 18; v++ {
		require.NoError(t, pub.Publish(packU32(uint32(v))))
	}
	for v := 3; v <= 18; v++ {
		require.True(t, sub.Copy(out))
		assert.Equal(t, uint32(v), unpackU32(out))
	}
	assert.False(t, sub.CheckUpdate())

	require.NoError(t, pub.Publish(packU32(943)))
	require.True(t, sub.Copy(out))
	assert.Equal(t, uint32(943), unpackU32(out))
}

// TestScenarioPollWakeupNoGaps implements spec.md 8's scenario 4: a
// publisher emits 20 bursts of 32 records, 20ms apart; the polling
// subscriber must observe every value in strict sequence with no gaps
// and no premature timeout.
func TestScenarioPollWakeupNoGaps(t *testing.T) {
	const (
		queueSize  = 64
		burstSize  = 32
		burstCount = 20
	)
	meta, err := RegisterTopic("orbus_test_medium_queue_poll", 4, queueSize)
	require.NoError(t, err)
	master := NewMaster(DefaultConfig())

	sub, err := master.CreateSubscription(meta, 0)
	require.NoError(t, err)
	pub, err := master.CreatePublisherFixed(meta, 0, queueSize)
	require.NoError(t, err)

	ps := NewPollSet()
	defer ps.Close()
	ps.Add(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		val := 0
		for b := 0; b < burstCount; b++ {
			for i := 0; i < burstSize; i++ {
				_ = pub.Publish(packU32(uint32(val)))
				val++
			}
			time.Sleep(20 * time.Millisecond)
		}
	}()

	nextExpected := uint32(0)
	out := make([]byte, 4)
	for nextExpected < burstSize*burstCount {
		ready := ps.Wait(500 * time.Millisecond)
		require.NotZero(t, ready, "poll must not time out before the producer finishes")

		for sub.Copy(out) {
			got := unpackU32(out)
			require.Equal(t, nextExpected, got, "values must arrive in strict sequence with no gaps")
			nextExpected++
		}
	}

	<-done
	assert.Equal(t, uint32(burstSize*burstCount), nextExpected)
}
