package orbus

import (
	"context"
	"time"
)

// notifierCapacity bounds the number of un-drained permits a Notifier
// will hold before Post silently drops further permits. Subscribers
// only ever need "at least one pending permit" to decide to re-scan
// (they coalesce via generation comparisons), so a dropped permit past
// this point is harmless - see spec.md 4.2's publish rationale.
const notifierCapacity = 1 << 16

// Notifier is a counting wait primitive: Post is a non-blocking
// increment, Wait/WaitFor/TryWait are the corresponding decrements.
// It is the Go analogue of the original system's POSIX semaphore
// (original_source/src/base/semaphore.h): Post == sem_post,
// TryWait == sem_trywait, WaitFor == sem_timedwait, Wait == sem_wait
// with EINTR retried transparently - here realized as a buffered
// channel of permits instead of a kernel semaphore, so cancellation
// is expressed through context.Context rather than signal retry.
type Notifier struct {
	permits chan struct{}
}

// NewNotifier constructs a ready-to-use Notifier with zero pending
// permits.
func NewNotifier() *Notifier {
	return &Notifier{permits: make(chan struct{}, notifierCapacity)}
}

// Post increments the permit count, waking one blocked waiter if any.
// It never blocks: a burst of N posts against a slow consumer simply
// drops the excess once the internal buffer is saturated.
func (n *Notifier) Post() {
	select {
	case n.permits <- struct{}{}:
	default:
	}
}

// TryWait attempts a non-blocking decrement. Returns false if no
// permit is currently available.
func (n *Notifier) TryWait() bool {
	select {
	case <-n.permits:
		return true
	default:
		return false
	}
}

// Wait blocks until a permit is available or ctx is cancelled. A
// cancelled context is the Go equivalent of the original's EINTR: it
// is reported to the caller rather than retried, since in Go the
// caller owns the context and decides whether to retry.
func (n *Notifier) Wait(ctx context.Context) error {
	select {
	case <-n.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitFor blocks until a permit is available or timeout elapses,
// returning true iff a permit was consumed. The deadline is computed
// through the package's configured Clock (see SetDefaultClock), not
// time.Now directly, so a substituted clock governs every WaitFor
// call. Wait, which has no timeout of its own, does not consult it.
func (n *Notifier) WaitFor(timeout time.Duration) bool {
	if timeout <= 0 {
		return n.TryWait()
	}
	deadline := defaultClock.Deadline(timeout)
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case <-n.permits:
		return true
	case <-timer.C:
		return false
	}
}
