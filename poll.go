package orbus

import (
	"context"
	"sync"
	"time"
)

// PollSet aggregates a set of Subscriptions behind one shared
// Notifier: Wait returns as soon as any member has new data (or a
// timeout elapses). Grounded directly on
// original_source/src/event_poll.h's EventPollImpl (Add/Delete/Wait
// over a std::set of subscriptions and one semaphore callback); the
// teacher has no analogous aggregator since its subscriptions are
// self-contained goroutines rather than pollable handles.
type PollSet struct {
	mu          sync.Mutex
	notifier    *Notifier
	subs        map[*Subscription]struct{}
	drainBudget int
}

// NewPollSet returns an empty PollSet using the package default drain
// budget (see Config.PollDrainBudget).
func NewPollSet() *PollSet {
	return NewPollSetWithBudget(DefaultConfig().PollDrainBudget)
}

// NewPollSetWithBudget returns an empty PollSet that drains at most
// drainBudget stale permits before each blocking wait.
func NewPollSetWithBudget(drainBudget int) *PollSet {
	if drainBudget <= 0 {
		drainBudget = 1
	}
	return &PollSet{
		notifier:    NewNotifier(),
		subs:        make(map[*Subscription]struct{}),
		drainBudget: drainBudget,
	}
}

// Add registers sub as a member, wiring the set's shared notifier as a
// callback on its node. Idempotent.
func (p *PollSet) Add(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.subs[sub]; ok {
		return
	}
	p.subs[sub] = struct{}{}
	sub.RegisterCallback(p.notifier)
}

// Remove unregisters sub. A no-op if it was never added.
func (p *PollSet) Remove(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.subs[sub]; !ok {
		return
	}
	delete(p.subs, sub)
	sub.UnregisterCallback(p.notifier)
}

// Close unregisters the set from every member, the PollSet's
// destructor per spec.md 4.5.
func (p *PollSet) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for sub := range p.subs {
		sub.UnregisterCallback(p.notifier)
	}
	p.subs = make(map[*Subscription]struct{})
}

func (p *PollSet) members() []*Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Subscription, 0, len(p.subs))
	for s := range p.subs {
		out = append(out, s)
	}
	return out
}

func (p *PollSet) drainStale() {
	for i := 0; i < p.drainBudget; i++ {
		if !p.notifier.TryWait() {
			return
		}
	}
}

func (p *PollSet) rescan(members []*Subscription) int {
	ready := 0
	for _, sub := range members {
		if sub.CheckUpdate() {
			ready++
		}
	}
	return ready
}

// Wait blocks until any member has new data or timeout elapses,
// returning the number of members whose CheckUpdate is true on
// return. Returns 0 on timeout, matching spec.md 7's PollTimeout.
//
// Implementation drains any stale permits left over from the previous
// call (accumulated between that call's return and this one's entry)
// before blocking, so a burst of publishes that coalesced into many
// permits on one node doesn't cause Wait to return immediately N
// times in a row for data that was already reported ready.
func (p *PollSet) Wait(timeout time.Duration) int {
	members := p.members()
	p.drainStale()
	p.notifier.WaitFor(timeout)
	return p.rescan(members)
}

// WaitContext is the context-aware counterpart to Wait, returning
// ctx.Err() if ctx is cancelled before any member becomes ready.
func (p *PollSet) WaitContext(ctx context.Context) (int, error) {
	members := p.members()
	p.drainStale()
	if err := p.notifier.Wait(ctx); err != nil {
		return 0, err
	}
	return p.rescan(members), nil
}
