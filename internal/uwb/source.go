package uwb

import (
	"context"
	"sync"
)

// RangingControlSource is the boundary to the external ranging library.
//
// ObserveRangingResults starts a fresh subscription on every call; the
// returned channel is closed when ctx ends or the source is exhausted.
// IsRunning delivers the current running state first and then every change.
type RangingControlSource interface {
	ObserveRangingResults(ctx context.Context) <-chan EndpointEvent
	IsRunning(ctx context.Context) <-chan bool
	Name() string
}

// RangingController is implemented by sources that can be started and
// stopped from the UI.
type RangingController interface {
	StartRanging()
	StopRanging()
}

// Update is one item of a source's ordered output: either an endpoint event
// or a running state change.
type Update struct {
	Event   EndpointEvent
	Running *bool
}

// OrderedSource is implemented by sources whose events and running changes
// come from a single producer. Updates delivers both on one channel in the
// order they happened, starting with the current running state. Consumers
// that fold events should prefer it over the two separate streams.
type OrderedSource interface {
	Updates(ctx context.Context) <-chan Update
}

// updateWriter emits updates for one Updates subscription. Repeated running
// states are dropped.
type updateWriter struct {
	ctx     context.Context
	out     chan<- Update
	running bool
	primed  bool
}

func (w *updateWriter) event(ev EndpointEvent) error {
	return w.send(Update{Event: ev})
}

func (w *updateWriter) setRunning(v bool) error {
	if w.primed && w.running == v {
		return nil
	}
	w.primed, w.running = true, v
	return w.send(Update{Running: &v})
}

func (w *updateWriter) send(u Update) error {
	select {
	case w.out <- u:
		return nil
	case <-w.ctx.Done():
		return w.ctx.Err()
	}
}

// eventsOnly narrows an update stream to its endpoint events.
func eventsOnly(ctx context.Context, in <-chan Update) <-chan EndpointEvent {
	out := make(chan EndpointEvent)
	go func() {
		defer close(out)
		for u := range in {
			if u.Event == nil {
				continue
			}
			select {
			case out <- u.Event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// runningFeed broadcasts a boolean to any number of subscribers. Slow
// subscribers only ever see the latest value.
type runningFeed struct {
	mu    sync.Mutex
	value bool
	subs  map[chan bool]struct{}
}

func newRunningFeed(initial bool) *runningFeed {
	return &runningFeed{
		value: initial,
		subs:  make(map[chan bool]struct{}),
	}
}

// Subscribe returns a channel primed with the current value. It is closed
// when ctx ends.
func (f *runningFeed) Subscribe(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)

	f.mu.Lock()
	ch <- f.value
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

// Set stores v and notifies subscribers if it changed.
func (f *runningFeed) Set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.value == v {
		return
	}
	f.value = v
	for ch := range f.subs {
		select {
		case ch <- v:
		default:
			// Replace the unread stale value.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Value returns the current state.
func (f *runningFeed) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}
