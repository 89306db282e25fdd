package uwb

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender receives forwarded messages. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Forwarder pumps a ranging source into a Sender. Folding happens on the
// receiver.
type Forwarder struct {
	source   RangingControlSource
	recorder *Recorder
	log      *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewForwarder creates a forwarder for src. rec may be nil.
func NewForwarder(src RangingControlSource, rec *Recorder, log *slog.Logger) *Forwarder {
	return &Forwarder{
		source:   src,
		recorder: rec,
		log:      log.With("source", src.Name()),
	}
}

// Start subscribes to the source and begins forwarding to out. Ordered
// sources are drained by one pump so events and running changes reach out
// in the order they happened.
func (f *Forwarder) Start(out Sender) {
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	if src, ok := f.source.(OrderedSource); ok {
		updates := src.Updates(ctx)
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			for u := range updates {
				if u.Running != nil {
					f.forwardRunning(out, *u.Running)
					continue
				}
				f.forwardEvent(out, u.Event)
			}
			f.log.Info("update stream ended")
		}()
		return
	}

	events := f.source.ObserveRangingResults(ctx)
	running := f.source.IsRunning(ctx)

	f.wg.Add(2)
	go func() {
		defer f.wg.Done()
		for ev := range events {
			f.forwardEvent(out, ev)
		}
		f.log.Info("event stream ended")
	}()
	go func() {
		defer f.wg.Done()
		for r := range running {
			f.forwardRunning(out, r)
		}
	}()
}

func (f *Forwarder) forwardEvent(out Sender, ev EndpointEvent) {
	f.log.Debug("endpoint event", "kind", ev.Kind(), "endpoint", ev.Target().ID)
	f.record(func(r *Recorder) error { return r.RecordEvent(ev) })
	out.Send(EventMsg{Event: ev})
}

func (f *Forwarder) forwardRunning(out Sender, r bool) {
	f.log.Info("ranging state", "running", r)
	f.record(func(rec *Recorder) error { return rec.RecordRunning(r) })
	out.Send(RunningMsg{Running: r})
}

// Stop cancels the subscriptions. It does not block, so it is safe to call
// from the receiver's update loop.
func (f *Forwarder) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Wait blocks until every pump has exited. Call it after the receiver stopped
// accepting messages.
func (f *Forwarder) Wait() {
	f.wg.Wait()
}

func (f *Forwarder) record(write func(*Recorder) error) {
	if f.recorder == nil {
		return
	}
	if err := write(f.recorder); err != nil {
		f.log.Warn("recording failed", "err", err)
	}
}
