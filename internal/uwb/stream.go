package uwb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"uwb-radar.klederson.com/internal/config"
)

// opener establishes one connection to the frame producer.
type opener func(ctx context.Context) (io.ReadCloser, error)

// StreamSource reads ranging frames produced by an external bridge to the
// ranging library. Live sources redial when the connection drops; replay
// sources end when the recording does.
type StreamSource struct {
	name    string
	open    opener
	replay  bool
	redial  time.Duration
	log     *slog.Logger
	running *runningFeed

	// OnRedial, when set, is called before every reconnect attempt.
	OnRedial func()
}

// NewTCPSource streams frames from a bridge listening on addr.
func NewTCPSource(addr string, log *slog.Logger) *StreamSource {
	return newStreamSource("tcp "+addr, dialTCP(func(context.Context) (string, error) {
		return addr, nil
	}), log)
}

// NewMDNSSource locates the bridge via mDNS before every connection attempt.
func NewMDNSSource(service string, log *slog.Logger) *StreamSource {
	return newStreamSource("mdns "+service, dialTCP(func(ctx context.Context) (string, error) {
		return Discover(ctx, service, config.ServiceDomain)
	}), log)
}

// NewReplaySource plays back a recording made by Recorder, honouring the
// recorded frame spacing.
func NewReplaySource(path string, log *slog.Logger) *StreamSource {
	s := newStreamSource("replay "+path, func(context.Context) (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open recording: %w", err)
		}
		return f, nil
	}, log)
	s.replay = true
	return s
}

func newStreamSource(name string, open opener, log *slog.Logger) *StreamSource {
	return &StreamSource{
		name:    name,
		open:    open,
		redial:  config.RedialInterval,
		log:     log.With("source", name),
		running: newRunningFeed(false),
	}
}

func dialTCP(resolve func(context.Context) (string, error)) opener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		addr, err := resolve(ctx)
		if err != nil {
			return nil, err
		}
		d := net.Dialer{Timeout: config.DialTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		return conn, nil
	}
}

// Name identifies the source in the UI.
func (s *StreamSource) Name() string { return s.name }

// IsRunning streams the producer's ranging state. A dropped connection
// counts as stopped.
func (s *StreamSource) IsRunning(ctx context.Context) <-chan bool {
	return s.running.Subscribe(ctx)
}

// ObserveRangingResults connects to the producer and streams its events.
func (s *StreamSource) ObserveRangingResults(ctx context.Context) <-chan EndpointEvent {
	return eventsOnly(ctx, s.Updates(ctx))
}

// Updates connects to the producer and streams its events and running
// changes in wire order.
func (s *StreamSource) Updates(ctx context.Context) <-chan Update {
	out := make(chan Update)
	go s.loop(ctx, out)
	return out
}

func (s *StreamSource) loop(ctx context.Context, out chan<- Update) {
	defer close(out)
	defer s.running.Set(false)

	w := &updateWriter{ctx: ctx, out: out}
	if err := w.setRunning(s.running.Value()); err != nil {
		return
	}

	for {
		err := s.session(ctx, w)
		s.running.Set(false)
		_ = w.setRunning(false)

		if ctx.Err() != nil {
			return
		}
		if s.replay {
			if err != nil {
				s.log.Error("replay failed", "err", err)
			} else {
				s.log.Info("replay finished")
			}
			return
		}
		s.log.Warn("stream interrupted, redialing", "err", err, "in", s.redial)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.redial):
		}
		if s.OnRedial != nil {
			s.OnRedial()
		}
	}
}

// session runs one connection until it fails or ends. A clean end of stream
// returns nil.
func (s *StreamSource) session(ctx context.Context, w *updateWriter) error {
	rc, err := s.open(ctx)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { rc.Close() })
	defer func() {
		if stop() {
			rc.Close()
		}
	}()
	s.log.Info("stream connected")

	dec := NewDecoder(rc)
	var last time.Time
	for {
		f, err := dec.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrBadFrame):
			s.log.Warn("skipping frame", "err", err)
			continue
		case err != nil:
			return fmt.Errorf("read frame: %w", err)
		}

		if s.replay && !f.At.IsZero() {
			if !last.IsZero() {
				if err := sleepCtx(ctx, f.At.Sub(last)); err != nil {
					return err
				}
			}
			last = f.At
		}

		if f.Running != nil {
			s.running.Set(*f.Running)
			err = w.setRunning(*f.Running)
		} else {
			err = w.event(f.Event)
		}
		if err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
