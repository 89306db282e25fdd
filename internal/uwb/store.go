package uwb

import (
	"sync"
	"sync/atomic"
)

// ConnectedEndpoint is an endpoint with at least one ranging result.
type ConnectedEndpoint struct {
	Endpoint Endpoint
	Position RangingPosition
	Info     *RangingInfo // nil when no session metadata is known
}

// Snapshot is an immutable view of the ranging state. A new Snapshot is
// published for every folded event; consumers must not modify it.
type Snapshot struct {
	Connected    []ConnectedEndpoint
	Disconnected []Endpoint
	Sessions     map[string]RangingInfo // keyed by Endpoint.Key()
	Running      bool
	Version      uint64
}

// Find returns the connected endpoint with the given key.
func (s *Snapshot) Find(key string) (ConnectedEndpoint, bool) {
	for _, c := range s.Connected {
		if c.Endpoint.Key() == key {
			return c, true
		}
	}
	return ConnectedEndpoint{}, false
}

// EndpointStore folds ranging events into snapshots.
type EndpointStore struct {
	mu        sync.Mutex
	order     []Endpoint // discovery order
	positions map[string]RangingPosition
	sessions  map[string]RangingInfo
	running   bool
	version   uint64

	current atomic.Pointer[Snapshot]
}

// NewEndpointStore creates an empty store that is not ranging.
func NewEndpointStore() *EndpointStore {
	s := &EndpointStore{
		positions: make(map[string]RangingPosition),
		sessions:  make(map[string]RangingInfo),
	}
	s.current.Store(&Snapshot{Sessions: map[string]RangingInfo{}})
	return s
}

// Apply folds one event and publishes a new snapshot. It returns false when
// the event did not change anything, e.g. a position for an unknown endpoint.
func (s *EndpointStore) Apply(ev EndpointEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep := ev.Target()
	key := ep.Key()

	switch e := ev.(type) {
	case EndpointFound:
		if s.indexOf(key) < 0 {
			s.order = append(s.order, ep)
		}
		if info, ok := infoFromParameters(ep, e.Parameters); ok {
			s.sessions[key] = info
		}

	case UwbDisconnected:
		if s.indexOf(key) < 0 {
			return false
		}
		delete(s.positions, key)
		delete(s.sessions, key)

	case PositionUpdated:
		if s.indexOf(key) < 0 {
			return false
		}
		s.positions[key] = e.Position

	case EndpointLost:
		i := s.indexOf(key)
		if i < 0 {
			return false
		}
		s.order = append(s.order[:i:i], s.order[i+1:]...)
		delete(s.positions, key)
		delete(s.sessions, key)

	default:
		return false
	}

	s.publish()
	return true
}

// SetRunning records whether ranging is active. Stopping clears every
// per-endpoint state.
func (s *EndpointStore) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = running
	if !running {
		s.order = nil
		clear(s.positions)
		clear(s.sessions)
	}
	s.publish()
}

// Snapshot returns the latest published snapshot.
func (s *EndpointStore) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *EndpointStore) indexOf(key string) int {
	for i, ep := range s.order {
		if ep.Key() == key {
			return i
		}
	}
	return -1
}

// publish builds a fresh snapshot from the internal state. Callers hold mu.
func (s *EndpointStore) publish() {
	s.version++

	snap := &Snapshot{
		Connected:    make([]ConnectedEndpoint, 0, len(s.positions)),
		Disconnected: make([]Endpoint, 0, len(s.order)-len(s.positions)),
		Sessions:     make(map[string]RangingInfo, len(s.sessions)),
		Running:      s.running,
		Version:      s.version,
	}

	for _, ep := range s.order {
		key := ep.Key()
		pos, ok := s.positions[key]
		if !ok {
			snap.Disconnected = append(snap.Disconnected, ep)
			continue
		}
		ce := ConnectedEndpoint{Endpoint: ep, Position: pos}
		if info, ok := s.sessions[key]; ok {
			ce.Info = &info
		}
		snap.Connected = append(snap.Connected, ce)
	}
	for k, v := range s.sessions {
		snap.Sessions[k] = v
	}

	s.current.Store(snap)
}
