package uwb

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"uwb-radar.klederson.com/internal/config"
)

var mockEndpointNames = []string{
	"Pixel 8 Pro",
	"Pixel Watch 2",
	"Galaxy S24 Ultra",
	"Galaxy SmartTag2",
	"UWB Tag",
	"Car Key",
	"Front Door",
	"Pixel Fold",
	"Qorvo DWM3001",
	"NXP SR150",
}

// UWB channels usable for ranging and their preamble indices.
var (
	mockChannels  = []int{5, 9}
	mockPreambles = []int{9, 10, 11, 12}
)

type mockPhase int

const (
	phaseUnknown      mockPhase = iota // not yet announced
	phaseRanging                       // emitting positions
	phaseDisconnected                  // session dropped, endpoint still known
	phaseLost                          // gone until rediscovered
)

type mockEndpoint struct {
	ep        Endpoint
	params    RangingParameters
	baseDist  float64
	distAmp   float64
	baseAz    float64
	azAmp     float64
	baseElev  float64
	phaseOff  float64
	unresolve int // ticks before azimuth is resolved
	phase     mockPhase
}

// MockOptions configures the demo source.
type MockOptions struct {
	Endpoints int           // 0 picks a random count
	Interval  time.Duration // position cadence
	Seed      int64         // 0 seeds from the clock
}

// MockSource simulates a ranging library for demo mode.
type MockSource struct {
	opts    MockOptions
	running *runningFeed

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockSource creates a demo source that is ranging from the start.
func NewMockSource(opts MockOptions) *MockSource {
	if opts.Interval <= 0 {
		opts.Interval = config.DemoInterval
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockSource{
		opts:    opts,
		running: newRunningFeed(true),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Name identifies the source in the UI.
func (s *MockSource) Name() string { return "demo" }

// IsRunning streams the simulated ranging state.
func (s *MockSource) IsRunning(ctx context.Context) <-chan bool {
	return s.running.Subscribe(ctx)
}

// StartRanging resumes the simulation. Endpoints are rediscovered.
func (s *MockSource) StartRanging() { s.running.Set(true) }

// StopRanging pauses the simulation.
func (s *MockSource) StopRanging() { s.running.Set(false) }

// ObserveRangingResults starts a new simulation with freshly generated
// endpoints.
func (s *MockSource) ObserveRangingResults(ctx context.Context) <-chan EndpointEvent {
	return eventsOnly(ctx, s.Updates(ctx))
}

// Updates starts a new simulation and streams its events together with the
// ranging state. No event follows a stop until ranging restarts.
func (s *MockSource) Updates(ctx context.Context) <-chan Update {
	out := make(chan Update)
	endpoints := s.newEndpoints()
	running := s.running.Subscribe(ctx)

	go func() {
		defer close(out)
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()

		w := &updateWriter{ctx: ctx, out: out}
		active := false
		apply := func(r bool) error {
			if r {
				// The feed only repeats true after a stop it may have
				// conflated, and consumers clear their state on stop.
				// Announce everything again.
				for i := range endpoints {
					endpoints[i].phase = phaseUnknown
				}
			}
			active = r
			return w.setRunning(r)
		}

		t := 0.0
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-running:
				if !ok || apply(r) != nil {
					return
				}
			case <-ticker.C:
				if !active {
					continue
				}
				t += s.opts.Interval.Seconds()
				for _, ev := range s.step(endpoints, t) {
					// A stop arriving mid-batch drops the rest of it.
					select {
					case r, ok := <-running:
						if !ok || apply(r) != nil {
							return
						}
					default:
					}
					if !active {
						break
					}
					if w.event(ev) != nil {
						return
					}
				}
			}
		}
	}()
	return out
}

func (s *MockSource) newEndpoints() []mockEndpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.opts.Endpoints
	if n <= 0 {
		n = config.DemoEndpointMin + s.rng.Intn(config.DemoEndpointMax-config.DemoEndpointMin+1)
	}

	perm := s.rng.Perm(len(mockEndpointNames))
	eps := make([]mockEndpoint, n)
	for i := range eps {
		name := mockEndpointNames[perm[i%len(perm)]]
		id, err := uuid.NewRandomFromReader(s.rng)
		if err != nil {
			id = uuid.New()
		}
		addr := []byte{byte(s.rng.Intn(256)), byte(s.rng.Intn(256))}
		cc := ComplexChannel{
			Channel:       mockChannels[s.rng.Intn(len(mockChannels))],
			PreambleIndex: mockPreambles[s.rng.Intn(len(mockPreambles))],
		}
		eps[i] = mockEndpoint{
			ep: Endpoint{ID: fmt.Sprintf("%s|%s", name, id), Address: addr},
			params: RangingParameters{
				ConfigType:     1,
				SessionID:      1000 + s.rng.Intn(9000),
				ComplexChannel: &cc,
			},
			baseDist:  1 + s.rng.Float64()*8,   // 1-9 m
			distAmp:   0.3 + s.rng.Float64()*2, // up to ~2.3 m drift
			baseAz:    s.rng.Float64()*360 - 180,
			azAmp:     5 + s.rng.Float64()*25,
			baseElev:  s.rng.Float64()*40 - 20,
			phaseOff:  s.rng.Float64() * 2 * math.Pi,
			unresolve: s.rng.Intn(10),
		}
	}
	return eps
}

// step advances the simulation by one tick and returns the resulting events.
func (s *MockSource) step(eps []mockEndpoint, t float64) []EndpointEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []EndpointEvent
	for i := range eps {
		m := &eps[i]
		switch m.phase {
		case phaseUnknown:
			m.phase = phaseRanging
			events = append(events, EndpointFound{Endpoint: m.ep, Parameters: m.params})
			continue

		case phaseLost:
			if s.rng.Float64() < 0.01 {
				m.phase = phaseRanging
				events = append(events, EndpointFound{Endpoint: m.ep, Parameters: m.params})
			}
			continue

		case phaseDisconnected:
			if s.rng.Float64() < 0.02 {
				m.phase = phaseRanging
				events = append(events, EndpointFound{Endpoint: m.ep, Parameters: m.params})
			} else if s.rng.Float64() < 0.005 {
				m.phase = phaseLost
				events = append(events, EndpointLost{Endpoint: m.ep})
			}
			continue
		}

		switch r := s.rng.Float64(); {
		case r < 0.003:
			m.phase = phaseDisconnected
			events = append(events, UwbDisconnected{Endpoint: m.ep})
			continue
		case r < 0.004:
			m.phase = phaseLost
			events = append(events, EndpointLost{Endpoint: m.ep})
			continue
		}

		events = append(events, PositionUpdated{Endpoint: m.ep, Position: s.position(m, t)})
	}
	return events
}

func (s *MockSource) position(m *mockEndpoint, t float64) RangingPosition {
	dist := m.baseDist + m.distAmp*math.Sin(t*0.4+m.phaseOff) + (s.rng.Float64()-0.5)*0.1
	if dist < 0.1 {
		dist = 0.1
	}
	az := m.baseAz + m.azAmp*math.Sin(t*0.25+m.phaseOff) + (s.rng.Float64()-0.5)*2
	az = math.Remainder(az, 360)

	p := RangingPosition{
		Distance:             Meters(dist),
		ElapsedRealtimeNanos: int64(t * float64(time.Second)),
	}
	if m.unresolve > 0 {
		m.unresolve--
		return p
	}
	p.Azimuth = Degrees(az)
	// Elevation drops out now and then, like a phone held sideways.
	if s.rng.Float64() > 0.1 {
		p.Elevation = Degrees(m.baseElev + (s.rng.Float64()-0.5)*4)
	}
	return p
}
