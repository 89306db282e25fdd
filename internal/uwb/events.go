package uwb

// EndpointEvent is one lifecycle or position event from the ranging source.
type EndpointEvent interface {
	Target() Endpoint
	Kind() string
}

// Event kinds, also used as wire tags and metric labels.
const (
	KindFound        = "found"
	KindLost         = "lost"
	KindPosition     = "position"
	KindDisconnected = "disconnected"
	KindRunning      = "running"
)

// EndpointFound announces a newly discovered endpoint and its session
// parameters.
type EndpointFound struct {
	Endpoint   Endpoint
	Parameters RangingParameters
}

// EndpointLost reports that an endpoint is gone for good.
type EndpointLost struct {
	Endpoint Endpoint
}

// PositionUpdated carries a fresh ranging result.
type PositionUpdated struct {
	Endpoint Endpoint
	Position RangingPosition
}

// UwbDisconnected reports that the ranging session with an endpoint ended
// while the endpoint itself is still known.
type UwbDisconnected struct {
	Endpoint Endpoint
}

func (e EndpointFound) Target() Endpoint   { return e.Endpoint }
func (e EndpointLost) Target() Endpoint    { return e.Endpoint }
func (e PositionUpdated) Target() Endpoint { return e.Endpoint }
func (e UwbDisconnected) Target() Endpoint { return e.Endpoint }

func (EndpointFound) Kind() string   { return KindFound }
func (EndpointLost) Kind() string    { return KindLost }
func (PositionUpdated) Kind() string { return KindPosition }
func (UwbDisconnected) Kind() string { return KindDisconnected }

// EventMsg is sent via tea.Program.Send for every forwarded endpoint event.
type EventMsg struct {
	Event EndpointEvent
}

// RunningMsg is sent via tea.Program.Send when ranging starts or stops.
type RunningMsg struct {
	Running bool
}
