package uwb

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// frame is the wire form of one stream item. Streams are CBOR sequences of
// frames; Kind decides which optional fields are meaningful.
type frame struct {
	Kind     string             `cbor:"k"`
	At       int64              `cbor:"at,omitempty"` // unix nanos, set by recordings
	Endpoint *Endpoint          `cbor:"e,omitempty"`
	Position *RangingPosition   `cbor:"p,omitempty"`
	Params   *RangingParameters `cbor:"r,omitempty"`
	Running  *bool              `cbor:"run,omitempty"`
}

// Frame is a decoded stream item: either an endpoint event or a running
// state change.
type Frame struct {
	Event   EndpointEvent
	Running *bool
	At      time.Time // zero unless the producer stamped the frame
}

// ErrBadFrame reports a frame that decoded but does not describe a valid
// event.
var ErrBadFrame = errors.New("malformed frame")

// Encoder writes frames as a CBOR sequence.
type Encoder struct {
	enc *cbor.Encoder
	now func() time.Time // nil leaves frames unstamped
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: cbor.NewEncoder(w)}
}

// EncodeEvent writes one endpoint event.
func (e *Encoder) EncodeEvent(ev EndpointEvent) error {
	ep := ev.Target()
	f := frame{Kind: ev.Kind(), Endpoint: &ep}
	switch v := ev.(type) {
	case EndpointFound:
		p := v.Parameters
		f.Params = &p
	case PositionUpdated:
		p := v.Position
		f.Position = &p
	}
	return e.write(f)
}

// EncodeRunning writes a running state change.
func (e *Encoder) EncodeRunning(running bool) error {
	return e.write(frame{Kind: KindRunning, Running: &running})
}

func (e *Encoder) write(f frame) error {
	if e.now != nil {
		f.At = e.now().UnixNano()
	}
	if err := e.enc.Encode(f); err != nil {
		return fmt.Errorf("encode %s frame: %w", f.Kind, err)
	}
	return nil
}

// Decoder reads frames from a CBOR sequence.
type Decoder struct {
	dec *cbor.Decoder
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: cbor.NewDecoder(r)}
}

// Next returns the next frame. It returns io.EOF at a clean end of stream
// and an error wrapping ErrBadFrame for frames that should be skipped.
// A well-formed item whose fields have the wrong types is such a frame; the
// decoder has already moved past it.
func (d *Decoder) Next() (Frame, error) {
	var f frame
	if err := d.dec.Decode(&f); err != nil {
		var typeErr *cbor.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Frame{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		return Frame{}, err
	}

	out := Frame{}
	if f.At != 0 {
		out.At = time.Unix(0, f.At)
	}

	if f.Kind == KindRunning {
		if f.Running == nil {
			return Frame{}, fmt.Errorf("%w: running frame without state", ErrBadFrame)
		}
		out.Running = f.Running
		return out, nil
	}

	if f.Endpoint == nil || f.Endpoint.ID == "" {
		return Frame{}, fmt.Errorf("%w: %q frame without endpoint", ErrBadFrame, f.Kind)
	}
	ep := *f.Endpoint

	switch f.Kind {
	case KindFound:
		var p RangingParameters
		if f.Params != nil {
			p = *f.Params
		}
		out.Event = EndpointFound{Endpoint: ep, Parameters: p}
	case KindLost:
		out.Event = EndpointLost{Endpoint: ep}
	case KindDisconnected:
		out.Event = UwbDisconnected{Endpoint: ep}
	case KindPosition:
		if f.Position == nil {
			return Frame{}, fmt.Errorf("%w: position frame without position", ErrBadFrame)
		}
		out.Event = PositionUpdated{Endpoint: ep, Position: *f.Position}
	default:
		return Frame{}, fmt.Errorf("%w: unknown kind %q", ErrBadFrame, f.Kind)
	}
	return out, nil
}
