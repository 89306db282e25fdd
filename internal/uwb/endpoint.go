package uwb

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Endpoint identifies a remote ranging peer. Identity is the ID plus the
// address bytes; nothing else about an endpoint is interpreted.
type Endpoint struct {
	ID      string `cbor:"id"`
	Address []byte `cbor:"addr,omitempty"`
}

// Key returns a comparable identity suitable for map keys. The hex address
// comes first so the first '/' always ends it, whatever the ID contains.
func (e Endpoint) Key() string {
	return hex.EncodeToString(e.Address) + "/" + e.ID
}

// DisplayName returns the human part of the ID. Peers advertise IDs of the
// form "name|suffix"; only the name is shown.
func (e Endpoint) DisplayName() string {
	name, _, _ := strings.Cut(e.ID, "|")
	if name == "" {
		return "[unnamed]"
	}
	return name
}

// Measurement is a single ranging value. Absent values are nil pointers.
type Measurement struct {
	Value float64 `cbor:"v"`
}

// Meters is a convenience constructor for a present measurement.
func Meters(v float64) *Measurement { return &Measurement{Value: v} }

// Degrees is a convenience constructor for a present angular measurement.
func Degrees(v float64) *Measurement { return &Measurement{Value: v} }

// RangingPosition is one ranging result. Any measurement may be missing
// while the sensor has not resolved it.
type RangingPosition struct {
	Distance             *Measurement `cbor:"d,omitempty"`  // meters
	Azimuth              *Measurement `cbor:"az,omitempty"` // degrees, 0=ahead, clockwise
	Elevation            *Measurement `cbor:"el,omitempty"` // degrees, positive=above
	ElapsedRealtimeNanos int64        `cbor:"t"`
}

// Plottable reports whether the position has both distance and azimuth.
func (p RangingPosition) Plottable() bool {
	return p.Distance != nil && p.Azimuth != nil
}

// ComplexChannel pairs a UWB channel with a preamble index.
type ComplexChannel struct {
	Channel       int `cbor:"ch"`
	PreambleIndex int `cbor:"pi"`
}

func (c ComplexChannel) String() string {
	return fmt.Sprintf("ch%d/p%d", c.Channel, c.PreambleIndex)
}

// RangingParameters are the session parameters announced with a discovery.
type RangingParameters struct {
	ConfigType     int             `cbor:"cfg"`
	SessionID      int             `cbor:"sid"`
	ComplexChannel *ComplexChannel `cbor:"cc,omitempty"`
	UpdateRateType int             `cbor:"rate,omitempty"`
}

// RangingInfo is the per-endpoint session metadata shown in the status list.
type RangingInfo struct {
	ConfigID       int
	Address        []byte
	ComplexChannel ComplexChannel
	SessionID      int
}

// AddressString formats the session address as colon separated hex.
func (r RangingInfo) AddressString() string {
	return FormatAddress(r.Address)
}

// FormatAddress renders address bytes as "01:02:03:04".
func FormatAddress(b []byte) string {
	if len(b) == 0 {
		return "-"
	}
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, ":")
}

// infoFromParameters derives session info from discovery parameters.
// Without a complex channel there is no session to describe.
func infoFromParameters(ep Endpoint, p RangingParameters) (RangingInfo, bool) {
	if p.ComplexChannel == nil {
		return RangingInfo{}, false
	}
	addr := ep.Address
	if len(addr) == 0 {
		addr = []byte(ep.ID)
	}
	return RangingInfo{
		ConfigID:       p.ConfigType,
		Address:        append([]byte(nil), addr...),
		ComplexChannel: *p.ComplexChannel,
		SessionID:      p.SessionID,
	}, true
}
