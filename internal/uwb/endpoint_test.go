package uwb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointIdentity(t *testing.T) {
	a := Endpoint{ID: "EP1", Address: []byte{0xAB}}
	b := Endpoint{ID: "EP1", Address: []byte{0xAB}}
	c := Endpoint{ID: "EP1", Address: []byte{0xAC}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "ab/EP1", a.Key())
	assert.Equal(t, "/EP1", Endpoint{ID: "EP1"}.Key())
}

func TestEndpointKeysDoNotCollide(t *testing.T) {
	tests := []struct {
		name string
		a, b Endpoint
	}{
		{"slash in id", Endpoint{ID: "x/01"}, Endpoint{ID: "x", Address: []byte{0x01}}},
		{"address looks like id", Endpoint{ID: "01/x"}, Endpoint{ID: "x", Address: []byte{0x01}}},
		{"empty address", Endpoint{ID: "/x"}, Endpoint{ID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, tt.a.Key(), tt.b.Key())
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"Pixel 8|4f1c", "Pixel 8"},
		{"EP3", "EP3"},
		{"|orphan", "[unnamed]"},
		{"", "[unnamed]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Endpoint{ID: tt.id}.DisplayName(), tt.id)
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "01:02:0A:FF", FormatAddress([]byte{0x01, 0x02, 0x0a, 0xff}))
	assert.Equal(t, "-", FormatAddress(nil))
}

func TestInfoFromParametersFallsBackToIDBytes(t *testing.T) {
	ep := Endpoint{ID: "EP1"}
	info, ok := infoFromParameters(ep, RangingParameters{
		ConfigType:     2,
		SessionID:      1002,
		ComplexChannel: &ComplexChannel{Channel: 9, PreambleIndex: 12},
	})

	assert.True(t, ok)
	assert.Equal(t, []byte("EP1"), info.Address)
	assert.Equal(t, 2, info.ConfigID)
	assert.Equal(t, "ch9/p12", info.ComplexChannel.String())
}

func TestPlottable(t *testing.T) {
	assert.True(t, RangingPosition{Distance: Meters(1), Azimuth: Degrees(0)}.Plottable())
	assert.False(t, RangingPosition{Distance: Meters(1)}.Plottable())
	assert.False(t, RangingPosition{}.Plottable())
}
