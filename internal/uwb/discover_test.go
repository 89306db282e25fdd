package uwb

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
)

func TestEntryAddr(t *testing.T) {
	tests := []struct {
		name  string
		entry *zeroconf.ServiceEntry
		want  string
	}{
		{"nil", nil, ""},
		{
			name: "ipv4 preferred",
			entry: &zeroconf.ServiceEntry{
				Port:     7300,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			want: "192.168.1.20:7300",
		},
		{
			name:  "ipv6 only",
			entry: &zeroconf.ServiceEntry{Port: 7300, AddrIPv6: []net.IP{net.ParseIP("fe80::1")}},
			want:  "[fe80::1]:7300",
		},
		{
			name:  "hostname fallback",
			entry: &zeroconf.ServiceEntry{Port: 7300, HostName: "pixel.local."},
			want:  "pixel.local.:7300",
		},
		{
			name:  "no port",
			entry: &zeroconf.ServiceEntry{AddrIPv4: []net.IP{net.ParseIP("10.0.0.1")}},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryAddr(tt.entry))
		})
	}
}
