package uwb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/enbility/zeroconf/v3"
	"uwb-radar.klederson.com/internal/config"
)

// ErrNoBridge is returned when no ranging bridge answered the mDNS browse.
var ErrNoBridge = errors.New("no ranging bridge found")

// Discover browses mDNS for a ranging bridge and returns the host:port of the
// first instance that advertises an address.
func Discover(ctx context.Context, service, domain string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DiscoverWait)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	browseErr := make(chan error, 1)
	go func() {
		browseErr <- zeroconf.Browse(ctx, service, domain, entries, removed)
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrNoBridge, service)
			}
			if addr := entryAddr(entry); addr != "" {
				return addr, nil
			}
		case _, ok := <-removed:
			if !ok {
				removed = nil
			}
		case err := <-browseErr:
			if err != nil {
				return "", fmt.Errorf("browse %s: %w", service, err)
			}
			browseErr = nil
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %s", ErrNoBridge, service)
		}
	}
}

// entryAddr picks a dialable address from a service entry, preferring IPv4.
func entryAddr(entry *zeroconf.ServiceEntry) string {
	if entry == nil || entry.Port == 0 {
		return ""
	}
	port := strconv.Itoa(entry.Port)
	if len(entry.AddrIPv4) > 0 {
		return net.JoinHostPort(entry.AddrIPv4[0].String(), port)
	}
	if len(entry.AddrIPv6) > 0 {
		return net.JoinHostPort(entry.AddrIPv6[0].String(), port)
	}
	if entry.HostName != "" {
		return net.JoinHostPort(entry.HostName, port)
	}
	return ""
}
