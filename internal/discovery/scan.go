package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
)

// DefaultScanTimeout is the default timeout for simulator discovery
const DefaultScanTimeout = 5 * time.Second

// Simulator describes a discovered simulator instance on the network.
type Simulator struct {
	Instance string
	Hostname string
	IP       string
	Port     int
}

// String returns a human-readable string representation of the simulator
func (s *Simulator) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", s.Instance, s.Hostname, s.IP, s.Port)
}

// Addr returns the dialable address of the simulator
func (s *Simulator) Addr() string {
	return fmt.Sprintf("%s:%d", s.IP, s.Port)
}

// Scanner handles mDNS simulator discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan discovers running simulators on the local network.
func (s *Scanner) Scan(ctx context.Context) ([]*Simulator, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make([]*Simulator, 0)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			sim := parseServiceEntry(entry)
			if sim != nil {
				found = append(found, sim)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return found, nil
}

// parseServiceEntry converts a zeroconf entry into a Simulator, or nil if
// the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Simulator {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return nil
	}
	return &Simulator{
		Instance: entry.Instance,
		Hostname: entry.HostName,
		IP:       entry.AddrIPv4[0].String(),
		Port:     entry.Port,
	}
}
