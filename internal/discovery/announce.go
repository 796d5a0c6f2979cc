package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type the simulator registers under
	ServiceType = "_spi-hal._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// Announcer keeps an mDNS registration alive until Shutdown is called.
type Announcer struct {
	server *zeroconf.Server
}

// Announce registers the simulator as an mDNS service on all interfaces.
// The TXT record names the simulated part so rigs with several simulators
// can tell them apart.
func Announce(instance string, port int) (*Announcer, error) {
	srv, err := zeroconf.Register(
		instance,
		ServiceType,
		ServiceDomain,
		port,
		[]string{"device=TLE92104", "protocol=spi-hal-socket"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Announcer{server: srv}, nil
}

// Shutdown withdraws the mDNS registration.
func (a *Announcer) Shutdown() {
	a.server.Shutdown()
}
