// Package discovery handles mDNS announcement and lookup of the SPI
// simulator.
//
// The server registers itself as a "_spi-hal._tcp" service so HIL test
// rigs on the same network can find a running simulator without a
// hardcoded address. The client side browses for the same service type.
//
// Announcement is optional and purely a convenience: the simulator is
// always reachable by explicit host and port.
package discovery
