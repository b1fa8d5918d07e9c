// Package discovery announces and finds glasses emulators on the local
// network with mDNS. Real glasses are found through BLE advertising;
// the TCP bridge uses zeroconf instead so the CLI can locate a running
// emulator without configuration.
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/enbility/zeroconf/v3"
)

const (
	// ServiceType is the mDNS service type of the TCP bridge.
	ServiceType = "_activelook._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default bridge port.
	DefaultPort = 35551
)

// TXT record keys.
const (
	TXTKeyFirmware = "FW"     // firmware version
	TXTKeySerial   = "serial" // serial number
	TXTKeyModel    = "model"  // device model name
)

// Info describes the advertised device.
type Info struct {
	// Name is the mDNS instance name.
	Name string

	// Port the bridge listens on.
	Port int

	Firmware string
	Serial   string
	Model    string
}

func (i Info) txtStrings() []string {
	var txt []string
	if i.Firmware != "" {
		txt = append(txt, TXTKeyFirmware+"="+i.Firmware)
	}
	if i.Serial != "" {
		txt = append(txt, TXTKeySerial+"="+i.Serial)
	}
	if i.Model != "" {
		txt = append(txt, TXTKeyModel+"="+i.Model)
	}
	return txt
}

// Advertiser keeps an mDNS announcement alive until Shutdown.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the device on all interfaces.
func Advertise(info Info) (*Advertiser, error) {
	if info.Name == "" {
		return nil, fmt.Errorf("instance name required")
	}
	port := info.Port
	if port == 0 {
		port = DefaultPort
	}
	server, err := zeroconf.Register(info.Name, ServiceType, Domain, port, info.txtStrings(), nil)
	if err != nil {
		return nil, fmt.Errorf("registering mDNS service: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the announcement.
func (a *Advertiser) Shutdown() {
	a.server.Shutdown()
}

// Service is one discovered device.
type Service struct {
	Name  string
	Host  string
	Port  int
	Addrs []net.IP

	Firmware string
	Serial   string
	Model    string
}

// Addr returns a dialable host:port, preferring an IPv4 address.
func (s *Service) Addr() string {
	if len(s.Addrs) > 0 {
		return fmt.Sprintf("%s:%d", s.Addrs[0], s.Port)
	}
	return fmt.Sprintf("%s:%d", strings.TrimSuffix(s.Host, "."), s.Port)
}

// Browse streams discovered devices until ctx is canceled. The channel
// closes when browsing stops.
func Browse(ctx context.Context) (<-chan *Service, error) {
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	out := make(chan *Service)

	go func() {
		defer close(out)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				select {
				case out <- serviceFromEntry(entry):
				case <-ctx.Done():
					return
				}
			case <-removed:
				// Departures are not surfaced.
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed)
	}()

	return out, nil
}

func serviceFromEntry(entry *zeroconf.ServiceEntry) *Service {
	s := &Service{
		Name: entry.Instance,
		Host: entry.HostName,
		Port: entry.Port,
	}
	s.Addrs = append(s.Addrs, entry.AddrIPv4...)
	s.Addrs = append(s.Addrs, entry.AddrIPv6...)

	for _, txt := range entry.Text {
		key, value, ok := strings.Cut(txt, "=")
		if !ok {
			continue
		}
		switch key {
		case TXTKeyFirmware:
			s.Firmware = value
		case TXTKeySerial:
			s.Serial = value
		case TXTKeyModel:
			s.Model = value
		}
	}
	return s
}
