package discovery

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
)

func TestInfoTXTStrings(t *testing.T) {
	info := Info{
		Name:     "ENGO 2 EMU",
		Firmware: "4.12.0.1",
		Serial:   "00017B",
		Model:    "ENGO 2",
	}
	assert.Equal(t, []string{"FW=4.12.0.1", "serial=00017B", "model=ENGO 2"}, info.txtStrings())

	assert.Empty(t, Info{Name: "bare"}.txtStrings())
}

func TestServiceFromEntry(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "ENGO 2 EMU"},
		HostName:      "bench.local.",
		Port:          35551,
		Text:          []string{"FW=4.12.0.1", "serial=00017B", "malformed", "model=ENGO 2"},
		AddrIPv4:      []net.IP{net.IPv4(192, 168, 1, 20)},
	}

	s := serviceFromEntry(entry)
	assert.Equal(t, "ENGO 2 EMU", s.Name)
	assert.Equal(t, "4.12.0.1", s.Firmware)
	assert.Equal(t, "00017B", s.Serial)
	assert.Equal(t, "ENGO 2", s.Model)
	assert.Equal(t, "192.168.1.20:35551", s.Addr())
}

func TestServiceAddrFallsBackToHost(t *testing.T) {
	s := &Service{Host: "bench.local.", Port: 35551}
	assert.Equal(t, "bench.local:35551", s.Addr())
}

func TestAdvertiseRequiresName(t *testing.T) {
	_, err := Advertise(Info{})
	assert.Error(t, err)
}
