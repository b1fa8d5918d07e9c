// Command glasses-cli is an interactive client for glasses links.
//
// It connects to a device (or the glasses-emu bridge), then drives the
// command catalog from a prompt: queries, drawing, image uploads,
// configuration management. Flow control bytes from the device are
// printed as they arrive.
//
// Usage:
//
//	glasses-cli [flags]
//
// Flags:
//
//	-addr string      Device address (default "localhost:35551")
//	-discover         Find a device over mDNS instead of using -addr
//	-trace string     Write CBOR protocol trace to this file
//	-attempts int     Max reads while waiting for a response, 0 = unbounded (default 10)
//
// Examples:
//
//	# Connect to a local emulator
//	glasses-cli
//
//	# Find an advertised device and record the session
//	glasses-cli -discover -trace session.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"time"

	"github.com/activelook-protocol/activelook-go/cmd/glasses-cli/interactive"
	"github.com/activelook-protocol/activelook-go/internal/tcpbridge"
	"github.com/activelook-protocol/activelook-go/pkg/discovery"
	"github.com/activelook-protocol/activelook-go/pkg/log"
	"github.com/activelook-protocol/activelook-go/pkg/transport"
)

const discoverTimeout = 5 * time.Second

var (
	addr      string
	discover  bool
	traceFile string
	attempts  int
)

func init() {
	flag.StringVar(&addr, "addr", fmt.Sprintf("localhost:%d", discovery.DefaultPort), "Device address")
	flag.BoolVar(&discover, "discover", false, "Find a device over mDNS instead of using -addr")
	flag.StringVar(&traceFile, "trace", "", "Write CBOR protocol trace to this file")
	flag.IntVar(&attempts, "attempts", 10, "Max reads while waiting for a response, 0 = unbounded")
}

func main() {
	flag.Parse()

	target := addr
	if discover {
		var err error
		target, err = discoverDevice()
		if err != nil {
			stdlog.Fatalf("Discovering device: %v", err)
		}
	}

	var logger log.Logger
	if traceFile != "" {
		fileLogger, err := log.NewFileLogger(traceFile)
		if err != nil {
			stdlog.Fatalf("Opening trace file: %v", err)
		}
		defer fileLogger.Close()
		logger = fileLogger
	}

	conn, err := net.Dial("tcp", target)
	if err != nil {
		stdlog.Fatalf("Connecting to %s: %v", target, err)
	}
	defer conn.Close()

	bridge := tcpbridge.New(conn)
	client := transport.NewClient(bridge.Data(), bridge.Data(), bridge.Control(), transport.ClientConfig{
		MaxReadAttempts: attempts,
		Logger:          logger,
	})

	session, err := interactive.New(client)
	if err != nil {
		stdlog.Fatalf("Starting session: %v", err)
	}
	fmt.Fprintf(session.Stdout(), "Connected to %s\n", target)

	go session.WatchFlow()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.Run(ctx, cancel)
}

// discoverDevice browses mDNS and returns the address of the first
// device that answers within the timeout.
func discoverDevice() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
	defer cancel()

	services, err := discovery.Browse(ctx)
	if err != nil {
		return "", err
	}

	fmt.Println("Browsing for devices...")
	for service := range services {
		fmt.Printf("Found %q (firmware %s) at %s\n", service.Name, service.Firmware, service.Addr())
		return service.Addr(), nil
	}
	return "", fmt.Errorf("no device found within %s", discoverTimeout)
}
