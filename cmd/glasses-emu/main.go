// Command glasses-emu runs a glasses emulator behind a TCP bridge.
//
// The emulator answers the full command catalog the way real glasses
// do: query commands produce responses carrying the caller's query ID,
// state commands mutate the emulated device, malformed traffic is
// reported on the flow control channel.
//
// Usage:
//
//	glasses-emu [flags]
//
// Flags:
//
//	-addr string     Listen address (default ":35551")
//	-config string   YAML device config file
//	-trace string    Write CBOR protocol trace to this file
//	-advertise       Announce the bridge over mDNS
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Stock device on the default port
//	glasses-emu
//
//	# Low battery bench rig, discoverable, with a protocol trace
//	glasses-emu -config bench.yaml -advertise -trace session.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/activelook-protocol/activelook-go/internal/tcpbridge"
	"github.com/activelook-protocol/activelook-go/pkg/discovery"
	"github.com/activelook-protocol/activelook-go/pkg/emulator"
	"github.com/activelook-protocol/activelook-go/pkg/log"
	"github.com/activelook-protocol/activelook-go/pkg/transport"
)

var (
	addr       string
	configFile string
	traceFile  string
	advertise  bool
	logLevel   string
)

func init() {
	flag.StringVar(&addr, "addr", fmt.Sprintf(":%d", discovery.DefaultPort), "Listen address")
	flag.StringVar(&configFile, "config", "", "YAML device config file")
	flag.StringVar(&traceFile, "trace", "", "Write CBOR protocol trace to this file")
	flag.BoolVar(&advertise, "advertise", false, "Announce the bridge over mDNS")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()
	setupSlog(logLevel)

	config := emulator.DefaultConfig()
	if configFile != "" {
		var err error
		config, err = emulator.LoadConfig(configFile)
		if err != nil {
			stdlog.Fatalf("Loading config: %v", err)
		}
	}

	logger, closeLogger, err := buildLogger()
	if err != nil {
		stdlog.Fatalf("Opening trace file: %v", err)
	}
	defer closeLogger()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		stdlog.Fatalf("Listening on %s: %v", addr, err)
	}
	slog.Info("glasses emulator listening",
		"addr", listener.Addr().String(),
		"name", config.Name,
		"firmware", config.FirmwareVersion)

	if advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		adv, err := discovery.Advertise(discovery.Info{
			Name:     config.Name,
			Port:     port,
			Firmware: config.FirmwareVersion,
			Serial:   fmt.Sprintf("%06X", config.SerialNumber),
			Model:    config.Name,
		})
		if err != nil {
			stdlog.Fatalf("Advertising: %v", err)
		}
		defer adv.Shutdown()
		slog.Info("advertising over mDNS", "service", discovery.ServiceType, "port", port)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		cancel()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("accept failed", "err", err)
			continue
		}
		go serveConn(ctx, conn, config, logger)
	}
}

func serveConn(ctx context.Context, conn net.Conn, config emulator.Config, logger log.Logger) {
	defer conn.Close()
	slog.Info("link up", "remote", conn.RemoteAddr().String())

	glasses, err := emulator.NewGlasses(config)
	if err != nil {
		slog.Error("creating device", "err", err)
		return
	}

	bridge := tcpbridge.New(conn)
	server := transport.NewServer(bridge.Data(), bridge.Data(), bridge.Control(), transport.ServerConfig{
		Logger: logger,
	})

	if err := emulator.Serve(ctx, glasses, server); err != nil {
		slog.Warn("link failed", "remote", conn.RemoteAddr().String(), "err", err)
		return
	}
	slog.Info("link down", "remote", conn.RemoteAddr().String(), "powered_off", glasses.PoweredOff())
}

// buildLogger combines the slog trace with an optional CBOR file.
func buildLogger() (log.Logger, func(), error) {
	slogAdapter := log.NewSlogAdapter(slog.Default())
	if traceFile == "" {
		return slogAdapter, func() {}, nil
	}
	fileLogger, err := log.NewFileLogger(traceFile)
	if err != nil {
		return nil, nil, err
	}
	return log.NewMultiLogger(slogAdapter, fileLogger), func() { _ = fileLogger.Close() }, nil
}

func setupSlog(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		stdlog.Fatalf("Unknown log level: %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
