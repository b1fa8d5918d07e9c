package activelook_test

import (
	"context"
	"errors"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activelook-protocol/activelook-go/internal/tcpbridge"
	"github.com/activelook-protocol/activelook-go/pkg/emulator"
	"github.com/activelook-protocol/activelook-go/pkg/log"
	"github.com/activelook-protocol/activelook-go/pkg/transport"
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// e2eLink runs an emulated device behind a bridge and returns a
// connected client. The device goroutine shuts the link down when the
// serve loop ends.
func e2eLink(t *testing.T, config emulator.Config, clientConfig transport.ClientConfig) (*transport.Client, *emulator.Glasses) {
	t.Helper()

	deviceConn, masterConn := net.Pipe()

	glasses, err := emulator.NewGlasses(config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deviceBridge := tcpbridge.New(deviceConn)
	server := transport.NewServer(deviceBridge.Data(), deviceBridge.Data(), deviceBridge.Control(), transport.ServerConfig{})
	go func() {
		_ = emulator.Serve(ctx, glasses, server)
		_ = deviceConn.Close()
	}()

	masterBridge := tcpbridge.New(masterConn)
	t.Cleanup(func() { _ = masterConn.Close() })

	client := transport.NewClient(masterBridge.Data(), masterBridge.Data(), masterBridge.Control(), clientConfig)
	return client, glasses
}

func TestE2E_Queries(t *testing.T) {
	config := emulator.DefaultConfig()
	config.BatteryLevel = 83
	client, _ := e2eLink(t, config, transport.ClientConfig{})

	resp, err := client.SendWithResponse(wire.Battery{})
	require.NoError(t, err)
	assert.Equal(t, wire.BatteryResponse{Level: 83}, resp)

	resp, err = client.SendWithResponse(wire.Version{})
	require.NoError(t, err)
	version, ok := resp.(wire.VersionResponse)
	require.True(t, ok)
	assert.Equal(t, [4]byte{4, 12, 0, 1}, version.FWVersion)

	require.NoError(t, client.Send(wire.Luma{Level: 11}))
	require.NoError(t, client.Send(wire.Shift{X: -3, Y: 7}))

	resp, err = client.SendWithResponse(wire.Settings{})
	require.NoError(t, err)
	settings, ok := resp.(wire.SettingsResponse)
	require.True(t, ok)
	assert.Equal(t, uint8(11), settings.Luma)
	assert.Equal(t, int8(-3), settings.X)
	assert.Equal(t, int8(7), settings.Y)
}

func TestE2E_FlowControl(t *testing.T) {
	deviceConn, masterConn := net.Pipe()
	t.Cleanup(func() { _ = masterConn.Close() })

	glasses, err := emulator.NewGlasses(emulator.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deviceBridge := tcpbridge.New(deviceConn)
	server := transport.NewServer(deviceBridge.Data(), deviceBridge.Data(), deviceBridge.Control(), transport.ServerConfig{})
	go func() {
		_ = emulator.Serve(ctx, glasses, server)
		_ = deviceConn.Close()
	}()

	masterBridge := tcpbridge.New(masterConn)
	client := transport.NewClient(masterBridge.Data(), masterBridge.Data(), masterBridge.Control(), transport.ClientConfig{})

	status, err := client.ReadControl()
	require.NoError(t, err)
	assert.Equal(t, transport.FlowCanSend, status)

	// Garbage on the data channel is reported, not fatal.
	_, err = masterBridge.Data().Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)

	status, err = client.ReadControl()
	require.NoError(t, err)
	assert.Equal(t, transport.FlowMessageError, status)
	assert.True(t, status.IsError())

	resp, err := client.SendWithResponse(wire.Battery{})
	require.NoError(t, err)
	assert.IsType(t, wire.BatteryResponse{}, resp)
}

func TestE2E_ChunkedImageUpload(t *testing.T) {
	client, _ := e2eLink(t, emulator.DefaultConfig(), transport.ClientConfig{})

	require.NoError(t, client.Send(wire.CfgWrite{Name: wire.Name("DEMO"), Version: 1}))

	data := make([]byte, 96)
	for i := range data {
		data[i] = byte(i)
	}
	err := client.SendChunked(wire.ImgSave{
		ID:     1,
		Size:   uint32(len(data)),
		Width:  8,
		Format: wire.Img8bpp,
		Data:   data,
	}, 32)
	require.NoError(t, err)

	resp, err := client.SendWithResponse(wire.ImgList{})
	require.NoError(t, err)
	list, ok := resp.(wire.ImgListResponse)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, wire.ImgListItem{ID: 1, Width: 8, Height: 12}, list.Items[0])
}

func TestE2E_ShutdownClosesLink(t *testing.T) {
	client, glasses := e2eLink(t, emulator.DefaultConfig(), transport.ClientConfig{MaxReadAttempts: 50})

	require.NoError(t, client.Send(wire.Shutdown{Key: wire.ShutdownKey}))

	deadline := time.After(2 * time.Second)
	for !glasses.PoweredOff() {
		select {
		case <-deadline:
			t.Fatal("device never powered off")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// The device side hangs up once it powers off, so the next
	// exchange fails at either the write or the read.
	_, err := client.SendWithResponse(wire.Battery{})
	require.Error(t, err)
}

func TestE2E_TraceCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	fileLogger, err := log.NewFileLogger(path)
	require.NoError(t, err)

	client, _ := e2eLink(t, emulator.DefaultConfig(), transport.ClientConfig{Logger: fileLogger})

	_, err = client.SendWithResponse(wire.Battery{})
	require.NoError(t, err)
	require.NoError(t, fileLogger.Close())

	reader, err := log.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var directions []log.Direction
	var sawCodec bool
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, client.ConnectionID(), event.ConnectionID)
		assert.Equal(t, log.RoleMaster, event.LocalRole)
		directions = append(directions, event.Direction)
		if event.Layer == log.LayerCodec {
			sawCodec = true
		}
	}
	assert.Contains(t, directions, log.DirectionOut)
	assert.Contains(t, directions, log.DirectionIn)
	assert.True(t, sawCodec)
}
