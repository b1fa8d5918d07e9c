package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

func newTestGlasses(t *testing.T, mutate func(*Config)) *Glasses {
	t.Helper()
	config := DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	g, err := NewGlasses(config)
	require.NoError(t, err)
	return g
}

// handle dispatches cmd and requires a response.
func handle(t *testing.T, g *Glasses, cmd wire.Command) wire.Response {
	t.Helper()
	resp, ok := g.Handle(cmd)
	require.True(t, ok, "expected a response for %T", cmd)
	return resp
}

// apply dispatches cmd and requires silence.
func apply(t *testing.T, g *Glasses, cmd wire.Command) {
	t.Helper()
	resp, ok := g.Handle(cmd)
	require.False(t, ok, "unexpected response %#v for %T", resp, cmd)
}

func TestBattery(t *testing.T) {
	g := newTestGlasses(t, func(c *Config) { c.BatteryLevel = 80 })
	assert.Equal(t, wire.BatteryResponse{Level: 80}, handle(t, g, wire.Battery{}))
}

func TestVersion(t *testing.T) {
	g := newTestGlasses(t, nil)
	assert.Equal(t, wire.VersionResponse{
		FWVersion:    [4]byte{4, 12, 0, 1},
		MfcYear:      24,
		MfcWeek:      3,
		SerialNumber: [3]byte{0x00, 0x01, 0x7B},
	}, handle(t, g, wire.Version{}))
}

func TestSettings(t *testing.T) {
	g := newTestGlasses(t, nil)

	apply(t, g, wire.Shift{X: -3, Y: 12})
	apply(t, g, wire.Luma{Level: 9})
	apply(t, g, wire.Gesture{Enable: false})

	assert.Equal(t, wire.SettingsResponse{
		X:             -3,
		Y:             12,
		Luma:          9,
		ALSEnable:     true,
		GestureEnable: false,
	}, handle(t, g, wire.Settings{}))
}

func TestSensorTogglesBoth(t *testing.T) {
	g := newTestGlasses(t, nil)

	apply(t, g, wire.Sensor{Enable: false})
	settings := handle(t, g, wire.Settings{}).(wire.SettingsResponse)
	assert.False(t, settings.ALSEnable)
	assert.False(t, settings.GestureEnable)
}

func TestLumaOutOfRange(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.Luma{Level: 16})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdLuma, Error: wire.DeviceErrGeneric}, resp)
}

func TestPixelCount(t *testing.T) {
	g := newTestGlasses(t, nil)

	assert.Equal(t, wire.PixelCountResponse{Count: 0}, handle(t, g, wire.PixelCount{}))

	apply(t, g, wire.DrawPoint{Coord: wire.Point{X: 10, Y: 10}})
	apply(t, g, wire.Line{From: wire.Point{X: 0, Y: 0}, To: wire.Point{X: 9, Y: 0}})
	assert.Equal(t, wire.PixelCountResponse{Count: 11}, handle(t, g, wire.PixelCount{}))

	apply(t, g, wire.Clear{})
	assert.Equal(t, wire.PixelCountResponse{Count: 0}, handle(t, g, wire.PixelCount{}))
}

func TestGreyLightsWholeDisplay(t *testing.T) {
	g := newTestGlasses(t, nil)

	apply(t, g, wire.Grey{Level: 7})
	assert.Equal(t, uint32(DisplayWidth*DisplayHeight), g.PixelsLit())
}

func TestDisplayOffIgnoresDrawing(t *testing.T) {
	g := newTestGlasses(t, nil)

	apply(t, g, wire.PowerDisplay{Enable: false})
	apply(t, g, wire.DrawPoint{Coord: wire.Point{X: 1, Y: 1}})
	assert.Equal(t, uint32(0), g.PixelsLit())
}

func TestFontList(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.FontList{}).(wire.FontListResponse)
	assert.Equal(t, []wire.FontItem{{ID: 1, Height: 24}, {ID: 2, Height: 38}, {ID: 3, Height: 64}}, resp.Fonts)
}

func TestFontSelectUnknown(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.FontSelect{ID: 9})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdFontSelect, Error: wire.DeviceErrGeneric}, resp)
}

func TestImgSaveRequiresCfgWrite(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.ImgSave{ID: 1, Size: 8, Width: 8, Format: wire.Img8bpp})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdImgSave, Error: wire.DeviceErrMissingCfgWrite}, resp)
}

func TestImgSaveAndList(t *testing.T) {
	g := newTestGlasses(t, nil)

	apply(t, g, wire.CfgWrite{Name: wire.Name("DEMO"), Version: 3, Password: 42})
	apply(t, g, wire.ImgSave{ID: 1, Size: 32, Width: 8, Format: wire.Img8bpp})
	apply(t, g, wire.ImgSave{ID: 2, Size: 4, Width: 8, Format: wire.Img1bpp})

	resp := handle(t, g, wire.ImgList{}).(wire.ImgListResponse)
	assert.Equal(t, []wire.ImgListItem{
		{ID: 1, Height: 4, Width: 8},
		{ID: 2, Height: 4, Width: 8},
	}, resp.Items)

	read := handle(t, g, wire.CfgRead{Name: wire.Name("DEMO")}).(wire.CfgReadResponse)
	assert.Equal(t, uint32(3), read.Version)
	assert.Equal(t, uint8(2), read.NbImg)

	apply(t, g, wire.ImgDelete{ID: 0xFF})
	assert.Empty(t, handle(t, g, wire.ImgList{}).(wire.ImgListResponse).Items)
}

func TestImgSaveStorageOverflow(t *testing.T) {
	g := newTestGlasses(t, func(c *Config) { c.StorageSize = 70 << 10 })

	apply(t, g, wire.CfgWrite{Name: wire.Name("DEMO")})
	resp := handle(t, g, wire.ImgSave{ID: 1, Size: 10 << 10, Width: 100, Format: wire.Img4bpp})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdImgSave, Error: wire.DeviceErrMemoryAccess}, resp)
}

func TestCfgLifecycle(t *testing.T) {
	g := newTestGlasses(t, nil)

	nb := handle(t, g, wire.CfgGetNb{}).(wire.CfgGetNbResponse)
	assert.Equal(t, uint8(1), nb.Count)

	apply(t, g, wire.CfgWrite{Name: wire.Name("NAV"), Version: 7, Password: 1234})
	apply(t, g, wire.CfgSet{Name: wire.Name("NAV")})

	list := handle(t, g, wire.CfgList{}).(wire.CfgListResponse)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "ALooK", list.Items[0].Name.String())
	assert.True(t, list.Items[0].IsSystem)
	assert.Equal(t, "NAV", list.Items[1].Name.String())
	assert.Equal(t, uint32(7), list.Items[1].Version)

	// Wrong password cannot reopen or rename the configuration.
	resp := handle(t, g, wire.CfgWrite{Name: wire.Name("NAV"), Password: 9})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdCfgWrite, Error: wire.DeviceErrGeneric}, resp)
	resp = handle(t, g, wire.CfgRename{Old: wire.Name("NAV"), New: wire.Name("RUN"), Password: 9})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdCfgRename, Error: wire.DeviceErrGeneric}, resp)

	apply(t, g, wire.CfgRename{Old: wire.Name("NAV"), New: wire.Name("RUN"), Password: 1234})
	_, ok := g.Handle(wire.CfgSet{Name: wire.Name("NAV")})
	assert.True(t, ok, "stale name must be rejected")

	apply(t, g, wire.CfgDelete{Name: wire.Name("RUN")})
	nb = handle(t, g, wire.CfgGetNb{}).(wire.CfgGetNbResponse)
	assert.Equal(t, uint8(1), nb.Count)
}

func TestCfgDeleteSystemRefused(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.CfgDelete{Name: wire.Name("ALooK")})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdCfgDelete, Error: wire.DeviceErrGeneric}, resp)
}

func TestCfgDeleteLessUsed(t *testing.T) {
	g := newTestGlasses(t, nil)

	apply(t, g, wire.CfgWrite{Name: wire.Name("A")})
	apply(t, g, wire.CfgWrite{Name: wire.Name("B")})
	apply(t, g, wire.CfgSet{Name: wire.Name("A")})

	apply(t, g, wire.CfgDeleteLessUsed{})

	list := handle(t, g, wire.CfgList{}).(wire.CfgListResponse)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "A", list.Items[0].Name.String())
	assert.Equal(t, "ALooK", list.Items[1].Name.String())
}

func TestCfgWriteLowBattery(t *testing.T) {
	g := newTestGlasses(t, func(c *Config) { c.BatteryLevel = 5 })

	resp := handle(t, g, wire.CfgWrite{Name: wire.Name("DEMO")})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdCfgWrite, Error: wire.DeviceErrGeneric}, resp)
}

func TestCfgFreeSpaceAccounting(t *testing.T) {
	g := newTestGlasses(t, nil)

	before := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)
	apply(t, g, wire.CfgWrite{Name: wire.Name("DEMO")})
	apply(t, g, wire.ImgSave{ID: 1, Size: 100, Width: 10, Format: wire.Img8bpp})

	after := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)
	assert.Equal(t, before.FreeSpace-100, after.FreeSpace)
	assert.Equal(t, before.TotalSize, after.TotalSize)
}

func TestCfgDeleteAfterImgDeleteFreesSpaceOnce(t *testing.T) {
	g := newTestGlasses(t, nil)

	before := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)

	// An image larger than the built-in configuration, deleted on its
	// own and then again with its configuration, must not be credited
	// back twice.
	apply(t, g, wire.CfgWrite{Name: wire.Name("DEMO")})
	apply(t, g, wire.ImgSave{ID: 1, Size: 70 << 10, Width: 304, Format: wire.Img8bpp})
	apply(t, g, wire.ImgDelete{ID: 1})
	apply(t, g, wire.CfgDelete{Name: wire.Name("DEMO")})

	after := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)
	assert.Equal(t, before.FreeSpace, after.FreeSpace)
	assert.LessOrEqual(t, after.FreeSpace, after.TotalSize)
}

func TestCfgDeleteRemovesStoredElements(t *testing.T) {
	g := newTestGlasses(t, nil)

	before := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)

	apply(t, g, wire.CfgWrite{Name: wire.Name("DEMO")})
	apply(t, g, wire.ImgSave{ID: 1, Size: 100, Width: 10, Format: wire.Img8bpp})
	apply(t, g, wire.AnimSave{ID: 2, TotalSize: 200})
	apply(t, g, wire.CfgDelete{Name: wire.Name("DEMO")})

	assert.Empty(t, handle(t, g, wire.ImgList{}).(wire.ImgListResponse).Items)
	assert.Empty(t, handle(t, g, wire.AnimList{}).(wire.AnimListResponse).IDs)

	after := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)
	assert.Equal(t, before.FreeSpace, after.FreeSpace)
}

func TestImgDeleteAfterCfgRename(t *testing.T) {
	g := newTestGlasses(t, nil)

	before := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)

	apply(t, g, wire.CfgWrite{Name: wire.Name("NAV"), Password: 7})
	apply(t, g, wire.ImgSave{ID: 1, Size: 100, Width: 10, Format: wire.Img8bpp})
	apply(t, g, wire.CfgRename{Old: wire.Name("NAV"), New: wire.Name("RUN"), Password: 7})
	apply(t, g, wire.ImgDelete{ID: 1})

	read := handle(t, g, wire.CfgRead{Name: wire.Name("RUN")}).(wire.CfgReadResponse)
	assert.Equal(t, uint8(0), read.NbImg)

	apply(t, g, wire.CfgDelete{Name: wire.Name("RUN")})
	after := handle(t, g, wire.CfgFreeSpace{}).(wire.CfgFreeSpaceResponse)
	assert.Equal(t, before.FreeSpace, after.FreeSpace)
}

func TestShutdown(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.Shutdown{Key: [4]byte{1, 2, 3, 4}})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdShutdown, Error: wire.DeviceErrGeneric}, resp)
	assert.False(t, g.PoweredOff())

	apply(t, g, wire.Shutdown{Key: wire.ShutdownKey})
	assert.True(t, g.PoweredOff())
}

func TestShutdownRefusedOnUSBPower(t *testing.T) {
	g := newTestGlasses(t, func(c *Config) { c.USBPowered = true })

	resp := handle(t, g, wire.Shutdown{Key: wire.ShutdownKey})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdShutdown, Error: wire.DeviceErrGeneric}, resp)
}

func TestResetRequiresUSBPower(t *testing.T) {
	g := newTestGlasses(t, func(c *Config) { c.USBPowered = true })

	apply(t, g, wire.Luma{Level: 2})
	apply(t, g, wire.Reset{Key: wire.ResetKey})

	settings := handle(t, g, wire.Settings{}).(wire.SettingsResponse)
	assert.Equal(t, uint8(7), settings.Luma)

	battery := newTestGlasses(t, nil)
	resp := handle(t, battery, wire.Reset{Key: wire.ResetKey})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdReset, Error: wire.DeviceErrGeneric}, resp)
}

func TestInfo(t *testing.T) {
	g := newTestGlasses(t, nil)

	resp := handle(t, g, wire.Info{ID: wire.InfoFWVersion}).(wire.DeviceInfoResponse)
	assert.Equal(t, []byte("4.12.0.1"), resp.Parameters)

	resp = handle(t, g, wire.Info{ID: wire.InfoSerialNumber}).(wire.DeviceInfoResponse)
	assert.Equal(t, []byte{0x00, 0x01, 0x7B}, resp.Parameters)

	errResp := handle(t, g, wire.Info{ID: 200})
	assert.Equal(t, wire.ErrorResponse{CmdID: wire.CmdInfo, Error: wire.DeviceErrGeneric}, errResp)
}
