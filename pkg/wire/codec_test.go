package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   CommandID
		cmd  Command
	}{
		{"power display", CmdPowerDisplay, PowerDisplay{Enable: true}},
		{"clear", CmdClear, Clear{}},
		{"grey", CmdGrey, Grey{Level: 15}},
		{"demo", CmdDemo, Demo{ID: DemoImages}},
		{"battery", CmdBattery, Battery{}},
		{"version", CmdVersion, Version{}},
		{"led", CmdLed, Led{State: LedBlinking}},
		{"shift", CmdShift, Shift{X: -10, Y: 42}},
		{"settings", CmdSettings, Settings{}},
		{"luma", CmdLuma, Luma{Level: 7}},
		{"sensor", CmdSensor, Sensor{Enable: true}},
		{"gesture", CmdGesture, Gesture{Enable: false}},
		{"als", CmdALS, ALS{Enable: true}},
		{"color", CmdColor, Color{Level: 3}},
		{"draw point", CmdDrawPoint, DrawPoint{Coord: Point{X: 100, Y: -1}}},
		{"line", CmdLine, Line{From: Point{X: 0, Y: 0}, To: Point{X: 303, Y: 255}}},
		{"rect", CmdRect, Rect{From: Point{X: 1, Y: 2}, To: Point{X: 3, Y: 4}}},
		{"rect full", CmdRectFull, RectFull{From: Point{X: -5, Y: -6}, To: Point{X: 7, Y: 8}}},
		{"circ", CmdCirc, Circ{Center: Point{X: 150, Y: 120}, R: 40}},
		{"circ full", CmdCircFull, CircFull{Center: Point{X: 150, Y: 120}, R: 40}},
		{"txt", CmdTxt, Txt{
			Pos:      Point{X: 10, Y: 20},
			Rotation: 4,
			FontSize: 2,
			Color:    15,
			Text:     Text("HELLO"),
		}},
		{"polyline", CmdPolyline, Polyline{
			Thickness: 2,
			Points:    []Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 0}},
		}},
		{"polyline empty", CmdPolyline, Polyline{Thickness: 1}},
		{"hold flush", CmdHoldFlush, HoldFlush{Action: ActionResetFlush}},
		{"arc", CmdArc, Arc{
			Center:     Point{X: 100, Y: 100},
			R:          30,
			AngleStart: -90,
			AngleEnd:   90,
			Thickness:  3,
		}},
		{"img save", CmdImgSave, ImgSave{
			ID:     1,
			Size:   6,
			Width:  4,
			Format: Img4bpp,
			Data:   []byte{0xAB, 0xCD, 0xEF, 0x01, 0x02, 0x03},
		}},
		{"img save no data", CmdImgSave, ImgSave{ID: 2, Size: 0, Width: 8, Format: Img1bpp}},
		{"img display", CmdImgDisplay, ImgDisplay{ID: 3, Coord: Point{X: -4, Y: 9}}},
		{"img stream", CmdImgStream, ImgStream{
			Size:   2,
			Width:  8,
			Coord:  Point{X: 0, Y: 0},
			Format: Stream1bpp,
			Data:   []byte{0xF0, 0x0F},
		}},
		{"img delete", CmdImgDelete, ImgDelete{ID: 0xFF}},
		{"img list", CmdImgList, ImgList{}},
		{"font list", CmdFontList, FontList{}},
		{"font select", CmdFontSelect, FontSelect{ID: 2}},
		{"font delete", CmdFontDelete, FontDelete{ID: 0xFF}},
		{"anim save", CmdAnimSave, AnimSave{
			ID:                1,
			TotalSize:         1024,
			ImgSize:           256,
			Width:             32,
			Format:            Img4bppHeatshrink,
			ImgCompressedSize: 128,
		}},
		{"anim delete", CmdAnimDelete, AnimDelete{ID: 1}},
		{"anim display", CmdAnimDisplay, AnimDisplay{
			HandlerID: 1,
			ID:        2,
			Delay:     100,
			Repeat:    0xFF,
			Pos:       Point{X: 50, Y: 60},
		}},
		{"anim clear", CmdAnimClear, AnimClear{HandlerID: 0xFF}},
		{"anim list", CmdAnimList, AnimList{}},
		{"pixel count", CmdPixelCount, PixelCount{}},
		{"cfg write", CmdCfgWrite, CfgWrite{Name: Name("sport"), Version: 3, Password: 0xDEADBEEF}},
		{"cfg read", CmdCfgRead, CfgRead{Name: Name("sport")}},
		{"cfg set", CmdCfgSet, CfgSet{Name: Name("sport")}},
		{"cfg list", CmdCfgList, CfgList{}},
		{"cfg rename", CmdCfgRename, CfgRename{Old: Name("old"), New: Name("new"), Password: 42}},
		{"cfg delete", CmdCfgDelete, CfgDelete{Name: Name("sport")}},
		{"cfg delete less used", CmdCfgDeleteLessUsed, CfgDeleteLessUsed{}},
		{"cfg free space", CmdCfgFreeSpace, CfgFreeSpace{}},
		{"cfg get nb", CmdCfgGetNb, CfgGetNb{}},
		{"shutdown", CmdShutdown, Shutdown{Key: ShutdownKey}},
		{"reset", CmdReset, Reset{Key: ResetKey}},
		{"info", CmdInfo, Info{ID: InfoSerialNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, payload := EncodeCommand(tt.cmd)
			assert.Equal(t, tt.id, id)

			decoded, err := DecodeCommand(id, payload)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, decoded)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   CommandID
		resp Response
	}{
		{"battery", RespBattery, BatteryResponse{Level: 0x64}},
		{"version", RespVersion, VersionResponse{
			FWVersion:    [4]byte{4, 12, 0, 1},
			MfcYear:      24,
			MfcWeek:      9,
			SerialNumber: [3]byte{0x00, 0x01, 0x7F},
		}},
		{"settings", RespSettings, SettingsResponse{
			X:             -2,
			Y:             5,
			Luma:          10,
			ALSEnable:     true,
			GestureEnable: false,
		}},
		{"img list", RespImgList, ImgListResponse{Items: []ImgListItem{
			{ID: 1, Height: 32, Width: 64},
			{ID: 2, Height: 8, Width: 8},
		}}},
		{"img list empty", RespImgList, ImgListResponse{}},
		{"font list", RespFontList, FontListResponse{Fonts: []FontItem{
			{ID: 1, Height: 24},
			{ID: 2, Height: 35},
		}}},
		{"anim list", RespAnimList, AnimListResponse{IDs: []byte{1, 2, 3}}},
		{"anim list empty", RespAnimList, AnimListResponse{}},
		{"pixel count", RespPixelCount, PixelCountResponse{Count: 93817}},
		{"cfg read", RespCfgRead, CfgReadResponse{
			Version:  7,
			NbImg:    3,
			NbLayout: 1,
			NbFont:   2,
			NbPage:   0,
			NbGauge:  4,
		}},
		{"cfg list", RespCfgList, CfgListResponse{Items: []CfgItem{
			{Name: Name("system"), Size: 4096, Version: 1, UsageCounter: 9, InstallCounter: 1, IsSystem: true},
			{Name: Name("run"), Size: 512, Version: 3, UsageCounter: 2, InstallCounter: 5},
		}}},
		{"cfg free space", RespCfgFreeSpace, CfgFreeSpaceResponse{TotalSize: 1 << 20, FreeSpace: 4242}},
		{"cfg get nb", RespCfgGetNb, CfgGetNbResponse{Count: 2}},
		{"error", RespError, ErrorResponse{
			CmdID:    CmdCfgSet,
			Error:    DeviceErrMissingCfgWrite,
			SubError: 0,
		}},
		{"device info", RespDeviceInfo, DeviceInfoResponse{Parameters: []byte{1, 2, 3}}},
		{"device info empty", RespDeviceInfo, DeviceInfoResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, payload := EncodeResponse(tt.resp)
			assert.Equal(t, tt.id, id)

			decoded, err := DecodeResponse(id, payload)
			require.NoError(t, err)
			assert.Equal(t, tt.resp, decoded)
		})
	}
}

func TestEncodeCommandPayloadBytes(t *testing.T) {
	id, payload := EncodeCommand(PowerDisplay{Enable: true})
	assert.Equal(t, CommandID(0x00), id)
	assert.Equal(t, []byte{0x01}, payload)

	id, payload = EncodeCommand(Clear{})
	assert.Equal(t, CommandID(0x01), id)
	assert.Empty(t, payload)

	id, payload = EncodeCommand(Shift{X: -1, Y: 256})
	assert.Equal(t, CommandID(0x09), id)
	assert.Equal(t, []byte{0xFF, 0xFF, 0x01, 0x00}, payload)
}

func TestDecodeCommandNilPayload(t *testing.T) {
	cmd, err := DecodeCommand(CmdClear, nil)
	require.NoError(t, err)
	assert.Equal(t, Clear{}, cmd)

	cmd, err = DecodeCommand(CmdClear, []byte{})
	require.NoError(t, err)
	assert.Equal(t, Clear{}, cmd)
}

func TestDecodeCommandUnknownID(t *testing.T) {
	_, err := DecodeCommand(0x04, nil)
	assert.ErrorIs(t, err, ErrUnknownCommandID)

	_, err = DecodeCommand(0x7F, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnknownCommandID)
}

func TestDecodeCommandShortPayload(t *testing.T) {
	tests := []struct {
		name    string
		id      CommandID
		payload []byte
	}{
		{"grey empty", CmdGrey, nil},
		{"shift truncated", CmdShift, []byte{0x00, 0x01, 0x02}},
		{"arc truncated", CmdArc, []byte{0, 1, 0, 2, 3}},
		{"img save header cut", CmdImgSave, []byte{1, 0, 0, 0}},
		{"shutdown key cut", CmdShutdown, []byte{0x6F, 0x7F}},
		{"cfg write empty", CmdCfgWrite, nil},
		{"cfg read empty", CmdCfgRead, nil},
		{"cfg set empty", CmdCfgSet, []byte{}},
		{"cfg delete empty", CmdCfgDelete, nil},
		{"cfg rename second name cut", CmdCfgRename, []byte{'N', 'A', 'V', 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCommand(tt.id, tt.payload)
			assert.ErrorIs(t, err, ErrShortPayload)
		})
	}
}

func TestDecodeCommandIgnoresTrailingBytes(t *testing.T) {
	// A payload longer than the variant layout decodes the fixed fields
	// and ignores the rest, mirroring the glasses firmware.
	cmd, err := DecodeCommand(CmdGrey, []byte{0x05, 0xAA, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, Grey{Level: 5}, cmd)
}

func TestDecodePolylineMalformed(t *testing.T) {
	// 2 point bytes left over after thickness + reserved.
	payload := []byte{1, 0, 0, 0x00, 0x01, 0x00, 0x02, 0x00}
	_, err := DecodeCommand(CmdPolyline, payload)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecodeResponseUnknownID(t *testing.T) {
	_, err := DecodeResponse(0x00, nil)
	assert.ErrorIs(t, err, ErrUnknownResponseID)
}

func TestDecodeResponseShortPayload(t *testing.T) {
	_, err := DecodeResponse(RespVersion, []byte{4, 12, 0})
	assert.ErrorIs(t, err, ErrShortPayload)

	_, err = DecodeResponse(RespPixelCount, []byte{0, 1})
	assert.ErrorIs(t, err, ErrShortPayload)
}

func TestCfgWriteLayout(t *testing.T) {
	// The name field only occupies len(text)+1 bytes on the wire; the
	// version follows immediately after the NUL, not at offset 12.
	_, payload := EncodeCommand(CfgWrite{Name: Name("ABC"), Version: 1, Password: 2})
	require.Len(t, payload, 4+4+4)
	assert.Equal(t, []byte{'A', 'B', 'C', 0x00}, payload[:4])
	assert.Equal(t, []byte{0, 0, 0, 1}, payload[4:8])
	assert.Equal(t, []byte{0, 0, 0, 2}, payload[8:12])
}
