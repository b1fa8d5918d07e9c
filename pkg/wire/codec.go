package wire

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrUnknownCommandID indicates an ID absent from the command
	// catalog.
	ErrUnknownCommandID = errors.New("unknown command ID")

	// ErrUnknownResponseID indicates an ID absent from the response
	// catalog.
	ErrUnknownResponseID = errors.New("unknown response ID")

	// ErrShortPayload indicates a payload shorter than the variant's
	// fixed portion.
	ErrShortPayload = errors.New("payload too short")

	// ErrMalformedPayload indicates a payload whose trailing sequence
	// does not divide into whole items.
	ErrMalformedPayload = errors.New("malformed payload")
)

// EncodeCommand serializes a command into its ID and payload halves.
// The two are never concatenated here: the packet layer emits the ID
// inside the frame header. The payload is nil for commands without
// fields.
func EncodeCommand(cmd Command) (CommandID, []byte) {
	return cmd.CommandID(), cmd.appendPayload(nil)
}

// EncodeResponse serializes a response into its ID and payload halves.
func EncodeResponse(resp Response) (CommandID, []byte) {
	return resp.ResponseID(), resp.appendPayload(nil)
}

// DecodeCommand parses a payload against the command catalog entry for
// id. A nil or empty payload is valid for commands without fields.
// Payload bytes beyond the variant's layout are ignored.
func DecodeCommand(id CommandID, payload []byte) (Command, error) {
	r := newPayloadReader(payload)
	var cmd Command

	switch id {
	case CmdPowerDisplay:
		cmd = PowerDisplay{Enable: r.boolean()}
	case CmdClear:
		cmd = Clear{}
	case CmdGrey:
		cmd = Grey{Level: r.u8()}
	case CmdDemo:
		cmd = Demo{ID: DemoID(r.u8())}
	case CmdBattery:
		cmd = Battery{}
	case CmdVersion:
		cmd = Version{}
	case CmdLed:
		cmd = Led{State: LedState(r.u8())}
	case CmdShift:
		cmd = Shift{X: r.i16(), Y: r.i16()}
	case CmdSettings:
		cmd = Settings{}
	case CmdLuma:
		cmd = Luma{Level: r.u8()}
	case CmdSensor:
		cmd = Sensor{Enable: r.boolean()}
	case CmdGesture:
		cmd = Gesture{Enable: r.boolean()}
	case CmdALS:
		cmd = ALS{Enable: r.boolean()}
	case CmdColor:
		cmd = Color{Level: r.u8()}
	case CmdDrawPoint:
		cmd = DrawPoint{Coord: r.point()}
	case CmdLine:
		cmd = Line{From: r.point(), To: r.point()}
	case CmdRect:
		cmd = Rect{From: r.point(), To: r.point()}
	case CmdRectFull:
		cmd = RectFull{From: r.point(), To: r.point()}
	case CmdCirc:
		cmd = Circ{Center: r.point(), R: r.u8()}
	case CmdCircFull:
		cmd = CircFull{Center: r.point(), R: r.u8()}
	case CmdTxt:
		cmd = Txt{
			Pos:      r.point(),
			Rotation: r.u8(),
			FontSize: r.u8(),
			Color:    r.u8(),
			Text:     r.cstring(TextCapacity),
		}
	case CmdPolyline:
		cmd = decodePolyline(r)
	case CmdHoldFlush:
		cmd = HoldFlush{Action: HoldFlushAction(r.u8())}
	case CmdArc:
		cmd = Arc{
			Center:     r.point(),
			R:          r.u8(),
			AngleStart: r.i16(),
			AngleEnd:   r.i16(),
			Thickness:  r.u8(),
		}
	case CmdImgSave:
		cmd = ImgSave{
			ID:     r.u8(),
			Size:   r.u32(),
			Width:  r.u16(),
			Format: ImgFormat(r.u8()),
			Data:   r.rest(),
		}
	case CmdImgDisplay:
		cmd = ImgDisplay{ID: r.u8(), Coord: r.point()}
	case CmdImgStream:
		cmd = ImgStream{
			Size:   r.u32(),
			Width:  r.u16(),
			Coord:  r.point(),
			Format: StreamFormat(r.u8()),
			Data:   r.rest(),
		}
	case CmdImgDelete:
		cmd = ImgDelete{ID: r.u8()}
	case CmdImgList:
		cmd = ImgList{}
	case CmdFontList:
		cmd = FontList{}
	case CmdFontSelect:
		cmd = FontSelect{ID: r.u8()}
	case CmdFontDelete:
		cmd = FontDelete{ID: r.u8()}
	case CmdAnimSave:
		cmd = AnimSave{
			ID:                r.u8(),
			TotalSize:         r.u32(),
			ImgSize:           r.u32(),
			Width:             r.u16(),
			Format:            ImgFormat(r.u8()),
			ImgCompressedSize: r.u32(),
		}
	case CmdAnimDelete:
		cmd = AnimDelete{ID: r.u8()}
	case CmdAnimDisplay:
		cmd = AnimDisplay{
			HandlerID: r.u8(),
			ID:        r.u8(),
			Delay:     r.u16(),
			Repeat:    r.u8(),
			Pos:       r.point(),
		}
	case CmdAnimClear:
		cmd = AnimClear{HandlerID: r.u8()}
	case CmdAnimList:
		cmd = AnimList{}
	case CmdPixelCount:
		cmd = PixelCount{}
	case CmdCfgWrite:
		cmd = CfgWrite{
			Name:     r.cstring(NameCapacity),
			Version:  r.u32(),
			Password: r.u32(),
		}
	case CmdCfgRead:
		cmd = CfgRead{Name: r.cstring(NameCapacity)}
	case CmdCfgSet:
		cmd = CfgSet{Name: r.cstring(NameCapacity)}
	case CmdCfgList:
		cmd = CfgList{}
	case CmdCfgRename:
		cmd = CfgRename{
			Old:      r.cstring(NameCapacity),
			New:      r.cstring(NameCapacity),
			Password: r.u32(),
		}
	case CmdCfgDelete:
		cmd = CfgDelete{Name: r.cstring(NameCapacity)}
	case CmdCfgDeleteLessUsed:
		cmd = CfgDeleteLessUsed{}
	case CmdCfgFreeSpace:
		cmd = CfgFreeSpace{}
	case CmdCfgGetNb:
		cmd = CfgGetNb{}
	case CmdShutdown:
		cmd = Shutdown{Key: r.key()}
	case CmdReset:
		cmd = Reset{Key: r.key()}
	case CmdInfo:
		cmd = Info{ID: DeviceInfoID(r.u8())}
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownCommandID, id)
	}

	if r.err != nil {
		return nil, fmt.Errorf("command 0x%02X: %w", id, r.err)
	}
	return cmd, nil
}

func decodePolyline(r *payloadReader) Polyline {
	cmd := Polyline{Thickness: r.u8()}
	r.skip(2) // reserved
	if r.err != nil {
		return cmd
	}
	if r.remaining()%4 != 0 {
		r.err = fmt.Errorf("%w: %d trailing bytes do not divide into points",
			ErrMalformedPayload, r.remaining())
		return cmd
	}
	for r.remaining() > 0 {
		cmd.Points = append(cmd.Points, r.point())
	}
	return cmd
}

// DecodeResponse parses a payload against the response catalog entry
// for id. A nil or empty payload decodes list responses to empty lists.
func DecodeResponse(id CommandID, payload []byte) (Response, error) {
	r := newPayloadReader(payload)
	var resp Response

	switch id {
	case RespBattery:
		resp = BatteryResponse{Level: r.u8()}
	case RespVersion:
		resp = decodeVersion(r)
	case RespSettings:
		resp = SettingsResponse{
			X:             r.i8(),
			Y:             r.i8(),
			Luma:          r.u8(),
			ALSEnable:     r.boolean(),
			GestureEnable: r.boolean(),
		}
	case RespImgList:
		resp = decodeImgList(r)
	case RespFontList:
		resp = decodeFontList(r)
	case RespAnimList:
		resp = AnimListResponse{IDs: r.rest()}
	case RespPixelCount:
		resp = PixelCountResponse{Count: r.u32()}
	case RespCfgRead:
		resp = CfgReadResponse{
			Version:  r.u32(),
			NbImg:    r.u8(),
			NbLayout: r.u8(),
			NbFont:   r.u8(),
			NbPage:   r.u8(),
			NbGauge:  r.u8(),
		}
	case RespCfgList:
		resp = decodeCfgList(r)
	case RespCfgFreeSpace:
		resp = CfgFreeSpaceResponse{TotalSize: r.u32(), FreeSpace: r.u32()}
	case RespCfgGetNb:
		resp = CfgGetNbResponse{Count: r.u8()}
	case RespError:
		resp = ErrorResponse{
			CmdID:    CommandID(r.u8()),
			Error:    DeviceErrorCode(r.u8()),
			SubError: r.u8(),
		}
	case RespDeviceInfo:
		resp = DeviceInfoResponse{Parameters: r.rest()}
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownResponseID, id)
	}

	if r.err != nil {
		return nil, fmt.Errorf("response 0x%02X: %w", id, r.err)
	}
	return resp, nil
}

func decodeVersion(r *payloadReader) VersionResponse {
	var resp VersionResponse
	resp.FWVersion = r.key()
	resp.MfcYear = r.u8()
	resp.MfcWeek = r.u8()
	if r.need(3) {
		copy(resp.SerialNumber[:], r.data[r.off:])
		r.off += 3
	}
	return resp
}

func decodeImgList(r *payloadReader) ImgListResponse {
	var resp ImgListResponse
	for r.remaining() > 0 && r.err == nil {
		resp.Items = append(resp.Items, ImgListItem{
			ID:     r.u8(),
			Height: r.u16(),
			Width:  r.u16(),
		})
	}
	return resp
}

func decodeFontList(r *payloadReader) FontListResponse {
	var resp FontListResponse
	for r.remaining() > 0 && r.err == nil {
		resp.Fonts = append(resp.Fonts, FontItem{
			ID:     r.u8(),
			Height: r.u8(),
		})
	}
	return resp
}

func decodeCfgList(r *payloadReader) CfgListResponse {
	var resp CfgListResponse
	for r.remaining() > 0 && r.err == nil {
		resp.Items = append(resp.Items, CfgItem{
			Name:           r.cstring(NameCapacity),
			Size:           r.u32(),
			Version:        r.u32(),
			UsageCounter:   r.u8(),
			InstallCounter: r.u8(),
			IsSystem:       r.boolean(),
		})
	}
	return resp
}
