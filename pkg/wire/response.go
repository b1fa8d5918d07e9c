package wire

// Response IDs, glasses to master. They reuse the CommandID type but
// belong to a separate catalog; a response ID and a command ID with the
// same value are unrelated.
const (
	RespBattery      CommandID = 0x05
	RespVersion      CommandID = 0x06
	RespSettings     CommandID = 0x0A
	RespImgList      CommandID = 0x47
	RespFontList     CommandID = 0x50
	RespAnimList     CommandID = 0x99
	RespPixelCount   CommandID = 0xA5
	RespCfgRead      CommandID = 0xD2
	RespCfgList      CommandID = 0xD3
	RespCfgFreeSpace CommandID = 0xD7
	RespCfgGetNb     CommandID = 0xD8
	RespError        CommandID = 0xE2
	RespDeviceInfo   CommandID = 0xE3
)

// Response is a message sent from the glasses to the master. Like
// Command, the implementation set is a closed catalog.
type Response interface {
	// ResponseID returns the identifier emitted in the frame header.
	ResponseID() CommandID

	// appendPayload serializes the response fields, without the ID.
	appendPayload(dst []byte) []byte
}

// BatteryResponse reports the battery level in percent (0x64 = 100%).
type BatteryResponse struct {
	Level uint8
}

func (BatteryResponse) ResponseID() CommandID { return RespBattery }

func (r BatteryResponse) appendPayload(dst []byte) []byte {
	return append(dst, r.Level)
}

// VersionResponse reports the firmware version and serial number.
type VersionResponse struct {
	FWVersion    [4]byte
	MfcYear      uint8
	MfcWeek      uint8
	SerialNumber [3]byte
}

func (VersionResponse) ResponseID() CommandID { return RespVersion }

func (r VersionResponse) appendPayload(dst []byte) []byte {
	dst = append(dst, r.FWVersion[:]...)
	dst = append(dst, r.MfcYear, r.MfcWeek)
	return append(dst, r.SerialNumber[:]...)
}

// SettingsResponse reports the global user settings.
type SettingsResponse struct {
	X             int8
	Y             int8
	Luma          uint8
	ALSEnable     bool
	GestureEnable bool
}

func (SettingsResponse) ResponseID() CommandID { return RespSettings }

func (r SettingsResponse) appendPayload(dst []byte) []byte {
	return append(dst, byte(r.X), byte(r.Y), r.Luma,
		encodeBool(r.ALSEnable), encodeBool(r.GestureEnable))
}

// ImgListResponse lists the images in memory. The listing is unsorted.
type ImgListResponse struct {
	Items []ImgListItem
}

func (ImgListResponse) ResponseID() CommandID { return RespImgList }

func (r ImgListResponse) appendPayload(dst []byte) []byte {
	for _, item := range r.Items {
		dst = item.append(dst)
	}
	return dst
}

// FontListResponse lists the fonts in memory with their heights. The
// listing is unsorted.
type FontListResponse struct {
	Fonts []FontItem
}

func (FontListResponse) ResponseID() CommandID { return RespFontList }

func (r FontListResponse) appendPayload(dst []byte) []byte {
	for _, f := range r.Fonts {
		dst = f.append(dst)
	}
	return dst
}

// AnimListResponse lists the animations in memory. The listing is
// unsorted.
type AnimListResponse struct {
	IDs []byte
}

func (AnimListResponse) ResponseID() CommandID { return RespAnimList }

func (r AnimListResponse) appendPayload(dst []byte) []byte {
	return append(dst, r.IDs...)
}

// PixelCountResponse reports the number of pixels lit on the display.
type PixelCountResponse struct {
	Count uint32
}

func (PixelCountResponse) ResponseID() CommandID { return RespPixelCount }

func (r PixelCountResponse) appendPayload(dst []byte) []byte {
	return appendU32(dst, r.Count)
}

// CfgReadResponse reports the element counts of a configuration.
type CfgReadResponse struct {
	Version  uint32
	NbImg    uint8
	NbLayout uint8
	NbFont   uint8
	NbPage   uint8
	NbGauge  uint8
}

func (CfgReadResponse) ResponseID() CommandID { return RespCfgRead }

func (r CfgReadResponse) appendPayload(dst []byte) []byte {
	dst = appendU32(dst, r.Version)
	return append(dst, r.NbImg, r.NbLayout, r.NbFont, r.NbPage, r.NbGauge)
}

// CfgListResponse lists the stored configurations.
type CfgListResponse struct {
	Items []CfgItem
}

func (CfgListResponse) ResponseID() CommandID { return RespCfgList }

func (r CfgListResponse) appendPayload(dst []byte) []byte {
	for _, item := range r.Items {
		dst = item.append(dst)
	}
	return dst
}

// CfgFreeSpaceResponse reports the configuration storage usage.
type CfgFreeSpaceResponse struct {
	// TotalSize is the total storage size in bytes.
	TotalSize uint32

	// FreeSpace is the available storage in bytes.
	FreeSpace uint32
}

func (CfgFreeSpaceResponse) ResponseID() CommandID { return RespCfgFreeSpace }

func (r CfgFreeSpaceResponse) appendPayload(dst []byte) []byte {
	dst = appendU32(dst, r.TotalSize)
	return appendU32(dst, r.FreeSpace)
}

// CfgGetNbResponse reports the number of stored configurations.
type CfgGetNbResponse struct {
	Count uint8
}

func (CfgGetNbResponse) ResponseID() CommandID { return RespCfgGetNb }

func (r CfgGetNbResponse) appendPayload(dst []byte) []byte {
	return append(dst, r.Count)
}

// ErrorResponse is sent asynchronously when command processing fails.
// CmdID identifies the command that failed.
type ErrorResponse struct {
	CmdID    CommandID
	Error    DeviceErrorCode
	SubError uint8
}

func (ErrorResponse) ResponseID() CommandID { return RespError }

func (r ErrorResponse) appendPayload(dst []byte) []byte {
	return append(dst, byte(r.CmdID), byte(r.Error), r.SubError)
}

// DeviceInfoResponse carries the raw bytes of one device information
// parameter requested with Info.
type DeviceInfoResponse struct {
	Parameters []byte
}

func (DeviceInfoResponse) ResponseID() CommandID { return RespDeviceInfo }

func (r DeviceInfoResponse) appendPayload(dst []byte) []byte {
	return append(dst, r.Parameters...)
}
