package wire

// CommandID is the one-byte identifier carried in the frame header.
// Command and response IDs share the 0-255 space but are looked up in
// separate catalogs; a numeric collision between the two directions is
// not a conflict.
type CommandID uint8

// Command IDs, master to glasses.
const (
	CmdPowerDisplay      CommandID = 0x00
	CmdClear             CommandID = 0x01
	CmdGrey              CommandID = 0x02
	CmdDemo              CommandID = 0x03
	CmdBattery           CommandID = 0x05
	CmdVersion           CommandID = 0x06
	CmdLed               CommandID = 0x08
	CmdShift             CommandID = 0x09
	CmdSettings          CommandID = 0x0A
	CmdLuma              CommandID = 0x10
	CmdSensor            CommandID = 0x20
	CmdGesture           CommandID = 0x21
	CmdALS               CommandID = 0x22
	CmdColor             CommandID = 0x30
	CmdDrawPoint         CommandID = 0x31
	CmdLine              CommandID = 0x32
	CmdRect              CommandID = 0x33
	CmdRectFull          CommandID = 0x34
	CmdCirc              CommandID = 0x35
	CmdCircFull          CommandID = 0x36
	CmdTxt               CommandID = 0x37
	CmdPolyline          CommandID = 0x38
	CmdHoldFlush         CommandID = 0x39
	CmdArc               CommandID = 0x3C
	CmdImgSave           CommandID = 0x41
	CmdImgDisplay        CommandID = 0x42
	CmdImgStream         CommandID = 0x44
	CmdImgDelete         CommandID = 0x46
	CmdImgList           CommandID = 0x47
	CmdFontList          CommandID = 0x50
	CmdFontSelect        CommandID = 0x52
	CmdFontDelete        CommandID = 0x53
	CmdAnimSave          CommandID = 0x95
	CmdAnimDelete        CommandID = 0x96
	CmdAnimDisplay       CommandID = 0x97
	CmdAnimClear         CommandID = 0x98
	CmdAnimList          CommandID = 0x99
	CmdPixelCount        CommandID = 0xA5
	CmdCfgWrite          CommandID = 0xD0
	CmdCfgRead           CommandID = 0xD1
	CmdCfgSet            CommandID = 0xD2
	CmdCfgList           CommandID = 0xD3
	CmdCfgRename         CommandID = 0xD4
	CmdCfgDelete         CommandID = 0xD5
	CmdCfgDeleteLessUsed CommandID = 0xD6
	CmdCfgFreeSpace      CommandID = 0xD7
	CmdCfgGetNb          CommandID = 0xD8
	CmdShutdown          CommandID = 0xE0
	CmdReset             CommandID = 0xE1
	CmdInfo              CommandID = 0xE3
)

// Magic keys required by the Shutdown and Reset commands.
var (
	ShutdownKey = [4]byte{0x6F, 0x7F, 0xC4, 0xEE}
	ResetKey    = [4]byte{0x5C, 0x1E, 0x2D, 0xE9}
)

// Command is a message sent from the master to the glasses. The set of
// implementations is a closed catalog fixed by the firmware contract;
// the unexported payload method keeps it closed.
type Command interface {
	// CommandID returns the identifier emitted in the frame header.
	CommandID() CommandID

	// appendPayload serializes the command fields, without the ID.
	appendPayload(dst []byte) []byte
}

// --- General commands ---

// PowerDisplay enables or disables power of the display.
type PowerDisplay struct {
	Enable bool
}

func (PowerDisplay) CommandID() CommandID { return CmdPowerDisplay }

func (c PowerDisplay) appendPayload(dst []byte) []byte {
	return append(dst, encodeBool(c.Enable))
}

// Clear clears the display memory (black screen).
type Clear struct{}

func (Clear) CommandID() CommandID { return CmdClear }

func (Clear) appendPayload(dst []byte) []byte { return dst }

// Grey sets the whole display to the given grey level (0 to 15).
type Grey struct {
	Level uint8
}

func (Grey) CommandID() CommandID { return CmdGrey }

func (c Grey) appendPayload(dst []byte) []byte {
	return append(dst, c.Level)
}

// Demo runs a built-in demonstration.
type Demo struct {
	ID DemoID
}

func (Demo) CommandID() CommandID { return CmdDemo }

func (c Demo) appendPayload(dst []byte) []byte {
	return append(dst, byte(c.ID))
}

// Battery requests the battery level in percent.
type Battery struct{}

func (Battery) CommandID() CommandID { return CmdBattery }

func (Battery) appendPayload(dst []byte) []byte { return dst }

// Version requests the device ID and firmware version.
type Version struct{}

func (Version) CommandID() CommandID { return CmdVersion }

func (Version) appendPayload(dst []byte) []byte { return dst }

// Led drives the green LED.
type Led struct {
	State LedState
}

func (Led) CommandID() CommandID { return CmdLed }

func (c Led) appendPayload(dst []byte) []byte {
	return append(dst, byte(c.State))
}

// Shift offsets all subsequently displayed objects by (X, Y) pixels.
type Shift struct {
	X int16
	Y int16
}

func (Shift) CommandID() CommandID { return CmdShift }

func (c Shift) appendPayload(dst []byte) []byte {
	dst = appendI16(dst, c.X)
	return appendI16(dst, c.Y)
}

// Settings requests the user parameters (shift, luma, sensor).
type Settings struct{}

func (Settings) CommandID() CommandID { return CmdSettings }

func (Settings) appendPayload(dst []byte) []byte { return dst }

// --- Luminance commands ---

// Luma sets the display luminance level (0 to 15).
type Luma struct {
	Level uint8
}

func (Luma) CommandID() CommandID { return CmdLuma }

func (c Luma) appendPayload(dst []byte) []byte {
	return append(dst, c.Level)
}

// --- Optical sensor commands ---

// Sensor toggles auto-brightness adjustment and gesture detection
// together.
type Sensor struct {
	Enable bool
}

func (Sensor) CommandID() CommandID { return CmdSensor }

func (c Sensor) appendPayload(dst []byte) []byte {
	return append(dst, encodeBool(c.Enable))
}

// Gesture toggles gesture detection only.
type Gesture struct {
	Enable bool
}

func (Gesture) CommandID() CommandID { return CmdGesture }

func (c Gesture) appendPayload(dst []byte) []byte {
	return append(dst, encodeBool(c.Enable))
}

// ALS toggles auto-brightness adjustment only.
type ALS struct {
	Enable bool
}

func (ALS) CommandID() CommandID { return CmdALS }

func (c ALS) appendPayload(dst []byte) []byte {
	return append(dst, encodeBool(c.Enable))
}

// --- Graphics commands ---

// Color sets the grey level (0 to 15) used to draw the next graphical
// element.
type Color struct {
	Level uint8
}

func (Color) CommandID() CommandID { return CmdColor }

func (c Color) appendPayload(dst []byte) []byte {
	return append(dst, c.Level)
}

// DrawPoint sets a pixel at the given coordinates.
type DrawPoint struct {
	Coord Point
}

func (DrawPoint) CommandID() CommandID { return CmdDrawPoint }

func (c DrawPoint) appendPayload(dst []byte) []byte {
	return c.Coord.append(dst)
}

// Line draws a line between the given coordinates.
type Line struct {
	From Point
	To   Point
}

func (Line) CommandID() CommandID { return CmdLine }

func (c Line) appendPayload(dst []byte) []byte {
	dst = c.From.append(dst)
	return c.To.append(dst)
}

// Rect draws an empty rectangle between the given corners.
type Rect struct {
	From Point
	To   Point
}

func (Rect) CommandID() CommandID { return CmdRect }

func (c Rect) appendPayload(dst []byte) []byte {
	dst = c.From.append(dst)
	return c.To.append(dst)
}

// RectFull draws a filled rectangle between the given corners.
type RectFull struct {
	From Point
	To   Point
}

func (RectFull) CommandID() CommandID { return CmdRectFull }

func (c RectFull) appendPayload(dst []byte) []byte {
	dst = c.From.append(dst)
	return c.To.append(dst)
}

// Circ draws an empty circle.
type Circ struct {
	Center Point
	R      uint8
}

func (Circ) CommandID() CommandID { return CmdCirc }

func (c Circ) appendPayload(dst []byte) []byte {
	dst = c.Center.append(dst)
	return append(dst, c.R)
}

// CircFull draws a filled circle.
type CircFull struct {
	Center Point
	R      uint8
}

func (CircFull) CommandID() CommandID { return CmdCircFull }

func (c CircFull) appendPayload(dst []byte) []byte {
	dst = c.Center.append(dst)
	return append(dst, c.R)
}

// Txt writes text at the given position with rotation, font size and
// color. Text longer than TextCapacity bytes is truncated on encode.
type Txt struct {
	Pos      Point
	Rotation uint8
	FontSize uint8
	Color    uint8
	Text     CString
}

func (Txt) CommandID() CommandID { return CmdTxt }

func (c Txt) appendPayload(dst []byte) []byte {
	dst = c.Pos.append(dst)
	dst = append(dst, c.Rotation, c.FontSize, c.Color)
	return c.Text.append(dst)
}

// Polyline draws multiple connected lines.
type Polyline struct {
	Thickness uint8

	// Points is a trailing sequence consuming the rest of the payload.
	Points []Point
}

func (Polyline) CommandID() CommandID { return CmdPolyline }

func (c Polyline) appendPayload(dst []byte) []byte {
	// Two reserved bytes sit between the thickness and the points.
	dst = append(dst, c.Thickness, 0, 0)
	for _, p := range c.Points {
		dst = p.append(dst)
	}
	return dst
}

// HoldFlush holds or flushes the graphic engine, see HoldFlushAction.
type HoldFlush struct {
	Action HoldFlushAction
}

func (HoldFlush) CommandID() CommandID { return CmdHoldFlush }

func (c HoldFlush) appendPayload(dst []byte) []byte {
	return append(dst, byte(c.Action))
}

// Arc draws a circle arc. Angles are in degrees, begin at 3 o'clock and
// increase clockwise.
type Arc struct {
	Center     Point
	R          uint8
	AngleStart int16
	AngleEnd   int16
	Thickness  uint8
}

func (Arc) CommandID() CommandID { return CmdArc }

func (c Arc) appendPayload(dst []byte) []byte {
	dst = c.Center.append(dst)
	dst = append(dst, c.R)
	dst = appendI16(dst, c.AngleStart)
	dst = appendI16(dst, c.AngleEnd)
	return append(dst, c.Thickness)
}

// --- Image commands ---

// ImgSave stores an image of Size bytes and Width pixels in glasses
// memory, encoded according to Format. The pixel bytes travel in the
// trailing Data field; the packet layer splits them on pixel-row
// boundaries when they exceed the transport MTU.
type ImgSave struct {
	ID     uint8
	Size   uint32
	Width  uint16
	Format ImgFormat

	// Data is the bulk pixel payload, read to end.
	Data []byte
}

// ImgSaveHeaderSize is the size of the fixed fields preceding Data.
const ImgSaveHeaderSize = 8

func (ImgSave) CommandID() CommandID { return CmdImgSave }

func (c ImgSave) appendPayload(dst []byte) []byte {
	dst = append(dst, c.ID)
	dst = appendU32(dst, c.Size)
	dst = appendU16(dst, c.Width)
	dst = append(dst, byte(c.Format))
	return append(dst, c.Data...)
}

// ImgDisplay shows stored image ID at the given coordinates.
// Coordinates are signed and may be negative.
type ImgDisplay struct {
	ID    uint8
	Coord Point
}

func (ImgDisplay) CommandID() CommandID { return CmdImgDisplay }

func (c ImgDisplay) appendPayload(dst []byte) []byte {
	dst = append(dst, c.ID)
	return c.Coord.append(dst)
}

// ImgStream displays an image without saving it in memory.
type ImgStream struct {
	Size   uint32
	Width  uint16
	Coord  Point
	Format StreamFormat

	// Data is the bulk pixel payload, read to end.
	Data []byte
}

// ImgStreamHeaderSize is the size of the fixed fields preceding Data.
const ImgStreamHeaderSize = 11

func (ImgStream) CommandID() CommandID { return CmdImgStream }

func (c ImgStream) appendPayload(dst []byte) []byte {
	dst = appendU32(dst, c.Size)
	dst = appendU16(dst, c.Width)
	dst = c.Coord.append(dst)
	dst = append(dst, byte(c.Format))
	return append(dst, c.Data...)
}

// ImgDelete deletes stored image ID, or every image when ID is 0xFF.
type ImgDelete struct {
	ID uint8
}

func (ImgDelete) CommandID() CommandID { return CmdImgDelete }

func (c ImgDelete) appendPayload(dst []byte) []byte {
	return append(dst, c.ID)
}

// ImgList requests the list of saved images.
type ImgList struct{}

func (ImgList) CommandID() CommandID { return CmdImgList }

func (ImgList) appendPayload(dst []byte) []byte { return dst }

// --- Font commands ---

// FontList requests the list of saved fonts with their heights.
type FontList struct{}

func (FontList) CommandID() CommandID { return CmdFontList }

func (FontList) appendPayload(dst []byte) []byte { return dst }

// FontSelect selects the font used by subsequent text commands.
type FontSelect struct {
	ID uint8
}

func (FontSelect) CommandID() CommandID { return CmdFontSelect }

func (c FontSelect) appendPayload(dst []byte) []byte {
	return append(dst, c.ID)
}

// FontDelete deletes font ID from memory, or every font when ID is 0xFF.
type FontDelete struct {
	ID uint8
}

func (FontDelete) CommandID() CommandID { return CmdFontDelete }

func (c FontDelete) appendPayload(dst []byte) []byte {
	return append(dst, c.ID)
}

// --- Animation commands ---

// AnimSave stores an animation.
type AnimSave struct {
	ID uint8

	// TotalSize is the total animation size in bytes.
	TotalSize uint32

	// ImgSize is the reference frame size in bytes.
	ImgSize uint32

	// Width is the reference frame width in pixels.
	Width uint16

	// Format of the reference frame: Img4bpp or Img4bppHeatshrink.
	Format ImgFormat

	// ImgCompressedSize is the reference frame size before
	// decompression; equal to ImgSize for uncompressed 4bpp.
	ImgCompressedSize uint32
}

func (AnimSave) CommandID() CommandID { return CmdAnimSave }

func (c AnimSave) appendPayload(dst []byte) []byte {
	dst = append(dst, c.ID)
	dst = appendU32(dst, c.TotalSize)
	dst = appendU32(dst, c.ImgSize)
	dst = appendU16(dst, c.Width)
	dst = append(dst, byte(c.Format))
	return appendU32(dst, c.ImgCompressedSize)
}

// AnimDelete deletes animation ID, or every animation when ID is 0xFF.
type AnimDelete struct {
	ID uint8
}

func (AnimDelete) CommandID() CommandID { return CmdAnimDelete }

func (c AnimDelete) appendPayload(dst []byte) []byte {
	return append(dst, c.ID)
}

// AnimDisplay plays animation ID at the given position.
type AnimDisplay struct {
	// HandlerID is chosen by the caller and used to stop the animation
	// later.
	HandlerID uint8

	ID uint8

	// Delay is the inter-frame duration in milliseconds.
	Delay uint16

	// Repeat is the repeat count, or 0xFF for infinite repetition.
	Repeat uint8

	Pos Point
}

func (AnimDisplay) CommandID() CommandID { return CmdAnimDisplay }

func (c AnimDisplay) appendPayload(dst []byte) []byte {
	dst = append(dst, c.HandlerID, c.ID)
	dst = appendU16(dst, c.Delay)
	dst = append(dst, c.Repeat)
	return c.Pos.append(dst)
}

// AnimClear stops an animation and clears its screen area. A HandlerID
// of 0xFF clears all animations.
type AnimClear struct {
	HandlerID uint8
}

func (AnimClear) CommandID() CommandID { return CmdAnimClear }

func (c AnimClear) appendPayload(dst []byte) []byte {
	return append(dst, c.HandlerID)
}

// AnimList requests the list of saved animations.
type AnimList struct{}

func (AnimList) CommandID() CommandID { return CmdAnimList }

func (AnimList) appendPayload(dst []byte) []byte { return dst }

// --- Statistics commands ---

// PixelCount requests the number of pixels lit on the display.
type PixelCount struct{}

func (PixelCount) CommandID() CommandID { return CmdPixelCount }

func (PixelCount) appendPayload(dst []byte) []byte { return dst }

// --- Configuration commands ---

// CfgWrite creates or selects a configuration for writing.
// Configurations own layouts, images and fonts. The firmware rejects
// this command when the battery is at 5% or below.
type CfgWrite struct {
	Name CString

	// Version is provided by the user for tracking.
	Version uint32

	// Password must match the one given at creation when the
	// configuration already exists.
	Password uint32
}

func (CfgWrite) CommandID() CommandID { return CmdCfgWrite }

func (c CfgWrite) appendPayload(dst []byte) []byte {
	dst = c.Name.append(dst)
	dst = appendU32(dst, c.Version)
	return appendU32(dst, c.Password)
}

// CfgRead requests the number of elements stored in a configuration.
type CfgRead struct {
	Name CString
}

func (CfgRead) CommandID() CommandID { return CmdCfgRead }

func (c CfgRead) appendPayload(dst []byte) []byte {
	return c.Name.append(dst)
}

// CfgSet selects the configuration used to display layouts, images and
// fonts.
type CfgSet struct {
	Name CString
}

func (CfgSet) CommandID() CommandID { return CmdCfgSet }

func (c CfgSet) appendPayload(dst []byte) []byte {
	return c.Name.append(dst)
}

// CfgList requests the list of stored configurations.
type CfgList struct{}

func (CfgList) CommandID() CommandID { return CmdCfgList }

func (CfgList) appendPayload(dst []byte) []byte { return dst }

// CfgRename renames a configuration.
type CfgRename struct {
	Old      CString
	New      CString
	Password uint32
}

func (CfgRename) CommandID() CommandID { return CmdCfgRename }

func (c CfgRename) appendPayload(dst []byte) []byte {
	dst = c.Old.append(dst)
	dst = c.New.append(dst)
	return appendU32(dst, c.Password)
}

// CfgDelete deletes a configuration and every element associated with
// it.
type CfgDelete struct {
	Name CString
}

func (CfgDelete) CommandID() CommandID { return CmdCfgDelete }

func (c CfgDelete) appendPayload(dst []byte) []byte {
	return c.Name.append(dst)
}

// CfgDeleteLessUsed deletes the configuration unused for the longest
// time.
type CfgDeleteLessUsed struct{}

func (CfgDeleteLessUsed) CommandID() CommandID { return CmdCfgDeleteLessUsed }

func (CfgDeleteLessUsed) appendPayload(dst []byte) []byte { return dst }

// CfgFreeSpace requests the free space available for layouts, images
// and fonts.
type CfgFreeSpace struct{}

func (CfgFreeSpace) CommandID() CommandID { return CmdCfgFreeSpace }

func (CfgFreeSpace) appendPayload(dst []byte) []byte { return dst }

// CfgGetNb requests the number of configurations in memory.
type CfgGetNb struct{}

func (CfgGetNb) CommandID() CommandID { return CmdCfgGetNb }

func (CfgGetNb) appendPayload(dst []byte) []byte { return dst }

// --- Device commands ---

// Shutdown powers the device off. Key must equal ShutdownKey. Shutdown
// is refused while USB powered.
type Shutdown struct {
	Key [4]byte
}

func (Shutdown) CommandID() CommandID { return CmdShutdown }

func (c Shutdown) appendPayload(dst []byte) []byte {
	return append(dst, c.Key[:]...)
}

// Reset reboots the device. Key must equal ResetKey. Reset is allowed
// only while USB powered.
type Reset struct {
	Key [4]byte
}

func (Reset) CommandID() CommandID { return CmdReset }

func (c Reset) appendPayload(dst []byte) []byte {
	return append(dst, c.Key[:]...)
}

// Info reads one device information parameter.
type Info struct {
	ID DeviceInfoID
}

func (Info) CommandID() CommandID { return CmdInfo }

func (c Info) appendPayload(dst []byte) []byte {
	return append(dst, byte(c.ID))
}
