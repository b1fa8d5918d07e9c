package wire

// DemoID selects the built-in demonstration shown by the Demo command.
type DemoID uint8

const (
	// DemoFill fills the whole display.
	DemoFill DemoID = 0

	// DemoRect draws a rectangle pattern.
	DemoRect DemoID = 1

	// DemoImages cycles through stored images.
	DemoImages DemoID = 2
)

// String returns the demo name.
func (d DemoID) String() string {
	switch d {
	case DemoFill:
		return "FILL"
	case DemoRect:
		return "RECT"
	case DemoImages:
		return "IMAGES"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the demo ID is known to the firmware.
func (d DemoID) IsValid() bool {
	return d <= DemoImages
}

// LedState is the state applied to the green LED by the Led command.
type LedState uint8

const (
	LedOff      LedState = 0
	LedOn       LedState = 1
	LedToggle   LedState = 2
	LedBlinking LedState = 3
)

// String returns the LED state name.
func (s LedState) String() string {
	switch s {
	case LedOff:
		return "OFF"
	case LedOn:
		return "ON"
	case LedToggle:
		return "TOGGLE"
	case LedBlinking:
		return "BLINKING"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the LED state is known to the firmware.
func (s LedState) IsValid() bool {
	return s <= LedBlinking
}

// DeviceInfoID selects the parameter read by the Info command.
type DeviceInfoID uint8

const (
	InfoHWPlatform                DeviceInfoID = 0
	InfoManufacturer              DeviceInfoID = 1
	InfoAdvertisingManufacturerID DeviceInfoID = 2
	InfoModel                     DeviceInfoID = 3
	InfoSubModel                  DeviceInfoID = 4
	InfoFWVersion                 DeviceInfoID = 5
	InfoSerialNumber              DeviceInfoID = 6
	InfoBatteryModel              DeviceInfoID = 7
	InfoLensModel                 DeviceInfoID = 8
	InfoDisplayModel              DeviceInfoID = 9
	InfoDisplayOrientation        DeviceInfoID = 10
	InfoCertification1            DeviceInfoID = 11
	InfoCertification2            DeviceInfoID = 12
	InfoCertification3            DeviceInfoID = 13
	InfoCertification4            DeviceInfoID = 14
	InfoCertification5            DeviceInfoID = 15
	InfoCertification6            DeviceInfoID = 16
)

// String returns the device info parameter name.
func (i DeviceInfoID) String() string {
	switch i {
	case InfoHWPlatform:
		return "HW_PLATFORM"
	case InfoManufacturer:
		return "MANUFACTURER"
	case InfoAdvertisingManufacturerID:
		return "ADVERTISING_MANUFACTURER_ID"
	case InfoModel:
		return "MODEL"
	case InfoSubModel:
		return "SUB_MODEL"
	case InfoFWVersion:
		return "FW_VERSION"
	case InfoSerialNumber:
		return "SERIAL_NUMBER"
	case InfoBatteryModel:
		return "BATTERY_MODEL"
	case InfoLensModel:
		return "LENS_MODEL"
	case InfoDisplayModel:
		return "DISPLAY_MODEL"
	case InfoDisplayOrientation:
		return "DISPLAY_ORIENTATION"
	case InfoCertification1:
		return "CERTIFICATION_1"
	case InfoCertification2:
		return "CERTIFICATION_2"
	case InfoCertification3:
		return "CERTIFICATION_3"
	case InfoCertification4:
		return "CERTIFICATION_4"
	case InfoCertification5:
		return "CERTIFICATION_5"
	case InfoCertification6:
		return "CERTIFICATION_6"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the parameter selector is known to the firmware.
func (i DeviceInfoID) IsValid() bool {
	return i <= InfoCertification6
}

// HoldFlushAction controls the graphic engine hold/flush stack.
//
// While held, display commands accumulate in memory and are shown
// together on flush, avoiding flicker when stacking operations. Holds
// nest: flush must be issued as many times as hold was.
type HoldFlushAction uint8

const (
	// ActionHold holds the display.
	ActionHold HoldFlushAction = 0

	// ActionFlush flushes one level of hold.
	ActionFlush HoldFlushAction = 1

	// ActionResetFlush resets and flushes all stacked holds. Use when
	// the device state is unknown, e.g. after a BLE disconnect or an
	// overflow error.
	ActionResetFlush HoldFlushAction = 0xFF
)

// String returns the action name.
func (a HoldFlushAction) String() string {
	switch a {
	case ActionHold:
		return "HOLD"
	case ActionFlush:
		return "FLUSH"
	case ActionResetFlush:
		return "RESET_FLUSH"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the action is known to the firmware.
func (a HoldFlushAction) IsValid() bool {
	return a == ActionHold || a == ActionFlush || a == ActionResetFlush
}

// ImgFormat is the pixel format of an image saved with ImgSave.
type ImgFormat uint8

const (
	// Img4bpp is 4 bits per pixel, 16 grey levels.
	Img4bpp ImgFormat = 0x00

	// Img1bpp is 1 bit per pixel, expanded to 4bpp by the firmware
	// before saving.
	Img1bpp ImgFormat = 0x01

	// Img4bppHeatshrink is 4bpp with Heatshrink compression,
	// decompressed by the firmware before saving.
	Img4bppHeatshrink ImgFormat = 0x02

	// Img4bppHeatshrinkSaved is 4bpp with Heatshrink compression,
	// stored compressed and decompressed before display.
	Img4bppHeatshrinkSaved ImgFormat = 0x03

	// Img8bpp is 8 bits per pixel: 4 bits grey level, 4 bits alpha.
	Img8bpp ImgFormat = 0x08
)

// String returns the image format name.
func (f ImgFormat) String() string {
	switch f {
	case Img4bpp:
		return "4BPP"
	case Img1bpp:
		return "1BPP"
	case Img4bppHeatshrink:
		return "4BPP_HEATSHRINK"
	case Img4bppHeatshrinkSaved:
		return "4BPP_HEATSHRINK_SAVED"
	case Img8bpp:
		return "8BPP"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the format is accepted by ImgSave.
func (f ImgFormat) IsValid() bool {
	switch f {
	case Img4bpp, Img1bpp, Img4bppHeatshrink, Img4bppHeatshrinkSaved, Img8bpp:
		return true
	default:
		return false
	}
}

// StreamFormat is the pixel format of an image streamed with ImgStream.
type StreamFormat uint8

const (
	// Stream1bpp is 1 bit per pixel.
	Stream1bpp StreamFormat = 0x01

	// Stream4bppHeatshrink is 4bpp with Heatshrink compression.
	Stream4bppHeatshrink StreamFormat = 0x02
)

// String returns the stream format name.
func (f StreamFormat) String() string {
	switch f {
	case Stream1bpp:
		return "1BPP"
	case Stream4bppHeatshrink:
		return "4BPP_HEATSHRINK"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the format is accepted by ImgStream.
func (f StreamFormat) IsValid() bool {
	return f == Stream1bpp || f == Stream4bppHeatshrink
}

// DeviceErrorCode classifies errors reported asynchronously by the
// glasses in an ErrorResponse.
type DeviceErrorCode uint8

const (
	// DeviceErrGeneric is an unspecified failure.
	DeviceErrGeneric DeviceErrorCode = 1

	// DeviceErrMissingCfgWrite indicates a configuration modification
	// was attempted without a preceding CfgWrite.
	DeviceErrMissingCfgWrite DeviceErrorCode = 2

	// DeviceErrMemoryAccess is a memory read/write error.
	DeviceErrMemoryAccess DeviceErrorCode = 3

	// DeviceErrProtocolDecoding is a protocol decoding error.
	DeviceErrProtocolDecoding DeviceErrorCode = 4
)

// String returns the error code name.
func (e DeviceErrorCode) String() string {
	switch e {
	case DeviceErrGeneric:
		return "GENERIC"
	case DeviceErrMissingCfgWrite:
		return "MISSING_CFG_WRITE"
	case DeviceErrMemoryAccess:
		return "MEMORY_ACCESS"
	case DeviceErrProtocolDecoding:
		return "PROTOCOL_DECODING"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the error code is one the firmware emits.
func (e DeviceErrorCode) IsValid() bool {
	return e >= DeviceErrGeneric && e <= DeviceErrProtocolDecoding
}
