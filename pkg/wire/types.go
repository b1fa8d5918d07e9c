package wire

// Point is a display coordinate pair. Coordinates are signed; objects
// may be positioned partially off screen.
type Point struct {
	X int16
	Y int16
}

// append serializes the point as two big-endian int16 values.
func (p Point) append(dst []byte) []byte {
	dst = appendI16(dst, p.X)
	return appendI16(dst, p.Y)
}

// ImgListItem describes one stored image in an ImgListResponse.
// Height and Width are in pixels.
type ImgListItem struct {
	ID     uint8
	Height uint16
	Width  uint16
}

func (i ImgListItem) append(dst []byte) []byte {
	dst = append(dst, i.ID)
	dst = appendU16(dst, i.Height)
	return appendU16(dst, i.Width)
}

// FontItem describes one stored font in a FontListResponse.
type FontItem struct {
	ID     uint8
	Height uint8
}

func (f FontItem) append(dst []byte) []byte {
	return append(dst, f.ID, f.Height)
}

// CfgItem describes one stored configuration in a CfgListResponse.
type CfgItem struct {
	// Name of the configuration.
	Name CString

	// Size in bytes.
	Size uint32

	// Version provided by the user.
	Version uint32

	// UsageCounter sorts configurations; most recently used is highest.
	UsageCounter uint8

	// InstallCounter sorts configurations; most recently installed is
	// highest.
	InstallCounter uint8

	// IsSystem marks a system configuration, which cannot be deleted.
	IsSystem bool
}

func (c CfgItem) append(dst []byte) []byte {
	dst = c.Name.append(dst)
	dst = appendU32(dst, c.Size)
	dst = appendU32(dst, c.Version)
	dst = append(dst, c.UsageCounter, c.InstallCounter, encodeBool(c.IsSystem))
	return dst
}
