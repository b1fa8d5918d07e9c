package emulator

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/activelook-protocol/activelook-go/pkg/transport"
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// Display dimensions of the emulated device in pixels.
const (
	DisplayWidth  = 304
	DisplayHeight = 256
)

const displayPixels = DisplayWidth * DisplayHeight

// Built-in font IDs shipped with the firmware.
var builtinFonts = []wire.FontItem{
	{ID: 1, Height: 24},
	{ID: 2, Height: 38},
	{ID: 3, Height: 64},
}

// systemCfgName is the configuration holding the built-in assets. It
// cannot be deleted or renamed.
const systemCfgName = "ALooK"

// systemCfgSize is the storage footprint of the built-in configuration
// at power-on. Configured storage can never be smaller than this.
const systemCfgSize = 64 << 10

type storedImage struct {
	item wire.ImgListItem
	size uint32
	cfg  string
}

type storedAnim struct {
	size uint32
	cfg  string
}

type storedCfg struct {
	name     string
	size     uint32
	version  uint32
	password uint32
	usage    uint8
	install  uint8
	system   bool

	nbImg  uint8
	nbFont uint8
}

// Glasses is the emulated device state machine. All methods are safe
// for concurrent use.
type Glasses struct {
	mu sync.Mutex

	config    Config
	fwVersion [4]byte

	displayOn      bool
	luma           uint8
	color          uint8
	shift          wire.Point
	ledOn          bool
	alsEnabled     bool
	gestureEnabled bool
	holdDepth      int
	pixelsLit      uint32
	poweredOff     bool

	selectedFont uint8
	images       map[uint8]storedImage
	fonts        map[uint8]wire.FontItem
	anims        map[uint8]storedAnim

	cfgs           map[string]*storedCfg
	writeCfg       string
	activeCfg      string
	usageCounter   uint8
	installCounter uint8
	usedSpace      uint32
}

// NewGlasses builds an emulated device from config.
func NewGlasses(config Config) (*Glasses, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	fw, err := config.firmwareVersion()
	if err != nil {
		return nil, err
	}
	g := &Glasses{config: config, fwVersion: fw}
	g.reset()
	return g, nil
}

// reset restores the power-on state. Callers hold the lock, except
// during construction.
func (g *Glasses) reset() {
	g.displayOn = true
	g.luma = 7
	g.color = 15
	g.shift = wire.Point{}
	g.ledOn = false
	g.alsEnabled = true
	g.gestureEnabled = true
	g.holdDepth = 0
	g.pixelsLit = 0
	g.selectedFont = 1

	g.images = make(map[uint8]storedImage)
	g.fonts = make(map[uint8]wire.FontItem)
	for _, f := range builtinFonts {
		g.fonts[f.ID] = f
	}
	g.anims = make(map[uint8]storedAnim)

	g.cfgs = map[string]*storedCfg{
		systemCfgName: {name: systemCfgName, version: 1, system: true, size: systemCfgSize},
	}
	g.writeCfg = ""
	g.activeCfg = systemCfgName
	g.usageCounter = 1
	g.installCounter = 1
	g.usedSpace = systemCfgSize
}

// PoweredOff reports whether a Shutdown was accepted.
func (g *Glasses) PoweredOff() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poweredOff
}

// PixelsLit returns the current lit pixel estimate.
func (g *Glasses) PixelsLit() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pixelsLit
}

func (g *Glasses) errorFor(cmd wire.Command, code wire.DeviceErrorCode) wire.Response {
	return wire.ErrorResponse{CmdID: cmd.CommandID(), Error: code}
}

// Handle applies one command and returns the response to send, if any.
// Query commands and failures produce a response; plain state commands
// do not, like the real firmware.
func (g *Glasses) Handle(cmd wire.Command) (wire.Response, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch c := cmd.(type) {
	case wire.PowerDisplay:
		g.displayOn = c.Enable
	case wire.Clear:
		g.pixelsLit = 0
	case wire.Grey:
		if c.Level > 0 {
			g.pixelsLit = displayPixels
		} else {
			g.pixelsLit = 0
		}
	case wire.Demo:
		if !c.ID.IsValid() {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
	case wire.Battery:
		return wire.BatteryResponse{Level: g.config.BatteryLevel}, true
	case wire.Version:
		return wire.VersionResponse{
			FWVersion:    g.fwVersion,
			MfcYear:      g.config.MfcYear,
			MfcWeek:      g.config.MfcWeek,
			SerialNumber: g.serialNumber(),
		}, true
	case wire.Led:
		switch c.State {
		case wire.LedOff:
			g.ledOn = false
		case wire.LedOn, wire.LedBlinking:
			g.ledOn = true
		case wire.LedToggle:
			g.ledOn = !g.ledOn
		default:
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
	case wire.Shift:
		g.shift = wire.Point{X: c.X, Y: c.Y}
	case wire.Settings:
		return wire.SettingsResponse{
			X:             int8(g.shift.X),
			Y:             int8(g.shift.Y),
			Luma:          g.luma,
			ALSEnable:     g.alsEnabled,
			GestureEnable: g.gestureEnabled,
		}, true
	case wire.Luma:
		if c.Level > 15 {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.luma = c.Level
	case wire.Sensor:
		g.alsEnabled = c.Enable
		g.gestureEnabled = c.Enable
	case wire.Gesture:
		g.gestureEnabled = c.Enable
	case wire.ALS:
		g.alsEnabled = c.Enable
	case wire.Color:
		if c.Level > 15 {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.color = c.Level
	case wire.DrawPoint:
		g.lightPixels(1)
	case wire.Line:
		g.lightPixels(segmentPixels(c.From, c.To))
	case wire.Rect:
		w, h := spanOf(c.From, c.To)
		g.lightPixels(2 * (w + h))
	case wire.RectFull:
		w, h := spanOf(c.From, c.To)
		g.lightPixels(w * h)
	case wire.Circ:
		g.lightPixels(6 * uint32(c.R))
	case wire.CircFull:
		g.lightPixels(3 * uint32(c.R) * uint32(c.R))
	case wire.Txt:
		g.lightPixels(uint32(len(c.Text.String())) * 8)
	case wire.Polyline:
		for i := 1; i < len(c.Points); i++ {
			g.lightPixels(segmentPixels(c.Points[i-1], c.Points[i]))
		}
	case wire.HoldFlush:
		switch c.Action {
		case wire.ActionHold:
			g.holdDepth++
		case wire.ActionFlush:
			if g.holdDepth > 0 {
				g.holdDepth--
			}
		case wire.ActionResetFlush:
			g.holdDepth = 0
		default:
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
	case wire.Arc:
		g.lightPixels(uint32(c.R) * uint32(c.Thickness+1))

	case wire.ImgSave:
		return g.handleImgSave(c)
	case wire.ImgDisplay:
		if img, ok := g.images[c.ID]; ok {
			g.lightPixels(uint32(img.item.Width) * uint32(img.item.Height))
		} else {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
	case wire.ImgStream:
		if !c.Format.IsValid() {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.lightPixels(c.Size)
	case wire.ImgDelete:
		g.deleteImages(c.ID)
	case wire.ImgList:
		return g.imgList(), true

	case wire.FontList:
		return g.fontList(), true
	case wire.FontSelect:
		if _, ok := g.fonts[c.ID]; !ok {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.selectedFont = c.ID
	case wire.FontDelete:
		if c.ID == 0xFF {
			g.fonts = make(map[uint8]wire.FontItem)
		} else {
			delete(g.fonts, c.ID)
		}

	case wire.AnimSave:
		if g.writeCfg == "" {
			return g.errorFor(cmd, wire.DeviceErrMissingCfgWrite), true
		}
		if g.usedSpace+c.TotalSize > g.config.StorageSize {
			return g.errorFor(cmd, wire.DeviceErrMemoryAccess), true
		}
		g.anims[c.ID] = storedAnim{size: c.TotalSize, cfg: g.writeCfg}
		g.usedSpace += c.TotalSize
		g.cfgs[g.writeCfg].size += c.TotalSize
	case wire.AnimDelete:
		g.deleteAnims(c.ID)
	case wire.AnimDisplay:
		if _, ok := g.anims[c.ID]; !ok {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
	case wire.AnimClear:
		// Animations render nothing here; clearing is a no-op.
	case wire.AnimList:
		return g.animList(), true

	case wire.PixelCount:
		return wire.PixelCountResponse{Count: g.pixelsLit}, true

	case wire.CfgWrite:
		return g.handleCfgWrite(c)
	case wire.CfgRead:
		cfg, ok := g.cfgs[c.Name.String()]
		if !ok {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		return wire.CfgReadResponse{
			Version: cfg.version,
			NbImg:   cfg.nbImg,
			NbFont:  cfg.nbFont,
		}, true
	case wire.CfgSet:
		cfg, ok := g.cfgs[c.Name.String()]
		if !ok {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.usageCounter++
		cfg.usage = g.usageCounter
		g.activeCfg = cfg.name
	case wire.CfgList:
		return g.cfgList(), true
	case wire.CfgRename:
		return g.handleCfgRename(c)
	case wire.CfgDelete:
		return g.handleCfgDelete(c)
	case wire.CfgDeleteLessUsed:
		return g.handleCfgDeleteLessUsed(c)
	case wire.CfgFreeSpace:
		return wire.CfgFreeSpaceResponse{
			TotalSize: g.config.StorageSize,
			FreeSpace: g.config.StorageSize - g.usedSpace,
		}, true
	case wire.CfgGetNb:
		return wire.CfgGetNbResponse{Count: uint8(len(g.cfgs))}, true

	case wire.Shutdown:
		if c.Key != wire.ShutdownKey || g.config.USBPowered {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.poweredOff = true
	case wire.Reset:
		if c.Key != wire.ResetKey || !g.config.USBPowered {
			return g.errorFor(cmd, wire.DeviceErrGeneric), true
		}
		g.reset()
	case wire.Info:
		return g.handleInfo(c)

	default:
		return g.errorFor(cmd, wire.DeviceErrGeneric), true
	}
	return nil, false
}

func (g *Glasses) serialNumber() [3]byte {
	var serial [3]byte
	serial[0] = byte(g.config.SerialNumber >> 16)
	serial[1] = byte(g.config.SerialNumber >> 8)
	serial[2] = byte(g.config.SerialNumber)
	return serial
}

func (g *Glasses) lightPixels(n uint32) {
	if !g.displayOn {
		return
	}
	g.pixelsLit += n
	if g.pixelsLit > displayPixels {
		g.pixelsLit = displayPixels
	}
}

func segmentPixels(from, to wire.Point) uint32 {
	dx := absDiff(from.X, to.X)
	dy := absDiff(from.Y, to.Y)
	return max(dx, dy) + 1
}

func spanOf(from, to wire.Point) (uint32, uint32) {
	return absDiff(from.X, to.X) + 1, absDiff(from.Y, to.Y) + 1
}

func absDiff(a, b int16) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}

func (g *Glasses) handleImgSave(c wire.ImgSave) (wire.Response, bool) {
	if g.writeCfg == "" {
		return g.errorFor(c, wire.DeviceErrMissingCfgWrite), true
	}
	if !c.Format.IsValid() {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	if g.usedSpace+c.Size > g.config.StorageSize {
		return g.errorFor(c, wire.DeviceErrMemoryAccess), true
	}

	var height uint16
	if rowBytes := transport.RowBytes(c.Width, c.Format); rowBytes > 0 {
		height = uint16(c.Size / uint32(rowBytes))
	}
	g.images[c.ID] = storedImage{
		item: wire.ImgListItem{ID: c.ID, Height: height, Width: c.Width},
		size: c.Size,
		cfg:  g.writeCfg,
	}
	g.usedSpace += c.Size
	cfg := g.cfgs[g.writeCfg]
	cfg.size += c.Size
	cfg.nbImg++
	return nil, false
}

func (g *Glasses) deleteImages(id uint8) {
	if id == 0xFF {
		for _, img := range g.images {
			g.releaseImage(img)
		}
		g.images = make(map[uint8]storedImage)
		return
	}
	if img, ok := g.images[id]; ok {
		g.releaseImage(img)
		delete(g.images, id)
	}
}

// releaseImage returns an image's bytes to free space and to the
// configuration it was saved under, so a later configuration delete
// does not free them twice.
func (g *Glasses) releaseImage(img storedImage) {
	g.usedSpace -= img.size
	if cfg, ok := g.cfgs[img.cfg]; ok {
		cfg.size -= img.size
		cfg.nbImg--
	}
}

func (g *Glasses) deleteAnims(id uint8) {
	if id == 0xFF {
		for _, anim := range g.anims {
			g.releaseAnim(anim)
		}
		g.anims = make(map[uint8]storedAnim)
		return
	}
	if anim, ok := g.anims[id]; ok {
		g.releaseAnim(anim)
		delete(g.anims, id)
	}
}

func (g *Glasses) releaseAnim(anim storedAnim) {
	g.usedSpace -= anim.size
	if cfg, ok := g.cfgs[anim.cfg]; ok {
		cfg.size -= anim.size
	}
}

func (g *Glasses) imgList() wire.ImgListResponse {
	items := make([]wire.ImgListItem, 0, len(g.images))
	for _, img := range g.images {
		items = append(items, img.item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return wire.ImgListResponse{Items: items}
}

func (g *Glasses) fontList() wire.FontListResponse {
	fonts := make([]wire.FontItem, 0, len(g.fonts))
	for _, f := range g.fonts {
		fonts = append(fonts, f)
	}
	sort.Slice(fonts, func(i, j int) bool { return fonts[i].ID < fonts[j].ID })
	return wire.FontListResponse{Fonts: fonts}
}

func (g *Glasses) animList() wire.AnimListResponse {
	ids := make([]byte, 0, len(g.anims))
	for id := range g.anims {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return wire.AnimListResponse{IDs: ids}
}

func (g *Glasses) cfgList() wire.CfgListResponse {
	items := make([]wire.CfgItem, 0, len(g.cfgs))
	for _, cfg := range g.cfgs {
		items = append(items, wire.CfgItem{
			Name:           wire.Name(cfg.name),
			Size:           cfg.size,
			Version:        cfg.version,
			UsageCounter:   cfg.usage,
			InstallCounter: cfg.install,
			IsSystem:       cfg.system,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name.String() < items[j].Name.String()
	})
	return wire.CfgListResponse{Items: items}
}

func (g *Glasses) handleCfgWrite(c wire.CfgWrite) (wire.Response, bool) {
	// A real device protects its storage when the battery is nearly
	// empty.
	if g.config.BatteryLevel <= 5 {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	name := c.Name.String()
	if name == "" {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	cfg, ok := g.cfgs[name]
	if ok {
		if cfg.password != c.Password {
			return g.errorFor(c, wire.DeviceErrGeneric), true
		}
		cfg.version = c.Version
	} else {
		g.installCounter++
		cfg = &storedCfg{
			name:     name,
			version:  c.Version,
			password: c.Password,
			install:  g.installCounter,
		}
		g.cfgs[name] = cfg
	}
	g.writeCfg = name
	return nil, false
}

func (g *Glasses) handleCfgRename(c wire.CfgRename) (wire.Response, bool) {
	oldName, newName := c.Old.String(), c.New.String()
	cfg, ok := g.cfgs[oldName]
	if !ok || cfg.system || cfg.password != c.Password || newName == "" {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	if _, exists := g.cfgs[newName]; exists {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	delete(g.cfgs, oldName)
	cfg.name = newName
	g.cfgs[newName] = cfg
	for id, img := range g.images {
		if img.cfg == oldName {
			img.cfg = newName
			g.images[id] = img
		}
	}
	for id, anim := range g.anims {
		if anim.cfg == oldName {
			anim.cfg = newName
			g.anims[id] = anim
		}
	}
	if g.writeCfg == oldName {
		g.writeCfg = newName
	}
	if g.activeCfg == oldName {
		g.activeCfg = newName
	}
	return nil, false
}

func (g *Glasses) handleCfgDelete(c wire.CfgDelete) (wire.Response, bool) {
	name := c.Name.String()
	cfg, ok := g.cfgs[name]
	if !ok || cfg.system {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	g.removeCfg(cfg)
	return nil, false
}

func (g *Glasses) handleCfgDeleteLessUsed(c wire.CfgDeleteLessUsed) (wire.Response, bool) {
	var victim *storedCfg
	for _, cfg := range g.cfgs {
		if cfg.system {
			continue
		}
		if victim == nil || cfg.usage < victim.usage {
			victim = cfg
		}
	}
	if victim == nil {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	g.removeCfg(victim)
	return nil, false
}

// removeCfg deletes a configuration and every element stored under
// it. The elements' bytes are part of cfg.size, so only that total is
// returned to free space.
func (g *Glasses) removeCfg(cfg *storedCfg) {
	delete(g.cfgs, cfg.name)
	g.usedSpace -= cfg.size
	for id, img := range g.images {
		if img.cfg == cfg.name {
			delete(g.images, id)
		}
	}
	for id, anim := range g.anims {
		if anim.cfg == cfg.name {
			delete(g.anims, id)
		}
	}
	if g.writeCfg == cfg.name {
		g.writeCfg = ""
	}
	if g.activeCfg == cfg.name {
		g.activeCfg = systemCfgName
	}
}

func (g *Glasses) handleInfo(c wire.Info) (wire.Response, bool) {
	if !c.ID.IsValid() {
		return g.errorFor(c, wire.DeviceErrGeneric), true
	}
	var params []byte
	switch c.ID {
	case wire.InfoHWPlatform:
		params = []byte("EMULATOR")
	case wire.InfoManufacturer:
		params = []byte("ActiveLook")
	case wire.InfoAdvertisingManufacturerID:
		params = binary.BigEndian.AppendUint16(nil, 0x08F2)
	case wire.InfoModel:
		params = []byte(g.config.Name)
	case wire.InfoFWVersion:
		params = []byte(g.config.FirmwareVersion)
	case wire.InfoSerialNumber:
		serial := g.serialNumber()
		params = serial[:]
	default:
		params = []byte("N/A")
	}
	return wire.DeviceInfoResponse{Parameters: params}, true
}
