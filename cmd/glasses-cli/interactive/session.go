// Package interactive implements the glasses-cli command loop.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/activelook-protocol/activelook-go/pkg/transport"
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// Session drives one glasses link from a readline prompt.
type Session struct {
	client *transport.Client
	rl     *readline.Instance
}

// New creates the interactive session around an established client.
func New(client *transport.Client) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "glasses> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Session{client: client, rl: rl}, nil
}

// Stdout returns a writer coordinated with the prompt.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

// WatchFlow prints flow control bytes as they arrive. Run it in its
// own goroutine; it returns when the link closes.
func (s *Session) WatchFlow() {
	for {
		status, err := s.client.ReadControl()
		if err != nil {
			if errors.Is(err, transport.ErrNoData) {
				continue
			}
			return
		}
		fmt.Fprintf(s.Stdout(), "[flow] %s\n", status)
	}
}

// Run starts the command loop.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "battery":
			s.query(wire.Battery{})
		case "version":
			s.query(wire.Version{})
		case "settings":
			s.query(wire.Settings{})
		case "pixelcount", "pixels":
			s.query(wire.PixelCount{})
		case "info":
			s.cmdInfo(args)

		case "power":
			s.cmdOnOff(args, func(on bool) wire.Command { return wire.PowerDisplay{Enable: on} })
		case "clear":
			s.send(wire.Clear{})
		case "grey":
			s.cmdLevel(args, func(level uint8) wire.Command { return wire.Grey{Level: level} })
		case "demo":
			s.cmdLevel(args, func(level uint8) wire.Command { return wire.Demo{ID: wire.DemoID(level)} })
		case "led":
			s.cmdLed(args)
		case "shift":
			s.cmdShift(args)
		case "luma":
			s.cmdLevel(args, func(level uint8) wire.Command { return wire.Luma{Level: level} })
		case "sensor":
			s.cmdOnOff(args, func(on bool) wire.Command { return wire.Sensor{Enable: on} })
		case "gesture":
			s.cmdOnOff(args, func(on bool) wire.Command { return wire.Gesture{Enable: on} })
		case "als":
			s.cmdOnOff(args, func(on bool) wire.Command { return wire.ALS{Enable: on} })

		case "color":
			s.cmdLevel(args, func(level uint8) wire.Command { return wire.Color{Level: level} })
		case "point":
			s.cmdPoint(args)
		case "line":
			s.cmdQuad(args, func(from, to wire.Point) wire.Command { return wire.Line{From: from, To: to} })
		case "rect":
			s.cmdQuad(args, func(from, to wire.Point) wire.Command { return wire.Rect{From: from, To: to} })
		case "rectf":
			s.cmdQuad(args, func(from, to wire.Point) wire.Command { return wire.RectFull{From: from, To: to} })
		case "circ":
			s.cmdCircle(args, false)
		case "circf":
			s.cmdCircle(args, true)
		case "txt":
			s.cmdTxt(args)

		case "img":
			s.cmdImg(args)
		case "font":
			s.cmdFont(args)
		case "anim":
			s.cmdAnim(args)
		case "cfg":
			s.cmdCfg(args)

		case "shutdown":
			s.send(wire.Shutdown{Key: wire.ShutdownKey})
		case "reset":
			s.send(wire.Reset{Key: wire.ResetKey})

		case "quit", "exit", "q":
			fmt.Fprintln(s.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprint(s.Stdout(), `Commands:
  battery | version | settings | pixelcount    query device state
  info <id>                                    read a device parameter
  power on|off, clear, grey <lvl>, demo <id>   display control
  led on|off|toggle|blink, luma <0-15>         peripherals
  shift <x> <y>, sensor|gesture|als on|off     settings
  color <0-15>, point <x> <y>                  drawing
  line|rect|rectf <x1> <y1> <x2> <y2>
  circ|circf <x> <y> <r>
  txt <x> <y> <size> <color> <text...>
  img save <id> <file> <width> <fmt> | show <id> <x> <y> | del <id|all> | list
  font list | select <id> | del <id|all>
  anim list | del <id|all>
  cfg write <name> <ver> [pw] | read <name> | set <name> | list
      rename <old> <new> [pw] | del <name> | free | nb
  shutdown | reset
  quit
`)
}

// send fires a command without awaiting a response.
func (s *Session) send(cmd wire.Command) {
	if err := s.client.Send(cmd); err != nil {
		fmt.Fprintf(s.Stdout(), "Error: %v\n", err)
	}
}

// query fires a command and prints the response.
func (s *Session) query(cmd wire.Command) {
	resp, err := s.client.SendWithResponse(cmd)
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Error: %v\n", err)
		return
	}
	s.printResponse(resp)
}

func (s *Session) printResponse(resp wire.Response) {
	out := s.Stdout()
	switch r := resp.(type) {
	case wire.BatteryResponse:
		fmt.Fprintf(out, "Battery: %d%%\n", r.Level)
	case wire.VersionResponse:
		fmt.Fprintf(out, "Firmware %d.%d.%d.%d, manufactured %d/week %d, serial %02X%02X%02X\n",
			r.FWVersion[0], r.FWVersion[1], r.FWVersion[2], r.FWVersion[3],
			r.MfcYear, r.MfcWeek,
			r.SerialNumber[0], r.SerialNumber[1], r.SerialNumber[2])
	case wire.SettingsResponse:
		fmt.Fprintf(out, "Shift (%d,%d), luma %d, ALS %t, gesture %t\n",
			r.X, r.Y, r.Luma, r.ALSEnable, r.GestureEnable)
	case wire.PixelCountResponse:
		fmt.Fprintf(out, "Pixels lit: %d\n", r.Count)
	case wire.ImgListResponse:
		if len(r.Items) == 0 {
			fmt.Fprintln(out, "No images")
			return
		}
		for _, item := range r.Items {
			fmt.Fprintf(out, "  image %d: %dx%d\n", item.ID, item.Width, item.Height)
		}
	case wire.FontListResponse:
		for _, f := range r.Fonts {
			fmt.Fprintf(out, "  font %d: height %d\n", f.ID, f.Height)
		}
	case wire.AnimListResponse:
		if len(r.IDs) == 0 {
			fmt.Fprintln(out, "No animations")
			return
		}
		fmt.Fprintf(out, "Animations: %v\n", r.IDs)
	case wire.CfgReadResponse:
		fmt.Fprintf(out, "Version %d: %d images, %d layouts, %d fonts, %d pages, %d gauges\n",
			r.Version, r.NbImg, r.NbLayout, r.NbFont, r.NbPage, r.NbGauge)
	case wire.CfgListResponse:
		for _, item := range r.Items {
			system := ""
			if item.IsSystem {
				system = " (system)"
			}
			fmt.Fprintf(out, "  %-12s v%d, %d bytes, usage %d%s\n",
				item.Name.String(), item.Version, item.Size, item.UsageCounter, system)
		}
	case wire.CfgFreeSpaceResponse:
		fmt.Fprintf(out, "Storage: %d of %d bytes free\n", r.FreeSpace, r.TotalSize)
	case wire.CfgGetNbResponse:
		fmt.Fprintf(out, "Configurations: %d\n", r.Count)
	case wire.DeviceInfoResponse:
		fmt.Fprintf(out, "%s\n", r.Parameters)
	case wire.ErrorResponse:
		fmt.Fprintf(out, "Device error: %s (sub %d) for command 0x%02X\n", r.Error, r.SubError, uint8(r.CmdID))
	default:
		fmt.Fprintf(out, "%#v\n", resp)
	}
}

func (s *Session) usage(format string, args ...any) {
	fmt.Fprintf(s.Stdout(), "Usage: "+format+"\n", args...)
}

func parseInt16(arg string) (int16, error) {
	n, err := strconv.ParseInt(arg, 10, 16)
	return int16(n), err
}

func parseUint8(arg string) (uint8, error) {
	n, err := strconv.ParseUint(arg, 10, 8)
	return uint8(n), err
}

func parsePoint(xArg, yArg string) (wire.Point, error) {
	x, err := parseInt16(xArg)
	if err != nil {
		return wire.Point{}, err
	}
	y, err := parseInt16(yArg)
	if err != nil {
		return wire.Point{}, err
	}
	return wire.Point{X: x, Y: y}, nil
}

func (s *Session) cmdOnOff(args []string, build func(bool) wire.Command) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		s.usage("... on|off")
		return
	}
	s.send(build(args[0] == "on"))
}

func (s *Session) cmdLevel(args []string, build func(uint8) wire.Command) {
	if len(args) != 1 {
		s.usage("... <level>")
		return
	}
	level, err := parseUint8(args[0])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad level: %v\n", err)
		return
	}
	s.send(build(level))
}

func (s *Session) cmdLed(args []string) {
	states := map[string]wire.LedState{
		"off":    wire.LedOff,
		"on":     wire.LedOn,
		"toggle": wire.LedToggle,
		"blink":  wire.LedBlinking,
	}
	if len(args) != 1 {
		s.usage("led on|off|toggle|blink")
		return
	}
	state, ok := states[args[0]]
	if !ok {
		s.usage("led on|off|toggle|blink")
		return
	}
	s.send(wire.Led{State: state})
}

func (s *Session) cmdShift(args []string) {
	if len(args) != 2 {
		s.usage("shift <x> <y>")
		return
	}
	p, err := parsePoint(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
		return
	}
	s.send(wire.Shift{X: p.X, Y: p.Y})
}

func (s *Session) cmdPoint(args []string) {
	if len(args) != 2 {
		s.usage("point <x> <y>")
		return
	}
	p, err := parsePoint(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
		return
	}
	s.send(wire.DrawPoint{Coord: p})
}

func (s *Session) cmdQuad(args []string, build func(from, to wire.Point) wire.Command) {
	if len(args) != 4 {
		s.usage("... <x1> <y1> <x2> <y2>")
		return
	}
	from, err := parsePoint(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
		return
	}
	to, err := parsePoint(args[2], args[3])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
		return
	}
	s.send(build(from, to))
}

func (s *Session) cmdCircle(args []string, filled bool) {
	if len(args) != 3 {
		s.usage("circ|circf <x> <y> <r>")
		return
	}
	center, err := parsePoint(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
		return
	}
	r, err := parseUint8(args[2])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad radius: %v\n", err)
		return
	}
	if filled {
		s.send(wire.CircFull{Center: center, R: r})
	} else {
		s.send(wire.Circ{Center: center, R: r})
	}
}

func (s *Session) cmdTxt(args []string) {
	if len(args) < 5 {
		s.usage("txt <x> <y> <size> <color> <text...>")
		return
	}
	pos, err := parsePoint(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
		return
	}
	size, err := parseUint8(args[2])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad size: %v\n", err)
		return
	}
	color, err := parseUint8(args[3])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad color: %v\n", err)
		return
	}
	s.send(wire.Txt{
		Pos:      pos,
		FontSize: size,
		Color:    color,
		Text:     wire.Text(strings.Join(args[4:], " ")),
	})
}

func (s *Session) cmdInfo(args []string) {
	if len(args) != 1 {
		s.usage("info <id>")
		return
	}
	id, err := parseUint8(args[0])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad parameter ID: %v\n", err)
		return
	}
	s.query(wire.Info{ID: wire.DeviceInfoID(id)})
}

// parseDeleteID maps "all" to the firmware's wildcard ID.
func parseDeleteID(arg string) (uint8, error) {
	if arg == "all" {
		return 0xFF, nil
	}
	return parseUint8(arg)
}

func (s *Session) cmdImg(args []string) {
	if len(args) == 0 {
		s.usage("img save|show|del|list ...")
		return
	}
	switch args[0] {
	case "list":
		s.query(wire.ImgList{})
	case "del":
		if len(args) != 2 {
			s.usage("img del <id|all>")
			return
		}
		id, err := parseDeleteID(args[1])
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad image ID: %v\n", err)
			return
		}
		s.send(wire.ImgDelete{ID: id})
	case "show":
		if len(args) != 4 {
			s.usage("img show <id> <x> <y>")
			return
		}
		id, err := parseUint8(args[1])
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad image ID: %v\n", err)
			return
		}
		coord, err := parsePoint(args[2], args[3])
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad coordinates: %v\n", err)
			return
		}
		s.send(wire.ImgDisplay{ID: id, Coord: coord})
	case "save":
		s.cmdImgSave(args[1:])
	default:
		s.usage("img save|show|del|list ...")
	}
}

var imgFormats = map[string]wire.ImgFormat{
	"4bpp":    wire.Img4bpp,
	"1bpp":    wire.Img1bpp,
	"4bpp-hs": wire.Img4bppHeatshrink,
	"8bpp":    wire.Img8bpp,
}

func (s *Session) cmdImgSave(args []string) {
	if len(args) != 4 {
		s.usage("img save <id> <file> <width> <4bpp|1bpp|4bpp-hs|8bpp>")
		return
	}
	id, err := parseUint8(args[0])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad image ID: %v\n", err)
		return
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Error: %v\n", err)
		return
	}
	width, err := strconv.ParseUint(args[2], 10, 16)
	if err != nil {
		fmt.Fprintf(s.Stdout(), "Bad width: %v\n", err)
		return
	}
	format, ok := imgFormats[args[3]]
	if !ok {
		s.usage("img save <id> <file> <width> <4bpp|1bpp|4bpp-hs|8bpp>")
		return
	}

	cmd := wire.ImgSave{
		ID:     id,
		Size:   uint32(len(data)),
		Width:  uint16(width),
		Format: format,
		Data:   data,
	}
	// Large uploads go out in MTU-sized pieces, split on pixel rows.
	if err := s.client.SendChunked(cmd, transport.DefaultChunkSize); err != nil {
		fmt.Fprintf(s.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.Stdout(), "Sent %d bytes\n", len(data))
}

func (s *Session) cmdFont(args []string) {
	if len(args) == 0 {
		s.usage("font list|select|del ...")
		return
	}
	switch args[0] {
	case "list":
		s.query(wire.FontList{})
	case "select":
		if len(args) != 2 {
			s.usage("font select <id>")
			return
		}
		id, err := parseUint8(args[1])
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad font ID: %v\n", err)
			return
		}
		s.send(wire.FontSelect{ID: id})
	case "del":
		if len(args) != 2 {
			s.usage("font del <id|all>")
			return
		}
		id, err := parseDeleteID(args[1])
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad font ID: %v\n", err)
			return
		}
		s.send(wire.FontDelete{ID: id})
	default:
		s.usage("font list|select|del ...")
	}
}

func (s *Session) cmdAnim(args []string) {
	if len(args) == 0 {
		s.usage("anim list|del ...")
		return
	}
	switch args[0] {
	case "list":
		s.query(wire.AnimList{})
	case "del":
		if len(args) != 2 {
			s.usage("anim del <id|all>")
			return
		}
		id, err := parseDeleteID(args[1])
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad animation ID: %v\n", err)
			return
		}
		s.send(wire.AnimDelete{ID: id})
	default:
		s.usage("anim list|del ...")
	}
}

func (s *Session) cmdCfg(args []string) {
	if len(args) == 0 {
		s.usage("cfg write|read|set|list|rename|del|free|nb ...")
		return
	}
	switch args[0] {
	case "list":
		s.query(wire.CfgList{})
	case "free":
		s.query(wire.CfgFreeSpace{})
	case "nb":
		s.query(wire.CfgGetNb{})
	case "read":
		if len(args) != 2 {
			s.usage("cfg read <name>")
			return
		}
		s.query(wire.CfgRead{Name: wire.Name(args[1])})
	case "set":
		if len(args) != 2 {
			s.usage("cfg set <name>")
			return
		}
		s.send(wire.CfgSet{Name: wire.Name(args[1])})
	case "del":
		if len(args) != 2 {
			s.usage("cfg del <name>")
			return
		}
		s.send(wire.CfgDelete{Name: wire.Name(args[1])})
	case "write":
		if len(args) < 3 || len(args) > 4 {
			s.usage("cfg write <name> <version> [password]")
			return
		}
		version, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			fmt.Fprintf(s.Stdout(), "Bad version: %v\n", err)
			return
		}
		var password uint64
		if len(args) == 4 {
			password, err = strconv.ParseUint(args[3], 10, 32)
			if err != nil {
				fmt.Fprintf(s.Stdout(), "Bad password: %v\n", err)
				return
			}
		}
		s.send(wire.CfgWrite{
			Name:     wire.Name(args[1]),
			Version:  uint32(version),
			Password: uint32(password),
		})
	case "rename":
		if len(args) < 3 || len(args) > 4 {
			s.usage("cfg rename <old> <new> [password]")
			return
		}
		var password uint64
		if len(args) == 4 {
			var err error
			password, err = strconv.ParseUint(args[3], 10, 32)
			if err != nil {
				fmt.Fprintf(s.Stdout(), "Bad password: %v\n", err)
				return
			}
		}
		s.send(wire.CfgRename{
			Old:      wire.Name(args[1]),
			New:      wire.Name(args[2]),
			Password: uint32(password),
		})
	default:
		s.usage("cfg write|read|set|list|rename|del|free|nb ...")
	}
}
