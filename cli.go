package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lpd8ctl/debug"
	"lpd8ctl/midi"
	"lpd8ctl/program"
	"lpd8ctl/setting"
	"lpd8ctl/theme"
	"lpd8ctl/tui"
	"lpd8ctl/widgets"
)

var errUsage = errors.New("bad usage")

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parseSlot(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("program %q: %w", s, errUsage)
	}
	if _, err := setting.ProgramSlot.EncodeInt(n); err != nil {
		return 0, err
	}
	return n, nil
}

// parseColor accepts "#rrggbb", "rrggbb" or "r,g,b". Empty means unset.
func parseColor(s string) (*setting.ColorInput, error) {
	if s == "" {
		return nil, nil
	}
	var c setting.ColorInput
	if parts := strings.Split(s, ","); len(parts) == 3 {
		var rgb [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("colour %q: %w", s, err)
			}
			rgb[i] = n
		}
		c = setting.RGBInput(rgb[0], rgb[1], rgb[2])
	} else {
		var err error
		if c, err = setting.HexInput(s); err != nil {
			return nil, err
		}
	}
	if _, err := c.RGB(); err != nil {
		return nil, err
	}
	return &c, nil
}

type sendOptions struct {
	port      string
	wait      bool
	on, off   string
	palette   string
	verbose   bool
	waitLimit time.Duration
}

// applyColors overrides pad colours. A palette gives each pad its own on
// colour, sampled across the palette, and wins over -on.
func applyColors(cfg *program.Config, opts sendOptions) error {
	on, err := parseColor(opts.on)
	if err != nil {
		return fmt.Errorf("-on: %w", err)
	}
	off, err := parseColor(opts.off)
	if err != nil {
		return fmt.Errorf("-off: %w", err)
	}
	if err := cfg.SetPadColors(off, on); err != nil {
		return err
	}

	if opts.palette == "" {
		return nil
	}
	p, err := theme.LoadGPL(opts.palette)
	if err != nil {
		return err
	}
	for i, c := range p.Spread(program.NumPads) {
		in := setting.FromRGB(c)
		if err := cfg.SetPadColors(nil, &in, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) send(args []string) error {
	opts := sendOptions{
		port:    a.cfg.PortMatch(),
		wait:    a.cfg.Device.Wait,
		palette: a.cfg.UI.Palette,
	}
	fs := a.flags("send")
	fs.StringVar(&opts.port, "port", opts.port, "output port name substring")
	fs.BoolVar(&opts.wait, "wait", opts.wait, "wait for the device to be connected")
	fs.StringVar(&opts.on, "on", "", "on colour for every pad (#rrggbb or r,g,b)")
	fs.StringVar(&opts.off, "off", "", "off colour for every pad (#rrggbb or r,g,b)")
	fs.StringVar(&opts.palette, "on-palette", opts.palette, "GIMP palette to spread across pad on colours")
	fs.BoolVar(&opts.verbose, "v", false, "write a debug log")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		a.usage()
		return errUsage
	}
	if opts.verbose {
		if err := debug.Enable(""); err != nil {
			return err
		}
	}

	slot, err := parseSlot(fs.Arg(0))
	if err != nil {
		return err
	}
	cfg, err := program.Load(fs.Arg(1))
	if err != nil {
		return err
	}
	if err := applyColors(cfg, opts); err != nil {
		return err
	}
	opts.waitLimit = time.Duration(a.cfg.Device.WaitSeconds) * time.Second
	if err := a.compileAndSend(cfg, slot, opts); err != nil {
		return err
	}

	a.cfg.AddRecent(fs.Arg(1))
	a.cfg.UI.LastFile = fs.Arg(1)
	a.cfg.UI.LastSlot = slot
	if err := a.cfg.Save(); err != nil {
		debug.Log("config", "save failed: %v", err)
	}
	return nil
}

// compileAndSend compiles first so nothing reaches the device unless the
// whole program is valid.
func (a *app) compileAndSend(cfg *program.Config, slot int, opts sendOptions) error {
	data, err := program.Compile(cfg, slot)
	if err != nil {
		return err
	}
	debug.Log("program", "compiled %d bytes for slot %d", len(data), slot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if opts.wait && opts.waitLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.waitLimit)
		defer cancel()
	}
	if opts.wait {
		fmt.Fprintf(a.out, "waiting for %q...\n", opts.port)
	}

	dev, err := a.open(ctx, opts.port, opts.wait)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.Send(data); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.theme.OK().Render(fmt.Sprintf("sent program %d to %s", slot, dev.Name())))
	return nil
}

func (a *app) preset(args []string) error {
	fs := a.flags("preset")
	port := fs.String("port", a.cfg.PortMatch(), "output port name substring")
	wait := fs.Bool("wait", a.cfg.Device.Wait, "wait for the device to be connected")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		a.usage()
		return errUsage
	}

	slot, err := parseSlot(fs.Arg(0))
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("preset %q: %w", fs.Arg(1), errUsage)
	}
	reg, err := program.DefaultRegistry()
	if err != nil {
		return err
	}
	cfg, err := reg.Get(n)
	if err != nil {
		return err
	}
	return a.compileAndSend(cfg, slot, sendOptions{
		port:      *port,
		wait:      *wait,
		waitLimit: time.Duration(a.cfg.Device.WaitSeconds) * time.Second,
	})
}

func (a *app) presets() error {
	reg, err := program.DefaultRegistry()
	if err != nil {
		return err
	}
	for i, name := range reg.Names() {
		cfg, err := reg.Get(i + 1)
		if err != nil {
			return err
		}
		pads, err := program.BuildPads(cfg)
		if err != nil {
			return err
		}
		colors := make([]setting.RGB, len(pads))
		for j, p := range pads {
			colors[j] = p.OnColor.RGB()
		}
		fmt.Fprintf(a.out, "%s %s  %s\n",
			a.theme.Label().Render(fmt.Sprintf("%2d", i+1)),
			a.theme.Value().Render(fmt.Sprintf("%-8s", name)),
			widgets.RenderPadRow(colors))
	}
	return nil
}

func (a *app) dump(args []string) error {
	if len(args) != 2 {
		a.usage()
		return errUsage
	}
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}
	cfg, err := program.Load(args[1])
	if err != nil {
		return err
	}
	values, err := program.Encode(cfg, slot)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, widgets.RenderDump(a.theme, values, 16))
	return nil
}

func (a *app) show(args []string) error {
	if len(args) != 1 {
		a.usage()
		return errUsage
	}
	cfg, err := program.Load(args[0])
	if err != nil {
		return err
	}
	return a.render(a.out, args[0], cfg)
}

func (a *app) render(w io.Writer, name string, cfg *program.Config) error {
	pads, err := program.BuildPads(cfg)
	if err != nil {
		return err
	}
	knobs, err := program.BuildKnobs(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, a.theme.Title().Render(name))
	fmt.Fprintln(w, a.theme.Label().Render(fmt.Sprintf("channel %s  pressure %s  full level %t  toggle %t",
		cfg.GlobalChannel, cfg.Pressure(), cfg.FullLevel, cfg.Toggle)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, widgets.RenderPadGrid(a.theme, pads))
	fmt.Fprintln(w)
	fmt.Fprintln(w, widgets.RenderKnobs(a.theme, knobs, 16))
	return nil
}

func (a *app) preview(args []string) error {
	fs := a.flags("preview")
	port := fs.String("port", a.cfg.PortMatch(), "output port name substring")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		a.usage()
		return errUsage
	}
	cfg, err := program.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(*port)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	sender := deviceMgr.Lazy()
	defer sender.Close()

	m := tui.NewModel(fs.Arg(0), cfg, sender, deviceMgr, a.theme)
	m.Slot = a.cfg.DefaultProgram
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
