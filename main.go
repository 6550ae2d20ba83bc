package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"lpd8ctl/config"
	"lpd8ctl/debug"
	"lpd8ctl/midi"
	"lpd8ctl/theme"
)

func main() {
	// Load tool settings
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if cfg.Debug {
		if err := debug.Enable(""); err == nil {
			defer debug.Disable()
		}
	}

	a := &app{
		out:    os.Stdout,
		errOut: os.Stderr,
		cfg:    cfg,
		theme:  theme.New(nil),
		open:   openDevice,
	}

	if err := a.run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, a.theme.Error().Render("error: "+err.Error()))
		debug.Disable()
		os.Exit(1)
	}
}

// device is an open output the program can be sent through
type device interface {
	midi.Sender
	Name() string
	Close() error
}

func openDevice(ctx context.Context, match string, wait bool) (device, error) {
	dm := midi.NewDeviceManager(match)
	find := dm.FindPort
	if wait {
		find = dm.WaitFor
	}
	port, err := find(ctx)
	if err != nil {
		return nil, err
	}
	return port, nil
}

type app struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	theme  *theme.Theme
	open   func(ctx context.Context, match string, wait bool) (device, error)
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}

	switch args[0] {
	case "send":
		return a.send(args[1:])
	case "preset":
		return a.preset(args[1:])
	case "presets":
		return a.presets()
	case "dump":
		return a.dump(args[1:])
	case "show":
		return a.show(args[1:])
	case "preview":
		return a.preview(args[1:])
	case "help", "-h", "--help":
		a.usage()
		return nil
	}

	// lpd8ctl <program> <file>
	if _, err := strconv.Atoi(args[0]); err == nil {
		return a.send(args)
	}
	a.usage()
	return errUsage
}

func (a *app) usage() {
	fmt.Fprintln(a.errOut, "lpd8ctl - program an Akai LPD8 mk2")
	fmt.Fprintln(a.errOut, "")
	fmt.Fprintln(a.errOut, "Commands:")
	fmt.Fprintln(a.errOut, "  <program> <file>                 send file to program slot 1-4")
	fmt.Fprintln(a.errOut, "  send [flags] <program> <file>    same, with port and colour options")
	fmt.Fprintln(a.errOut, "  preset <program> <preset>        send a bundled preset")
	fmt.Fprintln(a.errOut, "  presets                          list bundled presets")
	fmt.Fprintln(a.errOut, "  dump <program> <file>            print the SysEx bytes")
	fmt.Fprintln(a.errOut, "  show <file>                      render pads and knobs")
	fmt.Fprintln(a.errOut, "  preview [flags] <file>           interactive preview")
}
