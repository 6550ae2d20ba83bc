package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"lpd8ctl/midi"
	"lpd8ctl/program"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "detect":
		err = detect()
	case "send":
		err = sendTest(os.Args[2:])
	case "poll":
		err = pollDevices()
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list            - List all MIDI output ports")
	fmt.Println("  detect          - Find the LPD8")
	fmt.Println("  send [slot]     - Send the drums preset to a program slot (default 1)")
	fmt.Println("  poll            - Poll for device changes")
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.NewDeviceManager("").Names(context.Background())
	if errors.Is(err, midi.ErrScanTimeout) {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return nil
	}
	if err != nil {
		return err
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func detect() error {
	fmt.Println("Looking for LPD8...")

	names, err := midi.NewDeviceManager("").Names(context.Background())
	if err != nil {
		return err
	}
	if i := midi.Match(names, midi.DefaultMatch); i >= 0 {
		fmt.Printf("Found output: %d: %s\n", i, names[i])
		fmt.Println("\nLPD8 detected!")
	} else {
		fmt.Println("\nLPD8 not found")
	}
	return nil
}

func sendTest(args []string) error {
	slot := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("slot %q: %w", args[0], err)
		}
		slot = n
	}

	reg, err := program.DefaultRegistry()
	if err != nil {
		return err
	}
	cfg, err := reg.Get(1)
	if err != nil {
		return err
	}
	data, err := program.Compile(cfg, slot)
	if err != nil {
		return err
	}

	port, err := midi.FindPort(context.Background(), midi.DefaultMatch)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Using output: %s\n", port.Name())
	fmt.Printf("Sending: %d byte program to slot %d\n", len(data), slot)
	if err := port.Send(data); err != nil {
		return err
	}
	fmt.Println("Done! Check the pads on the LPD8")
	return nil
}

func pollDevices() error {
	fmt.Println("Polling for device changes every second...")
	fmt.Println("Connect/disconnect the LPD8 to test. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dm := midi.NewDeviceManager("")
	go dm.Run(ctx)

	for ev := range dm.Events() {
		fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), ev.Port, ev.Type)
	}
	return nil
}
