package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lpd8ctl/setting"
	"lpd8ctl/theme"
)

// RenderPad renders a single colored pad
func RenderPad(color setting.RGB) string {
	style := lipgloss.NewStyle().Foreground(theme.Lipgloss(color))
	return style.Render("■")
}

// RenderPadRow renders a row of colored pads with spacing
func RenderPadRow(colors []setting.RGB) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// padCell is one pad: number and note on its on colour, cc/pcn/channel
// underneath on its off colour.
func padCell(th *theme.Theme, n int, p setting.Pad) string {
	top := th.Swatch(p.OnColor.RGB()).Width(11).Render(fmt.Sprintf("%d n%-3d", n, p.Note.Input()))
	bottom := th.Swatch(p.OffColor.RGB()).Width(11).Render(fmt.Sprintf("c%-3d p%-3d", p.CC.Input(), p.PCN.Input()))
	ch := th.Label().Render(fmt.Sprintf("ch %d", p.Channel.Input()))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, ch)
}

// RenderPadGrid lays pads out as on the device: 5-8 on top, 1-4 below.
func RenderPadGrid(th *theme.Theme, pads []setting.Pad) string {
	row := func(from int) string {
		var cells []string
		for i := from; i < from+4 && i < len(pads); i++ {
			cells = append(cells, padCell(th, i+1, pads[i]), " ")
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, row(4), row(0))
}

// RenderKnob renders a knob's cc, channel and min..max range as a bar of
// the given width spanning 0..127.
func RenderKnob(th *theme.Theme, n int, k setting.Knob, width int) string {
	lo, hi := k.Min.Input(), k.Max.Input()
	if lo > hi {
		lo, hi = hi, lo
	}
	var bar strings.Builder
	for i := 0; i < width; i++ {
		pos := i * setting.MIDIMax / max(width-1, 1)
		if pos >= lo && pos <= hi {
			bar.WriteRune(th.Symbols.RangeIn)
		} else {
			bar.WriteRune(th.Symbols.RangeOut)
		}
	}
	label := th.Label().Render(fmt.Sprintf("K%d cc%-3d ch%-2d", n, k.CC.Input(), k.Channel.Input()))
	return fmt.Sprintf("%s %s %s", label, th.Value().Render(bar.String()), th.Label().Render(fmt.Sprintf("%d-%d", k.Min.Input(), k.Max.Input())))
}

// RenderKnobs renders knobs 1..n one per line
func RenderKnobs(th *theme.Theme, knobs []setting.Knob, width int) string {
	lines := make([]string, len(knobs))
	for i, k := range knobs {
		lines[i] = RenderKnob(th, i+1, k, width)
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderDump renders encoded values as rows of hex bytes with the setting
// name of the first value on each row.
func RenderDump(th *theme.Theme, values []setting.Value, perRow int) string {
	perRow = max(perRow, 1)
	var lines []string
	for i := 0; i < len(values); i += perRow {
		end := min(i+perRow, len(values))
		hex := make([]string, 0, end-i)
		for _, v := range values[i:end] {
			hex = append(hex, fmt.Sprintf("%02X", v.Byte()))
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			th.Label().Render(fmt.Sprintf("%03d", i)),
			th.Value().Render(strings.Join(hex, " ")),
			th.Label().Render(values[i].Name())))
	}
	return strings.Join(lines, "\n")
}
