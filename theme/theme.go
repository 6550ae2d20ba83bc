package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Knob range bar
	RangeIn  rune // █ inside min..max
	RangeOut rune // · outside
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			RangeIn:  '█',
			RangeOut: '·',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleActive  = 0.7 // soft red
	RoleSuccess = 1.0 // bright yellow
)

func (t *Theme) FG() lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Success() lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(RoleSuccess))
}

// Styles

func (t *Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Accent())
}

func (t *Theme) Label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted())
}

func (t *Theme) Value() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.FG())
}

func (t *Theme) Error() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Active())
}

func (t *Theme) OK() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success())
}

// Swatch is a block filled with a pad colour.
func (t *Theme) Swatch(c RGB) lipgloss.Style {
	return lipgloss.NewStyle().Background(Lipgloss(c)).Foreground(contrast(c))
}

// contrast picks black or white text for a background.
func contrast(c RGB) lipgloss.Color {
	if l, _, _ := toColorful(c).Lab(); l > 0.6 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#ffffff")
}

// Lipgloss converts an RGB triple to a lipgloss colour.
func Lipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
