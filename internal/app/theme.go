package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GaugeTheme tints the default theme with the overlay's segment color so
// controls and annotations read as one palette.
type GaugeTheme struct{}

var _ fyne.Theme = (*GaugeTheme)(nil)

func (t *GaugeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0xAC, B: 0xC1, A: 0xFF} // Cyan, as segments
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xA5, B: 0x00, A: 0x80} // Orange, as calibration points
	case theme.ColorNameError:
		return color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *GaugeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *GaugeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *GaugeTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameInlineIcon:
		return 22 // Larger toolbar icons for touch screens at the bench
	default:
		return theme.DefaultTheme().Size(name)
	}
}
