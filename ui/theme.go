package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// VariantTheme is the default theme pinned to the dark or light variant,
// ignoring the system setting.
type VariantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// NewVariantTheme creates the theme for the dark mode preference.
func NewVariantTheme(dark bool) fyne.Theme {
	variant := theme.VariantLight
	if dark {
		variant = theme.VariantDark
	}
	return &VariantTheme{Theme: theme.DefaultTheme(), variant: variant}
}

// Color returns the color for the pinned variant.
func (t *VariantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// Dark reports whether the theme is pinned to the dark variant.
func (t *VariantTheme) Dark() bool {
	return t.variant == theme.VariantDark
}
