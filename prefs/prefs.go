// Package prefs persists the dashboard's single user preference, the dark
// mode flag, in the application's Fyne preference store.
package prefs

import "fyne.io/fyne/v2"

const (
	darkModeKey = "darkMode"
	enabled     = "enabled"
	disabled    = "disabled"
)

// Store reads and writes the dark mode flag.
type Store struct {
	p fyne.Preferences
}

// New wraps a Fyne preference store.
func New(p fyne.Preferences) *Store {
	return &Store{p: p}
}

// DarkMode reports whether dark mode is enabled. Unknown values read as
// disabled.
func (s *Store) DarkMode() bool {
	return s.p.StringWithFallback(darkModeKey, disabled) == enabled
}

// SetDarkMode persists the flag.
func (s *Store) SetDarkMode(on bool) {
	value := disabled
	if on {
		value = enabled
	}
	s.p.SetString(darkModeKey, value)
}
