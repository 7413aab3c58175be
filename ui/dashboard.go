package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"MatchTimer/i18n"
	"MatchTimer/timer"
)

const statusTintAlpha = 0x40

// Dashboard applies state projections to the window's widgets. Every widget
// is optional: a nil widget skips only its own update. All updates run on
// the Fyne goroutine, so the methods may be called from anywhere.
type Dashboard struct {
	Window      fyne.Window
	StartButton *widget.Button
	StopButton  *widget.Button
	Status      *widget.Label
	StatusTint  *canvas.Rectangle
	Clock       *widget.Label
	Logs        *fyne.Container
}

// RenderControls enables exactly one of start/stop and sets the status text.
func (d *Dashboard) RenderControls(running bool) {
	c := ControlsFor(running)
	fyne.Do(func() {
		setEnabled(d.StartButton, c.StartEnabled)
		setEnabled(d.StopButton, c.StopEnabled)
		if d.Status != nil {
			d.Status.SetText(c.Status)
		}
		if d.StatusTint != nil {
			d.StatusTint.FillColor = statusTint(running)
			d.StatusTint.Refresh()
		}
	})
}

// RenderLogs clears the log list and rebuilds it newest first.
func (d *Dashboard) RenderLogs(entries []timer.LogEntry) {
	if d.Logs == nil {
		return
	}
	lines := LogLines(entries)
	fyne.Do(func() {
		d.Logs.RemoveAll()
		for _, line := range lines {
			d.Logs.Add(logItem(line))
		}
		d.Logs.Refresh()
	})
}

// RenderClock shows the server time as received.
func (d *Dashboard) RenderClock(now string) {
	if d.Clock == nil {
		return
	}
	fyne.Do(func() {
		d.Clock.SetText(now)
	})
}

// Alert shows a blocking information dialog over the main window.
func (d *Dashboard) Alert(message string) {
	if d.Window == nil {
		log.Warn().Str("message", message).Msg("no window to show alert")
		return
	}
	fyne.Do(func() {
		dialog.ShowInformation(i18n.T("Notice"), message, d.Window)
	})
}

// ToggleRunning presses whichever of start/stop is currently enabled.
func (d *Dashboard) ToggleRunning() {
	fyne.Do(func() {
		switch {
		case d.StopButton != nil && !d.StopButton.Disabled():
			d.StopButton.Tapped(&fyne.PointEvent{})
		case d.StartButton != nil && !d.StartButton.Disabled():
			d.StartButton.Tapped(&fyne.PointEvent{})
		}
	})
}

func setEnabled(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func logItem(line LogLine) *widget.RichText {
	segments := []widget.RichTextSegment{
		&widget.TextSegment{Text: line.Event, Style: widget.RichTextStyleStrong},
		&widget.TextSegment{Text: " - " + line.Time, Style: widget.RichTextStyleInline},
	}
	if line.Config != "" {
		segments = append(segments, &widget.TextSegment{Text: " (" + line.Config + ")", Style: widget.RichTextStyleInline})
	}
	rt := widget.NewRichText(segments...)
	rt.Wrapping = fyne.TextWrapWord
	return rt
}

func statusTint(running bool) color.Color {
	if running {
		return withAlpha(theme.Color(theme.ColorNameSuccess), statusTintAlpha)
	}
	return color.Transparent
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
