package ui

import (
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MatchTimer/control"
	"MatchTimer/i18n"
	"MatchTimer/timer"
)

type fakeApp struct {
	mu   sync.Mutex
	cmds []control.Command
	dark bool
	keys []rune
}

func (a *fakeApp) EnqueueCommand(cmd control.Command) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cmds = append(a.cmds, cmd)
}

func (a *fakeApp) HandleKeyRune(r rune) { a.keys = append(a.keys, r) }
func (a *fakeApp) DarkMode() bool      { return a.dark }
func (a *fakeApp) SetDarkMode(on bool) { a.dark = on }

func (a *fakeApp) types() []control.CommandType {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []control.CommandType
	for _, c := range a.cmds {
		out = append(out, c.Type)
	}
	return out
}

func TestControlsForIsExclusive(t *testing.T) {
	for _, running := range []bool{true, false} {
		c := ControlsFor(running)
		assert.NotEqual(t, c.StartEnabled, c.StopEnabled)
		assert.Equal(t, running, c.StopEnabled)
		assert.NotEmpty(t, c.Status)
	}
	assert.Equal(t, i18n.T("Timer is running..."), ControlsFor(true).Status)
	assert.Equal(t, i18n.T("Timer is stopped."), ControlsFor(false).Status)
}

func TestLogLinesNewestFirst(t *testing.T) {
	base := time.Date(2026, 10, 19, 14, 0, 0, 0, time.Local)
	cfg := &timer.TimerConfig{Timestamp: "14:00:00", Day: "2026-10-19", MatchDuration: 18, PauseDuration: 2}
	entries := []timer.LogEntry{
		{Event: "Timer Started", Time: base, Configuration: cfg},
		{Event: "Match Start", Time: base.Add(time.Minute)},
	}

	lines := LogLines(entries)

	require.Len(t, lines, 2)
	assert.Equal(t, "Match Start", lines[0].Event)
	assert.Equal(t, "2026-10-19 14:01:00", lines[0].Time)
	assert.Empty(t, lines[0].Config)
	assert.Equal(t, "Timer Started", lines[1].Event)
	assert.Equal(t, "Start Time: 14:00:00, Day: 2026-10-19, Match Duration: 18 min, Pause Duration: 2 min", lines[1].Config)
	assert.Equal(t, "Timer Started", entries[0].Event, "input must not be reordered")
	assert.Empty(t, LogLines(nil))
}

func newTestDashboard() *Dashboard {
	return &Dashboard{
		StartButton: widget.NewButton("start", nil),
		StopButton:  widget.NewButton("stop", nil),
		Status:      widget.NewLabel(""),
		Clock:       widget.NewLabel(""),
		Logs:        container.NewVBox(),
	}
}

func TestRenderControlsIsIdempotent(t *testing.T) {
	test.NewTempApp(t)
	d := newTestDashboard()

	d.RenderControls(true)
	d.RenderControls(true)
	assert.True(t, d.StartButton.Disabled())
	assert.False(t, d.StopButton.Disabled())
	assert.Equal(t, i18n.T("Timer is running..."), d.Status.Text)

	d.RenderControls(false)
	assert.False(t, d.StartButton.Disabled())
	assert.True(t, d.StopButton.Disabled())
	assert.Equal(t, i18n.T("Timer is stopped."), d.Status.Text)
}

func TestRenderLogsRebuildsList(t *testing.T) {
	test.NewTempApp(t)
	d := newTestDashboard()
	entries := []timer.LogEntry{
		{Event: "Timer Started", Time: time.Now()},
		{Event: "Match Start", Time: time.Now()},
	}

	d.RenderLogs(entries)
	d.RenderLogs(entries)
	require.Len(t, d.Logs.Objects, 2)

	first, ok := d.Logs.Objects[0].(*widget.RichText)
	require.True(t, ok)
	assert.Contains(t, first.String(), "Match Start")

	d.RenderLogs(nil)
	assert.Empty(t, d.Logs.Objects)
}

func TestMissingWidgetsAreSkipped(t *testing.T) {
	test.NewTempApp(t)

	empty := &Dashboard{}
	assert.NotPanics(t, func() {
		empty.RenderControls(true)
		empty.RenderLogs([]timer.LogEntry{{Event: "x"}})
		empty.RenderClock("12:00:00")
		empty.Alert("nobody listens")
		empty.ToggleRunning()
	})

	partial := &Dashboard{Clock: widget.NewLabel(""), StopButton: widget.NewButton("stop", nil)}
	partial.RenderControls(true)
	partial.RenderClock("12:00:00")
	assert.Equal(t, "12:00:00", partial.Clock.Text)
	assert.False(t, partial.StopButton.Disabled())
}

func TestToggleRunningPressesEnabledButton(t *testing.T) {
	test.NewTempApp(t)
	var pressed []string
	d := &Dashboard{
		StartButton: widget.NewButton("start", func() { pressed = append(pressed, "start") }),
		StopButton:  widget.NewButton("stop", func() { pressed = append(pressed, "stop") }),
	}

	d.RenderControls(false)
	d.ToggleRunning()
	d.RenderControls(true)
	d.ToggleRunning()

	assert.Equal(t, []string{"start", "stop"}, pressed)
}

func TestScheduleForm(t *testing.T) {
	test.NewTempApp(t)
	today := time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)
	f := NewScheduleForm(today)

	assert.Equal(t, "2026-10-19", f.Day.Text)
	f.Time.SetText("14:00")
	f.MatchDuration.SetText("20")

	assert.Equal(t, timer.Form{Day: "2026-10-19", Time: "14:00", MatchDuration: "20"}, f.Values())
}

func TestControlsEnqueueCommands(t *testing.T) {
	a := &fakeApp{}
	fyneApp := test.NewTempApp(t)
	w := fyneApp.NewWindow("test")
	form := NewScheduleForm(time.Now())
	form.Time.SetText("14:00")

	start, stop, _ := BuildControls(a, w, form)
	stop.Enable()
	test.Tap(start)
	test.Tap(stop)

	_, _, statusObject := BuildStatus(a)
	tappable := statusObject.(*fyne.Container).Objects[0].(*TappableContainer)
	test.Tap(tappable)

	assert.Equal(t, []control.CommandType{control.CmdStart, control.CmdStop, control.CmdCheckStatus}, a.types())
	require.NotNil(t, a.cmds[0].Form)
	assert.Equal(t, "14:00", a.cmds[0].Form.Time)
}

func TestCreateMainWindowAttachesWidgets(t *testing.T) {
	a := &fakeApp{dark: true}
	fyneApp := test.NewTempApp(t)
	d := &Dashboard{}

	w := CreateMainWindow(a, fyneApp, d)

	assert.Same(t, w, d.Window)
	assert.NotNil(t, d.StartButton)
	assert.NotNil(t, d.StopButton)
	assert.NotNil(t, d.Status)
	assert.NotNil(t, d.Clock)
	assert.NotNil(t, d.Logs)

	test.TypeOnCanvas(w.Canvas(), "r")
	assert.Equal(t, []rune{'r'}, a.keys)
}

func TestMainWindowStartsStopped(t *testing.T) {
	a := &fakeApp{}
	fyneApp := test.NewTempApp(t)
	d := &Dashboard{}

	CreateMainWindow(a, fyneApp, d)

	assert.False(t, d.StartButton.Disabled())
	assert.True(t, d.StopButton.Disabled())
	assert.Equal(t, i18n.T("Timer is stopped."), d.Status.Text)
	assert.Empty(t, a.types(), "no command is sent before the user acts")
}

func TestVariantTheme(t *testing.T) {
	dark := NewVariantTheme(true)
	light := NewVariantTheme(false)

	assert.True(t, dark.(*VariantTheme).Dark())
	assert.False(t, light.(*VariantTheme).Dark())
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark),
		dark.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight),
		light.Color(theme.ColorNameBackground, theme.VariantDark))
}
