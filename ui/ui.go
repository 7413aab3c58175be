package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"MatchTimer/control"
	"MatchTimer/i18n"
	"MatchTimer/timer"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"

	windowWidth  = 520
	windowHeight = 640
)

type App interface {
	EnqueueCommand(cmd control.Command)
	HandleKeyRune(rune)
	DarkMode() bool
	SetDarkMode(on bool)
}

// ScheduleForm holds the inputs of a timer schedule.
type ScheduleForm struct {
	Day           *widget.Entry
	Time          *widget.Entry
	MatchDuration *widget.Entry
	PauseDuration *widget.Entry
}

// NewScheduleForm creates the inputs with the day set to today.
func NewScheduleForm(today time.Time) *ScheduleForm {
	f := &ScheduleForm{
		Day:           widget.NewEntry(),
		Time:          widget.NewEntry(),
		MatchDuration: widget.NewEntry(),
		PauseDuration: widget.NewEntry(),
	}
	f.Day.SetPlaceHolder("YYYY-MM-DD")
	f.Day.Validator = validation.NewTime(dayLayout)
	f.Day.SetText(today.Format(dayLayout))
	f.Time.SetPlaceHolder("HH:MM")
	f.Time.Validator = validation.NewTime(timeLayout)
	f.MatchDuration.SetPlaceHolder("18")
	f.PauseDuration.SetPlaceHolder("2")
	return f
}

// Values reads the current inputs.
func (f *ScheduleForm) Values() timer.Form {
	return timer.Form{
		Day:           f.Day.Text,
		Time:          f.Time.Text,
		MatchDuration: f.MatchDuration.Text,
		PauseDuration: f.PauseDuration.Text,
	}
}

func (f *ScheduleForm) canvasObject() fyne.CanvasObject {
	return widget.NewForm(
		widget.NewFormItem(i18n.T("Day"), f.Day),
		widget.NewFormItem(i18n.T("Time"), f.Time),
		widget.NewFormItem(i18n.T("Match duration (min)"), f.MatchDuration),
		widget.NewFormItem(i18n.T("Pause duration (min)"), f.PauseDuration),
	)
}

// BuildControls creates the start, stop and clear buttons in the stopped
// state, which holds until the server reports otherwise.
func BuildControls(a App, w fyne.Window, form *ScheduleForm) (*widget.Button, *widget.Button, fyne.CanvasObject) {
	startButton := widget.NewButton(i18n.T("Start"), func() {
		values := form.Values()
		a.EnqueueCommand(control.Command{Type: control.CmdStart, Form: &values})
	})
	startButton.Importance = widget.HighImportance

	stopButton := widget.NewButton(i18n.T("Stop"), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdStop})
	})
	stopButton.Importance = widget.DangerImportance

	initial := ControlsFor(false)
	setEnabled(startButton, initial.StartEnabled)
	setEnabled(stopButton, initial.StopEnabled)

	clearButton := widget.NewButton(i18n.T("Clear events"), func() {
		dialog.ShowConfirm(i18n.T("Clear events"), i18n.T("Are you sure you want to clear all events?"), func(ok bool) {
			if ok {
				a.EnqueueCommand(control.Command{Type: control.CmdClearLogs})
			}
		}, w)
	})

	row := container.NewHBox(layout.NewSpacer(), startButton, stopButton, clearButton, layout.NewSpacer())
	return startButton, stopButton, row
}

// BuildStatus creates the status text. Tapping it asks for a status check.
func BuildStatus(a App) (*widget.Label, *canvas.Rectangle, fyne.CanvasObject) {
	status := widget.NewLabel(ControlsFor(false).Status)
	status.Alignment = fyne.TextAlignCenter
	status.TextStyle.Bold = true

	tint := canvas.NewRectangle(color.Transparent)
	tint.CornerRadius = 4

	tappable := NewTappableContainer(container.NewStack(tint, status), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdCheckStatus})
	}, nil)
	return status, tint, container.NewCenter(tappable)
}

// BuildFooter creates the dark mode check.
func BuildFooter(a App, w fyne.Window) fyne.CanvasObject {
	darkCheck := widget.NewCheck(i18n.T("Dark mode"), nil)
	darkCheck.SetChecked(a.DarkMode())
	darkCheck.OnChanged = func(checked bool) {
		a.SetDarkMode(checked)
		w.Canvas().Focus(nil)
	}
	return container.NewHBox(layout.NewSpacer(), darkCheck, layout.NewSpacer())
}

// CreateMainWindow builds the dashboard window and attaches its widgets to d.
func CreateMainWindow(a App, fyneApp fyne.App, d *Dashboard) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "MatchTimer"
	}
	w := fyneApp.NewWindow(title)

	form := NewScheduleForm(time.Now())
	startButton, stopButton, controls := BuildControls(a, w, form)
	status, tint, statusObject := BuildStatus(a)

	clock := widget.NewLabel("--:--:--")
	clock.TextStyle.Monospace = true
	clockRow := container.NewHBox(widget.NewLabel(i18n.T("Server time")), clock)

	logs := container.NewVBox()
	logScroll := container.NewVScroll(logs)
	logScroll.SetMinSize(fyne.NewSize(0, 240))

	d.Window = w
	d.StartButton = startButton
	d.StopButton = stopButton
	d.Status = status
	d.StatusTint = tint
	d.Clock = clock
	d.Logs = logs

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)

	top := container.NewVBox(
		container.NewCenter(clockRow),
		form.canvasObject(),
		controls,
		statusObject,
		widget.NewSeparator(),
		widget.NewLabelWithStyle(i18n.T("Events"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)

	w.SetContent(container.NewBorder(top, BuildFooter(a, w), nil, nil, logScroll))
	w.Resize(fyne.NewSize(windowWidth, windowHeight))
	return w
}

type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}
