// Package main contains the application wiring and the AppManager which
// coordinates the remote service client, the push channel, audio and the UI.
//
// Maintenance notes:
//   - Concurrency model: user commands (start, stop, clear, status check) go
//     through `cmdCh` and are executed one at a time by `commandLoop`. Polls
//     and push events run on their own goroutines and meet the commands only
//     in the Reconciler, whose state holder is mutex guarded. Every response
//     overwrites the state wholesale, so the last response to arrive wins.
//   - `cmdCh` is buffered. EnqueueCommand waits briefly when it is full and
//     then drops the command with a warning rather than blocking the UI.
//   - UI widgets are only touched through ui.Dashboard, which hops onto the
//     Fyne goroutine itself.
package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"MatchTimer/audio"
	"MatchTimer/channel"
	"MatchTimer/config"
	"MatchTimer/control"
	"MatchTimer/i18n"
	"MatchTimer/prefs"
	"MatchTimer/reconcile"
	"MatchTimer/remote"
	"MatchTimer/timer"
	"MatchTimer/ui"
)

const (
	commandBuffer  = 64
	enqueueTimeout = 150 * time.Millisecond
)

var errMissingForm = errors.New("start command without a schedule")

// AppManager is the main application struct, holding all state.
type AppManager struct {
	fyneApp   fyne.App
	prefs     *prefs.Store
	dashboard *ui.Dashboard

	rec    *reconcile.Reconciler
	poller *reconcile.Poller
	push   *channel.Manager
	player *audio.Player

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc

	runCancel context.CancelFunc
	wg        sync.WaitGroup
}

// NewAppManager wires the service client, reconciler, pollers, push channel
// and audio player together and starts the command loop. output may be nil
// when no audio device is available; a nil clock means the real clock.
func NewAppManager(cfg config.Config, fyneApp fyne.App, dashboard *ui.Dashboard, output audio.Output, clock clockwork.Clock) (*AppManager, error) {
	client, err := remote.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	client.SetHeader("User-Agent", cfg.AppID)

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	a := &AppManager{
		fyneApp:   fyneApp,
		prefs:     prefs.New(fyneApp.Preferences()),
		dashboard: dashboard,
	}

	a.player = audio.NewPlayer(client, output, map[timer.Cue]string{
		timer.CueStart: cfg.Sounds.Start,
		timer.CueStop:  cfg.Sounds.Stop,
	})
	a.rec = reconcile.New(client, dashboard, dashboard, a.player)
	a.poller = reconcile.NewPoller(a.rec, clock, cfg.ClockInterval, cfg.LogsInterval)

	dispatcher := channel.NewDispatcher()
	dispatcher.Register(timer.ActionMatchStart, a.rec.HandleEvent)
	dispatcher.Register(timer.ActionMatchEnd, a.rec.HandleEvent)

	pushCfg := channel.Config{RetryDelay: cfg.Push.RetryDelay, Clock: clock}
	var dialer channel.Dialer
	if cfg.Push.Enabled {
		pushCfg.URL = client.PushURL()
		dialer = channel.NewWebSocketDialer(cfg.Push.HandshakeTimeout)
	}
	a.push = channel.NewManager(pushCfg, dialer, dispatcher)

	a.cmdCh = make(chan control.Command, commandBuffer)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	a.wg.Add(1)
	go a.commandLoop()

	log.Info().
		Str("server_url", cfg.ServerURL).
		Bool("push", a.push.Supported()).
		Bool("audio", output != nil).
		Str("lang", i18n.GetLang()).
		Msg("dashboard initialized")

	return a, nil
}

// Start shows the stopped state, then begins polling and opens the push
// channel. Both stop when ctx is cancelled or on Shutdown.
func (a *AppManager) Start(ctx context.Context) {
	ctx, a.runCancel = context.WithCancel(ctx)

	a.rec.Render()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.poller.Run(ctx)
	}()
	a.push.Start(ctx)
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	select {
	case a.cmdCh <- cmd:
	case <-time.After(enqueueTimeout):
		log.Warn().Stringer("command", cmd.Type).Msg("command queue full, dropping command")
	}
}

func (a *AppManager) commandLoop() {
	defer a.wg.Done()
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			err := a.execute(a.cmdCtx, cmd)
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (a *AppManager) execute(ctx context.Context, cmd control.Command) error {
	log.Debug().Stringer("command", cmd.Type).Msg("executing command")
	switch cmd.Type {
	case control.CmdCheckStatus:
		a.rec.CheckStatus(ctx)
	case control.CmdStart:
		if cmd.Form == nil {
			return errMissingForm
		}
		return a.rec.Start(ctx, *cmd.Form)
	case control.CmdStop:
		return a.rec.Stop(ctx)
	case control.CmdClearLogs:
		return a.rec.Clear(ctx)
	case control.CmdRefreshLogs:
		a.rec.RefreshLogs(ctx)
	}
	return nil
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	switch r {
	case ' ':
		a.dashboard.ToggleRunning()
	case 'r', 'R':
		a.EnqueueCommand(control.Command{Type: control.CmdCheckStatus})
	}
}

// DarkMode reports the persisted dark mode preference.
func (a *AppManager) DarkMode() bool {
	return a.prefs.DarkMode()
}

// SetDarkMode persists the preference and switches the theme.
func (a *AppManager) SetDarkMode(on bool) {
	a.prefs.SetDarkMode(on)
	a.fyneApp.Settings().SetTheme(ui.NewVariantTheme(on))
}

// PushStats reports the state of the push channel.
func (a *AppManager) PushStats() channel.Stats {
	return a.push.Stats()
}

// Shutdown stops polling, the push channel and the command loop, then waits
// for in-flight refreshes and sounds to finish. The producers are drained
// first: nothing starts a refresh or a cue once they have exited.
func (a *AppManager) Shutdown() {
	if a.runCancel != nil {
		a.runCancel()
	}
	if a.cmdCancel != nil {
		a.cmdCancel()
	}
	a.wg.Wait()
	a.push.Wait()
	a.rec.Wait()
	a.player.Wait()
	stats := a.push.Stats()
	log.Info().
		Stringer("push_state", stats.State).
		Int("push_attempts", stats.Attempts).
		Int("push_retries", stats.Retries).
		Msg("dashboard stopped")
}
