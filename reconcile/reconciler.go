// Package reconcile merges the three sources of truth of the dashboard
// (polling, push notifications and user commands) into one State and
// projects every change onto the view.
//
// There is no sequencing across requests: status and logs are each
// overwritten wholesale by whichever response arrives last. A superseded
// response may briefly show stale data but never corrupts the view.
package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"MatchTimer/i18n"
	"MatchTimer/remote"
	"MatchTimer/timer"
)

// Remote is the timer service as seen by the Reconciler.
type Remote interface {
	FetchTime(ctx context.Context) (string, error)
	FetchStatus(ctx context.Context) (timer.Status, error)
	FetchLogs(ctx context.Context) ([]timer.LogEntry, error)
	StartTimer(ctx context.Context, cfg timer.TimerConfig) error
	StopTimer(ctx context.Context) error
	ClearLogs(ctx context.Context) error
}

// Renderer projects state onto the UI. Every call must be safe to repeat.
type Renderer interface {
	RenderControls(running bool)
	RenderLogs(entries []timer.LogEntry)
	RenderClock(now string)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// CuePlayer plays audio cues.
type CuePlayer interface {
	Cue(timer.Cue)
}

// Reconciler is the only writer of State.
type Reconciler struct {
	remote Remote
	view   Renderer
	alerts Alerter
	player CuePlayer
	state  *State

	// wgMu orders Add in refreshLogsAsync against Wait.
	wgMu sync.Mutex
	wg   sync.WaitGroup
}

// New creates a Reconciler. alerts and player may be nil.
func New(r Remote, view Renderer, alerts Alerter, player CuePlayer) *Reconciler {
	return &Reconciler{
		remote: r,
		view:   view,
		alerts: alerts,
		player: player,
		state:  &State{},
	}
}

// State returns the reconciled state for reading.
func (r *Reconciler) State() *State {
	return r.state
}

// Render re-projects the whole state. It is idempotent.
func (r *Reconciler) Render() {
	r.view.RenderControls(r.state.Running())
	r.view.RenderLogs(r.state.Logs())
}

// Wait blocks until every follow-up refresh started so far has finished.
func (r *Reconciler) Wait() {
	r.wgMu.Lock()
	defer r.wgMu.Unlock()
	r.wg.Wait()
}

// CheckStatus replaces the running flag from the server and then refreshes
// the log so both stay in step.
func (r *Reconciler) CheckStatus(ctx context.Context) {
	status, err := r.remote.FetchStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error fetching timer status")
		return
	}
	r.state.setRunning(status.Running)
	r.view.RenderControls(status.Running)
	r.refreshLogsAsync(ctx)
}

// RefreshLogs replaces the log with the server's copy. On failure the
// previous log stays on screen.
func (r *Reconciler) RefreshLogs(ctx context.Context) {
	entries, err := r.remote.FetchLogs(ctx)
	if err != nil {
		var shapeErr *remote.ShapeError
		if errors.As(err, &shapeErr) {
			log.Error().Err(err).Msg("invalid data received from /logs")
		} else {
			log.Error().Err(err).Msg("error fetching logs")
		}
		return
	}
	if !r.state.replaceLogs(entries) {
		return
	}
	r.view.RenderLogs(r.state.Logs())
}

// RefreshClock shows the server's current time.
func (r *Reconciler) RefreshClock(ctx context.Context) {
	now, err := r.remote.FetchTime(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error fetching time")
		return
	}
	r.view.RenderClock(now)
}

// Start validates the schedule and asks the server to start the timer. Only a
// confirmed start marks the timer running.
func (r *Reconciler) Start(ctx context.Context, form timer.Form) error {
	cfg, err := form.Config()
	if err != nil {
		r.alert(i18n.T("Please select a valid day and time."))
		return err
	}
	if err := r.remote.StartTimer(ctx, cfg); err != nil {
		r.commandFailed("error starting timer", err)
		return err
	}
	log.Info().Str("day", cfg.Day).Str("timestamp", cfg.Timestamp).Msg("timer started")
	r.confirmRunning(ctx, true)
	return nil
}

// Stop asks the server to stop the timer.
func (r *Reconciler) Stop(ctx context.Context) error {
	if err := r.remote.StopTimer(ctx); err != nil {
		r.commandFailed("error stopping timer", err)
		return err
	}
	log.Info().Msg("timer stopped")
	r.confirmRunning(ctx, false)
	return nil
}

// Clear asks the server to delete its event log, then reloads it.
func (r *Reconciler) Clear(ctx context.Context) error {
	if err := r.remote.ClearLogs(ctx); err != nil {
		r.commandFailed("error clearing logs", err)
		return err
	}
	log.Info().Msg("logs cleared")
	r.refreshLogsAsync(ctx)
	return nil
}

// HandleEvent reacts to a push notification. Push events only trigger cues;
// they never touch State.
func (r *Reconciler) HandleEvent(ev timer.Event) {
	cue, ok := timer.CueFor(ev.Action)
	if !ok {
		log.Debug().Str("action", ev.Action).Msg("ignoring unknown event")
		return
	}
	log.Info().Str("action", ev.Action).Msg("match event received")
	if r.player != nil {
		r.player.Cue(cue)
	}
}

func (r *Reconciler) confirmRunning(ctx context.Context, running bool) {
	r.state.setRunning(running)
	r.view.RenderControls(running)
	r.refreshLogsAsync(ctx)
}

// refreshLogsAsync issues a log refresh without waiting for it.
func (r *Reconciler) refreshLogsAsync(ctx context.Context) {
	r.wgMu.Lock()
	r.wg.Add(1)
	r.wgMu.Unlock()
	go func() {
		defer r.wg.Done()
		r.RefreshLogs(ctx)
	}()
}

func (r *Reconciler) commandFailed(msg string, err error) {
	var httpErr *remote.HTTPError
	if errors.As(err, &httpErr) {
		log.Warn().Err(err).Int("status", httpErr.Status).Msg(msg)
		r.alert(i18n.T("Error: ") + httpErr.Body)
		return
	}
	log.Error().Err(err).Msg(msg)
}

func (r *Reconciler) alert(message string) {
	if r.alerts == nil {
		log.Warn().Str("message", message).Msg("alert dropped, no alerter")
		return
	}
	r.alerts.Alert(message)
}
