package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

type RunnerOptions struct {
	HeartbeatEnabled bool
	AllowAutoDisable bool

	// FetchDelay est inséré entre deux watchers pour ne pas marteler le site.
	FetchDelay time.Duration

	// Location sert à calculer "aujourd'hui" (UTC si nil).
	Location *time.Location

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{
		FetchDelay: 2 * time.Second,
		Location:   time.UTC,
		Now:        time.Now,
		Sleep:      sleepContext,
	}
}

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	// OutcomeExhausted: plus aucun watcher actif.
	OutcomeExhausted Outcome = "exhausted"
)

type WatcherResult struct {
	WatcherID string   `json:"watcherId"`
	Decision  Decision `json:"decision"`
	Dates     int      `json:"dates"`
	MaxDate   string   `json:"maxDate,omitempty"`
	PrevDate  string   `json:"prevDate,omitempty"`
}

type RunResult struct {
	RunID   string    `json:"runId"`
	Outcome Outcome   `json:"outcome"`
	Today   string    `json:"today"`
	Started time.Time `json:"startedAt"`

	Configured int `json:"configured"`
	Active     int `json:"active"`

	Watchers      []WatcherResult `json:"watchers"`
	Notifications int             `json:"notifications"`

	HeartbeatSent    bool `json:"heartbeatSent"`
	AllExpiredSent   bool `json:"allExpiredSent"`
	WorkflowDisabled bool `json:"workflowDisabled"`
	StateChanged     bool `json:"stateChanged"`
}

// Runner orchestre un passage complet sur la watchlist.
// Les runs sont sérialisés: un seul à la fois par Runner.
type Runner struct {
	logger    zerolog.Logger
	watchlist ports.WatchlistSource
	store     ports.StateStore
	fetcher   ports.DateFetcher
	notifier  ports.Notifier

	// Optionnels.
	disabler  ports.WorkflowDisabler
	persister ports.StatePersister
	bus       ports.EventBus

	opts RunnerOptions
	mu   sync.Mutex

	lastMu sync.Mutex
	last   *LastRun
}

func NewRunner(logger zerolog.Logger, watchlist ports.WatchlistSource, store ports.StateStore, fetcher ports.DateFetcher, notifier ports.Notifier, opts RunnerOptions) *Runner {
	def := DefaultRunnerOptions()
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = def.Sleep
	}
	return &Runner{
		logger:    logger,
		watchlist: watchlist,
		store:     store,
		fetcher:   fetcher,
		notifier:  notifier,
		opts:      opts,
	}
}

func (r *Runner) WithDisabler(d ports.WorkflowDisabler) *Runner {
	r.disabler = d
	return r
}

func (r *Runner) WithPersister(p ports.StatePersister) *Runner {
	r.persister = p
	return r
}

func (r *Runner) WithBus(bus ports.EventBus) *Runner {
	r.bus = bus
	return r
}

// Today renvoie la date du jour dans la timezone configurée.
func (r *Runner) Today() domain.ShowDate {
	return domain.DateOf(r.opts.Now(), r.opts.Location)
}

// LastRun résume le dernier run terminé (succès ou échec).
type LastRun struct {
	RunID    string    `json:"runId"`
	Outcome  Outcome   `json:"outcome,omitempty"`
	Started  time.Time `json:"startedAt"`
	Finished time.Time `json:"finishedAt"`
	Error    string    `json:"error,omitempty"`
}

func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	if !r.mu.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer r.mu.Unlock()

	res, err := r.run(ctx)
	last := LastRun{RunID: res.RunID, Started: res.Started, Finished: r.opts.Now().UTC()}
	if err != nil {
		last.Error = err.Error()
	} else {
		last.Outcome = res.Outcome
	}
	r.lastMu.Lock()
	r.last = &last
	r.lastMu.Unlock()
	return res, err
}

// LastRun renvoie false tant qu'aucun run n'est terminé.
func (r *Runner) LastRun() (LastRun, bool) {
	r.lastMu.Lock()
	defer r.lastMu.Unlock()
	if r.last == nil {
		return LastRun{}, false
	}
	return *r.last, true
}

func (r *Runner) run(ctx context.Context) (RunResult, error) {
	now := r.opts.Now()
	today := domain.DateOf(now, r.opts.Location)
	res := RunResult{
		RunID:    xid.New().String(),
		Outcome:  OutcomeCompleted,
		Today:    today.String(),
		Started:  now.UTC(),
		Watchers: []WatcherResult{},
	}
	logger := r.logger.With().Str("run_id", res.RunID).Logger()
	logger.Info().Str("today", res.Today).Msg("run started")
	r.publish("run.started", res)

	watchers, err := r.watchlist.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load watchlist: %w", err)
	}
	loaded, err := r.store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load state: %w", err)
	}
	state := loaded.Clone()

	active := domain.ActiveWatchers(watchers, now)
	res.Configured = len(watchers)
	res.Active = len(active)
	logger.Info().Int("configured", res.Configured).Int("active", res.Active).Msg("watchlist loaded")

	// Le heartbeat part aussi quand plus rien n'est actif (active=0): le
	// workflow tourne toujours tant qu'il n'est pas désactivé.
	sent, err := r.maybeHeartbeat(ctx, logger, &state, len(active), now, today)
	if err != nil {
		return res, err
	}
	res.HeartbeatSent = sent

	if len(active) == 0 {
		return r.handleExhausted(ctx, logger, state, sent, today, res)
	}

	changed := sent
	if state.Meta.AllExpiredNotifiedAt != "" {
		// Des watchers sont redevenus actifs: le prochain épuisement sera notifié.
		state.Meta.AllExpiredNotifiedAt = ""
		changed = true
	}

	for i, w := range active {
		if i > 0 && r.opts.FetchDelay > 0 {
			if err := r.opts.Sleep(ctx, r.opts.FetchDelay); err != nil {
				return res, err
			}
		}

		wr, updated, err := r.checkWatcher(ctx, logger, &state, w, today)
		if err != nil {
			return res, fmt.Errorf("watcher %s: %w", w.ID, err)
		}
		res.Watchers = append(res.Watchers, wr)
		if wr.Decision == DecisionNotify {
			res.Notifications++
		}
		changed = changed || updated
	}

	if changed {
		if err := r.saveAndPersist(ctx, logger, state); err != nil {
			return res, err
		}
	}
	res.StateChanged = changed

	logger.Info().
		Int("notifications", res.Notifications).
		Bool("state_changed", changed).
		Msg("run completed")
	r.publish("run.completed", res)
	return res, nil
}

func (r *Runner) checkWatcher(ctx context.Context, logger zerolog.Logger, state *domain.State, w domain.Watcher, today domain.ShowDate) (WatcherResult, bool, error) {
	wlog := logger.With().Str("watcher_id", w.ID).Logger()

	dates, err := r.fetcher.FetchDates(ctx, w.URL, today)
	if err != nil {
		wlog.Error().Err(err).Str("code", ports.ErrorCode(err)).Msg("fetch dates failed")
		return WatcherResult{}, false, fmt.Errorf("fetch dates: %w", err)
	}

	prev, hasPrev := state.LastMax(w.ID)
	current, decision := Detect(prev, hasPrev, dates)
	wr := WatcherResult{
		WatcherID: w.ID,
		Decision:  decision,
		Dates:     len(dates),
		MaxDate:   current.String(),
		PrevDate:  prev.String(),
	}

	switch decision {
	case DecisionSkip:
		wlog.Info().Msg("no dates listed")
		return wr, false, nil
	case DecisionSeed:
		state.SetLastMax(w.ID, current)
		wlog.Info().Str("max_date", wr.MaxDate).Msg("initial state recorded")
		r.publish("watcher.seeded", wr)
		return wr, true, nil
	case DecisionNotify:
		if err := r.notifier.Send(ctx, NewDatesMessage(w, current)); err != nil {
			return wr, false, fmt.Errorf("notify: %w", err)
		}
		state.SetLastMax(w.ID, current)
		wlog.Info().Str("prev_date", wr.PrevDate).Str("max_date", wr.MaxDate).Msg("new dates notified")
		r.publish("watcher.new_date", wr)
		return wr, true, nil
	default:
		wlog.Info().Str("max_date", wr.MaxDate).Msg("no new dates")
		return wr, false, nil
	}
}

// maybeHeartbeat envoie au plus un message de vie par jour calendaire.
func (r *Runner) maybeHeartbeat(ctx context.Context, logger zerolog.Logger, state *domain.State, active int, now time.Time, today domain.ShowDate) (bool, error) {
	if !r.opts.HeartbeatEnabled {
		return false, nil
	}
	if state.Meta.LastHeartbeatDate == today.String() {
		logger.Debug().Msg("heartbeat already sent today")
		return false, nil
	}
	if err := r.notifier.Send(ctx, HeartbeatMessage(active, now.In(r.opts.Location))); err != nil {
		return false, fmt.Errorf("heartbeat: %w", err)
	}
	state.Meta.LastHeartbeatDate = today.String()
	logger.Info().Int("active", active).Msg("heartbeat sent")
	r.publish("heartbeat.sent", map[string]any{"date": today.String(), "active": active})
	return true, nil
}

// handleExhausted: plus aucun watcher actif. La notice part une seule fois
// (marquée dans _meta), puis les runs planifiés sont coupés si, et seulement
// si, AllowAutoDisable est actif. Sans disabler configuré, le run échoue
// après la notice.
func (r *Runner) handleExhausted(ctx context.Context, logger zerolog.Logger, state domain.State, dirty bool, today domain.ShowDate, res RunResult) (RunResult, error) {
	res.Outcome = OutcomeExhausted

	if state.Meta.AllExpiredNotifiedAt == "" {
		if err := r.notifier.Send(ctx, AllExpiredMessage(res.Configured, r.opts.AllowAutoDisable)); err != nil {
			return res, fmt.Errorf("all expired notice: %w", err)
		}
		res.AllExpiredSent = true
		state.Meta.AllExpiredNotifiedAt = today.String()
		dirty = true
		logger.Info().Msg("all expired notice sent")
	} else {
		logger.Info().Str("notified_at", state.Meta.AllExpiredNotifiedAt).Msg("all expired notice already sent")
	}

	if dirty {
		if err := r.saveAndPersist(ctx, logger, state); err != nil {
			return res, err
		}
		res.StateChanged = true
	}

	if !r.opts.AllowAutoDisable {
		logger.Warn().Msg("no active watchers; auto-disable not allowed, leaving scheduled runs enabled")
		r.publish("run.exhausted", res)
		return res, nil
	}
	if r.disabler == nil {
		logger.Error().Msg("no active watchers; auto-disable requested but no workflow disabler configured")
		return res, ErrNoDisabler
	}

	if err := r.disabler.DisableWorkflow(ctx); err != nil {
		return res, fmt.Errorf("disable workflow: %w", err)
	}
	res.WorkflowDisabled = true
	logger.Info().Msg("no active watchers; scheduled runs disabled")
	r.publish("run.exhausted", res)
	return res, nil
}

func (r *Runner) saveAndPersist(ctx context.Context, logger zerolog.Logger, state domain.State) error {
	if err := r.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	logger.Info().Int("entries", len(state.Watchers)).Msg("state saved")

	if r.persister == nil {
		return nil
	}
	// Best-effort: un commit raté (rien à commiter, push refusé...) ne fait jamais échouer le run.
	if err := r.persister.Persist(ctx); err != nil {
		logger.Info().Err(err).Msg("state not committed")
	}
	return nil
}

func (r *Runner) publish(topic string, v any) {
	if r.bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.bus.Publish(topic, b)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
