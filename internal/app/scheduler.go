package app

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const DefaultSchedule = "*/30 * * * *"

// RunScheduler déclenche Runner.Run selon une expression cron (mode serve).
type RunScheduler struct {
	logger zerolog.Logger
	runner *Runner

	Schedule string
	Location *time.Location
}

func NewRunScheduler(logger zerolog.Logger, runner *Runner, schedule string) *RunScheduler {
	return &RunScheduler{
		logger:   logger,
		runner:   runner,
		Schedule: schedule,
		Location: time.UTC,
	}
}

// Run bloque jusqu'à l'annulation du contexte.
func (sch *RunScheduler) Run(ctx context.Context) error {
	spec := sch.Schedule
	if spec == "" {
		spec = DefaultSchedule
	}
	loc := sch.Location
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { sch.tick(ctx) }); err != nil {
		return err
	}
	c.Start()
	sch.logger.Info().Str("schedule", spec).Msg("run scheduler started")

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	sch.logger.Info().Msg("run scheduler stopped")
	return nil
}

func (sch *RunScheduler) tick(ctx context.Context) {
	if sch.runner == nil {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}

	res, err := sch.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			sch.logger.Debug().Msg("previous run still in progress, tick skipped")
			return
		}
		sch.logger.Error().Err(err).Str("run_id", res.RunID).Msg("scheduled run failed")
		return
	}
	if res.Outcome == OutcomeExhausted {
		sch.logger.Warn().Bool("workflow_disabled", res.WorkflowDisabled).Msg("no active watchers left")
	}
}
