package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio-tracker/config"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// SchedulerService runs the price refresh on the configured cron schedule and
// keeps a record of every run.
type SchedulerService interface {
	Start() error
	Stop(ctx context.Context)
	NextRun() time.Time
	RecentRuns(ctx context.Context, limit int) ([]dto.RefreshRunResponse, error)
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	cron         *cron.Cron
	cronParser   cron.Parser
	priceRefresh PriceRefreshService
	runRepo      repository.RefreshRunRepository
	entryID      cron.EntryID
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	priceRefresh PriceRefreshService,
	runRepo repository.RefreshRunRepository,
) *schedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	cronLog := &cronLogger{log: log}
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		cronParser: parser,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		priceRefresh: priceRefresh,
		runRepo:      runRepo,
	}
}

func (s *schedulerService) Start() error {
	schedule, err := s.cronParser.Parse(s.cfg.PriceFeed.Schedule)
	if err != nil {
		s.log.Error("Failed to parse cron expression", logger.ErrorField(err), logger.StringField("schedule", s.cfg.PriceFeed.Schedule))
		return fmt.Errorf("failed to parse cron expression: %w", err)
	}

	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(s.runRefresh))
	s.cron.Start()
	s.log.Info("Price refresh scheduler started",
		logger.StringField("schedule", s.cfg.PriceFeed.Schedule),
		logger.Field("next_run", s.NextRun()),
	)
	return nil
}

// Stop waits for a running refresh to finish or for ctx to expire.
func (s *schedulerService) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Price refresh scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Timeout while stopping price refresh scheduler")
	}
}

func (s *schedulerService) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *schedulerService) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()

	s.execute(ctx)
}

// execute runs one refresh and stores its outcome. A run row that could not be
// created does not stop the refresh itself.
func (s *schedulerService) execute(ctx context.Context) *model.PriceRefreshRun {
	run := &model.PriceRefreshRun{StartedAt: utils.TimeNow(), Status: model.RefreshStatusRunning}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.log.ErrorContext(ctx, "Failed to create refresh run", logger.ErrorField(err))
	}

	result, err := s.priceRefresh.Refresh(ctx)
	finishRun(run, result, err, utils.TimeNow())

	fields := []zap.Field{
		logger.UintField("run_id", run.ID),
		logger.StringField("status", string(run.Status)),
		logger.Int64Field("exit_code", int64(run.ExitCode.Int32)),
		logger.Field("duration", run.CompletedAt.Time.Sub(run.StartedAt)),
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Scheduled price refresh failed", append(fields, logger.ErrorField(err))...)
	} else {
		s.log.InfoContext(ctx, "Scheduled price refresh completed", append(fields,
			logger.IntField("updated", result.Updated),
			logger.IntField("failed", len(result.Failed)),
		)...)
	}

	// ctx may already be past its deadline
	storeCtx := context.WithoutCancel(ctx)
	if run.ID != 0 {
		if err := s.runRepo.Update(storeCtx, run); err != nil {
			s.log.ErrorContext(ctx, "Failed to update refresh run", logger.ErrorField(err), logger.UintField("run_id", run.ID))
		}
	}
	s.pruneRuns(storeCtx)
	return run
}

func finishRun(run *model.PriceRefreshRun, result *dto.RefreshPricesResult, err error, now time.Time) {
	run.CompletedAt = sql.NullTime{Time: now, Valid: true}
	exitCode := int32(model.RefreshExitCodeSuccess)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		run.Status = model.RefreshStatusTimeout
		run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		exitCode = model.RefreshExitCodeFailed
	case err != nil:
		run.Status = model.RefreshStatusFailed
		run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		exitCode = model.RefreshExitCodeFailed
	default:
		run.Status = model.RefreshStatusCompleted
		run.Updated = result.Updated
		run.FailedTickers = result.Failed
		switch {
		case result.Updated == 0 && len(result.Failed) == 0:
			exitCode = model.RefreshExitCodeSkipped
		case result.Updated == 0:
			run.Status = model.RefreshStatusFailed
			exitCode = model.RefreshExitCodeFailed
		case len(result.Failed) > 0:
			exitCode = model.RefreshExitCodePartialSuccess
		}
	}
	run.ExitCode = sql.NullInt32{Int32: exitCode, Valid: true}
}

func (s *schedulerService) pruneRuns(ctx context.Context) {
	retention := s.cfg.PriceFeed.HistoryRetention
	if retention <= 0 {
		return
	}
	deleted, err := s.runRepo.DeleteOlderThan(ctx, utils.TimeNow().Add(-retention))
	if err != nil {
		s.log.WarnContext(ctx, "Failed to prune refresh runs", logger.ErrorField(err))
		return
	}
	if deleted > 0 {
		s.log.DebugContext(ctx, "Pruned refresh runs", logger.Int64Field("deleted", deleted))
	}
}

// RecentRuns returns the latest runs, newest first.
func (s *schedulerService) RecentRuns(ctx context.Context, limit int) ([]dto.RefreshRunResponse, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list refresh runs", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list refresh runs: %w", err)
	}

	resp := make([]dto.RefreshRunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRefreshRunResponse(run))
	}
	return resp, nil
}

func toRefreshRunResponse(run model.PriceRefreshRun) dto.RefreshRunResponse {
	r := dto.RefreshRunResponse{
		ID:            run.ID,
		StartedAt:     run.StartedAt,
		Status:        string(run.Status),
		Updated:       run.Updated,
		FailedTickers: run.FailedTickers,
		ErrorMessage:  run.ErrorMessage.String,
	}
	if run.CompletedAt.Valid {
		r.CompletedAt = utils.ToPointer(run.CompletedAt.Time)
	}
	if run.ExitCode.Valid {
		r.ExitCode = utils.ToPointer(run.ExitCode.Int32)
	}
	return r
}

// timeout bounds a single refresh run.
func (s *schedulerService) timeout() time.Duration {
	timeout := s.cfg.PriceFeed.Timeout * 10
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return timeout
}

type cronLogger struct {
	log *logger.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
