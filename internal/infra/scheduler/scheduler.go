package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subminder_reminder/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ReminderScheduler struct {
	cronEngine *cron.Cron
	reminders  app.ReminderService
	logger     *logrus.Entry
	zone       *time.Location
	cronSpec   string // e.g. "0 8 * * *", evaluated in zone
	runTimeout time.Duration
	now        func() time.Time
	baseCtx    context.Context // Set by Start; cancelling it cancels in-flight runs
}

func NewReminderScheduler(
	reminders app.ReminderService,
	logger *logrus.Entry,
	zone *time.Location,
	cronSpec string,
	runTimeout time.Duration,
) *ReminderScheduler {
	cl := cronLogger{entry: logger}
	return &ReminderScheduler{
		cronEngine: cron.New(
			cron.WithLocation(zone),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		reminders:  reminders,
		logger:     logger,
		zone:       zone,
		cronSpec:   cronSpec,
		runTimeout: runTimeout,
		now:        time.Now,
		baseCtx:    context.Background(),
	}
}

// Start registers the daily reminder job and starts the cron engine. Every
// firing's run context derives from ctx.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.baseCtx = ctx

	s.logger.WithFields(logrus.Fields{
		"cron_spec": s.cronSpec,
		"time_zone": s.zone.String(),
	}).Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily reminder run.")
		s.RunOnce(s.baseCtx)
	})
	if err != nil {
		return fmt.Errorf("could not add daily reminder cron job: %w", err)
	}

	s.cronEngine.Start()
	for _, e := range s.cronEngine.Entries() {
		s.logger.WithField("next_run", e.Next.Format(time.RFC3339)).Info("Reminder scheduler started.")
	}
	return nil
}

// RunOnce performs one reminder run bounded by the run timeout.
func (s *ReminderScheduler) RunOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.runTimeout)
	defer cancel()

	report, err := s.reminders.Run(ctx, s.now().In(s.zone))
	switch {
	case errors.Is(err, app.ErrRunInProgress):
		s.logger.Warn("Previous reminder run still in progress. Skipping this firing.")
	case err != nil:
		s.logger.WithError(err).Error("Daily reminder run failed")
	default:
		s.logger.WithField("state", report.State).Info("Daily reminder run finished.")
	}
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}

// cronLogger routes robfig/cron's own log lines into logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithError(err).WithFields(fields(keysAndValues)).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
