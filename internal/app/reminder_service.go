// internal/app/reminder_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"subminder_reminder/internal/domain/device"
	"subminder_reminder/internal/domain/notification"
	"subminder_reminder/internal/domain/push"
	"subminder_reminder/internal/domain/subscription"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const releaseTimeout = 10 * time.Second

var (
	// ErrQueryFailed wraps any failure of the due-subscription queries. It aborts the run.
	ErrQueryFailed = errors.New("reminder query failed")
	// ErrRunInProgress is returned when Run is called while another run is still going.
	ErrRunInProgress = errors.New("reminder run already in progress")
)

// ReminderService finds subscriptions due for a reminder and notifies their owners.
type ReminderService interface {
	// Run performs one scan + fan-out for the day of now. Only a failed scan returns an error.
	Run(ctx context.Context, now time.Time) (*RunReport, error)
	// LastReport returns the report of the most recent finished run, or nil.
	LastReport() *RunReport
}

// ReminderDeps are the record store and push gateway handles, owned by the process bootstrap.
type ReminderDeps struct {
	Subscriptions subscription.Repository
	Devices       device.Repository
	Notifications notification.Repository
	Ledger        notification.Ledger // nil disables duplicate suppression
	Push          push.Gateway
}

// ReminderOptions tune a ReminderServiceImpl.
type ReminderOptions struct {
	HomeZone    *time.Location
	Offsets     []int // Defaults to subscription.ReminderOffsets
	Concurrency int   // Subscriptions processed in parallel; <= 1 means sequential
	Icon        string
	Composer    MessageComposer
	Observers   []RunObserver
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	deps      ReminderDeps
	opts      ReminderOptions
	logger    *logrus.Entry
	newRunID  func() string
	running   atomic.Bool
	lastMu    sync.RWMutex
	lastRun   *RunReport
	clockFunc func() time.Time
}

func NewReminderService(deps ReminderDeps, opts ReminderOptions, logger *logrus.Entry) *ReminderServiceImpl {
	if opts.HomeZone == nil {
		opts.HomeZone = time.UTC
	}
	if len(opts.Offsets) == 0 {
		opts.Offsets = subscription.ReminderOffsets
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &ReminderServiceImpl{
		deps:      deps,
		opts:      opts,
		logger:    logger,
		newRunID:  func() string { return uuid.NewString() },
		clockFunc: time.Now,
	}
}

// Run performs one reminder run.
func (s *ReminderServiceImpl) Run(ctx context.Context, now time.Time) (*RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Reminder run requested while another run is in progress. Skipping.")
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	report := &RunReport{RunID: s.newRunID(), StartedAt: s.clockFunc()}
	log := s.logger.WithField("run_id", report.RunID)
	log.WithField("run_time", now.In(s.opts.HomeZone).Format(time.RFC3339)).Info("--- REMINDER RUN START ---")

	err := s.run(ctx, now, report, log)

	report.FinishedAt = s.clockFunc()
	log.WithFields(logrus.Fields{
		"state":    report.State,
		"matched":  report.Matched,
		"duration": report.Duration().String(),
	}).Infof("--- REMINDER RUN END (%s) ---", report.State)

	s.lastMu.Lock()
	s.lastRun = report
	s.lastMu.Unlock()

	for _, o := range s.opts.Observers {
		o.RunFinished(ctx, report)
	}
	return report, err
}

func (s *ReminderServiceImpl) run(ctx context.Context, now time.Time, report *RunReport, log *logrus.Entry) error {
	subs, err := s.scan(ctx, now, log)
	if err != nil {
		report.State = RunStateQueryFailed
		report.Err = err
		log.WithError(err).Error("!!! REMINDER QUERY FAILED, NO REMINDERS SENT THIS RUN !!!")
		return err
	}

	report.Matched = len(subs)
	if len(subs) == 0 {
		report.State = RunStateEmpty
		log.Info("Query ran, but found 0 subscriptions matching any date/offset.")
		return nil
	}
	log.Infof("Found %d total subscriptions to remind.", len(subs))

	s.fanOut(ctx, subs, report, log)
	if ctx.Err() != nil && report.handled() < report.Matched {
		report.State = RunStateAborted
		report.Err = ctx.Err()
		log.WithError(ctx.Err()).Warn("Run ended before every subscription was processed. The rest wait for the next run.")
		return nil
	}
	report.State = RunStateComplete
	return nil
}

// Scan issues one query per lead-time offset concurrently and concatenates the
// matches. If any query fails the whole scan fails and no result is returned.
func (s *ReminderServiceImpl) Scan(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return s.scan(ctx, now, s.logger)
}

func (s *ReminderServiceImpl) scan(ctx context.Context, now time.Time, log *logrus.Entry) ([]*subscription.Subscription, error) {
	results := make([][]*subscription.Subscription, len(s.opts.Offsets))
	g, gctx := errgroup.WithContext(ctx)

	for i, days := range s.opts.Offsets {
		window := subscription.WindowFor(now, s.opts.HomeZone, days)
		log.WithFields(logrus.Fields{
			"offset_days":  days,
			"window_start": window.Start.Format(time.RFC3339Nano),
			"window_end":   window.End.Format(time.RFC3339Nano),
		}).Infof("Checking for subs due on %s (remind %d days before)", window.Start.Format("2006-01-02"), days)

		g.Go(func() error {
			subs, err := s.deps.Subscriptions.FindDue(gctx, window, days)
			if err != nil {
				return fmt.Errorf("offset %d days: %w", days, err)
			}
			results[i] = subs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	var all []*subscription.Subscription
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// fanOut notifies the owner of every matched subscription. Failures are logged
// and counted; they never stop other subscriptions from being processed.
func (s *ReminderServiceImpl) fanOut(ctx context.Context, subs []*subscription.Subscription, report *RunReport, log *logrus.Entry) {
	if s.opts.Concurrency <= 1 {
		for _, sub := range subs {
			if ctx.Err() != nil {
				return
			}
			s.processSubscription(ctx, sub, report, log)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			s.processSubscription(ctx, sub, report, log)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *ReminderServiceImpl) processSubscription(ctx context.Context, sub *subscription.Subscription, report *RunReport, runLog *logrus.Entry) {
	log := runLog.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"service_name":    sub.ServiceName,
	})
	log.Info("Processing subscription")

	if sub.TenantID == "" {
		log.Warn("Could not resolve owning user for subscription. Skipping.")
		report.add(func(r *RunReport) { r.Skipped++ })
		return
	}
	log = log.WithField("tenant_id", sub.TenantID)

	tokens, err := s.deps.Devices.ListByTenant(ctx, sub.TenantID)
	if err != nil {
		log.WithError(err).Error("Failed to load notification tokens. Skipping.")
		report.add(func(r *RunReport) { r.Skipped++ })
		return
	}
	tokens = device.Dedupe(tokens)
	if len(tokens) == 0 {
		log.Warn("User has 0 notification tokens. Skipping.")
		report.add(func(r *RunReport) { r.Skipped++ })
		return
	}

	var claimedKey string
	if s.deps.Ledger != nil {
		key := notification.ReminderKey(sub.ID, sub.NextBillDate)
		claimed, err := s.deps.Ledger.Claim(ctx, key)
		switch {
		case err != nil:
			// Fail open.
			log.WithError(err).Warn("Reminder ledger unavailable, sending without duplicate check.")
		case !claimed:
			log.WithField("reminder_key", key).Info("Reminder already sent for this due date. Skipping.")
			report.add(func(r *RunReport) { r.Duplicates++ })
			return
		default:
			claimedKey = key
		}
	}

	body := s.opts.Composer.Body(sub)

	n := notification.NewReminder(sub.TenantID, body)
	recorded := true
	if err := s.deps.Notifications.Create(ctx, sub.TenantID, n); err != nil {
		recorded = false
		log.WithError(err).Error("Error saving notification record.")
		report.add(func(r *RunReport) { r.NotificationFailures++ })
	} else {
		report.add(func(r *RunReport) { r.NotificationsWritten++ })
	}

	result, err := s.deps.Push.SendMulticast(ctx, push.Message{
		Tokens: tokens,
		Title:  notification.ReminderTitle,
		Body:   body,
		Icon:   s.opts.Icon,
	})
	if err != nil {
		log.WithError(err).WithField("tokens", len(tokens)).Error("Error sending push to user.")
		report.add(func(r *RunReport) {
			r.PushFailures++
			r.Processed++
		})
		if !recorded && claimedKey != "" {
			s.releaseClaim(ctx, claimedKey, log)
		}
		return
	}

	for _, f := range result.Failures {
		log.WithError(f.Err).Debug("Push not delivered to one device token.")
	}
	log.WithFields(logrus.Fields{
		"tokens_ok":     result.SuccessCount,
		"tokens_failed": result.FailureCount,
	}).Info("Sent push to user.")
	report.add(func(r *RunReport) {
		r.PushesSent++
		r.Processed++
		r.TokensSucceeded += result.SuccessCount
		r.TokensFailed += result.FailureCount
	})
}

// releaseClaim undoes a ledger claim for a reminder that reached neither
// channel, so a same-day retry can still deliver it.
func (s *ReminderServiceImpl) releaseClaim(ctx context.Context, key string, log *logrus.Entry) {
	// The run context may already be done; the delete still has to go out.
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.deps.Ledger.Release(relCtx, key); err != nil {
		log.WithError(err).WithField("reminder_key", key).Error("Failed to release reminder claim. A retry today will skip it.")
		return
	}
	log.WithField("reminder_key", key).Info("Released reminder claim after both channels failed.")
}

// LastReport returns the report of the most recent finished run.
func (s *ReminderServiceImpl) LastReport() *RunReport {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.lastRun
}
