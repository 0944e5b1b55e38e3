package app

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application-level errors for the operator service
var ErrOperatorNotAuthorized = errors.New("performing user is not authorized as the operator")
var ErrNoRunYet = errors.New("no reminder run has finished since startup")

type AdminService struct {
	reminders  ReminderService
	operatorID int64
	clock      func() time.Time
}

func NewAdminService(reminders ReminderService, operatorID int64) *AdminService {
	return &AdminService{
		reminders:  reminders,
		operatorID: operatorID,
		clock:      time.Now,
	}
}

// RunNow triggers an out-of-schedule reminder run on behalf of the operator.
// A failed scan still returns the report alongside the error.
func (s *AdminService) RunNow(ctx context.Context, performingID int64) (*RunReport, error) {
	if performingID != s.operatorID {
		return nil, ErrOperatorNotAuthorized
	}

	report, err := s.reminders.Run(ctx, s.clock())
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			return nil, err
		}
		return report, fmt.Errorf("manual reminder run failed: %w", err)
	}
	return report, nil
}

// LastRun returns the report of the most recent finished run.
func (s *AdminService) LastRun(performingID int64) (*RunReport, error) {
	if performingID != s.operatorID {
		return nil, ErrOperatorNotAuthorized
	}
	report := s.reminders.LastReport()
	if report == nil {
		return nil, ErrNoRunYet
	}
	return report, nil
}
