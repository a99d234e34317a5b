package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/model"
)

// Refresher re-selects the current range so its series ends on today.
type Refresher interface {
	Current() string
	Refresh() (model.Selection, error)
}

// FailureRecorder counts failed refreshes.
type FailureRecorder interface {
	RecordSelectionFailure(rangeID, outcome string)
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Failures  FailureRecorder
}

// NewScheduler creates a Scheduler whose specs carry a seconds field and are
// evaluated in loc.
func NewScheduler(r Refresher, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Refresher: r,
	}
}

// RegisterRollover registers the day-rollover refresh.
func (s *Scheduler) RegisterRollover(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.rollover); err != nil {
		return fmt.Errorf("register rollover task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunRolloverNow executes the rollover immediately.
func (s *Scheduler) RunRolloverNow() {
	s.rollover()
}

func (s *Scheduler) rollover() {
	sel, err := s.Refresher.Refresh()
	if err != nil {
		log.WithError(err).Error("rollover refresh failed")
		if s.Failures != nil {
			s.Failures.RecordSelectionFailure(s.Refresher.Current(), "rollover_error")
		}
		return
	}
	last, _ := sel.Series.Last()
	log.WithFields(log.Fields{
		"range":     sel.Range.ID,
		"last_date": last.Date.String(),
		"event_id":  sel.EventID,
	}).Info("rollover refreshed selection")
}
