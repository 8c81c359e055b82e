package cron

import (
	"context"
	"time"

	rosterService "github.com/medirota/roster-backend-go/internal/service/roster"
)

// RosterJobs wires the generation sweep into the scheduler. Periods flagged
// auto_generate whose start date has arrived are generated without an
// operator touching anything.
type RosterJobs struct {
	rosterSvc *rosterService.RosterService
	interval  time.Duration
}

func NewRosterJobs(rosterSvc *rosterService.RosterService, interval time.Duration) *RosterJobs {
	return &RosterJobs{rosterSvc: rosterSvc, interval: interval}
}

func (j *RosterJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("generate_due_periods", j.interval, j.GenerateDuePeriods)
}

func (j *RosterJobs) GenerateDuePeriods(ctx context.Context) error {
	return j.rosterSvc.GenerateDuePeriods(ctx)
}
