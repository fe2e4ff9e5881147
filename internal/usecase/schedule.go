package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"podctl/internal/domain"
	"podctl/internal/ports"
	"podctl/internal/timespec"
)

// Scheduler records future stop requests and makes sure something will come
// back to execute them.
type Scheduler struct {
	Store        ports.TaskStore
	Trigger      ports.TriggerInstaller
	TickInterval time.Duration
}

// ResolveDueTime parses at (absolute) or in (relative duration) against now.
// Exactly one of the two must be set.
func (s Scheduler) ResolveDueTime(at, in string, now time.Time) (time.Time, error) {
	if (at == "") == (in == "") {
		return time.Time{}, fmt.Errorf("%w: exactly one of --at and --in is required", domain.ErrInvalidTimeSpec)
	}
	if at != "" {
		return timespec.ParseAt(at, now)
	}
	d, err := timespec.ParseIn(in)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(d).UTC(), nil
}

// ScheduleStop records a pending stop task for target at the instant the
// at/in expression resolves to. Trigger installation problems are reported
// as warnings, never as failures: a task that exists without a trigger beats
// a trigger without a task.
func (s Scheduler) ScheduleStop(target, at, in string, now time.Time) (domain.Task, error) {
	dueAt, err := s.ResolveDueTime(at, in, now)
	if err != nil {
		return domain.Task{}, err
	}

	task, err := s.Store.Create(target, domain.ActionStop, dueAt)
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.Trigger.EnsureInstalled(s.TickInterval); err != nil {
		if errors.Is(err, domain.ErrUnsupportedPlatform) {
			log.Warn().Msg("no OS scheduler on this platform; run `podctl tick` periodically yourself")
		} else {
			log.Warn().Err(err).Msg("could not install the scheduler trigger; the task is recorded but will not fire on its own")
		}
	}

	return task, nil
}

// Cancel moves a still-pending task to cancelled. Cancelling a task that has
// already completed, failed or been cancelled is an invalid transition.
func (s Scheduler) Cancel(id string) (domain.Task, error) {
	return s.Store.Update(id, domain.StateCancelled, "cancelled by user")
}

// Clean removes every task in a terminal state and returns how many went.
func (s Scheduler) Clean() (int, error) {
	return s.Store.DeleteTerminal()
}

// List returns all tasks in stable creation order.
func (s Scheduler) List() ([]domain.Task, error) {
	return s.Store.List()
}
