package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"podctl/internal/domain"
	"podctl/internal/ports"
)

// Executor runs one due-task scan-and-execute cycle. It is invoked by the OS
// trigger (or manually) as a fresh process, so it carries no state between
// runs: everything it knows comes from the store, everything it learns goes
// back into it.
type Executor struct {
	Store       ports.TaskStore
	Lifecycle   ports.InstanceLifecycle
	Hosts       ports.HostConfigurator
	StopTimeout time.Duration
}

type Outcome struct {
	TaskID string           `json:"task_id"`
	Target string           `json:"target"`
	State  domain.TaskState `json:"state"`
	Detail string           `json:"detail,omitempty"`
}

type TickReport struct {
	Ran time.Time `json:"ran"`
	// Processed holds one outcome per due task this tick handled, in
	// execution order. Empty when nothing was due.
	Processed []Outcome `json:"processed"`
}

// RunTick executes every pending task whose due time is at or before now.
// Tasks run earliest-due first; one task's failure never blocks the rest. A
// task another invocation already transitioned is skipped, not re-executed.
func (e Executor) RunTick(ctx context.Context, now time.Time) (TickReport, error) {
	report := TickReport{Ran: now}

	tasks, err := e.Store.List()
	if err != nil {
		return report, err
	}

	var due []domain.Task
	for _, t := range tasks {
		if t.Due(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].ID < due[j].ID
	})

	for _, t := range due {
		outcome := e.execute(ctx, t, now)
		if outcome == nil {
			continue // lost the race to a concurrent tick
		}
		report.Processed = append(report.Processed, *outcome)
	}
	return report, nil
}

func (e Executor) execute(ctx context.Context, t domain.Task, now time.Time) *Outcome {
	// Re-read right before acting: a concurrent tick may have finished this
	// task while we were working through earlier ones.
	current, err := e.Store.Get(t.ID)
	if err != nil || current.State != domain.StatePending {
		return nil
	}

	state := domain.StateCompleted
	result := fmt.Sprintf("stopped %s at %s", t.Target, now.UTC().Format(time.RFC3339))

	if err := e.stopWithTimeout(ctx, t.Target); err != nil {
		state = domain.StateFailed
		result = err.Error()
		log.Ctx(ctx).Error().Err(err).Str("task", t.ID).Str("target", t.Target).Msg("scheduled stop failed")
	} else {
		if e.Hosts != nil {
			if err := e.Hosts.RemoveHost(t.Target); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("target", t.Target).Msg("could not remove ssh config block")
			}
		}
		log.Ctx(ctx).Info().Str("task", t.ID).Str("target", t.Target).Msg("scheduled stop completed")
	}

	if _, err := e.Store.Update(t.ID, state, result); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// Another invocation transitioned it first; its verdict stands.
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("task", t.ID).Msg("could not persist task outcome")
		return &Outcome{TaskID: t.ID, Target: t.Target, State: state, Detail: fmt.Sprintf("%s (not persisted: %v)", result, err)}
	}

	return &Outcome{TaskID: t.ID, Target: t.Target, State: state, Detail: result}
}

// stopWithTimeout bounds the collaborator call so a hung API request becomes
// a failed task instead of a wedged tick.
func (e Executor) stopWithTimeout(ctx context.Context, target string) error {
	timeout := e.StopTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Lifecycle.StopInstance(ctx, target) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("stopping %s: %w", target, ctx.Err())
	}
}
