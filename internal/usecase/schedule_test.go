package usecase

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"podctl/internal/domain"
	"podctl/internal/infra/taskstore"
)

type fakeTrigger struct {
	installed []time.Duration
	err       error
}

func (f *fakeTrigger) EnsureInstalled(interval time.Duration) error {
	f.installed = append(f.installed, interval)
	return f.err
}

func newScheduleFixture(t *testing.T) (Scheduler, *fakeTrigger) {
	t.Helper()
	trig := &fakeTrigger{}
	s := Scheduler{
		Store:        taskstore.New(filepath.Join(t.TempDir(), "schedule.json")),
		Trigger:      trig,
		TickInterval: time.Minute,
	}
	return s, trig
}

func TestScheduleStopRelative(t *testing.T) {
	s, trig := newScheduleFixture(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	task, err := s.ScheduleStop("pod-a", "", "1h", now)
	if err != nil {
		t.Fatalf("ScheduleStop: %v", err)
	}
	if !task.DueAt.Equal(now.Add(time.Hour)) {
		t.Errorf("due at %v, want %v", task.DueAt, now.Add(time.Hour))
	}
	if task.State != domain.StatePending {
		t.Errorf("state = %s, want pending", task.State)
	}
	if len(trig.installed) != 1 || trig.installed[0] != time.Minute {
		t.Errorf("trigger installs = %v, want one at 1m", trig.installed)
	}
}

func TestScheduleStopAbsolute(t *testing.T) {
	s, _ := newScheduleFixture(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	task, err := s.ScheduleStop("pod-a", "22:00", "", now)
	if err != nil {
		t.Fatalf("ScheduleStop: %v", err)
	}
	want := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	if !task.DueAt.Equal(want) {
		t.Errorf("due at %v, want %v", task.DueAt, want)
	}
}

func TestScheduleStopRequiresExactlyOneSpec(t *testing.T) {
	s, _ := newScheduleFixture(t)
	now := time.Now()

	for _, tc := range []struct{ at, in string }{{"", ""}, {"22:00", "1h"}} {
		if _, err := s.ScheduleStop("pod-a", tc.at, tc.in, now); !errors.Is(err, domain.ErrInvalidTimeSpec) {
			t.Errorf("at=%q in=%q: expected ErrInvalidTimeSpec, got %v", tc.at, tc.in, err)
		}
	}
}

func TestScheduleStopBadSpecCreatesNothing(t *testing.T) {
	s, trig := newScheduleFixture(t)

	if _, err := s.ScheduleStop("pod-a", "nonsense", "", time.Now()); !errors.Is(err, domain.ErrInvalidTimeSpec) {
		t.Fatalf("expected ErrInvalidTimeSpec, got %v", err)
	}
	tasks, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("bad spec still created %d task(s)", len(tasks))
	}
	if len(trig.installed) != 0 {
		t.Error("trigger installed despite parse failure")
	}
}

func TestScheduleStopSurvivesTriggerFailure(t *testing.T) {
	s, trig := newScheduleFixture(t)
	trig.err = domain.ErrUnsupportedPlatform

	task, err := s.ScheduleStop("pod-a", "", "30m", time.Now())
	if err != nil {
		t.Fatalf("ScheduleStop: %v", err)
	}
	got, err := s.Store.Get(task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != domain.StatePending {
		t.Errorf("task not recorded despite trigger failure: %+v", got)
	}
}

func TestCancelPending(t *testing.T) {
	s, _ := newScheduleFixture(t)

	task, err := s.ScheduleStop("pod-a", "", "1h", time.Now())
	if err != nil {
		t.Fatalf("ScheduleStop: %v", err)
	}
	cancelled, err := s.Cancel(task.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.State != domain.StateCancelled {
		t.Errorf("state = %s, want cancelled", cancelled.State)
	}
}

func TestCancelCompletedFails(t *testing.T) {
	s, _ := newScheduleFixture(t)

	task, err := s.ScheduleStop("pod-a", "", "1h", time.Now())
	if err != nil {
		t.Fatalf("ScheduleStop: %v", err)
	}
	if _, err := s.Store.Update(task.ID, domain.StateCompleted, "stopped"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := s.Cancel(task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	got, _ := s.Store.Get(task.ID)
	if got.State != domain.StateCompleted || got.Result != "stopped" {
		t.Errorf("completed task changed by failed cancel: %+v", got)
	}
}

func TestCancelUnknown(t *testing.T) {
	s, _ := newScheduleFixture(t)
	if _, err := s.Cancel("nope"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestCleanRemovesTerminalOnly(t *testing.T) {
	s, _ := newScheduleFixture(t)
	now := time.Now()

	pending, _ := s.ScheduleStop("keep", "", "1h", now)
	a, _ := s.ScheduleStop("a", "", "1h", now)
	b, _ := s.ScheduleStop("b", "", "1h", now)
	c, _ := s.ScheduleStop("c", "", "1h", now)
	_, _ = s.Store.Update(a.ID, domain.StateCompleted, "")
	_, _ = s.Store.Update(b.ID, domain.StateCompleted, "")
	_, _ = s.Store.Update(c.ID, domain.StateFailed, "boom")

	removed, err := s.Clean()
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	tasks, _ := s.List()
	if len(tasks) != 1 || tasks[0].ID != pending.ID {
		t.Errorf("unexpected survivors: %+v", tasks)
	}
}
