// Package taskstore persists scheduled tasks in a single JSON document.
//
// Every invocation of the CLI is a fresh process, so the file is the only
// source of truth. Mutations run a load-modify-replace cycle under an
// exclusive advisory lock: two overlapping invocations (e.g. a manual tick
// racing the periodic one) serialize on the lock, and the loser observes the
// winner's transition instead of repeating it.
package taskstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"podctl/internal/domain"
	"podctl/internal/ports"
)

var _ ports.TaskStore = (*Store)(nil)

type Store struct {
	path string
	lock *flock.Flock
}

type document struct {
	Tasks map[string]domain.Task `json:"tasks"`
}

func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *Store) Create(target string, action domain.Action, dueAt time.Time) (domain.Task, error) {
	task := domain.Task{
		ID:        uuid.NewString(),
		Target:    target,
		Action:    action,
		DueAt:     dueAt.UTC(),
		State:     domain.StatePending,
		CreatedAt: time.Now().UTC(),
	}
	err := s.mutate(func(doc *document) error {
		for {
			if _, exists := doc.Tasks[task.ID]; !exists {
				break
			}
			task.ID = uuid.NewString()
		}
		doc.Tasks[task.ID] = task
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *Store) List() ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.read(func(doc *document) error {
		tasks = make([]domain.Task, 0, len(doc.Tasks))
		for _, t := range doc.Tasks {
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Stable creation order; ids break ties for tasks created the same instant.
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (s *Store) Get(id string) (domain.Task, error) {
	var task domain.Task
	err := s.read(func(doc *document) error {
		t, ok := doc.Tasks[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		task = t
		return nil
	})
	return task, err
}

// Update transitions a task out of pending. It is the only mutation path
// besides Create; a task already in a terminal state is never overwritten.
func (s *Store) Update(id string, state domain.TaskState, result string) (domain.Task, error) {
	var task domain.Task
	err := s.mutate(func(doc *document) error {
		t, ok := doc.Tasks[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		if t.State.Terminal() {
			return fmt.Errorf("%w: %s is %s", domain.ErrInvalidTransition, id, t.State)
		}
		t.State = state
		t.Result = result
		doc.Tasks[id] = t
		task = t
		return nil
	})
	return task, err
}

func (s *Store) DeleteTerminal() (int, error) {
	removed := 0
	err := s.mutate(func(doc *document) error {
		for id, t := range doc.Tasks {
			if t.State != domain.StatePending {
				delete(doc.Tasks, id)
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Store) read(fn func(*document) error) error {
	// The lock file lives next to the store; make sure its dir exists first.
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("locking schedule store: %w", err)
	}
	defer s.lock.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *Store) mutate(fn func(*document) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking schedule store: %w", err)
	}
	defer s.lock.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) load() (*document, error) {
	doc := &document{Tasks: map[string]domain.Task{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading schedule store: %w", err)
	}

	var raw struct {
		Tasks map[string]domain.Task `json:"tasks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing schedule store %s: %w", s.path, err)
	}
	for id, t := range raw.Tasks {
		t.ID = id
		doc.Tasks[id] = t
	}
	return doc, nil
}

// save writes the whole document to a temp file and renames it over the
// store, so an interrupted write never leaves a half-written store behind.
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing schedule store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing schedule store: %w", err)
	}
	return nil
}
