package ports

import (
	"context"
	"time"

	"podctl/internal/domain"
)

type TaskStore interface {
	Create(target string, action domain.Action, dueAt time.Time) (domain.Task, error)
	List() ([]domain.Task, error)
	Get(id string) (domain.Task, error)
	Update(id string, state domain.TaskState, result string) (domain.Task, error)
	DeleteTerminal() (int, error)
}

// InstanceLifecycle is the single capability the tick executor consumes:
// stop a pod identified by its alias, report success or failure.
type InstanceLifecycle interface {
	StopInstance(ctx context.Context, target string) error
}

// HostConfigurator removes a pod's managed SSH config block once the pod is
// stopped and its endpoint is gone.
type HostConfigurator interface {
	RemoveHost(alias string) error
}

// TriggerInstaller guarantees an OS-level periodic caller for the tick
// entry point. EnsureInstalled is idempotent; a changed interval updates
// the existing trigger in place.
type TriggerInstaller interface {
	EnsureInstalled(interval time.Duration) error
}

// AliasResolver maps a host alias to a pod id.
type AliasResolver interface {
	Resolve(alias string) (string, error)
}
