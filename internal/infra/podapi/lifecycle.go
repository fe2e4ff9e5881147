package podapi

import (
	"context"

	"podctl/internal/ports"
)

var _ ports.InstanceLifecycle = (*Lifecycle)(nil)

// Lifecycle adapts the API client to the stop-instance capability the tick
// executor consumes: resolve the alias, stop the pod behind it.
type Lifecycle struct {
	Aliases ports.AliasResolver
	Client  *Client
}

func (l *Lifecycle) StopInstance(ctx context.Context, target string) error {
	podID, err := l.Aliases.Resolve(target)
	if err != nil {
		return err
	}
	return l.Client.StopPod(ctx, podID)
}
