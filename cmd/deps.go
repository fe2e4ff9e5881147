package cmd

import (
	"path/filepath"

	"podctl/internal/config"
	"podctl/internal/infra/podapi"
	"podctl/internal/infra/taskstore"
	"podctl/internal/infra/trigger"
	"podctl/internal/registry"
	"podctl/internal/sshconf"
	"podctl/internal/usecase"
)

// app wires the concrete pieces a command needs. Each CLI invocation builds
// everything fresh; durable state lives only in the config dir.
type app struct {
	cfg       *config.Config
	store     *taskstore.Store
	aliases   *registry.Aliases
	templates *registry.Templates
	client    *podapi.Client
	hosts     *sshconf.Manager
}

func newApp() *app {
	cfg := config.Load()
	return &app{
		cfg:       cfg,
		store:     taskstore.New(cfg.SchedulePath()),
		aliases:   registry.NewAliases(cfg.PodsPath()),
		templates: registry.NewTemplates(cfg.TemplatesPath()),
		client:    podapi.New(cfg.API),
		hosts:     sshconf.New(cfg.SSHConfigPath()),
	}
}

func (a *app) scheduler() usecase.Scheduler {
	logPath := filepath.Join(a.cfg.Scheduler.ConfigDir, "scheduler.log")
	return usecase.Scheduler{
		Store:        a.store,
		Trigger:      trigger.New(logPath),
		TickInterval: a.cfg.Scheduler.TickInterval,
	}
}

func (a *app) executor() usecase.Executor {
	return usecase.Executor{
		Store:       a.store,
		Lifecycle:   &podapi.Lifecycle{Aliases: a.aliases, Client: a.client},
		Hosts:       a.hosts,
		StopTimeout: a.cfg.Scheduler.StopTimeout,
	}
}
