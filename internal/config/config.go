package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"

	"log"
)

type Config struct {
	API       API
	Scheduler Scheduler
}

type API struct {
	BaseURL string        `env:"PODCTL_API_URL" envDefault:"https://rest.runpod.io/v1"`
	Key     string        `env:"PODCTL_API_KEY"`
	Timeout time.Duration `env:"PODCTL_API_TIMEOUT" envDefault:"30s"`
}

type Scheduler struct {
	ConfigDir    string        `env:"PODCTL_CONFIG_DIR"`
	TickInterval time.Duration `env:"PODCTL_TICK_INTERVAL" envDefault:"1m"`
	StopTimeout  time.Duration `env:"PODCTL_STOP_TIMEOUT" envDefault:"60s"`
}

func Load() *Config {
	var c Config
	if err := env.Parse(&c); err != nil {
		log.Fatal(err)
	}

	if c.Scheduler.ConfigDir == "" {
		c.Scheduler.ConfigDir = filepath.Join(xdg.ConfigHome, "podctl")
	}
	if c.API.Key == "" {
		c.API.Key = readKeyFile(c.KeyPath())
	}

	return &c
}

func (c *Config) SchedulePath() string  { return filepath.Join(c.Scheduler.ConfigDir, "schedule.json") }
func (c *Config) PodsPath() string      { return filepath.Join(c.Scheduler.ConfigDir, "pods.json") }
func (c *Config) TemplatesPath() string { return filepath.Join(c.Scheduler.ConfigDir, "templates.json") }
func (c *Config) KeyPath() string       { return filepath.Join(c.Scheduler.ConfigDir, "api_key") }

func (c *Config) SSHConfigPath() string {
	return filepath.Join(xdg.Home, ".ssh", "config")
}

func readKeyFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
