package trigger

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"

	"podctl/internal/ports"
)

const launchdLabel = "com.podctl.scheduler"

var _ ports.TriggerInstaller = (*launchdInstaller)(nil)

type launchdInstaller struct {
	executable string
	logPath    string
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.Executable}}</string>
		<string>tick</string>
	</array>
	<key>StartInterval</key>
	<integer>{{.Interval}}</integer>
	<key>RunAtLoad</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.LogPath}}</string>
	<key>StandardErrorPath</key>
	<string>{{.LogPath}}</string>
</dict>
</plist>
`))

func (l *launchdInstaller) EnsureInstalled(interval time.Duration) error {
	seconds := int(interval.Seconds())
	if seconds < 1 {
		seconds = 60
	}

	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, map[string]any{
		"Label":      launchdLabel,
		"Executable": l.executable,
		"Interval":   seconds,
		"LogPath":    l.logPath,
	})
	if err != nil {
		return err
	}

	plistPath := filepath.Join(xdg.Home, "Library", "LaunchAgents", launchdLabel+".plist")

	existing, readErr := os.ReadFile(plistPath)
	upToDate := readErr == nil && bytes.Equal(existing, buf.Bytes())

	if !upToDate {
		if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
			return fmt.Errorf("creating LaunchAgents dir: %w", err)
		}
		if err := os.WriteFile(plistPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing launchd plist: %w", err)
		}
	}

	uid := os.Getuid()
	labelPath := fmt.Sprintf("gui/%d/%s", uid, launchdLabel)
	loaded := exec.Command("launchctl", "print", labelPath).Run() == nil

	switch {
	case !upToDate && loaded:
		// Reload to pick up the new plist.
		_ = exec.Command("launchctl", "bootout", labelPath).Run()
		if err := exec.Command("launchctl", "bootstrap", fmt.Sprintf("gui/%d", uid), plistPath).Run(); err != nil {
			return fmt.Errorf("reloading launchd agent: %w", err)
		}
	case !loaded:
		if err := exec.Command("launchctl", "bootstrap", fmt.Sprintf("gui/%d", uid), plistPath).Run(); err != nil {
			return fmt.Errorf("loading launchd agent: %w", err)
		}
	default:
		return nil
	}

	// Kickstart so the first tick runs promptly instead of a full interval out.
	_ = exec.Command("launchctl", "kickstart", "-k", labelPath).Run()

	log.Info().Str("label", launchdLabel).Int("interval_s", seconds).Msg("scheduler launchd agent installed")
	return nil
}
