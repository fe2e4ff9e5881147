// Package trigger installs the OS-level periodic caller that invokes
// `podctl tick`. The engine itself has no resident process; whatever the
// platform offers (launchd, cron) re-runs the tick entry point on a fixed
// interval.
package trigger

import (
	"os"
	"runtime"
	"time"

	"podctl/internal/domain"
	"podctl/internal/ports"
)

// New picks the installer for the current platform. On platforms without a
// usable scheduler integration the returned installer fails with
// ErrUnsupportedPlatform, which callers must surface as a warning.
func New(logPath string) ports.TriggerInstaller {
	exe, err := os.Executable()
	if err != nil {
		exe = "podctl"
	}
	switch runtime.GOOS {
	case "darwin":
		return &launchdInstaller{executable: exe, logPath: logPath}
	case "linux":
		return &crontabInstaller{executable: exe, logPath: logPath}
	default:
		return unsupportedInstaller{}
	}
}

type unsupportedInstaller struct{}

func (unsupportedInstaller) EnsureInstalled(time.Duration) error {
	return domain.ErrUnsupportedPlatform
}
