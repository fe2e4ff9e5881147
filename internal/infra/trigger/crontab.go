package trigger

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"podctl/internal/ports"
)

// Managed crontab entries end with this tag so upserts never touch lines the
// user wrote themselves.
const crontabTag = "# podctl:scheduler"

var _ ports.TriggerInstaller = (*crontabInstaller)(nil)

type crontabInstaller struct {
	executable string
	logPath    string
}

func (c *crontabInstaller) EnsureInstalled(interval time.Duration) error {
	spec := cronSpec(interval)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("building cron spec for %s: %w", interval, err)
	}

	line := crontabLine(spec, c.executable, c.logPath)

	existing, err := readCrontab()
	if err != nil {
		return err
	}
	updated, changed := upsertLine(existing, line)
	if !changed {
		return nil
	}
	if err := writeCrontab(updated); err != nil {
		return fmt.Errorf("installing crontab entry: %w", err)
	}

	log.Info().
		Str("spec", spec).
		Time("next", schedule.Next(time.Now())).
		Msg("scheduler crontab entry installed")
	return nil
}

// cronSpec renders an interval as a standard five-field cron expression.
// Cron cannot express every duration, so the mapping is lossy: anything
// below a minute runs every minute, intervals above an hour round down to
// whole hours, and a day or more collapses to once daily at midnight.
func cronSpec(interval time.Duration) string {
	minutes := int(interval.Minutes())
	switch {
	case minutes <= 1:
		return "* * * * *"
	case minutes < 60:
		return fmt.Sprintf("*/%d * * * *", minutes)
	default:
		hours := minutes / 60
		if hours >= 24 {
			return "0 0 * * *"
		}
		return fmt.Sprintf("0 */%d * * *", hours)
	}
}

func crontabLine(spec, executable, logPath string) string {
	return fmt.Sprintf("%s %s tick >> %s 2>&1 %s", spec, executable, logPath, crontabTag)
}

// upsertLine replaces any previously managed line with the new one, keeping
// the rest of the crontab untouched. Reports whether anything changed.
func upsertLine(crontab []string, line string) ([]string, bool) {
	var out []string
	found := false
	changed := false
	for _, l := range crontab {
		if !strings.HasSuffix(strings.TrimSpace(l), crontabTag) {
			out = append(out, l)
			continue
		}
		if found {
			// Duplicate managed line from an older version; drop it.
			changed = true
			continue
		}
		found = true
		if l != line {
			changed = true
		}
		out = append(out, line)
	}
	if !found {
		out = append(out, line)
		changed = true
	}
	return out, changed
}

func readCrontab() ([]string, error) {
	out, err := exec.Command("crontab", "-l").Output()
	if err != nil {
		// `crontab -l` exits non-zero when the user has no crontab yet.
		if _, ok := err.(*exec.ExitError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("reading crontab: %w", err)
	}
	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func writeCrontab(lines []string) error {
	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
