package trigger

import (
	"strings"
	"testing"
	"time"
)

func TestCronSpec(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     string
	}{
		{30 * time.Second, "* * * * *"},
		{time.Minute, "* * * * *"},
		{5 * time.Minute, "*/5 * * * *"},
		{time.Hour, "0 */1 * * *"},
		{90 * time.Minute, "0 */1 * * *"},
		{6 * time.Hour, "0 */6 * * *"},
		{24 * time.Hour, "0 0 * * *"},
		{48 * time.Hour, "0 0 * * *"},
	}
	for _, tt := range tests {
		if got := cronSpec(tt.interval); got != tt.want {
			t.Errorf("cronSpec(%v) = %q, want %q", tt.interval, got, tt.want)
		}
	}
}

func TestUpsertLineInstallsOnce(t *testing.T) {
	line := crontabLine("* * * * *", "/usr/local/bin/podctl", "/tmp/tick.log")

	out, changed := upsertLine(nil, line)
	if !changed {
		t.Error("first install reported no change")
	}
	if len(out) != 1 || out[0] != line {
		t.Fatalf("out = %v", out)
	}

	// Same line again: idempotent.
	out, changed = upsertLine(out, line)
	if changed {
		t.Error("re-install of identical line reported a change")
	}
	if len(out) != 1 {
		t.Errorf("duplicate managed line created: %v", out)
	}
}

func TestUpsertLineUpdatesInterval(t *testing.T) {
	old := crontabLine("* * * * *", "/usr/local/bin/podctl", "/tmp/tick.log")
	updated := crontabLine("*/5 * * * *", "/usr/local/bin/podctl", "/tmp/tick.log")
	user := "0 3 * * * /home/me/backup.sh"

	out, changed := upsertLine([]string{user, old}, updated)
	if !changed {
		t.Error("interval change reported no change")
	}
	if len(out) != 2 {
		t.Fatalf("out = %v", out)
	}
	if out[0] != user {
		t.Errorf("user line was touched: %q", out[0])
	}
	if out[1] != updated {
		t.Errorf("managed line not updated: %q", out[1])
	}
}

func TestUpsertLineDropsDuplicates(t *testing.T) {
	line := crontabLine("* * * * *", "/usr/local/bin/podctl", "/tmp/tick.log")
	stale := crontabLine("*/9 * * * *", "/old/podctl", "/tmp/tick.log")

	out, changed := upsertLine([]string{stale, stale}, line)
	if !changed {
		t.Error("expected change")
	}
	count := 0
	for _, l := range out {
		if strings.HasSuffix(l, crontabTag) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("managed lines = %d, want 1: %v", count, out)
	}
}
