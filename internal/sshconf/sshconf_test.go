package sshconf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, initial string) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if initial != "" {
		if err := os.WriteFile(path, []byte(initial), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return New(path)
}

func read(t *testing.T, m *Manager) string {
	t.Helper()
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatal(err)
	}
	return string(data)
}

func TestUpsertHostCreatesBlock(t *testing.T) {
	m := newTestManager(t, "")
	if err := m.UpsertHost("gpu-1", "pod123", "1.2.3.4", 2222); err != nil {
		t.Fatalf("UpsertHost: %v", err)
	}
	got := read(t, m)
	for _, want := range []string{"Host gpu-1", markerPrefix, "HostName 1.2.3.4", "Port 2222"} {
		if !strings.Contains(got, want) {
			t.Errorf("config missing %q:\n%s", want, got)
		}
	}
}

func TestUpsertHostReplacesExistingBlock(t *testing.T) {
	m := newTestManager(t, "")
	if err := m.UpsertHost("gpu-1", "pod123", "1.2.3.4", 2222); err != nil {
		t.Fatal(err)
	}
	if err := m.UpsertHost("gpu-1", "pod123", "5.6.7.8", 40022); err != nil {
		t.Fatal(err)
	}
	got := read(t, m)
	if strings.Contains(got, "1.2.3.4") {
		t.Errorf("stale endpoint survived:\n%s", got)
	}
	if strings.Count(got, "Host gpu-1") != 1 {
		t.Errorf("duplicate block:\n%s", got)
	}
	if !strings.Contains(got, "HostName 5.6.7.8") || !strings.Contains(got, "Port 40022") {
		t.Errorf("new endpoint missing:\n%s", got)
	}
}

func TestRemoveHostLeavesUserBlocks(t *testing.T) {
	initial := strings.Join([]string{
		"Host myserver",
		"    HostName example.com",
		"    User me",
		"",
	}, "\n")
	m := newTestManager(t, initial)
	if err := m.UpsertHost("gpu-1", "pod123", "1.2.3.4", 2222); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveHost("gpu-1"); err != nil {
		t.Fatalf("RemoveHost: %v", err)
	}
	got := read(t, m)
	if strings.Contains(got, "gpu-1") {
		t.Errorf("managed block survived:\n%s", got)
	}
	if !strings.Contains(got, "Host myserver") || !strings.Contains(got, "HostName example.com") {
		t.Errorf("user block damaged:\n%s", got)
	}
}

func TestRemoveHostIgnoresUnmanagedBlock(t *testing.T) {
	initial := strings.Join([]string{
		"Host gpu-1",
		"    HostName handwritten.example.com",
		"",
	}, "\n")
	m := newTestManager(t, initial)

	if err := m.RemoveHost("gpu-1"); err != nil {
		t.Fatalf("RemoveHost: %v", err)
	}
	if !strings.Contains(read(t, m), "handwritten.example.com") {
		t.Error("unmanaged block with matching alias was removed")
	}
}

func TestRemoveHostMissingIsNoop(t *testing.T) {
	m := newTestManager(t, "")
	if err := m.RemoveHost("ghost"); err != nil {
		t.Fatalf("RemoveHost on empty config: %v", err)
	}
}

func TestPrune(t *testing.T) {
	m := newTestManager(t, "")
	for _, alias := range []string{"keep-me", "stale-1", "stale-2"} {
		if err := m.UpsertHost(alias, "pod-"+alias, "1.2.3.4", 22); err != nil {
			t.Fatal(err)
		}
	}

	pruned, err := m.Prune(map[string]bool{"keep-me": true})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}
	got := read(t, m)
	if !strings.Contains(got, "Host keep-me") {
		t.Errorf("valid block pruned:\n%s", got)
	}
	if strings.Contains(got, "stale-1") || strings.Contains(got, "stale-2") {
		t.Errorf("stale blocks survived:\n%s", got)
	}
}
