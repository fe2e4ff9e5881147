// Package sshconf edits the host blocks podctl manages in ~/.ssh/config.
// Managed blocks carry a marker comment so user-authored blocks are never
// touched.
package sshconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"podctl/internal/ports"
)

const markerPrefix = "# podctl:managed"

var hostLineRe = regexp.MustCompile(`^\s*Host\s+(.+)$`)

var _ ports.HostConfigurator = (*Manager)(nil)

type Manager struct {
	path string
}

func New(path string) *Manager {
	return &Manager{path: path}
}

type block struct {
	start   int
	end     int // exclusive
	hosts   []string
	managed bool
}

// UpsertHost writes (or rewrites) the managed block for alias pointing at the
// given endpoint. An unmanaged block with the same alias is replaced too,
// matching how the original block was created before a pod restart changed
// its endpoint.
func (m *Manager) UpsertHost(alias, podID, hostname string, port int) error {
	lines, err := m.readLines()
	if err != nil {
		return err
	}

	newBlock := []string{
		fmt.Sprintf("Host %s", alias),
		fmt.Sprintf("    %s alias=%s pod_id=%s updated=%s",
			markerPrefix, alias, podID, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("    HostName %s", hostname),
		"    User root",
		fmt.Sprintf("    Port %d", port),
		"    IdentitiesOnly yes",
		"    IdentityFile ~/.ssh/runpod",
	}

	for _, blk := range parseBlocks(lines) {
		if containsHost(blk.hosts, alias) {
			out := append([]string{}, lines[:blk.start]...)
			out = append(out, newBlock...)
			out = append(out, lines[blk.end:]...)
			return m.writeLines(out)
		}
	}

	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
		lines = append(lines, "")
	}
	lines = append(lines, newBlock...)
	return m.writeLines(lines)
}

// RemoveHost deletes the managed block for alias. Removing an alias that has
// no managed block is a no-op.
func (m *Manager) RemoveHost(alias string) error {
	_, err := m.removeWhere(func(blk block) bool {
		return blk.managed && containsHost(blk.hosts, alias)
	})
	return err
}

// Prune removes every managed block whose aliases are all absent from valid.
// Returns the number of blocks removed.
func (m *Manager) Prune(valid map[string]bool) (int, error) {
	return m.removeWhere(func(blk block) bool {
		if !blk.managed {
			return false
		}
		for _, h := range blk.hosts {
			if valid[h] {
				return false
			}
		}
		return true
	})
}

func (m *Manager) removeWhere(match func(block) bool) (int, error) {
	lines, err := m.readLines()
	if err != nil || len(lines) == 0 {
		return 0, err
	}

	removed := 0
	var out []string
	cur := 0
	for _, blk := range parseBlocks(lines) {
		if !match(blk) {
			continue
		}
		out = append(out, lines[cur:blk.start]...)
		cur = blk.end
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	out = append(out, lines[cur:]...)
	return removed, m.writeLines(out)
}

func parseBlocks(lines []string) []block {
	var blocks []block
	i := 0
	for i < len(lines) {
		m := hostLineRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		start := i
		i++
		for i < len(lines) && hostLineRe.FindStringSubmatch(lines[i]) == nil {
			i++
		}
		blk := block{start: start, end: i, hosts: strings.Fields(m[1])}
		for j := start + 1; j < i; j++ {
			if strings.HasPrefix(strings.TrimSpace(lines[j]), markerPrefix) {
				blk.managed = true
				break
			}
		}
		blocks = append(blocks, blk)
	}
	return blocks
}

func containsHost(hosts []string, alias string) bool {
	for _, h := range hosts {
		if h == alias {
			return true
		}
	}
	return false
}

func (m *Manager) readLines() ([]string, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ssh config: %w", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

func (m *Manager) writeLines(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return err
	}
	content := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(m.path, []byte(content), 0o600)
}
