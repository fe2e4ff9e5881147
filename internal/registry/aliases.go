// Package registry keeps the alias-to-pod-id map and the pod templates,
// both plain JSON files under the config dir.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"podctl/internal/domain"
	"podctl/internal/ports"
)

var _ ports.AliasResolver = (*Aliases)(nil)

type Aliases struct {
	path string
}

func NewAliases(path string) *Aliases {
	return &Aliases{path: path}
}

func (a *Aliases) Resolve(alias string) (string, error) {
	m, err := a.loadMap()
	if err != nil {
		return "", err
	}
	id, ok := m[alias]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownAlias, alias)
	}
	return id, nil
}

func (a *Aliases) All() (map[string]string, error) {
	return a.loadMap()
}

// NextAlias substitutes 1, 2, ... for the {i} placeholder in aliasTemplate
// and returns the first result no registered alias uses.
func (a *Aliases) NextAlias(aliasTemplate string) (string, error) {
	if !strings.Contains(aliasTemplate, "{i}") {
		return "", fmt.Errorf("alias template %q must contain an {i} placeholder", aliasTemplate)
	}
	m, err := a.loadMap()
	if err != nil {
		return "", err
	}
	for i := 1; ; i++ {
		alias := strings.ReplaceAll(aliasTemplate, "{i}", strconv.Itoa(i))
		if _, exists := m[alias]; !exists {
			return alias, nil
		}
	}
}

// Names returns all aliases in sorted order.
func (a *Aliases) Names() ([]string, error) {
	m, err := a.loadMap()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m))
	for alias := range m {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names, nil
}

// Add registers alias -> podID. An existing alias is only overwritten when
// force is set.
func (a *Aliases) Add(alias, podID string, force bool) error {
	m, err := a.loadMap()
	if err != nil {
		return err
	}
	if _, exists := m[alias]; exists && !force {
		return fmt.Errorf("alias %q already exists (use --force to overwrite)", alias)
	}
	m[alias] = podID
	return a.saveMap(m)
}

func (a *Aliases) Delete(alias string, missingOK bool) error {
	m, err := a.loadMap()
	if err != nil {
		return err
	}
	if _, exists := m[alias]; !exists {
		if missingOK {
			return nil
		}
		return fmt.Errorf("%w: %s", domain.ErrUnknownAlias, alias)
	}
	delete(m, alias)
	return a.saveMap(m)
}

func (a *Aliases) loadMap() (map[string]string, error) {
	data, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading alias registry: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing alias registry %s: %w", a.path, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func (a *Aliases) saveMap(m map[string]string) error {
	return writeJSON(a.path, m)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
