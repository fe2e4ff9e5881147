package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Template captures a reusable pod shape: "create me another alex-ast box".
type Template struct {
	Identifier    string `json:"identifier"`
	AliasTemplate string `json:"alias_template"`
	GPUSpec       string `json:"gpu_spec"`
	StorageSpec   string `json:"storage_spec"`
	Image         string `json:"image,omitempty"`
}

type Templates struct {
	path string
}

func NewTemplates(path string) *Templates {
	return &Templates{path: path}
}

func (t *Templates) Get(identifier string) (Template, error) {
	m, err := t.loadMap()
	if err != nil {
		return Template{}, err
	}
	tpl, ok := m[identifier]
	if !ok {
		return Template{}, fmt.Errorf("unknown template: %s", identifier)
	}
	return tpl, nil
}

func (t *Templates) List() ([]Template, error) {
	m, err := t.loadMap()
	if err != nil {
		return nil, err
	}
	out := make([]Template, 0, len(m))
	for _, tpl := range m {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

func (t *Templates) Create(tpl Template, force bool) error {
	if _, _, err := ParseGPUSpec(tpl.GPUSpec); err != nil {
		return err
	}
	if _, err := ParseStorageSpec(tpl.StorageSpec); err != nil {
		return err
	}
	if !strings.Contains(tpl.AliasTemplate, "{i}") {
		return fmt.Errorf("alias template %q must contain an {i} placeholder", tpl.AliasTemplate)
	}
	m, err := t.loadMap()
	if err != nil {
		return err
	}
	if _, exists := m[tpl.Identifier]; exists && !force {
		return fmt.Errorf("template %q already exists (use --force to overwrite)", tpl.Identifier)
	}
	m[tpl.Identifier] = tpl
	return writeJSON(t.path, m)
}

func (t *Templates) Delete(identifier string, missingOK bool) error {
	m, err := t.loadMap()
	if err != nil {
		return err
	}
	if _, exists := m[identifier]; !exists {
		if missingOK {
			return nil
		}
		return fmt.Errorf("unknown template: %s", identifier)
	}
	delete(m, identifier)
	return writeJSON(t.path, m)
}

func (t *Templates) loadMap() (map[string]Template, error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	var m map[string]Template
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", t.path, err)
	}
	if m == nil {
		m = map[string]Template{}
	}
	return m, nil
}

var gpuSpecRe = regexp.MustCompile(`^(\d+)x(.+)$`)

// ParseGPUSpec splits a spec like "2xA100" into count and upper-cased model.
func ParseGPUSpec(spec string) (int, string, error) {
	m := gpuSpecRe.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return 0, "", fmt.Errorf("invalid GPU spec %q (expected e.g. 2xA100)", spec)
	}
	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 {
		return 0, "", fmt.Errorf("invalid GPU count in %q", spec)
	}
	return count, strings.ToUpper(m[2]), nil
}

// ParseStorageSpec converts a size like "500GB" or "1TiB" into whole GB.
// Anything under 10GB is rejected.
func ParseStorageSpec(spec string) (int, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(spec), " ", ""))

	var num string
	var factor float64
	switch {
	case strings.HasSuffix(s, "GIB"):
		num, factor = strings.TrimSuffix(s, "GIB"), 1.074
	case strings.HasSuffix(s, "TIB"):
		num, factor = strings.TrimSuffix(s, "TIB"), 1024
	case strings.HasSuffix(s, "GB"):
		num, factor = strings.TrimSuffix(s, "GB"), 1
	case strings.HasSuffix(s, "TB"):
		num, factor = strings.TrimSuffix(s, "TB"), 1000
	default:
		return 0, fmt.Errorf("invalid storage spec %q (expected e.g. 500GB, 1TiB)", spec)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid storage spec %q: bad number", spec)
	}
	gb := int(math.Round(value * factor))
	if gb < 10 {
		return 0, fmt.Errorf("storage spec %q is below the 10GB minimum", spec)
	}
	return gb, nil
}
