package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileRepo is a TemplateRepository backed by a directory of questionnaire
// definitions authored in YAML or JSON. Templates load once at construction
// and are immutable afterwards, so the repo is safe for concurrent reads.
type FileRepo struct {
	templates map[string]*Template
	order     []string
}

// NewFileRepo loads every *.yaml, *.yml and *.json file under dir. A file
// that fails to decode, a template without questions, or a duplicate
// template id fails construction: broken authoring should surface at
// startup, not at scoring time.
func NewFileRepo(dir string) (*FileRepo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	repo := &FileRepo{templates: make(map[string]*Template)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}
		tmpl, err := DecodeTemplate(data, ext)
		if err != nil {
			return nil, fmt.Errorf("decode template %s: %w", entry.Name(), err)
		}
		if tmpl.ID == "" {
			tmpl.ID = strings.TrimSuffix(entry.Name(), ext)
		}
		if len(tmpl.Questions) == 0 {
			return nil, fmt.Errorf("template %s: no questions defined", tmpl.ID)
		}
		if _, exists := repo.templates[tmpl.ID]; exists {
			return nil, fmt.Errorf("duplicate template id %q (%s)", tmpl.ID, entry.Name())
		}
		repo.templates[tmpl.ID] = tmpl
		repo.order = append(repo.order, tmpl.ID)
	}
	sort.Strings(repo.order)
	return repo, nil
}

// DecodeTemplate parses a template definition. format is the file
// extension (".json", ".yaml" or ".yml").
func DecodeTemplate(data []byte, format string) (*Template, error) {
	var tmpl Template
	switch strings.ToLower(format) {
	case ".json":
		if err := json.Unmarshal(data, &tmpl); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return nil, err
		}
	}
	return &tmpl, nil
}

func (r *FileRepo) GetByID(_ context.Context, id string) (*Template, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tmpl, nil
}

func (r *FileRepo) List(_ context.Context, limit, offset int) ([]*Template, int, error) {
	total := len(r.order)
	if offset >= total {
		return []*Template{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	result := make([]*Template, 0, end-offset)
	for _, id := range r.order[offset:end] {
		result = append(result, r.templates[id])
	}
	return result, total, nil
}
