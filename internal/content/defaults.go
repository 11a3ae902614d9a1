// Package content serves the site's bilingual copy: embedded defaults with
// optional overrides stored in the database.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Languages lists the top-level keys of a content document.
var Languages = []string{"fr", "en"}

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultsOnce sync.Once
	defaultsDoc  map[string]any
	defaultsErr  error
)

// Defaults returns a fresh copy of the embedded default content.
func Defaults() (map[string]any, error) {
	defaultsOnce.Do(func() {
		defaultsDoc, defaultsErr = parseDefaults(defaultsYAML)
	})
	if defaultsErr != nil {
		return nil, defaultsErr
	}
	return deepCopy(defaultsDoc).(map[string]any), nil
}

func parseDefaults(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse default content: %w", err)
	}
	normalized, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("default content is not a mapping")
	}
	for _, lang := range Languages {
		if _, ok := normalized[lang].(map[string]any); !ok {
			return nil, fmt.Errorf("default content missing language %q", lang)
		}
	}
	return normalized, nil
}

// normalize converts YAML's map[any]any nodes into map[string]any so the
// tree has the same shape as a decoded JSON document.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
