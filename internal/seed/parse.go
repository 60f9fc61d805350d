// Package seed loads recipe fixtures from YAML or JSON files into the collection.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/dishhub/internal/models"
	"gopkg.in/yaml.v3"
)

// fixture is the on-disk form. Steps, when present, replace Instructions.
type fixture struct {
	models.Recipe `yaml:",inline"`
	Steps         []string `yaml:"steps"`
}

func (f fixture) recipe() models.Recipe {
	r := f.Recipe
	if len(f.Steps) > 0 {
		r.Instructions = strings.Join(f.Steps, "\n")
	}
	r.Normalize()
	return r
}

// ParseFile reads path and returns the recipes it holds. A file may contain a
// single recipe or a list. The format follows the extension: .json is JSON,
// anything else is YAML.
func ParseFile(path string) ([]models.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var recipes []models.Recipe
	if strings.EqualFold(filepath.Ext(path), ".json") {
		recipes, err = parseJSON(data)
	} else {
		recipes, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	for i, r := range recipes {
		if r.Title == "" {
			return nil, fmt.Errorf("%s: recipe %d: %w: title", filepath.Base(path), i, models.ErrMissingField)
		}
	}
	return recipes, nil
}

func parseJSON(data []byte) ([]models.Recipe, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.Recipe{}, nil
	}
	if trimmed[0] == '[' {
		var recipes []models.Recipe
		if err := json.Unmarshal(trimmed, &recipes); err != nil {
			return nil, err
		}
		return recipes, nil
	}
	var r models.Recipe
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, err
	}
	return []models.Recipe{r}, nil
}

func parseYAML(data []byte) ([]models.Recipe, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return []models.Recipe{}, nil
	}
	root := doc.Content[0]

	var fixtures []fixture
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&fixtures); err != nil {
			return nil, err
		}
	} else {
		var f fixture
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}

	recipes := make([]models.Recipe, len(fixtures))
	for i, f := range fixtures {
		recipes[i] = f.recipe()
	}
	return recipes, nil
}
