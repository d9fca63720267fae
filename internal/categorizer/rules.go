package categorizer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fintrack/bank-import/internal/models"

	"gopkg.in/yaml.v3"
)

// Rule maps description keywords to a category. Type optionally restricts the rule
// to income or expense transactions.
type Rule struct {
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Keywords    []string `yaml:"keywords"`
}

// Rules is the content of a categories.yaml file.
//
//	mappings:
//	  "PRLV SEPA EDF": Logement
//	categories:
//	  - category: Alimentation
//	    keywords: [CARREFOUR, LIDL]
type Rules struct {
	Mappings   map[string]string `yaml:"mappings"`
	Categories []Rule            `yaml:"categories"`
}

// LoadRules reads a YAML rules file. A missing file yields empty rules.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return Rules{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Rules{}, nil
		}
		return Rules{}, fmt.Errorf("error reading rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates YAML rules.
func ParseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("error parsing rules: %w", err)
	}
	for i, r := range rules.Categories {
		if strings.TrimSpace(r.Category) == "" {
			return Rules{}, fmt.Errorf("rule %d has no category", i)
		}
		if r.Type != "" && !models.TransactionType(r.Type).Valid() {
			return Rules{}, fmt.Errorf("rule %q has invalid type %q", r.Category, r.Type)
		}
	}
	return rules, nil
}
