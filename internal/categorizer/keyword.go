package categorizer

import (
	"context"
	"strings"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
)

// KeywordStrategy assigns the first rule whose keyword appears in the description.
// Rules are tried in file order.
type KeywordStrategy struct {
	rules  []Rule
	logger logging.Logger
}

// NewKeywordStrategy creates a keyword strategy over rules.
func NewKeywordStrategy(rules []Rule, logger logging.Logger) *KeywordStrategy {
	upper := make([]Rule, len(rules))
	for i, r := range rules {
		upper[i] = r
		upper[i].Keywords = make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				upper[i].Keywords = append(upper[i].Keywords, strings.ToUpper(k))
			}
		}
	}
	return &KeywordStrategy{rules: upper, logger: logging.OrDefault(logger)}
}

// Name returns the strategy name.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize matches keywords against the upper-cased description.
func (s *KeywordStrategy) Categorize(_ context.Context, tx models.NormalizedTransaction) (Match, bool, error) {
	description := strings.ToUpper(tx.Description)
	if strings.TrimSpace(description) == "" {
		return Match{}, false, nil
	}

	for _, rule := range s.rules {
		if rule.Type != "" && models.TransactionType(rule.Type) != tx.Type {
			continue
		}
		for _, keyword := range rule.Keywords {
			if !strings.Contains(description, keyword) {
				continue
			}
			s.logger.WithFields(
				logging.Field{Key: "strategy", Value: s.Name()},
				logging.Field{Key: "keyword", Value: keyword},
				logging.Field{Key: logging.FieldCategory, Value: rule.Category},
			).Debug("Transaction categorized using keyword matching")
			return Match{Category: rule.Category, Subcategory: rule.Subcategory}, true, nil
		}
	}
	return Match{}, false, nil
}
