// Package categorizer assigns a spending category to normalized transactions.
//
// Strategies are tried in order: exact description mappings, YAML keyword rules and,
// when enabled, a Gemini model. Unmatched expenses fall back to "Autres" and unmatched
// income to "Revenus".
package categorizer

import (
	"context"
	"sort"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
)

// Categorizer runs strategies in order until one matches.
type Categorizer struct {
	strategies []Strategy
	direct     *DirectMappingStrategy
	logger     logging.Logger
}

// New creates a Categorizer over strategies.
func New(logger logging.Logger, strategies ...Strategy) *Categorizer {
	c := &Categorizer{strategies: strategies, logger: logging.OrDefault(logger)}
	for _, s := range strategies {
		if d, ok := s.(*DirectMappingStrategy); ok {
			c.direct = d
			break
		}
	}
	return c
}

// NewFromRules builds the default strategy chain from rules. ai may be nil.
func NewFromRules(rules Rules, ai TextGenerator, logger logging.Logger) *Categorizer {
	logger = logging.OrDefault(logger)
	strategies := []Strategy{
		NewDirectMappingStrategy(rules.Mappings, logger),
		NewKeywordStrategy(rules.Categories, logger),
	}
	if ai != nil {
		strategies = append(strategies, NewAIStrategy(ai, rules.CategoryNames(), logger))
	}
	return New(logger, strategies...)
}

// Categorize returns the category for tx. It never fails: strategy errors are logged
// and the default category is used.
func (c *Categorizer) Categorize(ctx context.Context, tx models.NormalizedTransaction) Match {
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			break
		}
		m, found, err := s.Categorize(ctx, tx)
		if err != nil {
			c.logger.WithError(err).WithField("strategy", s.Name()).Warn("Categorization strategy failed")
			continue
		}
		if found && m.Category != "" {
			if _, isAI := s.(*AIStrategy); isAI && c.direct != nil {
				c.direct.Learn(tx.Description, m.Category)
			}
			return m
		}
	}
	return Default(tx)
}

// CategorizeAll categorizes txs, keeping their order, and stamps them with currency.
func (c *Categorizer) CategorizeAll(ctx context.Context, txs []models.NormalizedTransaction, currency string) []models.CategorizedTransaction {
	out := make([]models.CategorizedTransaction, 0, len(txs))
	for _, tx := range txs {
		m := c.Categorize(ctx, tx)
		out = append(out, models.CategorizedTransaction{
			NormalizedTransaction: tx,
			Category:              m.Category,
			Subcategory:           m.Subcategory,
			Currency:              currency,
		})
	}
	return out
}

// Default is the category used when no strategy matches.
func Default(tx models.NormalizedTransaction) Match {
	if tx.IsIncome() {
		return Match{Category: models.CategoryIncome}
	}
	return Match{Category: models.CategoryOther}
}

// CategoryNames returns the distinct categories named by the rules, in first-seen order.
func (r Rules) CategoryNames() []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, rule := range r.Categories {
		add(rule.Category)
	}
	mapped := make([]string, 0, len(r.Mappings))
	for _, category := range r.Mappings {
		mapped = append(mapped, category)
	}
	sort.Strings(mapped)
	for _, category := range mapped {
		add(category)
	}
	add(models.CategoryOther)
	return names
}
