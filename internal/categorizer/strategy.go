package categorizer

import (
	"context"

	"fintrack/bank-import/internal/models"
)

// Match is the category chosen for a transaction.
type Match struct {
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
}

// Strategy is one way of categorizing a transaction (direct mapping, keywords, AI...).
//
// Categorize returns found=false when the strategy has no opinion. An error is logged
// by the Categorizer and the next strategy is tried.
type Strategy interface {
	Categorize(ctx context.Context, tx models.NormalizedTransaction) (Match, bool, error)
	Name() string
}
