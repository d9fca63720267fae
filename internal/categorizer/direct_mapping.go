package categorizer

import (
	"context"
	"strings"
	"sync"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
)

// DirectMappingStrategy matches the whole description, case-insensitively, against
// known descriptions.
type DirectMappingStrategy struct {
	mu       sync.RWMutex
	mappings map[string]string
	logger   logging.Logger
}

// NewDirectMappingStrategy creates a strategy seeded with description to category mappings.
func NewDirectMappingStrategy(mappings map[string]string, logger logging.Logger) *DirectMappingStrategy {
	s := &DirectMappingStrategy{
		mappings: make(map[string]string, len(mappings)),
		logger:   logging.OrDefault(logger),
	}
	for description, category := range mappings {
		s.mappings[mappingKey(description)] = category
	}
	return s
}

// Name returns the strategy name.
func (s *DirectMappingStrategy) Name() string {
	return "DirectMapping"
}

// Categorize looks the description up in the mapping table.
func (s *DirectMappingStrategy) Categorize(_ context.Context, tx models.NormalizedTransaction) (Match, bool, error) {
	key := mappingKey(tx.Description)
	if key == "" {
		return Match{}, false, nil
	}

	s.mu.RLock()
	category, ok := s.mappings[key]
	s.mu.RUnlock()
	if !ok {
		return Match{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: "strategy", Value: s.Name()},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Transaction categorized using direct mapping")
	return Match{Category: category}, true, nil
}

// Learn records a mapping so later imports of the same description skip slower strategies.
func (s *DirectMappingStrategy) Learn(description, category string) {
	key := mappingKey(description)
	if key == "" || category == "" {
		return
	}
	s.mu.Lock()
	s.mappings[key] = category
	s.mu.Unlock()
}

// Len returns the number of known mappings.
func (s *DirectMappingStrategy) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings)
}

func mappingKey(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}
