package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// TextGenerator produces a text completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is a TextGenerator backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator opens a Gemini client for model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0)
	return &GeminiGenerator{client: client, model: m}, nil
}

// Generate sends prompt and returns the text of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from gemini api")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// AIStrategy asks a language model to pick one of the known categories.
// Answers outside the allowed list are ignored.
type AIStrategy struct {
	generator  TextGenerator
	categories []string
	logger     logging.Logger
}

// NewAIStrategy creates an AI strategy restricted to categories.
func NewAIStrategy(generator TextGenerator, categories []string, logger logging.Logger) *AIStrategy {
	return &AIStrategy{generator: generator, categories: categories, logger: logging.OrDefault(logger)}
}

// Name returns the strategy name.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Categorize prompts the model and validates its answer.
func (s *AIStrategy) Categorize(ctx context.Context, tx models.NormalizedTransaction) (Match, bool, error) {
	if s.generator == nil || len(s.categories) == 0 || strings.TrimSpace(tx.Description) == "" {
		return Match{}, false, nil
	}

	answer, err := s.generator.Generate(ctx, s.prompt(tx))
	if err != nil {
		return Match{}, false, err
	}

	category := extractCategory(answer)
	for _, known := range s.categories {
		if strings.EqualFold(known, category) {
			s.logger.WithFields(
				logging.Field{Key: "strategy", Value: s.Name()},
				logging.Field{Key: logging.FieldCategory, Value: known},
			).Debug("Transaction categorized using AI")
			return Match{Category: known}, true, nil
		}
	}

	s.logger.WithFields(
		logging.Field{Key: "strategy", Value: s.Name()},
		logging.Field{Key: "ai_category", Value: category},
	).Debug("AI returned an unknown category")
	return Match{}, false, nil
}

func (s *AIStrategy) prompt(tx models.NormalizedTransaction) string {
	return fmt.Sprintf(`Categorize the following bank transaction.
Description: %s
Amount: %s
Type: %s
Date: %s

Choose exactly one of these categories: %s

Respond in this format:
Category: [category name]`,
		tx.Description, tx.Amount.StringFixed(2), tx.Type, tx.Date, strings.Join(s.categories, ", "))
}

func extractCategory(answer string) string {
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Category:"); ok {
			return strings.Trim(strings.TrimSpace(rest), "[]*\"")
		}
	}
	return strings.Trim(strings.TrimSpace(answer), "[]*\".")
}
