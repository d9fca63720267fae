package models

// CategoryExpense holds the monthly spend of one category, oldest month first.
type CategoryExpense struct {
	Category       string    `json:"category"`
	MonthlyAmounts []float64 `json:"monthlyAmounts"`
}

// Confidence grades how stable a category's spend has been.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// BudgetSuggestion is a proposed monthly limit for a category without a budget.
type BudgetSuggestion struct {
	Category       string     `json:"category"`
	SuggestedLimit float64    `json:"suggestedLimit"`
	AverageSpend   float64    `json:"averageSpend"`
	MonthsOfData   int        `json:"monthsOfData"`
	Confidence     Confidence `json:"confidence"`
}

// TrendEntry is one aggregated (month, category) spend value. Month is "YYYY-MM".
type TrendEntry struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Budget is a monthly spending limit for a category.
type Budget struct {
	Category    string  `json:"category"`
	AmountLimit float64 `json:"amount_limit"`
}

// Trend is the month-over-month direction of a category.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// BudgetStatus compares average spend with a budget.
type BudgetStatus string

const (
	StatusExceeded BudgetStatus = "exceeded"
	StatusAtRisk   BudgetStatus = "at_risk"
	StatusOnTrack  BudgetStatus = "on_track"
	StatusNoBudget BudgetStatus = "no_budget"
)

// CategoryForecast is the per-category output of the forecast engine.
type CategoryForecast struct {
	Category        string       `json:"category"`
	AvgAmount       float64      `json:"avgAmount"`
	LastMonthAmount float64      `json:"lastMonthAmount"`
	Months          int          `json:"months"`
	Trend           Trend        `json:"trend"`
	BudgetLimit     *float64     `json:"budgetLimit"`
	Status          BudgetStatus `json:"status"`
}

// Anomaly is an expense unusually large compared to its category's history.
type Anomaly struct {
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	HistoricalAvg float64 `json:"historicalAvg"`
	Ratio         float64 `json:"ratio"`
}
