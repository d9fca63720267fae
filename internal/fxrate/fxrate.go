// Package fxrate serves currency exchange rates from a time-bounded cache.
package fxrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"fintrack/bank-import/internal/logging"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Defaults for Service.
const (
	DefaultTTL     = 6 * time.Hour
	DefaultBaseURL = "https://api.frankfurter.app"
)

// ErrInvalidCurrency is returned for codes that are not three ASCII letters.
var ErrInvalidCurrency = errors.New("invalid currency code")

// Cache is one cached rate and when it was fetched.
type Cache struct {
	Value     decimal.Decimal
	FetchedAt time.Time
}

// Fresh reports whether the value is younger than ttl at now.
func (c Cache) Fresh(now time.Time, ttl time.Duration) bool {
	return !c.FetchedAt.IsZero() && now.Sub(c.FetchedAt) < ttl
}

// Rate is the answer of Service.Rate.
type Rate struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Value     decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
	Fallback  bool            `json:"fallback"`
}

// Fetcher retrieves a live rate.
type Fetcher interface {
	Fetch(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Service returns cached rates, refetching them once older than the TTL. When a
// fetch fails it serves the stale value, then the configured fallback rate.
type Service struct {
	fetcher  Fetcher
	ttl      time.Duration
	fallback decimal.Decimal
	rates    *cache.Cache
	mu       sync.Mutex
	logger   logging.Logger
	now      func() time.Time
}

// NewService creates a Service. A zero fallback disables the fallback path.
func NewService(fetcher Fetcher, ttl time.Duration, fallback decimal.Decimal, logger logging.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		fetcher:  fetcher,
		ttl:      ttl,
		fallback: fallback,
		rates:    cache.New(cache.NoExpiration, 0),
		logger:   logging.OrDefault(logger),
		now:      time.Now,
	}
}

// Rate returns the from→to exchange rate.
func (s *Service) Rate(ctx context.Context, from, to string) (Rate, error) {
	from, to = strings.ToUpper(strings.TrimSpace(from)), strings.ToUpper(strings.TrimSpace(to))
	if !validCode(from) || !validCode(to) {
		return Rate{}, fmt.Errorf("%w: %q/%q", ErrInvalidCurrency, from, to)
	}
	if from == to {
		return Rate{From: from, To: to, Value: decimal.NewFromInt(1), FetchedAt: s.now()}, nil
	}

	key := from + "/" + to
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cached, hasCached := s.cached(key)
	if hasCached && cached.Fresh(now, s.ttl) {
		return Rate{From: from, To: to, Value: cached.Value, FetchedAt: cached.FetchedAt}, nil
	}

	value, err := s.fetcher.Fetch(ctx, from, to)
	if err == nil {
		entry := Cache{Value: value, FetchedAt: now}
		s.rates.Set(key, entry, cache.NoExpiration)
		return Rate{From: from, To: to, Value: value, FetchedAt: now}, nil
	}

	logger := s.logger.WithError(err).WithField("pair", key)
	if hasCached {
		logger.Warn("Exchange rate fetch failed, serving stale rate")
		return Rate{From: from, To: to, Value: cached.Value, FetchedAt: cached.FetchedAt, Stale: true}, nil
	}
	if s.fallback.IsPositive() {
		logger.Warn("Exchange rate fetch failed, serving fallback rate")
		return Rate{From: from, To: to, Value: s.fallback, Fallback: true}, nil
	}
	return Rate{}, fmt.Errorf("failed to fetch rate %s: %w", key, err)
}

func (s *Service) cached(key string) (Cache, bool) {
	v, ok := s.rates.Get(key)
	if !ok {
		return Cache{}, false
	}
	return v.(Cache), true
}

func validCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// HTTPFetcher reads rates from a Frankfurter-compatible API
// (GET {base}/latest?from=EUR&to=USD → {"rates":{"USD":1.08}}).
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for baseURL (DefaultBaseURL when empty).
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type latestResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	q := url.Values{"from": {from}, "to": {to}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate api returned %s", resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}
	raw, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, errors.New("rate missing from response")
	}
	value, err := decimal.NewFromString(raw.String())
	if err != nil || !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid rate %q", raw)
	}
	return value, nil
}
