package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/config"
	"github.com/yourusername/wallstreet-backtest/internal/metrics"
)

const polygonSourceName = "polygon"

// PolygonClient implements PriceSource against the Polygon daily-aggregates
// API. One network request per lookup, serialized through the rate-limited
// client; resolved closes are memoized per (ticker, date) because benchmark
// dates repeat across trades in the same run.
type PolygonClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        config.ProviderConfig
	cache      *cache.Cache
	logger     logrus.FieldLogger
	warnNoKey  sync.Once
}

// aggsResponse is the provider's envelope for a range query. Only the first
// bar's close on or after the requested start date is used.
type aggsResponse struct {
	Ticker       string     `json:"ticker"`
	Status       string     `json:"status"`
	ResultsCount int        `json:"resultsCount"`
	Results      []PriceBar `json:"results"`
}

// NewPolygonClient creates a new Polygon price source. An empty API key
// yields a disabled client whose lookups all resolve as absent.
func NewPolygonClient(httpClient *RateLimitedHTTPClient, cfg config.ProviderConfig, logger logrus.FieldLogger) *PolygonClient {
	ttl := cfg.CacheTTL()
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &PolygonClient{
		httpClient: httpClient,
		cfg:        cfg,
		cache:      cache.New(ttl, ttl*2),
		logger:     logger.WithField("component", polygonSourceName),
	}
}

// Name returns the name of the price source
func (c *PolygonClient) Name() string {
	return polygonSourceName
}

// IsEnabled returns whether this price source holds a credential
func (c *PolygonClient) IsEnabled() bool {
	return c.cfg.HasCredentials()
}

// FetchClose returns the closing price of ticker on or just after target.
// It searches a fixed forward calendar window to handle weekends and
// holidays. Any failure resolves as None after a warning; lookups are never
// retried within a run.
func (c *PolygonClient) FetchClose(ctx context.Context, ticker string, target time.Time) optional.Option[float64] {
	if !c.IsEnabled() {
		c.warnNoKey.Do(func() {
			err := NewDataSourceError(polygonSourceName, ErrCodeMissingCredential, "API key not set, skipping all price fetches", nil)
			c.logger.Warn(err.Error())
		})
		metrics.RecordPriceLookup(metrics.LookupDisabled)
		return optional.None[float64]()
	}

	key := cacheKey(ticker, target)
	if cached, found := c.cache.Get(key); found {
		metrics.RecordPriceLookup(metrics.LookupCacheHit)
		if px, ok := cached.(float64); ok {
			return optional.Some(px)
		}
		return optional.None[float64]()
	}

	started := time.Now()
	px, err := c.fetchFirstClose(ctx, ticker, target)
	metrics.RecordPriceLookupLatency(time.Since(started).Seconds())
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"ticker": ticker,
			"date":   target.Format("2006-01-02"),
		}).Warnf("Price lookup failed: %v", err)
		metrics.RecordPriceLookup(metrics.LookupError)
		return optional.None[float64]()
	}

	if px.IsNone() {
		c.logger.WithFields(logrus.Fields{
			"ticker": ticker,
			"date":   target.Format("2006-01-02"),
		}).Warn("No close available in forward window")
		metrics.RecordPriceLookup(metrics.LookupAbsent)
		return px
	}

	c.cache.SetDefault(key, px.Unwrap())
	metrics.RecordPriceLookup(metrics.LookupOK)

	return px
}

// fetchFirstClose issues the single range request for a lookup.
func (c *PolygonClient) fetchFirstClose(ctx context.Context, ticker string, target time.Time) (optional.Option[float64], error) {
	windowEnd := target.AddDate(0, 0, c.cfg.ForwardWindowDays)
	url := fmt.Sprintf("%s?adjusted=true&sort=asc&limit=5&apiKey=%s", c.cfg.AggsURL(ticker, target, windowEnd), c.cfg.APIKey)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return optional.None[float64](), NewDataSourceError(polygonSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return optional.None[float64](), NewDataSourceError(polygonSourceName, ErrCodeAuthenticationFailed, "credential rejected", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return optional.None[float64](), NewDataSourceError(polygonSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return optional.None[float64](), NewDataSourceError(polygonSourceName, ErrCodeNotFound, fmt.Sprintf("no such ticker %s", ticker), nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return optional.None[float64](), NewDataSourceError(polygonSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var aggs aggsResponse
	if err := json.NewDecoder(resp.Body).Decode(&aggs); err != nil {
		return optional.None[float64](), NewDataSourceError(polygonSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	if len(aggs.Results) == 0 {
		return optional.None[float64](), nil
	}

	return optional.Some(aggs.Results[0].Close), nil
}

func cacheKey(ticker string, target time.Time) string {
	return ticker + ":" + target.Format("2006-01-02")
}
