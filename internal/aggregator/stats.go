package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
)

// Strategy selects how the feed's stats bar is filled.
type Strategy string

const (
	// StrategyAuto asks the dedicated endpoint and falls back to client-side
	// computation when the backend does not expose it.
	StrategyAuto Strategy = "auto"
	// StrategyEndpoint only uses the dedicated endpoint.
	StrategyEndpoint Strategy = "endpoint"
	// StrategyFallback always computes client-side.
	StrategyFallback Strategy = "fallback"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyAuto, StrategyEndpoint, StrategyFallback:
		return st, nil
	case "":
		return StrategyAuto, nil
	default:
		return "", fmt.Errorf("unknown stats strategy %q", s)
	}
}

// StatsSource produces the feed's stats summary.
type StatsSource struct {
	stats    gateway.StatsService
	strategy Strategy
	logger   *slog.Logger
}

// NewStatsSource creates a StatsSource.
func NewStatsSource(stats gateway.StatsService, strategy Strategy, logger *slog.Logger) *StatsSource {
	if strategy == "" {
		strategy = StrategyAuto
	}
	return &StatsSource{stats: stats, strategy: strategy, logger: logger}
}

// Summary returns the current stats summary according to the strategy.
func (s *StatsSource) Summary(ctx context.Context) (*models.StatsSummary, error) {
	if s.strategy == StrategyFallback {
		return FallbackStats(ctx, s.stats)
	}

	global, err := s.stats.GlobalStats(ctx)
	if err == nil {
		summary := models.SummaryFromGlobal(*global)
		return &summary, nil
	}
	if s.strategy == StrategyAuto && errors.Is(err, gateway.ErrEndpointUnavailable) {
		s.logger.Debug("global stats endpoint unavailable, computing client-side")
		return FallbackStats(ctx, s.stats)
	}
	return nil, err
}

// FallbackStats is the client-side strategy: three listings joined into one
// summary, failing as a whole when any listing fails.
func FallbackStats(ctx context.Context, stats gateway.StatsService) (*models.StatsSummary, error) {
	summary, err := stats.ComputeStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("fallback stats: %w", err)
	}
	return summary, nil
}
