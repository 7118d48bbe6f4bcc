package overrides

import (
	"context"
	"fmt"

	"github.com/username/production-calendar/internal/calendar"
	"go.uber.org/zap"
)

// CompositeProvider implements calendar.OverridesProvider with fallback strategy
// Primary: usually a remote source (consultant.ru, isdayoff.ru)
// Fallback: usually a local file
type CompositeProvider struct {
	primary  calendar.OverridesProvider
	fallback calendar.OverridesProvider
	logger   *zap.Logger
}

// NewCompositeProvider creates a new CompositeProvider
func NewCompositeProvider(primary, fallback calendar.OverridesProvider, logger *zap.Logger) *CompositeProvider {
	return &CompositeProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Name implements calendar.OverridesProvider
func (cp *CompositeProvider) Name() string {
	return cp.primary.Name() + "+" + cp.fallback.Name()
}

// FetchOverrides implements calendar.OverridesProvider
func (cp *CompositeProvider) FetchOverrides(ctx context.Context, year int) ([]calendar.Day, error) {
	// Try primary first
	days, err := cp.primary.FetchOverrides(ctx, year)
	if err == nil {
		return days, nil
	}

	cp.logger.Warn("Primary provider failed, falling back",
		zap.String("primary", cp.primary.Name()),
		zap.String("fallback", cp.fallback.Name()),
		zap.Int("year", year),
		zap.Error(err))

	days, fallbackErr := cp.fallback.FetchOverrides(ctx, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: %s=%w, %s=%w",
			cp.primary.Name(), err, cp.fallback.Name(), fallbackErr)
	}

	cp.logger.Info("Using fallback overrides",
		zap.String("fallback", cp.fallback.Name()),
		zap.Int("year", year))

	return days, nil
}
