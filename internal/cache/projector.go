package cache

import (
	"context"
	"errors"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
)

// CachedProjector memoizes ProjectionEngine.RunProjection. Invalid inputs,
// empty samples and overflowing projections are never cached, and store
// failures fall back to computing.
type CachedProjector struct {
	engine *calculation.ProjectionEngine
	store  Store
}

// NewCachedProjector wraps engine with store. A nil engine uses the default
// engine; a nil store disables caching.
func NewCachedProjector(engine *calculation.ProjectionEngine, store Store) *CachedProjector {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &CachedProjector{engine: engine, store: store}
}

// RunProjection returns the cached projection for (inputs, sample) or computes it.
func (cp *CachedProjector) RunProjection(ctx context.Context, inputs domain.SimulationInputs, sample []domain.Member) ([]domain.SimulationResult, error) {
	if err := cp.engine.ValidateInputs(inputs); err != nil {
		return nil, err
	}
	if len(sample) == 0 {
		return nil, domain.ErrEmptyPopulation
	}
	if cp.store == nil {
		return cp.compute(inputs, sample)
	}

	key, err := Key(inputs, sample)
	if err != nil {
		cp.engine.Logger.Warnf("cache key: %v", err)
		return cp.compute(inputs, sample)
	}

	cached, err := cp.store.Get(ctx, key)
	switch {
	case err == nil && len(cached) == domain.ProjectionYears:
		cp.engine.Logger.Debugf("cache hit %s", key)
		return cached, nil
	case err != nil && !errors.Is(err, ErrMiss):
		cp.engine.Logger.Warnf("cache get: %v", err)
	}

	results, err := cp.compute(inputs, sample)
	if err != nil {
		return nil, err
	}
	if err := cp.store.Set(ctx, key, cloneResults(results)); err != nil {
		cp.engine.Logger.Warnf("cache set: %v", err)
	}
	return results, nil
}

// compute runs the engine and rejects results that overflowed.
func (cp *CachedProjector) compute(inputs domain.SimulationInputs, sample []domain.Member) ([]domain.SimulationResult, error) {
	results, err := cp.engine.RunProjection(inputs, sample)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Totals(results, inputs.TargetPopulationSize); err != nil {
		return nil, err
	}
	return results, nil
}
