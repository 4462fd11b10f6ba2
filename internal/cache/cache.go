// Package cache memoizes projections keyed on their inputs and sample.
// A cached projection is indistinguishable from a freshly computed one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/rgehrsitz/bia/internal/domain"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store persists projections by key.
type Store interface {
	Get(ctx context.Context, key string) ([]domain.SimulationResult, error)
	Set(ctx context.Context, key string, results []domain.SimulationResult) error
}

// Key derives a stable identifier for a projection request.
func Key(inputs domain.SimulationInputs, sample []domain.Member) (string, error) {
	payload, err := json.Marshal(struct {
		Inputs domain.SimulationInputs `json:"inputs"`
		Sample []domain.Member         `json:"sample"`
	}{inputs, sample})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return "bia:projection:" + hex.EncodeToString(sum[:]), nil
}

func cloneResults(results []domain.SimulationResult) []domain.SimulationResult {
	if results == nil {
		return nil
	}
	out := make([]domain.SimulationResult, len(results))
	copy(out, results)
	return out
}
