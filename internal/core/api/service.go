// Package api exposes chance evaluation over gRPC and holds the service layer
// shared with the HTTP control API.
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/solatis/chancekeeper/internal/core/cache"
	"github.com/solatis/chancekeeper/internal/core/db"
	"github.com/solatis/chancekeeper/internal/core/metrics"
	"github.com/solatis/chancekeeper/internal/naming"
	"github.com/solatis/chancekeeper/internal/rules"
	"github.com/solatis/chancekeeper/internal/types"
)

// Store is the persistence the service depends on. *db.ChanceStore
// implements it.
type Store interface {
	Put(ctx context.Context, name string, c *rules.Chance) (*db.StoredChance, error)
	Get(ctx context.Context, name string) (*db.StoredChance, error)
	List(ctx context.Context) ([]*db.StoredChance, error)
	Delete(ctx context.Context, name string) error
}

// ChanceService resolves chances through the cache and store and evaluates
// them. Writes go to the store and invalidate the cached definition.
type ChanceService struct {
	store Store
	cache *cache.ChanceCache

	// mu orders cache fills against writes. writes counts completed writes;
	// a fill is dropped when a write finished while its read was in flight.
	mu     sync.Mutex
	writes uint64
}

// NewChanceService creates service instance with dependencies.
func NewChanceService(store Store, c *cache.ChanceCache) (*ChanceService, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	return &ChanceService{store: store, cache: c}, nil
}

// Chance returns the decoded chance stored under name, reading through the
// cache.
func (s *ChanceService) Chance(ctx context.Context, name string) (*rules.Chance, error) {
	key := naming.Key(name)
	if key == "" {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidChanceName, name)
	}

	if c, ok := s.cache.Get(key); ok {
		return c, nil
	}

	s.mu.Lock()
	writes := s.writes
	s.mu.Unlock()

	stored, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.writes == writes {
		s.cache.Set(key, stored.Chance)
	}
	s.mu.Unlock()
	return stored.Chance, nil
}

// invalidate drops key from the cache after a write and discards fills that
// read the store before it.
func (s *ChanceService) invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.cache.Invalidate(key)
}

// Evaluate computes the factor of the chance stored under name for evalCtx.
func (s *ChanceService) Evaluate(ctx context.Context, name string, evalCtx types.Context) (rules.Result, error) {
	c, err := s.Chance(ctx, name)
	if err != nil {
		if errors.Is(err, types.ErrChanceNotFound) {
			metrics.EvaluationsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		}
		return rules.Result{}, err
	}

	start := time.Now()
	result, err := c.Evaluate(evalCtx)
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return rules.Result{}, fmt.Errorf("chance %s: %w", naming.Key(name), err)
	}

	metrics.EvaluationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.ModifiersApplied.Add(float64(result.AppliedCount()))
	return result, nil
}

// Put stores c under name and drops any cached copy.
func (s *ChanceService) Put(ctx context.Context, name string, c *rules.Chance) (*db.StoredChance, error) {
	stored, err := s.store.Put(ctx, name, c)
	if err != nil {
		return nil, err
	}
	s.invalidate(stored.Name)
	return stored, nil
}

// Get returns the stored chance with its metadata, bypassing the cache.
func (s *ChanceService) Get(ctx context.Context, name string) (*db.StoredChance, error) {
	return s.store.Get(ctx, name)
}

// List returns every stored chance.
func (s *ChanceService) List(ctx context.Context) ([]*db.StoredChance, error) {
	return s.store.List(ctx)
}

// Delete removes the chance stored under name and drops any cached copy.
func (s *ChanceService) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.invalidate(naming.Key(name))
	return nil
}
