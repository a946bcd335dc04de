package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solatis/chancekeeper/internal/naming"
	"github.com/solatis/chancekeeper/internal/rules"
	"github.com/solatis/chancekeeper/internal/types"
)

// chanceRecord is a row of the chances table.
// Timestamps are scanned as text so SQLite TEXT and PostgreSQL TIMESTAMPTZ
// columns share one code path.
type chanceRecord struct {
	ID         string `db:"chance_id"`
	Name       string `db:"name"`
	Definition string `db:"definition"`
	Cost       int    `db:"cost"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

// StoredChance is a decoded chance definition with its store metadata.
type StoredChance struct {
	ID        types.ChanceID
	Name      string
	Chance    *rules.Chance
	Cost      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChanceStore persists chance definitions as canonical JSON, keyed by
// normalized name.
type ChanceStore struct {
	q        *Queries
	registry *rules.Registry
	now      func() time.Time
}

// NewChanceStore returns a store decoding definitions with registry, or with
// the default registry when registry is nil.
func NewChanceStore(q *Queries, registry *rules.Registry) *ChanceStore {
	if registry == nil {
		registry = rules.Default()
	}
	return &ChanceStore{q: q, registry: registry, now: time.Now}
}

// Put creates or replaces the chance stored under name. The definition is
// re-decoded before writing, so anything stored can be read back.
func (s *ChanceStore) Put(ctx context.Context, name string, c *rules.Chance) (*StoredChance, error) {
	key := naming.Key(name)
	if key == "" {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidChanceName, name)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: nil chance", types.ErrSerialization)
	}

	definition, err := c.MarshalJSON()
	if err != nil {
		return nil, err
	}
	canonical, err := s.registry.ParseChance(definition)
	if err != nil {
		return nil, fmt.Errorf("chance %s: %w", key, err)
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.q.Exec(ctx, "upsert-chance",
		string(types.NewChanceID()), key, string(definition), canonical.Cost(), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to store chance %s: %w", key, err)
	}

	return s.Get(ctx, key)
}

// Get returns the chance stored under name, or an error wrapping
// ErrChanceNotFound.
func (s *ChanceStore) Get(ctx context.Context, name string) (*StoredChance, error) {
	key := naming.Key(name)

	var rec chanceRecord
	err := s.q.Get(ctx, "get-chance-by-name", &rec, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrChanceNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chance %s: %w", key, err)
	}

	return s.decode(rec)
}

// List returns every stored chance ordered by name.
func (s *ChanceStore) List(ctx context.Context) ([]*StoredChance, error) {
	var recs []chanceRecord
	if err := s.q.Select(ctx, "list-chances", &recs); err != nil {
		return nil, fmt.Errorf("failed to list chances: %w", err)
	}

	out := make([]*StoredChance, 0, len(recs))
	for _, rec := range recs {
		sc, err := s.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Delete removes the chance stored under name, or returns an error wrapping
// ErrChanceNotFound.
func (s *ChanceStore) Delete(ctx context.Context, name string) error {
	key := naming.Key(name)

	res, err := s.q.Exec(ctx, "delete-chance-by-name", key)
	if err != nil {
		return fmt.Errorf("failed to delete chance %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete chance %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrChanceNotFound, key)
	}
	return nil
}

func (s *ChanceStore) decode(rec chanceRecord) (*StoredChance, error) {
	c, err := s.registry.ParseChance([]byte(rec.Definition))
	if err != nil {
		return nil, fmt.Errorf("stored chance %s: %w", rec.Name, err)
	}

	createdAt, err := parseTimestamp(rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("stored chance %s: created_at: %w", rec.Name, err)
	}
	updatedAt, err := parseTimestamp(rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("stored chance %s: updated_at: %w", rec.Name, err)
	}

	return &StoredChance{
		ID:        types.ChanceID(rec.ID),
		Name:      rec.Name,
		Chance:    c,
		Cost:      rec.Cost,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
