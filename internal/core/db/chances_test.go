package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/chancekeeper/internal/rules"
	"github.com/solatis/chancekeeper/internal/types"
)

func newTestStore(t *testing.T) *ChanceStore {
	t.Helper()
	q, err := LoadQueries(openTestDB(t))
	require.NoError(t, err)
	return NewChanceStore(q, nil)
}

func rainChance() *rules.Chance {
	return rules.New(0.2,
		rules.NewModifier(2, rules.NewBoolEquals("is_cloudy", true)),
		rules.NewModifier(0.5, rules.NewLessThan("temperature", 0)),
	)
}

func TestChanceStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stored, err := store.Put(ctx, "Rain Chance", rainChance())
	require.NoError(t, err)

	assert.Equal(t, "rain_chance", stored.Name)
	assert.False(t, types.ChanceIDTime(stored.ID).IsZero(), "id should be a UUIDv7")
	assert.Equal(t, rainChance().Cost(), stored.Cost)
	assert.Len(t, stored.Chance.Modifiers, 2)

	got, err := store.Get(ctx, "rain_chance")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	factor, err := got.Chance.Factor(types.Context{"is_cloudy": true, "temperature": 5})
	require.NoError(t, err)
	assert.Equal(t, 0.4, factor)
}

func TestChanceStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	first, err := store.Put(ctx, "rain", rainChance())
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	second, err := store.Put(ctx, "rain", rules.New(0.9))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "upsert keeps the original id")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, 0.9, second.Chance.Base)
	assert.Empty(t, second.Chance.Modifiers)
	assert.Zero(t, second.Cost)
}

func TestChanceStore_List(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, name := range []string{"snow", "rain", "hail"} {
		_, err := store.Put(ctx, name, rainChance())
		require.NoError(t, err)
	}

	all, err := store.List(ctx)
	require.NoError(t, err)

	names := make([]string, len(all))
	for i, sc := range all {
		names[i] = sc.Name
	}
	assert.Equal(t, []string{"hail", "rain", "snow"}, names)
}

func TestChanceStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Put(ctx, "rain", rainChance())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "Rain"))

	_, err = store.Get(ctx, "rain")
	assert.ErrorIs(t, err, types.ErrChanceNotFound)

	err = store.Delete(ctx, "rain")
	assert.ErrorIs(t, err, types.ErrChanceNotFound)
}

func TestChanceStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Put(ctx, "   ", rainChance())
	assert.ErrorIs(t, err, types.ErrInvalidChanceName)

	_, err = store.Put(ctx, "rain", nil)
	assert.ErrorIs(t, err, types.ErrSerialization)

	nan := 0.0
	_, err = store.Put(ctx, "rain", rules.New(nan/nan))
	assert.ErrorIs(t, err, types.ErrSerialization)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrChanceNotFound)
}
