package handlers

import (
	"errors"
	"testing"
	"time"

	"consensus-market/internal/market"
	"consensus-market/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateWithDelete(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Close()

	m, err := market.New(market.Options{})
	require.NoError(t, err)
	id := r.Create(m, nil)
	assert.Len(t, id, 36, "ids are uuids")
	assert.Equal(t, 1, r.Len())

	var seen *market.Market
	require.NoError(t, r.With(id, func(got *market.Market, _ []*model.Building) error {
		seen = got
		return nil
	}))
	assert.Same(t, m, seen)

	boom := errors.New("boom")
	assert.ErrorIs(t, r.With(id, func(*market.Market, []*model.Building) error { return boom }), boom)

	require.NoError(t, r.Delete(id))
	assert.ErrorIs(t, r.Delete(id), ErrMarketNotFound)
	assert.ErrorIs(t, r.With(id, func(*market.Market, []*model.Building) error { return nil }), ErrMarketNotFound)
}

func TestRegistry_ExpireIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour)
	defer r.Close()
	r.now = func() time.Time { return now }

	m, err := market.New(market.Options{})
	require.NoError(t, err)
	stale := r.Create(m, nil)
	fresh := r.Create(m, nil)

	now = now.Add(50 * time.Minute)
	require.NoError(t, r.With(fresh, func(*market.Market, []*model.Building) error { return nil }))

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, r.expire())
	assert.ErrorIs(t, r.With(stale, func(*market.Market, []*model.Building) error { return nil }), ErrMarketNotFound)
	assert.NoError(t, r.With(fresh, func(*market.Market, []*model.Building) error { return nil }))

	r.Close()
	r.Close()
}
