package packs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasbaio/progettomarvel/marvelcards/marvel"
)

type stubCatalog struct {
	next int64
	err  error
	mu   sync.Mutex
}

func (c *stubCatalog) RandomCharacter(ctx context.Context) (*marvel.Character, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return &marvel.Character{ID: c.next, Name: "Hero"}, nil
}

type stubLedger struct {
	deltas []decimal.Decimal
	err    error
	mu     sync.Mutex
}

func (l *stubLedger) AdjustCredits(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if l.err != nil {
		return decimal.Zero, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deltas = append(l.deltas, delta)
	return decimal.Zero, nil
}

type stubCollector struct {
	acquired int32
}

func (c *stubCollector) AcquireCard(ctx context.Context, userID, albumID, cardID int64) error {
	atomic.AddInt32(&c.acquired, 1)
	return nil
}

func TestOpen(t *testing.T) {
	catalog := &stubCatalog{}
	ledger := &stubLedger{}
	collector := &stubCollector{}
	price := decimal.RequireFromString("1.0")

	s := NewService(catalog, ledger, collector, price, 5)
	characters, err := s.Open(context.Background(), 10, 1)

	require.NoError(t, err)
	assert.Len(t, characters, 5)
	assert.Equal(t, int32(5), collector.acquired)
	require.Len(t, ledger.deltas, 1)
	assert.True(t, ledger.deltas[0].Equal(price.Neg()))
}

func TestOpen_insufficientFunds(t *testing.T) {
	wantErr := errors.New("insufficient funds")
	catalog := &stubCatalog{}
	ledger := &stubLedger{err: wantErr}
	collector := &stubCollector{}

	s := NewService(catalog, ledger, collector, decimal.RequireFromString("1.0"), 5)
	_, err := s.Open(context.Background(), 10, 1)

	assert.ErrorIs(t, err, wantErr)
	assert.Zero(t, collector.acquired)
}

func TestOpen_drawFailureRefunds(t *testing.T) {
	catalog := &stubCatalog{err: marvel.ErrUnavailable}
	ledger := &stubLedger{}
	collector := &stubCollector{}
	price := decimal.RequireFromString("1.0")

	s := NewService(catalog, ledger, collector, price, 5)
	_, err := s.Open(context.Background(), 10, 1)

	assert.ErrorIs(t, err, marvel.ErrUnavailable)
	assert.Zero(t, collector.acquired)
	// Debit followed by the refund.
	require.Len(t, ledger.deltas, 2)
	assert.True(t, ledger.deltas[0].Equal(price.Neg()))
	assert.True(t, ledger.deltas[1].Equal(price))
}
