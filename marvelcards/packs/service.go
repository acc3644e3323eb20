package packs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/thomasbaio/progettomarvel/marvelcards/logger"
	"github.com/thomasbaio/progettomarvel/marvelcards/marvel"
)

// Catalog draws random characters for pack contents.
type Catalog interface {
	RandomCharacter(ctx context.Context) (*marvel.Character, error)
}

// Ledger adjusts user credit balances.
type Ledger interface {
	AdjustCredits(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error)
}

// Collector records acquired cards, retiring offers that requested them.
type Collector interface {
	AcquireCard(ctx context.Context, userID, albumID, cardID int64) error
}

type Service struct {
	catalog  Catalog
	ledger   Ledger
	cards    Collector
	price    decimal.Decimal
	packSize int
}

func NewService(catalog Catalog, ledger Ledger, cards Collector, price decimal.Decimal, packSize int) *Service {
	return &Service{
		catalog:  catalog,
		ledger:   ledger,
		cards:    cards,
		price:    price,
		packSize: packSize,
	}
}

// Open buys and opens one pack: debits the pack price, draws the pack's
// characters from the catalog concurrently, and records each as an
// acquired card. A failed draw refunds the purchase and reports the
// catalog failure; no cards are recorded in that case.
func (s *Service) Open(ctx context.Context, userID, albumID int64) ([]*marvel.Character, error) {
	if _, err := s.ledger.AdjustCredits(ctx, userID, s.price.Neg()); err != nil {
		return nil, err
	}

	characters := make([]*marvel.Character, s.packSize)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.packSize; i++ {
		i := i
		g.Go(func() error {
			character, err := s.catalog.RandomCharacter(gctx)
			if err != nil {
				return err
			}
			characters[i] = character
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if _, refundErr := s.ledger.AdjustCredits(ctx, userID, s.price); refundErr != nil {
			logger.LogError("Pack refund failed", refundErr, slog.Int64("user_id", userID))
		}
		return nil, fmt.Errorf("pack draw failed: %w", err)
	}

	for _, character := range characters {
		if err := s.cards.AcquireCard(ctx, userID, albumID, character.ID); err != nil {
			return nil, err
		}
	}

	slog.Info("Pack opened",
		slog.String("type", "op"),
		slog.Int64("user_id", userID),
		slog.Int64("album_id", albumID),
		slog.Int("cards", len(characters)))
	return characters, nil
}
