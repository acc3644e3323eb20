package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
	"github.com/thomasbaio/progettomarvel/marvelcards/database/repositories"
	"github.com/thomasbaio/progettomarvel/marvelcards/logger"
)

// CandidateOffer is one offer the querying user could accept: they hold
// a spare copy of the requested card and gain at least one new card
// type from the offered list.
type CandidateOffer struct {
	ID              int64
	ExchangeID      string
	CreatorID       int64
	RequestedCardID int64
	OfferedCardIDs  []int64
}

type Service interface {
	CreateExchange(ctx context.Context, userID, albumID, requestedCardID int64, offeredCardIDs []int64) (*models.Exchange, error)
	FindCandidateOffers(ctx context.Context, userID, albumID int64) ([]CandidateOffer, error)
	AcceptExchange(ctx context.Context, exchangeID, acceptingUserID, albumID int64) error
	DeleteExchange(ctx context.Context, exchangeID int64) error
	ListMyExchanges(ctx context.Context, userID int64) ([]*models.Exchange, error)
	AcquireCard(ctx context.Context, userID, albumID, cardID int64) error
	SellCard(ctx context.Context, userID, albumID, cardID int64) (decimal.Decimal, error)
	ListAlbumCards(ctx context.Context, albumID int64) ([]*models.Card, error)
	ListDuplicates(ctx context.Context, albumID int64) ([]*models.Card, error)
}

type service struct {
	exchanges Repository
	cards     CardRepository
	sellPrice decimal.Decimal
}

func NewService(exchanges Repository, cards CardRepository, sellPrice decimal.Decimal) *service {
	return &service{
		exchanges: exchanges,
		cards:     cards,
		sellPrice: sellPrice,
	}
}

// CreateExchange validates the offer shape, then hands it to the store,
// which performs the race-free reservation check.
func (s *service) CreateExchange(ctx context.Context, userID, albumID, requestedCardID int64, offeredCardIDs []int64) (*models.Exchange, error) {
	if len(offeredCardIDs) == 0 {
		return nil, &repositories.InvalidOfferError{Reason: "offered card list is empty"}
	}
	for _, cardID := range offeredCardIDs {
		if cardID == requestedCardID {
			return nil, &repositories.InvalidOfferError{Reason: "requested card cannot appear among offered cards"}
		}
	}

	exchange := &models.Exchange{
		UserID:          userID,
		AlbumID:         albumID,
		RequestedCardID: requestedCardID,
	}
	if err := s.exchanges.Create(ctx, exchange, offeredCardIDs); err != nil {
		return nil, err
	}
	return exchange, nil
}

// FindCandidateOffers returns the offers the user could accept from
// their album: for every card type they hold in duplicate, the live
// offers requesting that type, minus their own offers and minus offers
// that would only hand them cards they already own.
func (s *service) FindCandidateOffers(ctx context.Context, userID, albumID int64) ([]CandidateOffer, error) {
	duplicates, err := s.cards.GetDuplicates(ctx, albumID)
	if err != nil {
		return nil, err
	}

	var candidates []CandidateOffer
	seen := make(map[int64]bool)
	for _, dup := range duplicates {
		offers, err := s.exchanges.GetByRequestedCard(ctx, dup.CardID)
		if err != nil {
			return nil, err
		}

		for _, offer := range offers {
			if offer.UserID == userID || seen[offer.ID] {
				continue
			}
			seen[offer.ID] = true

			useful, offered, err := s.offerGain(ctx, userID, albumID, offer)
			if err != nil {
				return nil, err
			}
			if !useful {
				continue
			}

			candidates = append(candidates, CandidateOffer{
				ID:              offer.ID,
				ExchangeID:      offer.ExchangeID,
				CreatorID:       offer.UserID,
				RequestedCardID: offer.RequestedCardID,
				OfferedCardIDs:  offered,
			})
		}
	}
	return candidates, nil
}

// offerGain reports whether accepting the offer gives the user anything
// new. An offer whose offered set overlaps the user's holdings at all is
// discarded: receiving a card one already owns is not a useful trade.
func (s *service) offerGain(ctx context.Context, userID, albumID int64, offer *models.Exchange) (bool, []int64, error) {
	offered := make([]int64, 0, len(offer.Cards))
	for _, entry := range offer.Cards {
		owns, err := s.cards.HasCard(ctx, userID, albumID, entry.CardID)
		if err != nil {
			return false, nil, err
		}
		if owns {
			return false, nil, nil
		}
		offered = append(offered, entry.CardID)
	}
	return true, offered, nil
}

func (s *service) AcceptExchange(ctx context.Context, exchangeID, acceptingUserID, albumID int64) error {
	start := time.Now()
	err := s.exchanges.Accept(ctx, exchangeID, acceptingUserID, albumID)
	logger.LogOperation("accept_exchange", time.Since(start), err)
	return err
}

func (s *service) DeleteExchange(ctx context.Context, exchangeID int64) error {
	return s.exchanges.Delete(ctx, exchangeID)
}

func (s *service) ListMyExchanges(ctx context.Context, userID int64) ([]*models.Exchange, error) {
	return s.exchanges.GetByCreator(ctx, userID)
}

// AcquireCard records a card obtained outside trading (a pack pull) and
// retires the user's offers that were requesting it.
func (s *service) AcquireCard(ctx context.Context, userID, albumID, cardID int64) error {
	return s.exchanges.AddCardAndCleanup(ctx, userID, albumID, cardID)
}

// SellCard converts one copy into credits at the fixed sale price.
// Returns the updated balance.
func (s *service) SellCard(ctx context.Context, userID, albumID, cardID int64) (decimal.Decimal, error) {
	start := time.Now()
	balance, err := s.exchanges.Sell(ctx, userID, albumID, cardID, s.sellPrice)
	logger.LogOperation("sell_card", time.Since(start), err)
	return balance, err
}

func (s *service) ListAlbumCards(ctx context.Context, albumID int64) ([]*models.Card, error) {
	return s.cards.GetAlbumCards(ctx, albumID)
}

func (s *service) ListDuplicates(ctx context.Context, albumID int64) ([]*models.Card, error) {
	return s.cards.GetDuplicates(ctx, albumID)
}
