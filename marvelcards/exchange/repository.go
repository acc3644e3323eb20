package exchange

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
)

// Repository is the slice of exchange persistence the service needs.
// The concrete implementation lives in database/repositories.
type Repository interface {
	Create(ctx context.Context, exchange *models.Exchange, offeredCardIDs []int64) error
	GetByCreator(ctx context.Context, userID int64) ([]*models.Exchange, error)
	GetByRequestedCard(ctx context.Context, cardID int64) ([]*models.Exchange, error)
	Delete(ctx context.Context, id int64) error
	Accept(ctx context.Context, exchangeID, acceptingUserID, albumID int64) error
	AddCardAndCleanup(ctx context.Context, userID, albumID, cardID int64) error
	RemoveCardAndCleanup(ctx context.Context, userID, albumID, cardID int64, reason models.CleanupReason) error
	Sell(ctx context.Context, userID, albumID, cardID int64, price decimal.Decimal) (decimal.Decimal, error)
}

// CardRepository is the slice of inventory persistence the service needs.
type CardRepository interface {
	CountCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	HasCard(ctx context.Context, userID, albumID, cardID int64) (bool, error)
	GetAlbumCards(ctx context.Context, albumID int64) ([]*models.Card, error)
	GetDuplicates(ctx context.Context, albumID int64) ([]*models.Card, error)
}
