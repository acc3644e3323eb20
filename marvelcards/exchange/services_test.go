package exchange

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
	"github.com/thomasbaio/progettomarvel/marvelcards/database/repositories"
	"github.com/thomasbaio/progettomarvel/marvelcards/exchange/mock"
)

func offerWith(id int64, creatorID, requested int64, offered ...int64) *models.Exchange {
	cards := make([]*models.ExchangeCard, 0, len(offered))
	for _, cardID := range offered {
		cards = append(cards, &models.ExchangeCard{
			ExchangeID: id,
			CardID:     cardID,
			UserID:     creatorID,
		})
	}
	return &models.Exchange{
		ID:              id,
		ExchangeID:      "test-uuid",
		UserID:          creatorID,
		AlbumID:         1,
		RequestedCardID: requested,
		Cards:           cards,
	}
}

func Test_service_FindCandidateOffers(t *testing.T) {
	const (
		viewer  = int64(10)
		other   = int64(20)
		albumID = int64(1)
	)

	tests := []struct {
		name  string
		setup func(cards *mock.MockCardRepository, exchanges *mock.MockRepository)
		want  []CandidateOffer
	}{
		{
			name: "matches offer requesting a duplicate",
			setup: func(cards *mock.MockCardRepository, exchanges *mock.MockRepository) {
				cards.EXPECT().
					GetDuplicates(gomock.Any(), albumID).
					Return([]*models.Card{{UserID: viewer, AlbumID: albumID, CardID: 100, Amount: 2}}, nil)
				exchanges.EXPECT().
					GetByRequestedCard(gomock.Any(), int64(100)).
					Return([]*models.Exchange{offerWith(1, other, 100, 200)}, nil)
				cards.EXPECT().
					HasCard(gomock.Any(), viewer, albumID, int64(200)).
					Return(false, nil)
			},
			want: []CandidateOffer{{
				ID:              1,
				ExchangeID:      "test-uuid",
				CreatorID:       other,
				RequestedCardID: 100,
				OfferedCardIDs:  []int64{200},
			}},
		},
		{
			name: "excludes own offers",
			setup: func(cards *mock.MockCardRepository, exchanges *mock.MockRepository) {
				cards.EXPECT().
					GetDuplicates(gomock.Any(), albumID).
					Return([]*models.Card{{UserID: viewer, AlbumID: albumID, CardID: 100, Amount: 2}}, nil)
				exchanges.EXPECT().
					GetByRequestedCard(gomock.Any(), int64(100)).
					Return([]*models.Exchange{offerWith(1, viewer, 100, 200)}, nil)
			},
			want: nil,
		},
		{
			name: "excludes offers handing over a card the viewer owns",
			setup: func(cards *mock.MockCardRepository, exchanges *mock.MockRepository) {
				cards.EXPECT().
					GetDuplicates(gomock.Any(), albumID).
					Return([]*models.Card{{UserID: viewer, AlbumID: albumID, CardID: 100, Amount: 3}}, nil)
				exchanges.EXPECT().
					GetByRequestedCard(gomock.Any(), int64(100)).
					Return([]*models.Exchange{offerWith(1, other, 100, 200, 300)}, nil)
				cards.EXPECT().
					HasCard(gomock.Any(), viewer, albumID, int64(200)).
					Return(false, nil)
				cards.EXPECT().
					HasCard(gomock.Any(), viewer, albumID, int64(300)).
					Return(true, nil)
			},
			want: nil,
		},
		{
			name: "no duplicates means no candidates",
			setup: func(cards *mock.MockCardRepository, exchanges *mock.MockRepository) {
				cards.EXPECT().
					GetDuplicates(gomock.Any(), albumID).
					Return(nil, nil)
			},
			want: nil,
		},
		{
			name: "same offer surfaces once across two duplicates",
			setup: func(cards *mock.MockCardRepository, exchanges *mock.MockRepository) {
				cards.EXPECT().
					GetDuplicates(gomock.Any(), albumID).
					Return([]*models.Card{
						{UserID: viewer, AlbumID: albumID, CardID: 100, Amount: 2},
						{UserID: viewer, AlbumID: albumID, CardID: 101, Amount: 2},
					}, nil)
				exchanges.EXPECT().
					GetByRequestedCard(gomock.Any(), int64(100)).
					Return([]*models.Exchange{offerWith(1, other, 100, 200)}, nil)
				exchanges.EXPECT().
					GetByRequestedCard(gomock.Any(), int64(101)).
					Return([]*models.Exchange{offerWith(1, other, 100, 200)}, nil)
				cards.EXPECT().
					HasCard(gomock.Any(), viewer, albumID, int64(200)).
					Return(false, nil)
			},
			want: []CandidateOffer{{
				ID:              1,
				ExchangeID:      "test-uuid",
				CreatorID:       other,
				RequestedCardID: 100,
				OfferedCardIDs:  []int64{200},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exchanges := mock.NewMockRepository(ctrl)
			cards := mock.NewMockCardRepository(ctrl)
			tt.setup(cards, exchanges)

			s := NewService(exchanges, cards, decimal.RequireFromString("0.2"))
			got, err := s.FindCandidateOffers(context.Background(), viewer, albumID)
			if err != nil {
				t.Fatalf("FindCandidateOffers() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindCandidateOffers() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_service_CreateExchange_validation(t *testing.T) {
	tests := []struct {
		name      string
		requested int64
		offered   []int64
	}{
		{name: "empty offered list", requested: 100, offered: nil},
		{name: "requested among offered", requested: 100, offered: []int64{200, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := NewService(mock.NewMockRepository(ctrl), mock.NewMockCardRepository(ctrl), decimal.RequireFromString("0.2"))

			_, err := s.CreateExchange(context.Background(), 10, 1, tt.requested, tt.offered)
			if err == nil {
				t.Fatal("CreateExchange() expected error, got nil")
			}
			var ioe *repositories.InvalidOfferError
			if !errors.As(err, &ioe) {
				t.Errorf("CreateExchange() error = %v, want InvalidOfferError", err)
			}
		})
	}
}

func Test_service_CreateExchange_passthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	exchanges := mock.NewMockRepository(ctrl)
	exchanges.EXPECT().
		Create(gomock.Any(), gomock.Any(), []int64{200, 300}).
		Return(nil)

	s := NewService(exchanges, mock.NewMockCardRepository(ctrl), decimal.RequireFromString("0.2"))
	got, err := s.CreateExchange(context.Background(), 10, 1, 100, []int64{200, 300})
	if err != nil {
		t.Fatalf("CreateExchange() error = %v", err)
	}
	if got.UserID != 10 || got.AlbumID != 1 || got.RequestedCardID != 100 {
		t.Errorf("CreateExchange() exchange = %+v", got)
	}
}

func Test_service_SellCard_usesFixedPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	exchanges := mock.NewMockRepository(ctrl)
	price := decimal.RequireFromString("0.2")
	exchanges.EXPECT().
		Sell(gomock.Any(), int64(10), int64(1), int64(100), price).
		Return(decimal.RequireFromString("1.4"), nil)

	s := NewService(exchanges, mock.NewMockCardRepository(ctrl), price)
	balance, err := s.SellCard(context.Background(), 10, 1, 100)
	if err != nil {
		t.Fatalf("SellCard() error = %v", err)
	}
	if balance.String() != "1.4" {
		t.Errorf("SellCard() balance = %s, want 1.4", balance)
	}
}
