package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CleanupReason selects which offers die when an inventory change
// invalidates them. The two predicates are intentionally asymmetric:
// gaining a copy kills the owner's offers *requesting* that card,
// losing a copy kills the owner's offers *offering* it.
type CleanupReason string

const (
	CleanupCardFound CleanupReason = "card_found"
	CleanupCardSold  CleanupReason = "card_sold"
)

type Exchange struct {
	bun.BaseModel `bun:"table:exchanges,alias:e"`

	ID              int64  `bun:"id,pk,autoincrement"`
	ExchangeID      string `bun:"exchange_id,notnull,unique"`
	UserID          int64  `bun:"user_id,notnull"`
	AlbumID         int64  `bun:"album_id,notnull"`
	RequestedCardID int64  `bun:"requested_card_id,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Cards []*ExchangeCard `bun:"rel:has-many,join:id=exchange_id"`
}

// ExchangeCard reserves exactly one physical copy of a card type owned
// by the offer creator. Entries are immutable once created and are
// deleted together with their exchange.
type ExchangeCard struct {
	bun.BaseModel `bun:"table:exchange_cards,alias:ec"`

	ID         int64 `bun:"id,pk,autoincrement"`
	ExchangeID int64 `bun:"exchange_id,notnull"`
	CardID     int64 `bun:"card_id,notnull"`
	UserID     int64 `bun:"user_id,notnull"`
	AlbumID    int64 `bun:"album_id,notnull"`
}
