package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Card is one inventory bucket: how many copies of a card type a user
// holds in an album. Amount is always >= 1; the row is deleted when the
// last copy is removed.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID      int64 `bun:"id,pk,autoincrement"`
	UserID  int64 `bun:"user_id,notnull"`
	AlbumID int64 `bun:"album_id,notnull"`
	CardID  int64 `bun:"card_id,notnull"`
	Amount  int64 `bun:"amount,notnull,default:1"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
