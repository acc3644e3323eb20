package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Username     string `bun:"username,notnull,unique"`
	Email        string `bun:"email,notnull,unique"`
	PasswordHash string `bun:"password_hash,notnull"`

	// Credits are kept as a decimal string so fractional balances
	// (0.2 per sold card) never go through float arithmetic.
	Credits string `bun:"credits,notnull,default:'0'"`

	// Superhero is the character card the user picked as their avatar.
	Superhero int64 `bun:"superhero,notnull,default:0"`

	Name      string `bun:"name"`
	Surname   string `bun:"surname"`
	Birthdate string `bun:"birthdate"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
