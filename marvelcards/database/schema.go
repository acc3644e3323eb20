package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
)

// InitializeSchema creates all required database tables and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	// Create tables in dependency order
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Album)(nil),
		(*models.Card)(nil),
		(*models.Exchange)(nil),
		(*models.ExchangeCard)(nil),
	}

	for _, model := range tables {
		_, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);",
		"CREATE INDEX IF NOT EXISTS idx_albums_user_id ON albums(user_id);",
		// One inventory bucket per (owner, album, card type)
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cards_owner_bucket ON cards(user_id, album_id, card_id);",
		"CREATE INDEX IF NOT EXISTS idx_cards_album_amount ON cards(album_id) WHERE amount >= 2;",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_exchanges_uuid ON exchanges(exchange_id);",
		"CREATE INDEX IF NOT EXISTS idx_exchanges_user_id ON exchanges(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_exchanges_requested ON exchanges(requested_card_id);",
		// Matches the found-cleanup predicate
		"CREATE INDEX IF NOT EXISTS idx_exchanges_owner_requested ON exchanges(user_id, album_id, requested_card_id);",
		"CREATE INDEX IF NOT EXISTS idx_exchange_cards_exchange ON exchange_cards(exchange_id);",
		// Matches reservation counting and the sold-cleanup predicate
		"CREATE INDEX IF NOT EXISTS idx_exchange_cards_owner_card ON exchange_cards(user_id, album_id, card_id);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.Int("tables", len(tables)),
		slog.Int("indexes", len(indexes)))
	return nil
}
