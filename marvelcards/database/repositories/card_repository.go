package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
)

type CardRepository interface {
	AddCopy(ctx context.Context, userID, albumID, cardID int64) error
	RemoveCopy(ctx context.Context, userID, albumID, cardID int64) error
	CountCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	HasCard(ctx context.Context, userID, albumID, cardID int64) (bool, error)
	GetAlbumCards(ctx context.Context, albumID int64) ([]*models.Card, error)
	GetDuplicates(ctx context.Context, albumID int64) ([]*models.Card, error)
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) AddCopy(ctx context.Context, userID, albumID, cardID int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return addCopyTx(ctx, tx, userID, albumID, cardID)
	})
}

func (r *cardRepository) RemoveCopy(ctx context.Context, userID, albumID, cardID int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return removeCopyTx(ctx, tx, userID, albumID, cardID)
	})
}

func (r *cardRepository) CountCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return countCopiesTx(ctx, r.db, userID, albumID, cardID)
}

func (r *cardRepository) HasCard(ctx context.Context, userID, albumID, cardID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check card ownership: %w", err)
	}
	return exists, nil
}

// GetAlbumCards returns every inventory bucket in the album, ordered by
// card type ascending for deterministic display.
func (r *cardRepository) GetAlbumCards(ctx context.Context, albumID int64) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("album_id = ?", albumID).
		Order("card_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get album cards: %w", err)
	}
	return cards, nil
}

// GetDuplicates returns one record per (user, album, card type) bucket
// holding at least two copies. These are the card types the owner can
// spare for a sale or a trade.
func (r *cardRepository) GetDuplicates(ctx context.Context, albumID int64) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("album_id = ? AND amount >= 2", albumID).
		Order("card_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get duplicated cards: %w", err)
	}
	return cards, nil
}

// addCopyTx inserts one copy into the (user, album, card type) bucket,
// creating the bucket when absent. Adding never fails a reservation
// check: it only increases supply.
func addCopyTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) error {
	res, err := tx.NewUpdate().
		Model((*models.Card)(nil)).
		Set("amount = amount + 1").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add card copy: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		_, err = tx.NewInsert().
			Model(&models.Card{
				UserID:    userID,
				AlbumID:   albumID,
				CardID:    cardID,
				Amount:    1,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create card entry: %w", err)
		}
	}
	return nil
}

// removeCopyTx removes exactly one copy, locking the bucket row so
// concurrent reservations and removals for the same triple serialize.
// The bucket row disappears with its last copy.
func removeCopyTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) error {
	card := new(models.Card)
	err := tx.NewSelect().
		Model(card).
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "card", ID: cardID}
		}
		return fmt.Errorf("failed to load card entry: %w", err)
	}

	if card.Amount > 1 {
		_, err = tx.NewUpdate().
			Model((*models.Card)(nil)).
			Set("amount = amount - 1").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", card.ID).
			Exec(ctx)
	} else {
		_, err = tx.NewDelete().
			Model((*models.Card)(nil)).
			Where("id = ?", card.ID).
			Exec(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to remove card copy: %w", err)
	}
	return nil
}

func countCopiesTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) (int64, error) {
	card := new(models.Card)
	err := tx.NewSelect().
		Model(card).
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count copies: %w", err)
	}
	return card.Amount, nil
}

// lockCopiesTx reads the bucket amount under FOR UPDATE, serializing
// the check-then-insert of offer creation against concurrent removals.
func lockCopiesTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) (int64, error) {
	card := new(models.Card)
	err := tx.NewSelect().
		Model(card).
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to lock card entry: %w", err)
	}
	return card.Amount, nil
}
