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

type AlbumRepository interface {
	Create(ctx context.Context, album *models.Album) error
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Album, error)
	Delete(ctx context.Context, id int64) error
}

type albumRepository struct {
	db *bun.DB
}

func NewAlbumRepository(db *bun.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) Create(ctx context.Context, album *models.Album) error {
	album.CreatedAt = time.Now()
	if _, err := r.db.NewInsert().Model(album).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

func (r *albumRepository) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	album := new(models.Album)
	err := r.db.NewSelect().
		Model(album).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "album", ID: id}
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return album, nil
}

func (r *albumRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Album, error) {
	var albums []*models.Album
	err := r.db.NewSelect().
		Model(&albums).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get user albums: %w", err)
	}
	return albums, nil
}

func (r *albumRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Album)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "album", ID: id}
	}
	return nil
}
