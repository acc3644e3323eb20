package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	AdjustCredits(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error)
	GetCredits(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Username and email must be globally unique;
// a clash reports which field collided.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ?", user.Username).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return &ConflictError{Entity: "user", Field: "username", Value: user.Username}
	}

	exists, err = r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("email = ?", user.Email).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return &ConflictError{Entity: "user", Field: "email", Value: user.Email}
	}

	if user.Credits == "" {
		user.Credits = "0"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByLogin resolves a user by username or email, whichever matches.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ? OR email = ?", login, login).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: login}
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "user", ID: user.ID}
	}
	return nil
}

// Delete removes the user and every resource hanging off them: offered
// card entries, exchanges, inventory and albums, all in one transaction.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.User)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return &NotFoundError{Entity: "user", ID: id}
		}

		if _, err := tx.NewDelete().
			Model((*models.ExchangeCard)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete exchange cards: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*models.Exchange)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete exchanges: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*models.Card)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete cards: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*models.Album)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete albums: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("User removed with all owned resources",
		slog.String("type", "db"),
		slog.Int64("user_id", id))
	return nil
}

// AdjustCredits applies a signed decimal delta to the user's balance
// under a row lock. A delta that would push the balance below zero fails
// with InsufficientFundsError and leaves the balance untouched.
func (r *userRepository) AdjustCredits(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var updated decimal.Decimal
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		updated, err = adjustCreditsTx(ctx, tx, userID, delta)
		return err
	})
	return updated, err
}

// adjustCreditsTx is the tx-scoped ledger adjustment shared with the
// exchange repository's sell path.
func adjustCreditsTx(ctx context.Context, tx bun.IDB, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	user := new(models.User)
	err := tx.NewSelect().
		Model(user).
		Where("id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, &NotFoundError{Entity: "user", ID: userID}
		}
		return decimal.Zero, fmt.Errorf("failed to load balance: %w", err)
	}

	updated, err := applyCreditDelta(userID, user.Credits, delta)
	if err != nil {
		return decimal.Zero, err
	}

	if _, err := tx.NewUpdate().
		Model((*models.User)(nil)).
		Set("credits = ?", updated.String()).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}
	return updated, nil
}

// applyCreditDelta computes the new balance, enforcing the non-negative
// floor. Balances are decimal strings end to end.
func applyCreditDelta(userID int64, current string, delta decimal.Decimal) (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(current)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt balance %q: %w", current, err)
	}

	updated := balance.Add(delta)
	if updated.IsNegative() {
		return decimal.Zero, &InsufficientFundsError{
			UserID:  userID,
			Balance: balance.String(),
			Delta:   delta.String(),
		}
	}
	return updated, nil
}

func (r *userRepository) GetCredits(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	credits, err := decimal.NewFromString(user.Credits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt balance %q: %w", user.Credits, err)
	}
	return credits, nil
}
