package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
)

type ExchangeRepository interface {
	Create(ctx context.Context, exchange *models.Exchange, offeredCardIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Exchange, error)
	GetWithCards(ctx context.Context, id int64) (*models.Exchange, error)
	GetByCreator(ctx context.Context, userID int64) ([]*models.Exchange, error)
	GetByRequestedCard(ctx context.Context, cardID int64) ([]*models.Exchange, error)
	Delete(ctx context.Context, id int64) error
	ReservedCount(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	Accept(ctx context.Context, exchangeID, acceptingUserID, albumID int64) error
	AddCardAndCleanup(ctx context.Context, userID, albumID, cardID int64) error
	RemoveCardAndCleanup(ctx context.Context, userID, albumID, cardID int64, reason models.CleanupReason) error
	Sell(ctx context.Context, userID, albumID, cardID int64, price decimal.Decimal) (decimal.Decimal, error)
}

type exchangeRepository struct {
	db *bun.DB
}

func NewExchangeRepository(db *bun.DB) ExchangeRepository {
	return &exchangeRepository{db: db}
}

// cardMover is the tx-scoped primitive set the offer and transfer
// bookkeeping runs over. bunMover binds it to a live transaction.
type cardMover interface {
	lockCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	addCopy(ctx context.Context, userID, albumID, cardID int64) error
	removeCopy(ctx context.Context, userID, albumID, cardID int64) error
	countCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	reservedCount(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	cleanupFound(ctx context.Context, userID, albumID, cardID int64) (int64, error)
	cleanupSold(ctx context.Context, userID, albumID, cardID int64) (int64, error)
}

type bunMover struct {
	tx bun.IDB
}

func (m bunMover) lockCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return lockCopiesTx(ctx, m.tx, userID, albumID, cardID)
}

func (m bunMover) addCopy(ctx context.Context, userID, albumID, cardID int64) error {
	return addCopyTx(ctx, m.tx, userID, albumID, cardID)
}

func (m bunMover) removeCopy(ctx context.Context, userID, albumID, cardID int64) error {
	return removeCopyTx(ctx, m.tx, userID, albumID, cardID)
}

func (m bunMover) countCopies(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return countCopiesTx(ctx, m.tx, userID, albumID, cardID)
}

func (m bunMover) reservedCount(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return reservedCountTx(ctx, m.tx, userID, albumID, cardID)
}

func (m bunMover) cleanupFound(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return cleanupFoundTx(ctx, m.tx, userID, albumID, cardID)
}

func (m bunMover) cleanupSold(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return cleanupSoldTx(ctx, m.tx, userID, albumID, cardID)
}

// Create persists the offer and one offered-card entry per committed
// copy, atomically. The offer shape is validated at the store boundary,
// then every offered card type is checked for a spare copy under a row
// lock; if any check fails nothing is persisted.
func (r *exchangeRepository) Create(ctx context.Context, exchange *models.Exchange, offeredCardIDs []int64) error {
	if err := validateOffer(exchange.RequestedCardID, offeredCardIDs); err != nil {
		return err
	}

	if exchange.ExchangeID == "" {
		exchange.ExchangeID = uuid.New().String()
	}
	exchange.CreatedAt = time.Now()

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := checkOfferAvailability(ctx, bunMover{tx}, exchange.UserID, exchange.AlbumID, offeredCardIDs); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(exchange).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create exchange: %w", err)
		}

		entries := make([]*models.ExchangeCard, 0, len(offeredCardIDs))
		for _, cardID := range offeredCardIDs {
			entries = append(entries, &models.ExchangeCard{
				ExchangeID: exchange.ID,
				CardID:     cardID,
				UserID:     exchange.UserID,
				AlbumID:    exchange.AlbumID,
			})
		}
		if _, err := tx.NewInsert().Model(&entries).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create exchange cards: %w", err)
		}
		return nil
	})
}

// validateOffer rejects degenerate offers at the store boundary: no
// offered copies, or a requested card type that also appears among the
// offered ones.
func validateOffer(requestedCardID int64, offeredCardIDs []int64) error {
	if len(offeredCardIDs) == 0 {
		return &InvalidOfferError{Reason: "offered card list is empty"}
	}
	for _, cardID := range offeredCardIDs {
		if cardID == requestedCardID {
			return &InvalidOfferError{Reason: "requested card cannot appear among offered cards"}
		}
	}
	return nil
}

// checkOfferAvailability verifies every offered card type has a spare
// copy to commit.
func checkOfferAvailability(ctx context.Context, m cardMover, userID, albumID int64, offeredCardIDs []int64) error {
	// pending tracks reservations this offer is about to add, so an
	// offer listing the same card type twice cannot over-commit.
	pending := make(map[int64]int64)
	for _, cardID := range offeredCardIDs {
		owned, err := m.lockCopies(ctx, userID, albumID, cardID)
		if err != nil {
			return err
		}
		reserved, err := m.reservedCount(ctx, userID, albumID, cardID)
		if err != nil {
			return err
		}
		if !canReserveCopy(owned, reserved+pending[cardID]) {
			return &CardUnavailableError{CardID: cardID}
		}
		pending[cardID]++
	}
	return nil
}

// canReserveCopy reports whether one more reservation still leaves an
// unreserved copy behind. Only duplicated card types are tradeable; the
// last copy is never committed to an offer.
func canReserveCopy(owned, reserved int64) bool {
	return owned-reserved >= 2
}

func (r *exchangeRepository) GetByID(ctx context.Context, id int64) (*models.Exchange, error) {
	exchange := new(models.Exchange)
	err := r.db.NewSelect().
		Model(exchange).
		Where("e.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "exchange", ID: id}
		}
		return nil, fmt.Errorf("failed to get exchange: %w", err)
	}
	return exchange, nil
}

func (r *exchangeRepository) GetWithCards(ctx context.Context, id int64) (*models.Exchange, error) {
	exchange := new(models.Exchange)
	err := r.db.NewSelect().
		Model(exchange).
		Relation("Cards", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ec.id ASC")
		}).
		Where("e.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "exchange", ID: id}
		}
		return nil, fmt.Errorf("failed to get exchange with cards: %w", err)
	}
	return exchange, nil
}

func (r *exchangeRepository) GetByCreator(ctx context.Context, userID int64) ([]*models.Exchange, error) {
	var exchanges []*models.Exchange
	err := r.db.NewSelect().
		Model(&exchanges).
		Relation("Cards", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ec.id ASC")
		}).
		Where("e.user_id = ?", userID).
		Order("e.id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get user exchanges: %w", err)
	}
	return exchanges, nil
}

func (r *exchangeRepository) GetByRequestedCard(ctx context.Context, cardID int64) ([]*models.Exchange, error) {
	var exchanges []*models.Exchange
	err := r.db.NewSelect().
		Model(&exchanges).
		Relation("Cards", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ec.id ASC")
		}).
		Where("e.requested_card_id = ?", cardID).
		Order("e.id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get exchanges by requested card: %w", err)
	}
	return exchanges, nil
}

// Delete removes the offer and all its entries atomically. Deleting an
// offer that is already gone reports NotFound to the caller.
func (r *exchangeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.ExchangeCard)(nil)).
			Where("exchange_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete exchange cards: %w", err)
		}

		res, err := tx.NewDelete().
			Model((*models.Exchange)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete exchange: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return &NotFoundError{Entity: "exchange", ID: id}
		}
		return nil
	})
}

// ReservedCount answers "how many copies of this card type, owned by
// this user in this album, are committed to open offers". It is the
// single source of truth for reservation accounting.
func (r *exchangeRepository) ReservedCount(ctx context.Context, userID, albumID, cardID int64) (int64, error) {
	return reservedCountTx(ctx, r.db, userID, albumID, cardID)
}

func reservedCountTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) (int64, error) {
	count, err := tx.NewSelect().
		Model((*models.ExchangeCard)(nil)).
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return int64(count), nil
}

// Accept executes the whole trade as one serializable transaction:
// requested card moves acceptor -> creator, every offered card moves
// creator -> acceptor, the offer and its entries disappear. Either all
// of it commits or none of it does. A concurrent accept of the same
// offer loses the row lock race and reports NotFound.
func (r *exchangeRepository) Accept(ctx context.Context, exchangeID, acceptingUserID, albumID int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	exchange := new(models.Exchange)
	err = tx.NewSelect().
		Model(exchange).
		Where("e.id = ?", exchangeID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "exchange", ID: exchangeID}
		}
		return fmt.Errorf("failed to get exchange: %w", err)
	}

	var entries []*models.ExchangeCard
	err = tx.NewSelect().
		Model(&entries).
		Where("exchange_id = ?", exchangeID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to get exchange cards: %w", err)
	}

	if err := applyAcceptTransfers(ctx, bunMover{tx}, exchange, entries, acceptingUserID, albumID); err != nil {
		return err
	}

	// The found-cleanup inside the transfer already removed the offer;
	// these deletes are the backstop in case its predicates ever change.
	if _, err := tx.NewDelete().
		Model((*models.ExchangeCard)(nil)).
		Where("exchange_id = ?", exchangeID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete exchange cards: %w", err)
	}
	if _, err := tx.NewDelete().
		Model((*models.Exchange)(nil)).
		Where("id = ?", exchangeID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete exchange: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exchange transaction: %w", err)
	}

	slog.Info("Exchange accepted",
		slog.Int64("exchange_id", exchangeID),
		slog.String("exchange_uuid", exchange.ExchangeID),
		slog.Int64("creator_id", exchange.UserID),
		slog.Int64("acceptor_id", acceptingUserID),
		slog.Int("cards_moved", len(entries)+1))
	return nil
}

// applyAcceptTransfers moves every copy the trade names: the requested
// card from acceptor to creator, each offered entry from creator to
// acceptor. Every transfer-out runs the sold-cleanup and every
// transfer-in runs the found-cleanup, so no offer outlives the copies
// it reserves.
func applyAcceptTransfers(ctx context.Context, m cardMover, exchange *models.Exchange, entries []*models.ExchangeCard, acceptingUserID, albumID int64) error {
	// The acceptor must actually hold the requested card; this is a
	// precondition, never silently skipped.
	requested := exchange.RequestedCardID
	if err := removeAndCleanup(ctx, m, acceptingUserID, albumID, requested, models.CleanupCardSold); err != nil {
		if IsNotFound(err) {
			return &CardUnavailableError{CardID: requested}
		}
		return err
	}
	if err := m.addCopy(ctx, exchange.UserID, exchange.AlbumID, requested); err != nil {
		return err
	}
	// The creator just obtained the card they were asking for, so their
	// offers requesting it (this one included) are now pointless.
	if _, err := m.cleanupFound(ctx, exchange.UserID, exchange.AlbumID, requested); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := removeAndCleanup(ctx, m, exchange.UserID, exchange.AlbumID, entry.CardID, models.CleanupCardSold); err != nil {
			if IsNotFound(err) {
				return &CardUnavailableError{CardID: entry.CardID}
			}
			return err
		}
		if err := m.addCopy(ctx, acceptingUserID, albumID, entry.CardID); err != nil {
			return err
		}
		if _, err := m.cleanupFound(ctx, acceptingUserID, albumID, entry.CardID); err != nil {
			return err
		}
	}
	return nil
}

// AddCardAndCleanup adds one copy and drops the owner's offers that were
// requesting this card type: a wanted card acquired through other means
// (a pack pull, a trade) makes those offers stale.
func (r *exchangeRepository) AddCardAndCleanup(ctx context.Context, userID, albumID, cardID int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := bunMover{tx}
		if err := m.addCopy(ctx, userID, albumID, cardID); err != nil {
			return err
		}
		dropped, err := m.cleanupFound(ctx, userID, albumID, cardID)
		if err != nil {
			return err
		}
		if dropped > 0 {
			slog.Info("Dropped stale exchanges after card acquisition",
				slog.String("type", "db"),
				slog.Int64("user_id", userID),
				slog.Int64("card_id", cardID),
				slog.Int64("dropped", dropped))
		}
		return nil
	})
}

// RemoveCardAndCleanup removes one copy and, when the removal leaves
// more copies reserved than owned, drops the owner's offers that were
// offering this card type. Removal, recount and conditional deletion
// are a single atomic unit.
func (r *exchangeRepository) RemoveCardAndCleanup(ctx context.Context, userID, albumID, cardID int64, reason models.CleanupReason) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return removeAndCleanup(ctx, bunMover{tx}, userID, albumID, cardID, reason)
	})
}

// Sell credits the fixed sale price and removes the copy in one
// transaction. The ledger adjustment comes first: a floor violation
// aborts before any inventory change.
func (r *exchangeRepository) Sell(ctx context.Context, userID, albumID, cardID int64, price decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		balance, err = adjustCreditsTx(ctx, tx, userID, price)
		if err != nil {
			return err
		}
		return removeAndCleanup(ctx, bunMover{tx}, userID, albumID, cardID, models.CleanupCardSold)
	})
	if err != nil {
		return decimal.Zero, err
	}

	slog.Info("Card sold",
		slog.String("type", "db"),
		slog.Int64("user_id", userID),
		slog.Int64("card_id", cardID),
		slog.String("price", price.String()),
		slog.String("balance", balance.String()))
	return balance, nil
}

func removeAndCleanup(ctx context.Context, m cardMover, userID, albumID, cardID int64, reason models.CleanupReason) error {
	if err := m.removeCopy(ctx, userID, albumID, cardID); err != nil {
		return err
	}

	holdings, err := m.countCopies(ctx, userID, albumID, cardID)
	if err != nil {
		return err
	}
	reserved, err := m.reservedCount(ctx, userID, albumID, cardID)
	if err != nil {
		return err
	}

	if !shouldDropOffers(holdings, reserved) {
		return nil
	}

	dropped, err := m.cleanupSold(ctx, userID, albumID, cardID)
	if err != nil {
		return err
	}
	if dropped > 0 {
		slog.Info("Dropped exchanges no longer backed by inventory",
			slog.String("type", "db"),
			slog.String("reason", string(reason)),
			slog.Int64("user_id", userID),
			slog.Int64("card_id", cardID),
			slog.Int64("dropped", dropped))
	}
	return nil
}

// shouldDropOffers decides whether offers offering this card type must
// die after a removal. Reserved == holdings is a legal saturated state;
// only reservations exceeding holdings violate the invariant.
func shouldDropOffers(holdings, reserved int64) bool {
	return reserved > holdings
}

// cleanupFoundTx deletes the user's offers in the album that request the
// given card type, entries first. Returns how many offers died.
func cleanupFoundTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) (int64, error) {
	var ids []int64
	err := tx.NewSelect().
		Model((*models.Exchange)(nil)).
		Column("id").
		Where("user_id = ? AND album_id = ? AND requested_card_id = ?", userID, albumID, cardID).
		Scan(ctx, &ids)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale exchanges: %w", err)
	}
	return deleteExchangesTx(ctx, tx, ids)
}

// cleanupSoldTx deletes the user's offers in the album whose entries
// offer the given card type, entries first. Returns how many offers died.
func cleanupSoldTx(ctx context.Context, tx bun.IDB, userID, albumID, cardID int64) (int64, error) {
	var ids []int64
	err := tx.NewSelect().
		Model((*models.ExchangeCard)(nil)).
		ColumnExpr("DISTINCT exchange_id").
		Where("user_id = ? AND album_id = ? AND card_id = ?", userID, albumID, cardID).
		Scan(ctx, &ids)
	if err != nil {
		return 0, fmt.Errorf("failed to find unbacked exchanges: %w", err)
	}
	return deleteExchangesTx(ctx, tx, ids)
}

func deleteExchangesTx(ctx context.Context, tx bun.IDB, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	if _, err := tx.NewDelete().
		Model((*models.ExchangeCard)(nil)).
		Where("exchange_id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to delete exchange cards: %w", err)
	}

	res, err := tx.NewDelete().
		Model((*models.Exchange)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete exchanges: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}
