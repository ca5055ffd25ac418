package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/item/model"
	usermodel "marketplace-backend/internal/domains/user/model"
	"marketplace-backend/pkg/database"
)

// =====================================================
// FAVORITES RELATION
// =====================================================
//
// The relation lives in its own table; the item's favorites_count is
// recomputed from it inside the same transaction. The count UPDATE takes
// the item row lock, so concurrent favorite/unfavorite operations on the
// same item recount serially and never persist a stale value.

type postgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &postgresFavoriteRepository{pool: pool}
}

func (r *postgresFavoriteRepository) Add(ctx context.Context, userID, itemID uuid.UUID) (int, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		query := `
			INSERT INTO favorites (user_id, item_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id, item_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, query, userID, itemID); err != nil {
			return 0, mapFavoriteError(err)
		}

		return refreshFavoritesCount(ctx, tx, itemID)
	})
}

func (r *postgresFavoriteRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) (int, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		query := `DELETE FROM favorites WHERE user_id = $1 AND item_id = $2`
		if _, err := tx.Exec(ctx, query, userID, itemID); err != nil {
			return 0, fmt.Errorf("failed to remove favorite: %w", err)
		}

		return refreshFavoritesCount(ctx, tx, itemID)
	})
}

// refreshFavoritesCount recounts the relation and persists the result on
// the item, returning the new count.
func refreshFavoritesCount(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (int, error) {
	query := `
		UPDATE items
		SET favorites_count = (SELECT COUNT(*) FROM favorites WHERE item_id = $1)
		WHERE id = $1
		RETURNING favorites_count
	`

	var count int
	err := tx.QueryRow(ctx, query, itemID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrItemNotFound
		}
		return 0, fmt.Errorf("failed to refresh favorites count: %w", err)
	}

	return count, nil
}

func mapFavoriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		if strings.Contains(pgErr.ConstraintName, "user") {
			return usermodel.ErrUserNotFound
		}
		return model.ErrItemNotFound
	}
	return fmt.Errorf("failed to add favorite: %w", err)
}

func (r *postgresFavoriteRepository) IsFavorited(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)`

	var favorited bool
	if err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(&favorited); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return favorited, nil
}

func (r *postgresFavoriteRepository) FavoritedSet(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	query := `SELECT item_id FROM favorites WHERE user_id = $1 AND item_id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, userID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		result[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
