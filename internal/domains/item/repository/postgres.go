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
	"github.com/lib/pq"

	"marketplace-backend/internal/domains/item/model"
	"marketplace-backend/pkg/database"
)

type postgresItemRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &postgresItemRepository{pool: pool}
}

const itemSelectColumns = `
	i.id, i.slug, i.title, i.description, i.image, i.tag_list,
	i.favorites_count, i.seller_id, i.created_at, i.updated_at,
	u.id, u.username, u.bio, u.image
`

func scanItem(row pgx.Row) (*model.Item, error) {
	item := &model.Item{}
	var tags []string

	err := row.Scan(
		&item.ID,
		&item.Slug,
		&item.Title,
		&item.Description,
		&item.Image,
		pq.Array(&tags),
		&item.FavoritesCount,
		&item.SellerID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Seller.ID,
		&item.Seller.Username,
		&item.Seller.Bio,
		&item.Seller.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item.TagList = tags
	return item, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresItemRepository) Create(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (
			id, slug, title, description, image, tag_list,
			favorites_count, seller_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Slug,
		item.Title,
		item.Description,
		item.Image,
		pq.Array([]string(item.TagList)),
		item.FavoritesCount,
		item.SellerID,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "slug") {
			return model.ErrSlugConflict
		}
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresItemRepository) GetBySlug(ctx context.Context, slug string) (*model.Item, error) {
	query := `
		SELECT ` + itemSelectColumns + `
		FROM items i
		JOIN users u ON u.id = i.seller_id
		WHERE i.slug = $1
	`
	return scanItem(r.pool.QueryRow(ctx, query, slug))
}

func (r *postgresItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	query := `
		SELECT ` + itemSelectColumns + `
		FROM items i
		JOIN users u ON u.id = i.seller_id
		WHERE i.id = $1
	`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

// =====================================================
// UPDATE
// =====================================================

// Update never touches slug, seller_id or favorites_count.
func (r *postgresItemRepository) Update(ctx context.Context, item *model.Item) error {
	query := `
		UPDATE items
		SET title = $2, description = $3, image = $4, tag_list = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Image,
		pq.Array([]string(item.TagList)),
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}

	return nil
}

// =====================================================
// DELETE (cascade)
// =====================================================

// Delete removes the item together with its comments and favorite rows.
// The FOR UPDATE lock serializes the cascade against concurrent comment
// writes on the same item, so readers never observe a partial delete.
func (r *postgresItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM items WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrItemNotFound
			}
			return fmt.Errorf("failed to lock item: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE item_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete item comments: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE item_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete item favorites: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		return nil
	})
}

// =====================================================
// LIST / FEED QUERY BUILDER
// =====================================================

// buildWhereClause translates the filter into SQL conditions. Unresolved
// usernames simply match nothing, which yields an empty result set.
func (r *postgresItemRepository) buildWhereClause(filter *model.ItemFilter) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(i.tag_list)", argIndex))
		args = append(args, filter.Tag)
		argIndex++
	}

	if filter.Seller != "" {
		conditions = append(conditions, fmt.Sprintf(
			"i.seller_id IN (SELECT id FROM users WHERE username = $%d)", argIndex))
		args = append(args, filter.Seller)
		argIndex++
	}

	if filter.FavoritedBy != "" {
		conditions = append(conditions, fmt.Sprintf(
			`i.id IN (
				SELECT f.item_id FROM favorites f
				JOIN users fu ON fu.id = f.user_id
				WHERE fu.username = $%d
			)`, argIndex))
		args = append(args, filter.FavoritedBy)
		argIndex++
	}

	return strings.Join(conditions, " AND "), args
}

func (r *postgresItemRepository) List(ctx context.Context, filter *model.ItemFilter) ([]model.Item, int, error) {
	whereClause, args := r.buildWhereClause(filter)
	return r.runListQuery(ctx, whereClause, args, filter.Limit, filter.Offset)
}

func (r *postgresItemRepository) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Item, int, error) {
	whereClause := `i.seller_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)`
	return r.runListQuery(ctx, whereClause, []interface{}{userID}, limit, offset)
}

// runListQuery executes the count and page queries for a prepared WHERE
// clause. Total count ignores pagination. Ordering is newest first with
// id as the deterministic tie-breaker.
func (r *postgresItemRepository) runListQuery(ctx context.Context, whereClause string, args []interface{}, limit, offset int) ([]model.Item, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM items i WHERE %s`, whereClause)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM items i
		JOIN users u ON u.id = i.seller_id
		WHERE %s
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $%d OFFSET $%d
	`, itemSelectColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return items, total, nil
}

// =====================================================
// TAGS
// =====================================================

func (r *postgresItemRepository) ListTags(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT unnest(tag_list) AS tag FROM items ORDER BY tag`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tags, nil
}
