package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/comment/model"
	itemmodel "marketplace-backend/internal/domains/item/model"
	usermodel "marketplace-backend/internal/domains/user/model"
	"marketplace-backend/pkg/database"
)

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

const commentSelectColumns = `
	c.id, c.body, c.item_id, c.seller_id, c.created_at,
	u.id, u.username, u.bio, u.image
`

func scanComment(row pgx.Row) (*model.Comment, error) {
	comment := &model.Comment{}

	err := row.Scan(
		&comment.ID,
		&comment.Body,
		&comment.ItemID,
		&comment.AuthorID,
		&comment.CreatedAt,
		&comment.Author.ID,
		&comment.Author.Username,
		&comment.Author.Bio,
		&comment.Author.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	return comment, nil
}

// Create inserts the comment after taking the item row lock, so a
// concurrent item delete cannot leave an orphaned comment behind.
func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM items WHERE id = $1 FOR UPDATE`, comment.ItemID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return itemmodel.ErrItemNotFound
			}
			return fmt.Errorf("failed to lock item: %w", err)
		}

		query := `
			INSERT INTO comments (id, body, item_id, seller_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err = tx.Exec(ctx, query,
			comment.ID,
			comment.Body,
			comment.ItemID,
			comment.AuthorID,
			comment.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return usermodel.ErrUserNotFound
			}
			return fmt.Errorf("failed to create comment: %w", err)
		}

		return nil
	})
}

func (r *postgresCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.seller_id
		WHERE c.id = $1
	`
	return scanComment(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}

	return nil
}

// ListByItem returns the item's comments newest first.
func (r *postgresCommentRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.seller_id
		WHERE c.item_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return comments, nil
}
