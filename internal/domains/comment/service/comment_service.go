package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/comment/model"
	"marketplace-backend/internal/domains/comment/repository"
	itemrepo "marketplace-backend/internal/domains/item/repository"
	userrepo "marketplace-backend/internal/domains/user/repository"
)

type commentService struct {
	repo  repository.CommentRepository
	items itemrepo.ItemRepository
	users userrepo.UserRepository
}

func NewCommentService(
	repo repository.CommentRepository,
	items itemrepo.ItemRepository,
	users userrepo.UserRepository,
) CommentService {
	return &commentService{
		repo:  repo,
		items: items,
		users: users,
	}
}

func (s *commentService) Create(ctx context.Context, slug string, authorID uuid.UUID, req model.CreateCommentRequest) (*model.CommentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:        uuid.New(),
		Body:      req.Body,
		ItemID:    item.ID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment.Author = model.Author{
		ID:       author.ID,
		Username: author.Username,
		Bio:      author.Bio,
		Image:    author.Image,
	}

	resp := comment.ToResponse(false)
	return &resp, nil
}

// Delete removes a comment. Only the author may delete it; the item's
// seller gets no special rights over other people's comments.
func (s *commentService) Delete(ctx context.Context, commentID, requesterID uuid.UUID) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != requesterID {
		return model.ErrNotCommentAuthor
	}

	return s.repo.Delete(ctx, commentID)
}

func (s *commentService) ListByItem(ctx context.Context, slug string, viewerID *uuid.UUID) ([]model.CommentResponse, error) {
	item, err := s.items.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	folMap := map[uuid.UUID]bool{}
	if viewerID != nil && len(comments) > 0 {
		authorIDs := make([]uuid.UUID, 0, len(comments))
		seen := map[uuid.UUID]bool{}
		for _, comment := range comments {
			if !seen[comment.AuthorID] {
				seen[comment.AuthorID] = true
				authorIDs = append(authorIDs, comment.AuthorID)
			}
		}

		folMap, err = s.users.FollowingSet(ctx, *viewerID, authorIDs)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]model.CommentResponse, len(comments))
	for i := range comments {
		responses[i] = comments[i].ToResponse(folMap[comments[i].AuthorID])
	}

	return responses, nil
}
