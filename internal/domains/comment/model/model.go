package model

import (
	"time"

	"github.com/google/uuid"

	usermodel "marketplace-backend/internal/domains/user/model"
)

// Comment is a remark left by a user on an item. The seller_id column
// records the comment's author, not the item's seller.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Body      string    `json:"body" db:"body"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	AuthorID  uuid.UUID `json:"-" db:"seller_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined author profile, not a column.
	Author Author `json:"-" db:"-"`
}

type Author struct {
	ID       uuid.UUID
	Username string
	Bio      *string
	Image    *string
}

func (a Author) ToProfile(following bool) usermodel.Profile {
	return usermodel.Profile{
		Username:  a.Username,
		Bio:       a.Bio,
		Image:     a.Image,
		Following: following,
	}
}
