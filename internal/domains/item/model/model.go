package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Item is the central catalog aggregate: a seller-owned entry with a
// stable public slug, an optional image, tags, and a denormalized
// favorites count maintained against the favorites relation.
type Item struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"` // unique, immutable after creation
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Image       *string   `json:"image" db:"image"`

	TagList pq.StringArray `json:"tag_list" db:"tag_list"` // insertion order preserved

	// Derived: always equals the number of favorites rows for this item.
	FavoritesCount int `json:"favorites_count" db:"favorites_count"`

	SellerID uuid.UUID `json:"seller_id" db:"seller_id"` // immutable owner

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Seller is joined on reads; not a stored column.
	Seller Seller `json:"seller" db:"-"`
}

// Seller is the joined owner row carried alongside an item.
type Seller struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Bio      *string   `json:"bio"`
	Image    *string   `json:"image"`
}

// Pagination defaults; values are coerced to non-negative but never
// clamped against a maximum.
const (
	DefaultListLimit = 100
	DefaultFeedLimit = 20
)

// ItemFilter describes the listing query. Usernames that do not resolve
// produce an empty result set, not an error.
type ItemFilter struct {
	Tag         string
	Seller      string // seller username
	FavoritedBy string // username whose favorites restrict the result

	Limit  int
	Offset int
}

// Normalize applies pagination defaults and coerces negatives.
func (f *ItemFilter) Normalize(defaultLimit int) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
