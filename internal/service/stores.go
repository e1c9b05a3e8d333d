// Package service holds the business rules of the API: credential checks,
// session authentication, restaurant search validation and review
// management. Persistence is reached through the small interfaces below,
// implemented by package repository.
package service

import (
	"context"

	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/queue"
	"github.com/iliyamo/tattler/internal/utils"
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint64) error
}

type RestaurantStore interface {
	Create(ctx context.Context, r *model.Restaurant) error
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]model.Restaurant, error)
	Search(ctx context.Context, q model.RestaurantQuery) ([]model.Restaurant, error)
	Update(ctx context.Context, r *model.Restaurant) error
	Delete(ctx context.Context, id uint64) error
}

type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id uint64) (*model.Comment, error)
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Comment, error)
	UpdateBody(ctx context.Context, id uint64, body string) (*model.Comment, error)
	Delete(ctx context.Context, id uint64) error
}

type RatingStore interface {
	Create(ctx context.Context, r *model.Rating) error
	GetByID(ctx context.Context, id uint64) (*model.Rating, error)
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Rating, error)
	Summary(ctx context.Context, restaurantID uint64) (model.RatingSummary, error)
	UpdateScore(ctx context.Context, id uint64, score float64) (*model.Rating, error)
	Delete(ctx context.Context, id uint64) error
}

// AuthorStore resolves user ids to author projections in one round trip.
type AuthorStore interface {
	FindAuthors(ctx context.Context, ids []uint64) (map[uint64]model.Author, error)
}

// TokenSigner mints and verifies session tokens.
type TokenSigner interface {
	Issue(userID uint64) (utils.AccessToken, error)
	Verify(raw string) (uint64, error)
}

// ReviewPublisher announces new comments and ratings.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, ev queue.ReviewEvent) error
}
