package service

import (
	"context"
	"math"
	"strings"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/logger"
	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/queue"
)

// RestaurantChecker reports whether a restaurant exists.
type RestaurantChecker interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// ReviewService manages comments and ratings. Reads come back with their
// author projection attached.
type ReviewService struct {
	comments    CommentStore
	ratings     RatingStore
	authors     AuthorStore
	restaurants RestaurantChecker
	events      ReviewPublisher
	log         *logger.Logger
}

func NewReviewService(
	comments CommentStore,
	ratings RatingStore,
	authors AuthorStore,
	restaurants RestaurantChecker,
	events ReviewPublisher,
	log *logger.Logger,
) *ReviewService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReviewService{
		comments:    comments,
		ratings:     ratings,
		authors:     authors,
		restaurants: restaurants,
		events:      events,
		log:         log,
	}
}

func (s *ReviewService) requireRestaurant(ctx context.Context, id uint64) error {
	ok, err := s.restaurants.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("restaurant not found")
	}
	return nil
}

// publish failures never fail the request that produced the event.
func (s *ReviewService) publish(ctx context.Context, ev queue.ReviewEvent) {
	if err := s.events.PublishReview(ctx, ev); err != nil {
		s.log.Error(ctx, "publish review event failed", err)
	}
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", apperr.Validation("comment is required").WithDetails(map[string]string{"comment": "required"})
	}
	return body, nil
}

func validateScore(score float64) error {
	if math.IsNaN(score) || score < model.MinRating || score > model.MaxRating {
		return apperr.Validation("rating out of range").WithDetails(map[string]string{"rating": "must be between 0 and 5"})
	}
	return nil
}

// CreateComment stores a comment by authorID on an existing restaurant.
func (s *ReviewService) CreateComment(ctx context.Context, authorID, restaurantID uint64, body string) (*model.Comment, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	c := &model.Comment{RestaurantID: restaurantID, AuthorID: authorID, Body: body}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.attachOne(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.CommentCreated(c))
	return c, nil
}

func (s *ReviewService) GetComment(ctx context.Context, id uint64) (*model.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachOne(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ReviewService) ListComments(ctx context.Context, restaurantID uint64) ([]model.Comment, error) {
	cs, err := s.comments.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := AttachAuthorInfo(ctx, s.authors, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// UpdateComment replaces the text of a comment; nothing else changes.
func (s *ReviewService) UpdateComment(ctx context.Context, id uint64, body string) (*model.Comment, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	c, err := s.comments.UpdateBody(ctx, id, body)
	if err != nil {
		return nil, err
	}
	if err := s.attachOne(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, id uint64) error {
	return s.comments.Delete(ctx, id)
}

// CreateRating stores a score in [0,5] by authorID on an existing
// restaurant.
func (s *ReviewService) CreateRating(ctx context.Context, authorID, restaurantID uint64, score float64) (*model.Rating, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	r := &model.Rating{RestaurantID: restaurantID, AuthorID: authorID, Score: score}
	if err := s.ratings.Create(ctx, r); err != nil {
		return nil, err
	}
	if err := s.attachOne(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.RatingCreated(r))
	return r, nil
}

func (s *ReviewService) GetRating(ctx context.Context, id uint64) (*model.Rating, error) {
	r, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachOne(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) ListRatings(ctx context.Context, restaurantID uint64) ([]model.Rating, error) {
	rs, err := s.ratings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := AttachAuthorInfo(ctx, s.authors, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// UpdateRating replaces the score of a rating; nothing else changes.
func (s *ReviewService) UpdateRating(ctx context.Context, id uint64, score float64) (*model.Rating, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}
	r, err := s.ratings.UpdateScore(ctx, id, score)
	if err != nil {
		return nil, err
	}
	if err := s.attachOne(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) DeleteRating(ctx context.Context, id uint64) error {
	return s.ratings.Delete(ctx, id)
}

// RatingSummary averages the ratings of an existing restaurant.
func (s *ReviewService) RatingSummary(ctx context.Context, restaurantID uint64) (model.RatingSummary, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return model.RatingSummary{}, err
	}
	return s.ratings.Summary(ctx, restaurantID)
}

func (s *ReviewService) attachOne(ctx context.Context, rec Authored) error {
	authors, err := s.authors.FindAuthors(ctx, []uint64{rec.AuthorRef()})
	if err != nil {
		return err
	}
	if a, ok := authors[rec.AuthorRef()]; ok {
		rec.SetAuthor(&a)
	} else {
		rec.SetAuthor(&model.Author{})
	}
	return nil
}
