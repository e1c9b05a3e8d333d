// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/tattler/internal/model"
)

// ReviewQueueName is the durable queue review events are published to.
const ReviewQueueName = "review.created"

// Review kinds.
const (
	KindComment = "comment"
	KindRating  = "rating"
)

// ReviewEvent is published when a comment or rating is created. It carries
// enough information for downstream consumers to log or aggregate review
// activity without querying the primary database.
type ReviewEvent struct {
	Kind         string   `json:"kind"`
	ReviewID     uint64   `json:"review_id"`
	RestaurantID uint64   `json:"restaurant_id"`
	AuthorID     uint64   `json:"author_id"`
	Comment      string   `json:"comment,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// CommentCreated builds the event for a stored comment.
func CommentCreated(c *model.Comment) ReviewEvent {
	return ReviewEvent{
		Kind:         KindComment,
		ReviewID:     c.ID,
		RestaurantID: c.RestaurantID,
		AuthorID:     c.AuthorID,
		Comment:      c.Body,
		CreatedAt:    c.Date.UTC().Format(time.RFC3339),
	}
}

// RatingCreated builds the event for a stored rating.
func RatingCreated(r *model.Rating) ReviewEvent {
	score := r.Score
	return ReviewEvent{
		Kind:         KindRating,
		ReviewID:     r.ID,
		RestaurantID: r.RestaurantID,
		AuthorID:     r.AuthorID,
		Rating:       &score,
		CreatedAt:    r.Date.UTC().Format(time.RFC3339),
	}
}
