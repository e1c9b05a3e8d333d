package model

import "time"

// Comment is a free-text review of a restaurant written by a user. Only Body
// changes after creation. AuthorID stays internal; clients see Author.
type Comment struct {
	ID           uint64    `json:"id"`
	RestaurantID uint64    `json:"restaurant"`
	AuthorID     uint64    `json:"-"`
	Author       *Author   `json:"author"`
	Body         string    `json:"comment"`
	Date         time.Time `json:"date"`
}

// Rating is a numeric score for a restaurant. Only Score changes after
// creation.
type Rating struct {
	ID           uint64    `json:"id"`
	RestaurantID uint64    `json:"restaurant"`
	AuthorID     uint64    `json:"-"`
	Author       *Author   `json:"author"`
	Score        float64   `json:"rating"`
	Date         time.Time `json:"date"`
}

// Rating bounds, inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

// RatingSummary aggregates the ratings of one restaurant.
type RatingSummary struct {
	RestaurantID uint64  `json:"restaurant"`
	Average      float64 `json:"average"`
	Count        int64   `json:"count"`
}

// AuthorRef and SetAuthor let comments and ratings share author enrichment.
func (c *Comment) AuthorRef() uint64   { return c.AuthorID }
func (c *Comment) SetAuthor(a *Author) { c.Author = a }
func (r *Rating) AuthorRef() uint64    { return r.AuthorID }
func (r *Rating) SetAuthor(a *Author)  { r.Author = a }
