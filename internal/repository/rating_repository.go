package repository

import (
	"context"

	"github.com/iliyamo/tattler/internal/model"
)

type RatingRepo struct {
	db DBTX
}

func NewRatingRepo(db DBTX) *RatingRepo { return &RatingRepo{db: db} }

const ratingColumns = "id, restaurant_id, author_id, score, created_at"

const msgRatingNotFound = "rating not found"

func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ratings (restaurant_id, author_id, score) VALUES (?, ?, ?)",
		rt.RestaurantID, rt.AuthorID, rt.Score)
	if err != nil {
		return classify(err, msgRatingNotFound, "")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify(err, msgRatingNotFound, "")
	}
	created, err := r.getByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rt = *created
	return nil
}

func (r *RatingRepo) GetByID(ctx context.Context, id uint64) (*model.Rating, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.getByID(ctx, id)
}

func (r *RatingRepo) getByID(ctx context.Context, id uint64) (*model.Rating, error) {
	rt, err := scanRating(r.db.QueryRowContext(ctx,
		"SELECT "+ratingColumns+" FROM ratings WHERE id = ?", id))
	if err != nil {
		return nil, classify(err, msgRatingNotFound, "")
	}
	return rt, nil
}

// ListByRestaurant returns the ratings of a restaurant, oldest first.
func (r *RatingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Rating, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ratingColumns+" FROM ratings WHERE restaurant_id = ? ORDER BY created_at ASC, id ASC",
		restaurantID)
	if err != nil {
		return nil, classify(err, msgRatingNotFound, "")
	}
	defer rows.Close()

	out := []model.Rating{}
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, classify(err, msgRatingNotFound, "")
		}
		out = append(out, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, msgRatingNotFound, "")
	}
	return out, nil
}

// Summary averages the ratings of a restaurant. A restaurant without
// ratings yields a zero average and count.
func (r *RatingRepo) Summary(ctx context.Context, restaurantID uint64) (model.RatingSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sum := model.RatingSummary{RestaurantID: restaurantID}
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ratings WHERE restaurant_id = ?",
		restaurantID).Scan(&sum.Average, &sum.Count)
	if err != nil {
		return model.RatingSummary{}, classify(err, msgRatingNotFound, "")
	}
	return sum, nil
}

// UpdateScore changes the score of a rating and returns the stored row.
func (r *RatingRepo) UpdateScore(ctx context.Context, id uint64, score float64) (*model.Rating, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "UPDATE ratings SET score = ? WHERE id = ?", score, id)
	if err != nil {
		return nil, classify(err, msgRatingNotFound, "")
	}
	if err := affectedOrNotFound(res, msgRatingNotFound); err != nil {
		return nil, err
	}
	return r.getByID(ctx, id)
}

func (r *RatingRepo) Delete(ctx context.Context, id uint64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "DELETE FROM ratings WHERE id = ?", id)
	if err != nil {
		return classify(err, msgRatingNotFound, "")
	}
	return affectedOrNotFound(res, msgRatingNotFound)
}

func scanRating(s rowScanner) (*model.Rating, error) {
	var rt model.Rating
	if err := s.Scan(&rt.ID, &rt.RestaurantID, &rt.AuthorID, &rt.Score, &rt.Date); err != nil {
		return nil, err
	}
	return &rt, nil
}
