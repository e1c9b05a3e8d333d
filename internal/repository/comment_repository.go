package repository

import (
	"context"

	"github.com/iliyamo/tattler/internal/model"
)

// CommentRepo stores comments. Author details are resolved separately by
// AuthorRepo; this repo only deals with author ids.
type CommentRepo struct {
	db DBTX
}

func NewCommentRepo(db DBTX) *CommentRepo { return &CommentRepo{db: db} }

const commentColumns = "id, restaurant_id, author_id, body, created_at"

const msgCommentNotFound = "comment not found"

// Create inserts c and fills in its id and date.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (restaurant_id, author_id, body) VALUES (?, ?, ?)",
		c.RestaurantID, c.AuthorID, c.Body)
	if err != nil {
		return classify(err, msgCommentNotFound, "comment already exists")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify(err, msgCommentNotFound, "comment already exists")
	}
	created, err := r.getByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.getByID(ctx, id)
}

func (r *CommentRepo) getByID(ctx context.Context, id uint64) (*model.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = ?", id))
	if err != nil {
		return nil, classify(err, msgCommentNotFound, "")
	}
	return c, nil
}

// ListByRestaurant returns the comments of a restaurant, oldest first.
func (r *CommentRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE restaurant_id = ? ORDER BY created_at ASC, id ASC",
		restaurantID)
	if err != nil {
		return nil, classify(err, msgCommentNotFound, "")
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, classify(err, msgCommentNotFound, "")
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, msgCommentNotFound, "")
	}
	return out, nil
}

// UpdateBody changes the text of a comment and returns the stored row.
func (r *CommentRepo) UpdateBody(ctx context.Context, id uint64, body string) (*model.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "UPDATE comments SET body = ? WHERE id = ?", body, id)
	if err != nil {
		return nil, classify(err, msgCommentNotFound, "")
	}
	if err := affectedOrNotFound(res, msgCommentNotFound); err != nil {
		return nil, err
	}
	return r.getByID(ctx, id)
}

func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return classify(err, msgCommentNotFound, "")
	}
	return affectedOrNotFound(res, msgCommentNotFound)
}

func scanComment(s rowScanner) (*model.Comment, error) {
	var c model.Comment
	if err := s.Scan(&c.ID, &c.RestaurantID, &c.AuthorID, &c.Body, &c.Date); err != nil {
		return nil, err
	}
	return &c, nil
}
