package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/tattler/internal/model"
)

// AuthorRepo resolves user ids to the public author projection.
type AuthorRepo struct {
	db DBTX
}

func NewAuthorRepo(db DBTX) *AuthorRepo { return &AuthorRepo{db: db} }

// FindAuthors loads id and name of the given users with a single query.
// Ids without a matching user are absent from the result.
func (r *AuthorRepo) FindAuthors(ctx context.Context, ids []uint64) (map[uint64]model.Author, error) {
	out := make(map[uint64]model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM users WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, classify(err, msgUserNotFound, "")
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, classify(err, msgUserNotFound, "")
		}
		out[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, msgUserNotFound, "")
	}
	return out, nil
}
