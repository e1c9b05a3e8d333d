package service

import (
	"context"

	"github.com/iliyamo/tattler/internal/model"
)

// Authored is implemented by records that reference a user as author.
type Authored interface {
	AuthorRef() uint64
	SetAuthor(a *model.Author)
}

// AttachAuthorInfo resolves the authors of records with one store lookup
// and sets the {id, name} projection on each of them. Records whose author
// no longer exists get an empty projection.
func AttachAuthorInfo[T any, PT interface {
	*T
	Authored
}](ctx context.Context, store AuthorStore, records []T) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[uint64]struct{}, len(records))
	ids := make([]uint64, 0, len(records))
	for i := range records {
		id := PT(&records[i]).AuthorRef()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	authors, err := store.FindAuthors(ctx, ids)
	if err != nil {
		return err
	}

	for i := range records {
		rec := PT(&records[i])
		if a, ok := authors[rec.AuthorRef()]; ok {
			rec.SetAuthor(&a)
		} else {
			rec.SetAuthor(&model.Author{})
		}
	}
	return nil
}
