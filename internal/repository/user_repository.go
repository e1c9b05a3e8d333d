package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/tattler/internal/model"
)

type UserRepo struct{ DB DBTX }

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, name, email, password_hash, created_at, updated_at"

const (
	msgUserNotFound = "user not found"
	msgEmailExists  = "email already exists"
)

// NormalizeEmail is applied to every email before it reaches the table.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u and fills in its id and timestamps. u.PasswordHash must
// already hold a bcrypt hash.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u.Email = NormalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?,?,?)",
		u.Name, u.Email, u.PasswordHash)
	if err != nil {
		return classify(err, msgUserNotFound, msgEmailExists)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify(err, msgUserNotFound, msgEmailExists)
	}
	created, err := r.getByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email)))
	if err != nil {
		return nil, classify(err, msgUserNotFound, msgEmailExists)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.getByID(ctx, id)
}

func (r *UserRepo) getByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, classify(err, msgUserNotFound, msgEmailExists)
	}
	return u, nil
}

// List returns every user ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, classify(err, msgUserNotFound, msgEmailExists)
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify(err, msgUserNotFound, msgEmailExists)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, msgUserNotFound, msgEmailExists)
	}
	return out, nil
}

// Update writes name, email and password hash of u and reloads the row.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u.Email = NormalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, password_hash=? WHERE id=?",
		u.Name, u.Email, u.PasswordHash, u.ID)
	if err != nil {
		return classify(err, msgUserNotFound, msgEmailExists)
	}
	if err := affectedOrNotFound(res, msgUserNotFound); err != nil {
		return err
	}
	updated, err := r.getByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}

// Delete removes the user. Comments and ratings keep their author id.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return classify(err, msgUserNotFound, msgEmailExists)
	}
	return affectedOrNotFound(res, msgUserNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
