package service

import (
	"context"
	"strings"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/utils"
)

// UserService manages user accounts.
type UserService struct {
	users      UserStore
	bcryptCost int
}

func NewUserService(users UserStore, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Register hashes the password and stores a new user. A taken email
// yields Conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, err, "password cannot be hashed")
	}
	u := &model.User{Name: strings.TrimSpace(name), Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Update applies the non-nil fields of patch. The password is re-hashed
// only when a new one is supplied; otherwise the stored hash is kept.
func (s *UserService) Update(ctx context.Context, id uint64, patch model.UserPatch) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := utils.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeValidation, err, "password cannot be hashed")
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return s.users.Delete(ctx, id)
}
