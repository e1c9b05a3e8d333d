package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/service"
)

// UserService is the account surface the user endpoints need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Get(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// LoginService exchanges credentials for a session token.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// UserHandler bundles dependencies for the user endpoints.
type UserHandler struct {
	Users UserService
	Auth  LoginService
}

func NewUserHandler(users UserService, auth LoginService) *UserHandler {
	return &UserHandler{Users: users, Auth: auth}
}

// ----- DTOs -----

// bcrypt accepts at most 72 bytes of password.
type registerReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserReq struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
}

// Register creates an account. The response never includes the hash.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.Users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// Login verifies credentials and returns the user with a session token.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.Users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Update applies a partial profile update; omitted fields are unchanged.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req updateUserReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.Users.Update(c.Request().Context(), id, model.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "user deleted"})
}
