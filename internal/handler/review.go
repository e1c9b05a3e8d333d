package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/model"
)

// ReviewService covers comments, ratings and the per-restaurant summary.
type ReviewService interface {
	CreateComment(ctx context.Context, authorID, restaurantID uint64, body string) (*model.Comment, error)
	GetComment(ctx context.Context, id uint64) (*model.Comment, error)
	ListComments(ctx context.Context, restaurantID uint64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, id uint64, body string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id uint64) error

	CreateRating(ctx context.Context, authorID, restaurantID uint64, score float64) (*model.Rating, error)
	GetRating(ctx context.Context, id uint64) (*model.Rating, error)
	ListRatings(ctx context.Context, restaurantID uint64) ([]model.Rating, error)
	UpdateRating(ctx context.Context, id uint64, score float64) (*model.Rating, error)
	DeleteRating(ctx context.Context, id uint64) error

	RatingSummary(ctx context.Context, restaurantID uint64) (model.RatingSummary, error)
}

type ReviewHandler struct {
	Reviews ReviewService
}

func NewReviewHandler(s ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: s}
}

// ----- DTOs -----

type createCommentReq struct {
	Restaurant uint64 `json:"restaurant" validate:"required"`
	Comment    string `json:"comment" validate:"required"`
}

type commentBodyReq struct {
	Comment string `json:"comment" validate:"required"`
}

type createRatingReq struct {
	Restaurant uint64   `json:"restaurant" validate:"required"`
	Rating     *float64 `json:"rating" validate:"required"`
}

type ratingScoreReq struct {
	Rating *float64 `json:"rating" validate:"required"`
}

// ----- comments -----

// CreateComment stores a comment authored by the caller.
func (h *ReviewHandler) CreateComment(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createCommentReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cm, err := h.Reviews.CreateComment(c.Request().Context(), uid, req.Restaurant, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

// CreateRestaurantComment serves POST /api/restaurants/:id/comments, where
// the restaurant comes from the path.
func (h *ReviewHandler) CreateRestaurantComment(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	rid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req commentBodyReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cm, err := h.Reviews.CreateComment(c.Request().Context(), uid, rid, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *ReviewHandler) GetComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cm, err := h.Reviews.GetComment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cm)
}

func (h *ReviewHandler) ListComments(c echo.Context) error {
	rid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cs, err := h.Reviews.ListComments(c.Request().Context(), rid)
	if err != nil {
		return err
	}
	if cs == nil {
		cs = []model.Comment{}
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *ReviewHandler) UpdateComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req commentBodyReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cm, err := h.Reviews.UpdateComment(c.Request().Context(), id, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cm)
}

func (h *ReviewHandler) DeleteComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Reviews.DeleteComment(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "comment deleted"})
}

// ----- ratings -----

func (h *ReviewHandler) CreateRating(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createRatingReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.Reviews.CreateRating(c.Request().Context(), uid, req.Restaurant, *req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// CreateRestaurantRating serves POST /api/restaurants/:id/rating.
func (h *ReviewHandler) CreateRestaurantRating(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	rid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ratingScoreReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.Reviews.CreateRating(c.Request().Context(), uid, rid, *req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *ReviewHandler) GetRating(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.Reviews.GetRating(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) ListRatings(c echo.Context) error {
	rid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	rs, err := h.Reviews.ListRatings(c.Request().Context(), rid)
	if err != nil {
		return err
	}
	if rs == nil {
		rs = []model.Rating{}
	}
	return c.JSON(http.StatusOK, rs)
}

// RatingSummary returns the average and count of a restaurant's ratings.
func (h *ReviewHandler) RatingSummary(c echo.Context) error {
	rid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	sum, err := h.Reviews.RatingSummary(c.Request().Context(), rid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *ReviewHandler) UpdateRating(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ratingScoreReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.Reviews.UpdateRating(c.Request().Context(), id, *req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) DeleteRating(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Reviews.DeleteRating(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "rating deleted"})
}
