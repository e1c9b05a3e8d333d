package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/service"
)

// RestaurantService is the restaurant surface the HTTP layer needs.
type RestaurantService interface {
	Search(ctx context.Context, p service.SearchParams) ([]model.Restaurant, error)
	List(ctx context.Context) ([]model.Restaurant, error)
	Get(ctx context.Context, id uint64) (*model.Restaurant, error)
	Create(ctx context.Context, r *model.Restaurant) error
	Update(ctx context.Context, id uint64, r *model.Restaurant) error
	Delete(ctx context.Context, id uint64) error
}

type RestaurantHandler struct {
	Restaurants RestaurantService
}

func NewRestaurantHandler(s RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{Restaurants: s}
}

// ----- DTOs -----

// Length bounds follow the column widths in the restaurants table.

type addressReq struct {
	Building string    `json:"building" validate:"max=64"`
	Street   string    `json:"street" validate:"max=255"`
	Zipcode  string    `json:"zipcode" validate:"max=16"`
	Coord    []float64 `json:"coord" validate:"required,len=2"`
}

type hoursReq struct {
	Monday    string `json:"Monday" validate:"max=64"`
	Tuesday   string `json:"Tuesday" validate:"max=64"`
	Wednesday string `json:"Wednesday" validate:"max=64"`
	Thursday  string `json:"Thursday" validate:"max=64"`
	Friday    string `json:"Friday" validate:"max=64"`
	Saturday  string `json:"Saturday" validate:"max=64"`
	Sunday    string `json:"Sunday" validate:"max=64"`
}

type restaurantReq struct {
	Name         string     `json:"name" validate:"max=255"`
	Cuisine      string     `json:"cuisine" validate:"max=255"`
	Borough      string     `json:"borough" validate:"max=255"`
	Address      addressReq `json:"address"`
	Hours        hoursReq   `json:"hours"`
	RestaurantID string     `json:"restaurant_id" validate:"max=64"`
}

func (r restaurantReq) toModel() *model.Restaurant {
	return &model.Restaurant{
		Name:    r.Name,
		Cuisine: r.Cuisine,
		Borough: r.Borough,
		Address: model.Address{
			Building: r.Address.Building,
			Street:   r.Address.Street,
			Zipcode:  r.Address.Zipcode,
			Coord:    model.NewCoordinate(r.Address.Coord[0], r.Address.Coord[1]),
		},
		Hours:        model.Hours(r.Hours),
		RestaurantID: strings.TrimSpace(r.RestaurantID),
	}
}

func restaurantsOrEmpty(rs []model.Restaurant) []model.Restaurant {
	if rs == nil {
		return []model.Restaurant{}
	}
	return rs
}

// Search filters restaurants by name and cuisine substrings, and by
// distance from the caller when userLat and userLong are both given.
func (h *RestaurantHandler) Search(c echo.Context) error {
	rs, err := h.Restaurants.Search(c.Request().Context(), service.SearchParams{
		Name:     c.QueryParam("name"),
		Cuisine:  c.QueryParam("cuisine"),
		UserLat:  c.QueryParam("userLat"),
		UserLong: c.QueryParam("userLong"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurantsOrEmpty(rs))
}

func (h *RestaurantHandler) List(c echo.Context) error {
	rs, err := h.Restaurants.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurantsOrEmpty(rs))
}

func (h *RestaurantHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.Restaurants.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RestaurantHandler) Create(c echo.Context) error {
	var req restaurantReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r := req.toModel()
	if err := h.Restaurants.Create(c.Request().Context(), r); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// Update replaces every mutable field of the restaurant.
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req restaurantReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r := req.toModel()
	if err := h.Restaurants.Update(c.Request().Context(), id, r); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RestaurantHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Restaurants.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "restaurant deleted"})
}
