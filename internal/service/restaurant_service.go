package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/model"
)

// SearchParams are the raw query parameters of a restaurant search.
type SearchParams struct {
	Name     string
	Cuisine  string
	UserLat  string
	UserLong string
}

type RestaurantService struct {
	store RestaurantStore
}

func NewRestaurantService(store RestaurantStore) *RestaurantService {
	return &RestaurantService{store: store}
}

// ParseSearch validates raw search parameters. Latitude and longitude must
// be given together, be numeric, and lie inside their geographic ranges.
func ParseSearch(p SearchParams) (model.RestaurantQuery, error) {
	q := model.RestaurantQuery{
		Name:    strings.TrimSpace(p.Name),
		Cuisine: strings.TrimSpace(p.Cuisine),
	}

	lat, lng := strings.TrimSpace(p.UserLat), strings.TrimSpace(p.UserLong)
	if lat == "" && lng == "" {
		return q, nil
	}
	if lat == "" || lng == "" {
		return q, apperr.InvalidArgument("userLat and userLong must be provided together")
	}

	latF, err := parseFinite(lat)
	if err != nil {
		return q, apperr.InvalidArgument("userLat must be a number").WithDetails(map[string]string{"userLat": lat})
	}
	lngF, err := parseFinite(lng)
	if err != nil {
		return q, apperr.InvalidArgument("userLong must be a number").WithDetails(map[string]string{"userLong": lng})
	}

	near := model.NewCoordinate(lngF, latF)
	if !near.Valid() {
		return q, apperr.InvalidArgument("coordinates out of range").WithDetails(map[string]float64{
			"userLat":  latF,
			"userLong": lngF,
		})
	}
	q.Near = &near
	return q, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

// Search returns restaurants whose name and cuisine contain the given
// terms. With a coordinate only those within 5 km are returned, nearest
// first.
func (s *RestaurantService) Search(ctx context.Context, p SearchParams) ([]model.Restaurant, error) {
	q, err := ParseSearch(p)
	if err != nil {
		return nil, err
	}
	return s.store.Search(ctx, q)
}

func (s *RestaurantService) List(ctx context.Context) ([]model.Restaurant, error) {
	return s.store.List(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id uint64) (*model.Restaurant, error) {
	return s.store.GetByID(ctx, id)
}

// Create stores r. A taken restaurant_id yields Conflict.
func (s *RestaurantService) Create(ctx context.Context, r *model.Restaurant) error {
	if err := validateRestaurant(r); err != nil {
		return err
	}
	return s.store.Create(ctx, r)
}

// Update replaces the mutable fields of the restaurant with id.
func (s *RestaurantService) Update(ctx context.Context, id uint64, r *model.Restaurant) error {
	if err := validateRestaurant(r); err != nil {
		return err
	}
	r.ID = id
	return s.store.Update(ctx, r)
}

func (s *RestaurantService) Delete(ctx context.Context, id uint64) error {
	return s.store.Delete(ctx, id)
}

func validateRestaurant(r *model.Restaurant) error {
	r.Name = strings.TrimSpace(r.Name)
	r.RestaurantID = strings.TrimSpace(r.RestaurantID)
	if !r.Address.Coord.Valid() {
		return apperr.Validation("invalid coordinate").WithDetails(map[string]string{
			"address.coord": "must be [longitude in -180..180, latitude in -90..90]",
		})
	}
	return nil
}
