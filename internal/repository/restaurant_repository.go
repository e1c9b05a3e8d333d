package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/tattler/internal/model"
)

// RestaurantRepo encapsulates all queries on the `restaurants` table.
type RestaurantRepo struct {
	db DBTX
}

func NewRestaurantRepo(db DBTX) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

const restaurantColumns = `id, name, cuisine, borough, building, street, zipcode, coord_lng, coord_lat,
	hours_monday, hours_tuesday, hours_wednesday, hours_thursday, hours_friday, hours_saturday, hours_sunday,
	restaurant_id, created_at, updated_at`

const (
	msgRestaurantNotFound = "restaurant not found"
	msgRestaurantExists   = "restaurant_id or coordinate already taken"
)

// Create inserts rest and fills in its id and timestamps.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	const q = `INSERT INTO restaurants (name, cuisine, borough, building, street, zipcode, coord_lng, coord_lat,
		hours_monday, hours_tuesday, hours_wednesday, hours_thursday, hours_friday, hours_saturday, hours_sunday,
		restaurant_id) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, restaurantArgs(rest)...)
	if err != nil {
		return classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	created, err := r.getByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rest = *created
	return nil
}

// GetByID fetches a restaurant by primary key.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.getByID(ctx, id)
}

func (r *RestaurantRepo) getByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id), false)
	if err != nil {
		return nil, classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	return rest, nil
}

// Exists reports whether a restaurant with the id is present.
func (r *RestaurantRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM restaurants WHERE id = ? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	return true, nil
}

// List returns all restaurants ordered by id.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	return r.Search(ctx, model.RestaurantQuery{})
}

// Update replaces every mutable column of the restaurant with rest.ID and
// reloads it.
func (r *RestaurantRepo) Update(ctx context.Context, rest *model.Restaurant) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	const q = `UPDATE restaurants SET name=?, cuisine=?, borough=?, building=?, street=?, zipcode=?,
		coord_lng=?, coord_lat=?, hours_monday=?, hours_tuesday=?, hours_wednesday=?, hours_thursday=?,
		hours_friday=?, hours_saturday=?, hours_sunday=?, restaurant_id=? WHERE id=?`
	args := append(restaurantArgs(rest), rest.ID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	if err := affectedOrNotFound(res, msgRestaurantNotFound); err != nil {
		return err
	}
	updated, err := r.getByID(ctx, rest.ID)
	if err != nil {
		return err
	}
	*rest = *updated
	return nil
}

// Delete removes the restaurant. Its comments and ratings are left in place.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "DELETE FROM restaurants WHERE id = ?", id)
	if err != nil {
		return classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	return affectedOrNotFound(res, msgRestaurantNotFound)
}

func restaurantArgs(rest *model.Restaurant) []any {
	var extID any
	if rest.RestaurantID != "" {
		extID = rest.RestaurantID
	}
	return []any{
		rest.Name, rest.Cuisine, rest.Borough,
		rest.Address.Building, rest.Address.Street, rest.Address.Zipcode,
		rest.Address.Coord.Lng(), rest.Address.Coord.Lat(),
		rest.Hours.Monday, rest.Hours.Tuesday, rest.Hours.Wednesday, rest.Hours.Thursday,
		rest.Hours.Friday, rest.Hours.Saturday, rest.Hours.Sunday,
		extID,
	}
}

// scanRestaurant reads restaurantColumns, followed by a distance column
// when withDistance is set.
func scanRestaurant(s rowScanner, withDistance bool) (*model.Restaurant, error) {
	var (
		rest     model.Restaurant
		lng, lat float64
		extID    sql.NullString
		distance float64
	)
	dest := []any{
		&rest.ID, &rest.Name, &rest.Cuisine, &rest.Borough,
		&rest.Address.Building, &rest.Address.Street, &rest.Address.Zipcode,
		&lng, &lat,
		&rest.Hours.Monday, &rest.Hours.Tuesday, &rest.Hours.Wednesday, &rest.Hours.Thursday,
		&rest.Hours.Friday, &rest.Hours.Saturday, &rest.Hours.Sunday,
		&extID, &rest.CreatedAt, &rest.UpdatedAt,
	}
	if withDistance {
		dest = append(dest, &distance)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	rest.Address.Coord = model.NewCoordinate(lng, lat)
	rest.RestaurantID = extID.String
	if withDistance {
		rest.Distance = &distance
	}
	return &rest, nil
}
