package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/tattler/internal/model"
)

// NearbyRadiusMeters bounds proximity searches.
const NearbyRadiusMeters = 5000

// likeEscaper makes user input match literally inside a LIKE pattern that
// declares '!' as its escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

const distanceExpr = "ST_Distance_Sphere(POINT(coord_lng, coord_lat), POINT(?, ?))"

// buildSearchSQL composes the restaurant search. Name and cuisine are
// substring filters joined with AND; the columns' utf8mb4_0900_as_ci
// collation makes them case-insensitive and accent-sensitive. When q.Near is set
// the rows are restricted to NearbyRadiusMeters around it, carry a distance
// column and are ordered by it; otherwise they come back in id order.
func buildSearchSQL(q model.RestaurantQuery) (string, []any) {
	where := []string{}
	args := []any{}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(restaurantColumns)
	if q.Near != nil {
		sb.WriteString(", " + distanceExpr + " AS distance")
		args = append(args, q.Near.Lng(), q.Near.Lat())

		where = append(where, distanceExpr+" <= ?")
		args = append(args, q.Near.Lng(), q.Near.Lat(), NearbyRadiusMeters)
	}
	sb.WriteString(" FROM restaurants")

	if q.Name != "" {
		where = append(where, "name LIKE ? ESCAPE '!'")
		args = append(args, containsPattern(q.Name))
	}
	if q.Cuisine != "" {
		where = append(where, "cuisine LIKE ? ESCAPE '!'")
		args = append(args, containsPattern(q.Cuisine))
	}

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	if q.Near != nil {
		sb.WriteString(" ORDER BY distance ASC, id ASC")
	} else {
		sb.WriteString(" ORDER BY id ASC")
	}
	return sb.String(), args
}

// Search runs the composed query and materializes every matching row.
func (r *RestaurantRepo) Search(ctx context.Context, q model.RestaurantQuery) ([]model.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args := buildSearchSQL(q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	defer rows.Close()

	out := []model.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows, q.Near != nil)
		if err != nil {
			return nil, classify(err, msgRestaurantNotFound, msgRestaurantExists)
		}
		out = append(out, *rest)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, msgRestaurantNotFound, msgRestaurantExists)
	}
	return out, nil
}
