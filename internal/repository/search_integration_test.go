//go:build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/database"
	"github.com/iliyamo/tattler/internal/model"
)

// Run with: TATTLER_TEST_DSN='user:pass@tcp(localhost:3306)/tattler_test' go test -tags integration ./internal/repository/
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	raw := os.Getenv("TATTLER_TEST_DSN")
	if raw == "" {
		t.Skip("TATTLER_TEST_DSN not set")
	}
	cfg, err := mysql.ParseDSN(raw)
	require.NoError(t, err)
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, database.Migrate(ctx, db, "up"))
	return db
}

func createRestaurant(t *testing.T, repo *RestaurantRepo, name string, lng, lat float64) uint64 {
	t.Helper()
	r := &model.Restaurant{Name: name, Cuisine: "Test", Address: model.Address{Coord: model.NewCoordinate(lng, lat)}}
	require.NoError(t, repo.Create(context.Background(), r))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), r.ID) })
	return r.ID
}

func ids(rs []model.Restaurant) []uint64 {
	out := make([]uint64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestSearchAgainstMySQL(t *testing.T) {
	repo := NewRestaurantRepo(openTestDB(t))
	ctx := context.Background()

	grill := createRestaurant(t, repo, "BERKELY GRILL", -73.9800, 40.7600)
	// Roughly 12 km north-east of the grill.
	far := createRestaurant(t, repo, "Berkely Uptown", -73.9000, 40.8500)
	cafe := createRestaurant(t, repo, "Café Luna", -73.9810, 40.7610)

	t.Run("name is a case-insensitive substring", func(t *testing.T) {
		got, err := repo.Search(ctx, model.RestaurantQuery{Name: "berk"})
		require.NoError(t, err)
		assert.Subset(t, ids(got), []uint64{grill, far})
		assert.NotContains(t, ids(got), cafe)
	})

	t.Run("proximity excludes restaurants beyond the radius", func(t *testing.T) {
		near := model.NewCoordinate(-73.9800, 40.7600)
		got, err := repo.Search(ctx, model.RestaurantQuery{Name: "berk", Near: &near})
		require.NoError(t, err)
		assert.Contains(t, ids(got), grill)
		assert.NotContains(t, ids(got), far)
		for i, r := range got {
			require.NotNil(t, r.Distance)
			assert.LessOrEqual(t, *r.Distance, float64(NearbyRadiusMeters))
			if i > 0 {
				assert.GreaterOrEqual(t, *r.Distance, *got[i-1].Distance)
			}
		}
	})

	t.Run("accents are significant", func(t *testing.T) {
		got, err := repo.Search(ctx, model.RestaurantQuery{Name: "cafe"})
		require.NoError(t, err)
		assert.NotContains(t, ids(got), cafe)

		got, err = repo.Search(ctx, model.RestaurantQuery{Name: "CAFÉ"})
		require.NoError(t, err)
		assert.Contains(t, ids(got), cafe)
	})
}

func TestOverlongValueIsValidationAgainstMySQL(t *testing.T) {
	repo := NewRestaurantRepo(openTestDB(t))

	r := &model.Restaurant{
		Name:    "Zip Too Long",
		Address: model.Address{Zipcode: strings.Repeat("9", 17), Coord: model.NewCoordinate(-74.1, 40.6)},
	}
	err := repo.Create(context.Background(), r)
	if err == nil {
		_ = repo.Delete(context.Background(), r.ID)
		t.Skip("server is not in strict mode")
	}
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}
