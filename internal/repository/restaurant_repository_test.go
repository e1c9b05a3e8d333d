package repository

import (
	"context"
	"database/sql/driver"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/model"
)

var restaurantColumnNames = []string{
	"id", "name", "cuisine", "borough", "building", "street", "zipcode", "coord_lng", "coord_lat",
	"hours_monday", "hours_tuesday", "hours_wednesday", "hours_thursday", "hours_friday", "hours_saturday", "hours_sunday",
	"restaurant_id", "created_at", "updated_at",
}

func restaurantRow(id int64, name string, lng, lat float64, extID any) []driver.Value {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, name, "American", "Manhattan", "437", "Madison Avenue", "10022", lng, lat,
		"11:00 AM - 23:00 PM", "", "", "", "", "", "",
		extID, ts, ts,
	}
}

func newMock(t *testing.T) (DBTX, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestBuildSearchSQLWithoutFilters(t *testing.T) {
	query, args := buildSearchSQL(model.RestaurantQuery{})
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY id ASC")
	assert.Empty(t, args)
}

func TestBuildSearchSQLSubstringFilters(t *testing.T) {
	query, args := buildSearchSQL(model.RestaurantQuery{Name: "Berk", Cuisine: "amer"})
	assert.Contains(t, query, "name LIKE ? ESCAPE '!' AND cuisine LIKE ? ESCAPE '!'")
	assert.NotContains(t, query, "LOWER(")
	assert.Equal(t, []any{"%Berk%", "%amer%"}, args)
}

func TestBuildSearchSQLEscapesWildcards(t *testing.T) {
	_, args := buildSearchSQL(model.RestaurantQuery{Name: "50%_Off!"})
	assert.Equal(t, []any{"%50!%!_Off!!%"}, args)
}

func TestBuildSearchSQLProximity(t *testing.T) {
	near := model.NewCoordinate(-73.975393, 40.757365)
	query, args := buildSearchSQL(model.RestaurantQuery{Name: "berk", Near: &near})

	assert.Contains(t, query, distanceExpr+" AS distance")
	assert.Contains(t, query, "WHERE "+distanceExpr+" <= ? AND name LIKE ?")
	assert.Contains(t, query, "ORDER BY distance ASC")
	assert.Equal(t, []any{
		-73.975393, 40.757365,
		-73.975393, 40.757365, NearbyRadiusMeters,
		"%berk%",
	}, args)
}

func TestRestaurantSearchScansDistance(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	near := model.NewCoordinate(-73.97, 40.75)
	query, _ := buildSearchSQL(model.RestaurantQuery{Near: &near})
	cols := append(append([]string{}, restaurantColumnNames...), "distance")
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(-73.97, 40.75, -73.97, 40.75, NearbyRadiusMeters).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(append(restaurantRow(1, "Berkely", -73.975393, 40.757365, "40363685"), 512.5)...).
			AddRow(append(restaurantRow(2, "Far Grill", -73.99, 40.76, nil), 1800.0)...))

	got, err := repo.Search(context.Background(), model.RestaurantQuery{Near: &near})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Distance)
	assert.Equal(t, 512.5, *got[0].Distance)
	assert.Equal(t, "40363685", got[0].RestaurantID)
	assert.Equal(t, "", got[1].RestaurantID)
}

func TestRestaurantCreateRoundTripsCoordinate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	coord := model.NewCoordinate(-73.975393, 40.757365)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO restaurants")).
		WithArgs("Berkely", "American", "Manhattan", "437", "Madison Avenue", "10022",
			-73.975393, 40.757365,
			"11:00 AM - 23:00 PM", "", "", "", "", "", "",
			"40363685").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM restaurants WHERE id = ?")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(restaurantColumnNames).
			AddRow(restaurantRow(9, "Berkely", -73.975393, 40.757365, "40363685")...))

	rest := &model.Restaurant{
		Name: "Berkely", Cuisine: "American", Borough: "Manhattan",
		Address:      model.Address{Building: "437", Street: "Madison Avenue", Zipcode: "10022", Coord: coord},
		Hours:        model.Hours{Monday: "11:00 AM - 23:00 PM"},
		RestaurantID: "40363685",
	}
	require.NoError(t, repo.Create(context.Background(), rest))
	assert.Equal(t, uint64(9), rest.ID)
	assert.Equal(t, coord, rest.Address.Coord)
	assert.Nil(t, rest.Distance)
}

func TestRestaurantCreateWithoutExternalIDStoresNull(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO restaurants")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM restaurants WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(restaurantColumnNames).AddRow(restaurantRow(3, "X", 1, 2, nil)...))

	require.NoError(t, repo.Create(context.Background(), &model.Restaurant{Name: "X"}))
}

func TestRestaurantCreateDuplicateExternalID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO restaurants")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.Restaurant{Name: "dup", RestaurantID: "1"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestRestaurantCreateTooLongIsValidation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO restaurants")).
		WillReturnError(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'zipcode' at row 1"})

	err := repo.Create(context.Background(), &model.Restaurant{Name: "long", Address: model.Address{Zipcode: "1234567890123456789"}})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.Equal(t, http.StatusBadRequest, apperr.MetadataFor(apperr.CodeOf(err)).HTTPStatus)
}

func TestRestaurantGetMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM restaurants WHERE id = ?")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(restaurantColumnNames))

	_, err := repo.GetByID(context.Background(), 404)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestRestaurantDeleteMissingIsAlwaysNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM restaurants WHERE id = ?")).
			WithArgs(uint64(77)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for i := 0; i < 2; i++ {
		err := repo.Delete(context.Background(), 77)
		assert.True(t, apperr.Is(err, apperr.CodeNotFound), "attempt %d", i+1)
	}
}

func TestRestaurantExists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRestaurantRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM restaurants")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM restaurants")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := repo.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
