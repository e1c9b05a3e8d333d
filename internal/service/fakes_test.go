package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/queue"
	"github.com/iliyamo/tattler/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uint64]model.User{}} }

func (m *memUsers) emailTaken(email string, except uint64) bool {
	for id, u := range m.rows {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	if m.emailTaken(u.Email, 0) {
		return apperr.Conflict("email already exists")
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == repository.NormalizeEmail(email) {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	u.Email = repository.NormalizeEmail(u.Email)
	if m.emailTaken(u.Email, u.ID) {
		return apperr.Conflict("email already exists")
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(m.rows, id)
	return nil
}

// FindAuthors lets memUsers double as the author store.
func (m *memUsers) FindAuthors(_ context.Context, ids []uint64) (map[uint64]model.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uint64]model.Author{}
	for _, id := range ids {
		if u, ok := m.rows[id]; ok {
			out[id] = model.Author{ID: u.ID, Name: u.Name}
		}
	}
	return out, nil
}

type countingAuthors struct {
	AuthorStore
	calls [][]uint64
}

func (c *countingAuthors) FindAuthors(ctx context.Context, ids []uint64) (map[uint64]model.Author, error) {
	c.calls = append(c.calls, append([]uint64(nil), ids...))
	return c.AuthorStore.FindAuthors(ctx, ids)
}

type memRestaurants struct {
	nextID  uint64
	rows    map[uint64]model.Restaurant
	lastQry *model.RestaurantQuery
}

func newMemRestaurants() *memRestaurants { return &memRestaurants{rows: map[uint64]model.Restaurant{}} }

func (m *memRestaurants) Create(_ context.Context, r *model.Restaurant) error {
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	return nil
}

func (m *memRestaurants) GetByID(_ context.Context, id uint64) (*model.Restaurant, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("restaurant not found")
	}
	return &r, nil
}

func (m *memRestaurants) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memRestaurants) List(ctx context.Context) ([]model.Restaurant, error) {
	return m.Search(ctx, model.RestaurantQuery{})
}

func (m *memRestaurants) Search(_ context.Context, q model.RestaurantQuery) ([]model.Restaurant, error) {
	m.lastQry = &q
	out := []model.Restaurant{}
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRestaurants) Update(_ context.Context, r *model.Restaurant) error {
	if _, ok := m.rows[r.ID]; !ok {
		return apperr.NotFound("restaurant not found")
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memRestaurants) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("restaurant not found")
	}
	delete(m.rows, id)
	return nil
}

type memComments struct {
	nextID uint64
	rows   map[uint64]model.Comment
}

func newMemComments() *memComments { return &memComments{rows: map[uint64]model.Comment{}} }

func (m *memComments) Create(_ context.Context, c *model.Comment) error {
	m.nextID++
	c.ID = m.nextID
	c.Date = time.Now().UTC()
	m.rows[c.ID] = *c
	return nil
}

func (m *memComments) GetByID(_ context.Context, id uint64) (*model.Comment, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	return &c, nil
}

func (m *memComments) ListByRestaurant(_ context.Context, restaurantID uint64) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range m.rows {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memComments) UpdateBody(_ context.Context, id uint64, body string) (*model.Comment, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	c.Body = body
	m.rows[id] = c
	return &c, nil
}

func (m *memComments) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("comment not found")
	}
	delete(m.rows, id)
	return nil
}

type memRatings struct {
	nextID uint64
	rows   map[uint64]model.Rating
}

func newMemRatings() *memRatings { return &memRatings{rows: map[uint64]model.Rating{}} }

func (m *memRatings) Create(_ context.Context, r *model.Rating) error {
	m.nextID++
	r.ID = m.nextID
	r.Date = time.Now().UTC()
	m.rows[r.ID] = *r
	return nil
}

func (m *memRatings) GetByID(_ context.Context, id uint64) (*model.Rating, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("rating not found")
	}
	return &r, nil
}

func (m *memRatings) ListByRestaurant(_ context.Context, restaurantID uint64) ([]model.Rating, error) {
	out := []model.Rating{}
	for _, r := range m.rows {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRatings) Summary(_ context.Context, restaurantID uint64) (model.RatingSummary, error) {
	sum := model.RatingSummary{RestaurantID: restaurantID}
	var total float64
	for _, r := range m.rows {
		if r.RestaurantID == restaurantID {
			total += r.Score
			sum.Count++
		}
	}
	if sum.Count > 0 {
		sum.Average = total / float64(sum.Count)
	}
	return sum, nil
}

func (m *memRatings) UpdateScore(_ context.Context, id uint64, score float64) (*model.Rating, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("rating not found")
	}
	r.Score = score
	m.rows[id] = r
	return &r, nil
}

func (m *memRatings) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("rating not found")
	}
	delete(m.rows, id)
	return nil
}

type recordingPublisher struct {
	events []queue.ReviewEvent
	fail   bool
}

func (p *recordingPublisher) PublishReview(_ context.Context, ev queue.ReviewEvent) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, ev)
	return nil
}
