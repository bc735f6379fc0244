package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thanapat2004/FoodOrder/internal/cache"
	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
)

// mockCatalogRepo implements repository.CatalogRepository and counts reads
// so cache behavior is observable.
type mockCatalogRepo struct {
	mu        sync.Mutex
	foods     map[int64]*domain.Food
	listCalls int
	getCalls  int
	nextID    int64
	deleted   []int64
}

func newMockCatalogRepo(foods ...*domain.Food) *mockCatalogRepo {
	m := &mockCatalogRepo{foods: make(map[int64]*domain.Food), nextID: 100}
	for _, f := range foods {
		m.foods[f.ID] = f
	}
	return m
}

func (m *mockCatalogRepo) ListFoods(context.Context) ([]*domain.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	result := make([]*domain.Food, 0, len(m.foods))
	for _, f := range m.foods {
		result = append(result, f)
	}
	return result, nil
}

func (m *mockCatalogRepo) GetFood(_ context.Context, id int64) (*domain.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	f, ok := m.foods[id]
	if !ok {
		return nil, repository.ErrFoodNotFound
	}
	copy := *f
	return &copy, nil
}

func (m *mockCatalogRepo) GetFoodsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[int64]*domain.Food, len(ids))
	for _, id := range ids {
		if f, ok := m.foods[id]; ok {
			result[id] = f
		}
	}
	return result, nil
}

func (m *mockCatalogRepo) CreateFood(_ context.Context, food *domain.Food) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	food.ID = m.nextID
	m.foods[food.ID] = food
	return nil
}

func (m *mockCatalogRepo) UpdateFood(_ context.Context, food *domain.Food) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.foods[food.ID]; !ok {
		return repository.ErrFoodNotFound
	}
	m.foods[food.ID] = food
	return nil
}

func (m *mockCatalogRepo) DeleteFood(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.foods[id]; !ok {
		return repository.ErrFoodNotFound
	}
	delete(m.foods, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockCache is an in-memory CatalogCache. Writes are signaled on set so
// tests can wait for the async population.
type mockCache struct {
	mu          sync.Mutex
	foods       map[int64]*domain.Food
	menu        []*domain.Food
	getErr      error
	invalidated []int64
	set         chan struct{}
}

func newMockCache() *mockCache {
	return &mockCache{
		foods: make(map[int64]*domain.Food),
		set:   make(chan struct{}, 8),
	}
}

func (m *mockCache) GetFood(_ context.Context, id int64) (*domain.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	f, ok := m.foods[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return f, nil
}

func (m *mockCache) SetFood(_ context.Context, food *domain.Food) error {
	m.mu.Lock()
	m.foods[food.ID] = food
	m.mu.Unlock()
	m.set <- struct{}{}
	return nil
}

func (m *mockCache) GetMenu(context.Context) ([]*domain.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.menu == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.menu, nil
}

func (m *mockCache) SetMenu(_ context.Context, foods []*domain.Food) error {
	m.mu.Lock()
	m.menu = foods
	m.mu.Unlock()
	m.set <- struct{}{}
	return nil
}

func (m *mockCache) Invalidate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, id)
	delete(m.foods, id)
	m.menu = nil
	return nil
}

func (m *mockCache) waitForSet(t *testing.T) {
	t.Helper()
	select {
	case <-m.set:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cache set")
	}
}

func padThai() *domain.Food {
	return &domain.Food{ID: 1, Name: "Pad Thai", Price: 100, CategoryID: 1}
}

func TestGetFood_CacheMissPopulatesCache(t *testing.T) {
	repo := newMockCatalogRepo(padThai())
	c := newMockCache()
	svc := NewCatalogService(repo, c)

	food, err := svc.GetFood(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", food.Name)
	assert.Equal(t, 1, repo.getCalls)

	c.waitForSet(t)

	// Second read is served from the cache.
	_, err = svc.GetFood(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetFood_CacheHitSkipsRepo(t *testing.T) {
	repo := newMockCatalogRepo()
	c := newMockCache()
	c.foods[1] = padThai()
	svc := NewCatalogService(repo, c)

	food, err := svc.GetFood(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", food.Name)
	assert.Zero(t, repo.getCalls)
}

func TestGetFood_CacheFailureBypassed(t *testing.T) {
	repo := newMockCatalogRepo(padThai())
	c := newMockCache()
	c.getErr = errors.New("redis down")
	svc := NewCatalogService(repo, c)

	food, err := svc.GetFood(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", food.Name)
}

func TestGetFood_NotFound(t *testing.T) {
	svc := NewCatalogService(newMockCatalogRepo(), newMockCache())

	_, err := svc.GetFood(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrFoodNotFound)
}

func TestListFoods_CachesMenu(t *testing.T) {
	repo := newMockCatalogRepo(padThai())
	c := newMockCache()
	svc := NewCatalogService(repo, c)

	foods, err := svc.ListFoods(context.Background())
	require.NoError(t, err)
	assert.Len(t, foods, 1)
	assert.Equal(t, 1, repo.listCalls)

	c.waitForSet(t)

	_, err = svc.ListFoods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCreateFood_AdminOnly(t *testing.T) {
	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, newMockCache())

	_, err := svc.CreateFood(context.Background(), customer, FoodInput{Name: "Tom Yum", Price: 150, CategoryID: 1})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	food, err := svc.CreateFood(context.Background(), admin, FoodInput{Name: "Tom Yum", Price: 150, CategoryID: 1})
	require.NoError(t, err)
	assert.NotZero(t, food.ID)
}

func TestCreateFood_Validation(t *testing.T) {
	svc := NewCatalogService(newMockCatalogRepo(), newMockCache())

	tests := []struct {
		name  string
		in    FoodInput
		field string
	}{
		{"empty name", FoodInput{Price: 10, CategoryID: 1}, "name"},
		{"negative price", FoodInput{Name: "x", Price: -1, CategoryID: 1}, "price"},
		{"missing category", FoodInput{Name: "x", Price: 10}, "category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFood(context.Background(), admin, tt.in)

			var ve domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestUpdateFood_InvalidatesCache(t *testing.T) {
	repo := newMockCatalogRepo(padThai())
	c := newMockCache()
	c.foods[1] = padThai()
	svc := NewCatalogService(repo, c)

	_, err := svc.UpdateFood(context.Background(), admin, 1, FoodInput{Name: "Pad Thai", Price: 120, CategoryID: 1})
	require.NoError(t, err)
	assert.Contains(t, c.invalidated, int64(1))
	assert.NotContains(t, c.foods, int64(1))
}

func TestDeleteFood_AdminOnlyAndInvalidates(t *testing.T) {
	repo := newMockCatalogRepo(padThai())
	c := newMockCache()
	svc := NewCatalogService(repo, c)

	err := svc.DeleteFood(context.Background(), customer, 1)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	err = svc.DeleteFood(context.Background(), admin, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.Contains(t, c.invalidated, int64(1))
}
