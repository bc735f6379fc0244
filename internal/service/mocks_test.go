package service

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/events"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
)

// mockCatalog implements Catalog (and the read side of
// repository.CatalogRepository) over an in-memory food map.
type mockCatalog struct {
	foods map[int64]*domain.Food
	err   error
}

func (m *mockCatalog) GetFoodsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Food, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[int64]*domain.Food, len(ids))
	for _, id := range ids {
		if f, ok := m.foods[id]; id > 0 && ok {
			copy := *f
			result[id] = &copy
		}
	}
	return result, nil
}

// mockOrderRepo captures the order passed to CreateOrder and serves canned
// reads.
type mockOrderRepo struct {
	created      *domain.Order
	createErr    error
	order        *domain.Order
	getErr       error
	all          []*domain.Order
	byUser       []*domain.Order
	updatedTo    domain.OrderStatus
	updateCalled bool
	updateErr    error
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = order
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.order, nil
}

func (m *mockOrderRepo) ListOrders(context.Context) ([]*domain.Order, error) {
	return m.all, nil
}

func (m *mockOrderRepo) ListOrdersByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	return m.byUser, nil
}

func (m *mockOrderRepo) UpdateOrderStatus(_ context.Context, _ uuid.UUID, status domain.OrderStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalled = true
	m.updatedTo = status
	return nil
}

// mockPublisher records published status events.
type mockPublisher struct {
	mu     sync.Mutex
	events []events.OrderStatusChanged
	err    error
}

func (m *mockPublisher) PublishStatusChange(_ context.Context, event events.OrderStatusChanged) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// mockReviewRepo serves one order line detail and records review writes.
type mockReviewRepo struct {
	detail     *repository.OrderLineDetail
	detailErr  error
	reviewable []*domain.ReviewableItem

	existing   *domain.Review // returned by GetReviewByOrderLine / GetReviewByID
	existingErr error

	created   *domain.Review
	createErr error
	updated   *domain.Review
	updateErr error
	deletedID uuid.UUID
	deleteErr error

	byFood  []*domain.Review
	byUser  []*domain.Review
	summary *domain.ReviewSummary
}

func (m *mockReviewRepo) GetOrderLineDetail(_ context.Context, _ uuid.UUID) (*repository.OrderLineDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	return m.detail, nil
}

func (m *mockReviewRepo) ListReviewableItems(_ context.Context, _ int64, _, _ int) ([]*domain.ReviewableItem, error) {
	return m.reviewable, nil
}

func (m *mockReviewRepo) CreateReview(_ context.Context, review *domain.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = review
	return nil
}

func (m *mockReviewRepo) GetReviewByID(_ context.Context, _ uuid.UUID) (*domain.Review, error) {
	if m.existingErr != nil {
		return nil, m.existingErr
	}
	if m.existing == nil {
		return nil, repository.ErrReviewNotFound
	}
	return m.existing, nil
}

func (m *mockReviewRepo) GetReviewByOrderLine(_ context.Context, _ uuid.UUID) (*domain.Review, error) {
	if m.existingErr != nil {
		return nil, m.existingErr
	}
	if m.existing == nil {
		return nil, repository.ErrReviewNotFound
	}
	return m.existing, nil
}

func (m *mockReviewRepo) UpdateReview(_ context.Context, review *domain.Review) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = review
	return nil
}

func (m *mockReviewRepo) DeleteReview(_ context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func (m *mockReviewRepo) ListReviewsByFood(_ context.Context, _ int64, _, _ int) ([]*domain.Review, error) {
	return m.byFood, nil
}

func (m *mockReviewRepo) ListReviewsByUser(_ context.Context, _ int64, _, _ int) ([]*domain.Review, error) {
	return m.byUser, nil
}

func (m *mockReviewRepo) GetReviewSummary(_ context.Context, _ int64) (*domain.ReviewSummary, error) {
	return m.summary, nil
}

// mockImageStore tracks saved and deleted paths.
type mockImageStore struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	saveErr error
}

func (m *mockImageStore) Save(_ context.Context, filename string, _ io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	path := "reviews/" + filename
	m.saved = append(m.saved, path)
	return path, nil
}

func (m *mockImageStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, path)
	return nil
}
