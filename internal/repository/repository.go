package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

var (
	ErrFoodNotFound      = errors.New("food not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderLineNotFound = errors.New("order item not found")
	ErrReviewNotFound    = errors.New("review not found")
	ErrDuplicateReview   = errors.New("review already exists for this order item")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderLineDetail is an order line together with the parent order facts the
// review gate needs for its ownership and delivery checks.
type OrderLineDetail struct {
	Line        domain.OrderLine
	OrderUserID int64
	OrderStatus domain.OrderStatus
}

type CatalogRepository interface {
	ListFoods(ctx context.Context) ([]*domain.Food, error)
	GetFood(ctx context.Context, id int64) (*domain.Food, error)
	GetFoodsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Food, error)
	CreateFood(ctx context.Context, food *domain.Food) error
	UpdateFood(ctx context.Context, food *domain.Food) error
	DeleteFood(ctx context.Context, id int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type ReviewRepository interface {
	GetOrderLineDetail(ctx context.Context, lineID uuid.UUID) (*OrderLineDetail, error)
	ListReviewableItems(ctx context.Context, userID int64, limit, offset int) ([]*domain.ReviewableItem, error)
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReviewByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	GetReviewByOrderLine(ctx context.Context, lineID uuid.UUID) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
	ListReviewsByFood(ctx context.Context, foodID int64, limit, offset int) ([]*domain.Review, error)
	ListReviewsByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Review, error)
	GetReviewSummary(ctx context.Context, foodID int64) (*domain.ReviewSummary, error)
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
