package service

import (
	"context"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.User, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order repoargs.CreateOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetPage(ctx context.Context, page repoargs.Page) ([]domain.Order, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

// OrderCache кеш заказов по id. Промах - domain.ErrRecordNotFound.
type OrderCache interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Set(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id int64) error
}
