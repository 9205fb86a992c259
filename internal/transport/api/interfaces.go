package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type OrderServicer interface {
	Create(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	Delete(ctx context.Context, id int64) error
	GetPaginated(ctx context.Context, page, size int) (*domain.OrdersPage, error)
}
