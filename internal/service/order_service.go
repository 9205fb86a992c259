package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/repository/repoargs"
	"github.com/fsdevblog/groph-orders/pkg/uow"
	"github.com/shopspring/decimal"
)

// amountPrecision кол-во знаков после запятой, которое хранит колонка orders.amount.
const amountPrecision = 2

// maxAmount наибольшая сумма, которая помещается в колонку orders.amount NUMERIC(14,2).
var maxAmount = decimal.RequireFromString("999999999999.99")

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	cache     OrderCache
}

// NewOrderService создает сервис заказов. cache может быть nil, тогда кеширование отключено.
func NewOrderService(u uow.UOW, cache OrderCache) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = nopOrderCache{}
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
		cache:     cache,
	}, nil
}

// Create создает заказ юзера userID в статусе domain.OrderStatusCreated. Сумма округляется до
// amountPrecision знаков и должна быть в диапазоне (0, maxAmount], иначе domain.ErrInvalidAmount.
func (o *OrderService) Create(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Order, error) {
	amount = amount.Round(amountPrecision)
	if !amount.IsPositive() || amount.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("creating order: %w", domain.ErrInvalidAmount)
	}

	order, err := o.orderRepo.CreateOrder(ctx, repoargs.CreateOrder{
		UserID: userID,
		Amount: amount,
		Status: domain.OrderStatusCreated,
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return order, nil
}

// GetByID возвращает заказ или domain.ErrRecordNotFound. Сначала смотрит в кеш, ошибки кеша
// не прерывают запрос.
func (o *OrderService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if cached, cacheErr := o.cache.Get(ctx, id); cacheErr == nil {
		return cached, nil
	}

	order, err := o.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	_ = o.cache.Set(ctx, *order)
	return order, nil
}

// GetAll возвращает все заказы без фильтрации и пагинации.
func (o *OrderService) GetAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting all orders: %w", err)
	}
	return orders, nil
}

// GetByUserID возвращает заказы юзера userID.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting orders by user: %w", err)
	}
	return orders, nil
}

// Delete удаляет заказ. Поиск и удаление выполняются в одной транзакции, отсутствующий заказ -
// domain.ErrRecordNotFound.
func (o *OrderService) Delete(ctx context.Context, id int64) error {
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		if _, findErr := repo.FindByID(c, id); findErr != nil {
			return findErr //nolint:wrapcheck
		}
		return repo.DeleteByID(c, id) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting order: %w", txErr)
	}

	_ = o.cache.Delete(ctx, id)
	return nil
}

// GetPaginated возвращает страницу заказов и общее кол-во заказов.
//
// page и size нормализуются через domain.NewPagination. Подсчет и выборка выполняются в одной
// read-only транзакции. Страница за пределами данных не ошибка: вернется пустой срез и реальный total.
func (o *OrderService) GetPaginated(ctx context.Context, page, size int) (*domain.OrdersPage, error) {
	pagination := domain.NewPagination(page, size)
	result := &domain.OrdersPage{
		Pagination: pagination,
		Orders:     []domain.Order{},
	}

	txErr := o.uow.DoReadOnly(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		total, countErr := repo.Count(c)
		if countErr != nil {
			return countErr //nolint:wrapcheck
		}
		result.Total = total

		if int64(pagination.Offset()) >= total {
			return nil
		}

		orders, pageErr := repo.GetPage(c, repoargs.Page{
			Offset: pagination.Offset(),
			Limit:  pagination.Limit(),
		})
		if pageErr != nil {
			return pageErr //nolint:wrapcheck
		}
		result.Orders = orders
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("getting orders page: %w", txErr)
	}
	return result, nil
}

type nopOrderCache struct{}

func (nopOrderCache) Get(context.Context, int64) (*domain.Order, error) {
	return nil, domain.ErrRecordNotFound
}

func (nopOrderCache) Set(context.Context, domain.Order) error { return nil }

func (nopOrderCache) Delete(context.Context, int64) error { return nil }
