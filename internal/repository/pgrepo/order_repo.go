package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/repository/repoargs"
	"github.com/fsdevblog/groph-orders/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, created_at, updated_at, user_id, amount, status`

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

func (o *OrderRepository) CreateOrder(ctx context.Context, order repoargs.CreateOrder) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		`INSERT INTO orders (user_id, amount, status) VALUES ($1, $2, $3) RETURNING `+orderColumns,
		order.UserID, order.Amount, string(order.Status),
	)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for user %d", order.UserID)
	}
	return dbOrder, nil
}

// FindByID возвращает заказ или domain.ErrRecordNotFound.
func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return dbOrder, nil
}

// GetAll возвращает все заказы, отсортированные по id.
func (o *OrderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "getting all orders")
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting all orders")
	}
	return orders, nil
}

// GetByUserID возвращает заказы юзера, отсортированные по id.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID %d", userID)
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting orders by userID %d", userID)
	}
	return orders, nil
}

// GetPage возвращает не более page.Limit заказов, пропустив page.Offset первых по порядку id.
func (o *OrderRepository) GetPage(ctx context.Context, page repoargs.Page) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset,
	)
	if err != nil {
		return nil, convertErr(err, "getting orders page %+v", page)
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting orders page %+v", page)
	}
	return orders, nil
}

func (o *OrderRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := o.conn.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return 0, convertErr(err, "counting orders")
	}
	return total, nil
}

// DeleteByID удаляет заказ без возможности восстановления. Если удалять нечего - domain.ErrRecordNotFound.
func (o *OrderRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := o.conn.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting order %d", id)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.UserID,
		&order.Amount,
		&status,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	order.Status = domain.OrderStatusType(status)
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) { //nolint:wrapcheck
		order, err := scanOrder(row)
		if err != nil {
			return domain.Order{}, err
		}
		return *order, nil
	})
}
