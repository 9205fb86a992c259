package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Username          string
	EncryptedPassword string
	Role              Role
}

type Order struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    OrderStatusType `json:"status"`
}

// Identity аутентифицированный пользователь, извлеченный из токена. Живет в рамках одного запроса.
type Identity struct {
	UserID int64
	Role   Role
}

// OrdersPage страница заказов вместе с общим кол-вом заказов в хранилище.
type OrdersPage struct {
	Pagination
	Total  int64
	Orders []Order
}
