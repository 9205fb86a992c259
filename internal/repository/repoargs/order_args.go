package repoargs

import (
	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	UserID int64
	Amount decimal.Decimal
	Status domain.OrderStatusType
}

// Page окно выборки offset/limit.
type Page struct {
	Offset int
	Limit  int
}
