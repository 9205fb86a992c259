package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var (
	errAmountRequired = errors.New("total_amount is required")
	errInvalidAmount  = errors.New("total_amount must be between 0.01 and 999999999999.99")
	errOrderNotFound  = errors.New("order not found")
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type CreateOrderParams struct {
	TotalAmount *decimal.Decimal `binding:"required" json:"total_amount"`
}

type CreateOrderResponse struct {
	ID     int64                  `json:"id"`
	Status domain.OrderStatusType `json:"status"`
}

type OrderResponse struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
}

type AdminOrderResponse struct {
	ID     int64                  `json:"id"`
	Status domain.OrderStatusType `json:"status"`
	Amount float64                `json:"amount"`
}

type AdminOrdersPageResponse struct {
	Page         int                  `json:"page"`
	Size         int                  `json:"size"`
	TotalRecords int64                `json:"total_records"`
	Data         []AdminOrderResponse `json:"data"`
}

// Create POST OrdersRoute. Владелец заказа - текущий пользователь.
func (o *OrdersHandler) Create(c *gin.Context) {
	identity := middlewares.GetIdentity(c)

	var params CreateOrderParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		if isRequiredViolation(bindErr) {
			middlewares.AbortWithError(c, http.StatusBadRequest, errAmountRequired, gin.ErrorTypePublic)
			return
		}
		middlewares.AbortWithError(c, http.StatusBadRequest, errInvalidAmount, gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, createErr := o.orderSvs.Create(reqCtx, identity.UserID, *params.TotalAmount)
	if createErr != nil {
		if errors.Is(createErr, domain.ErrInvalidAmount) {
			middlewares.AbortWithError(c, http.StatusBadRequest, errInvalidAmount, gin.ErrorTypePublic)
			return
		}
		middlewares.AbortWithError(c, http.StatusInternalServerError, createErr, gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{ID: order.ID, Status: order.Status})
}

// Show GET OrdersRoute + OrderIDParam.
func (o *OrdersHandler) Show(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.GetByID(reqCtx, id)
	if err != nil {
		abortOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, OrderResponse{ID: order.ID, Amount: order.Amount.InexactFloat64()})
}

// Index GET OrdersRoute. Администратор видит все заказы, пользователь - только свои.
func (o *OrdersHandler) Index(c *gin.Context) {
	identity := middlewares.GetIdentity(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	var (
		orders []domain.Order
		err    error
	)
	if identity.Role == domain.RoleAdmin {
		orders, err = o.orderSvs.GetAll(reqCtx)
	} else {
		orders, err = o.orderSvs.GetByUserID(reqCtx, identity.UserID)
	}
	if err != nil {
		middlewares.AbortWithError(c, http.StatusInternalServerError, err, gin.ErrorTypePrivate)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = OrderResponse{
			ID:     order.ID,
			Amount: order.Amount.InexactFloat64(),
		}
	}

	c.JSON(http.StatusOK, response)
}

// Delete DELETE OrdersRoute + OrderIDParam.
func (o *OrdersHandler) Delete(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := o.orderSvs.Delete(reqCtx, id); err != nil {
		abortOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// AdminIndex GET OrdersRoute + AdminOrdersRoute?page=&size=. Только для ADMIN.
func (o *OrdersHandler) AdminIndex(c *gin.Context) {
	page := queryInt(c, "page", domain.DefaultPage)
	size := queryInt(c, "size", domain.DefaultPageSize)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := o.orderSvs.GetPaginated(reqCtx, page, size)
	if err != nil {
		middlewares.AbortWithError(c, http.StatusInternalServerError, err, gin.ErrorTypePrivate)
		return
	}

	data := make([]AdminOrderResponse, len(result.Orders))
	for i, order := range result.Orders {
		data[i] = AdminOrderResponse{
			ID:     order.ID,
			Status: order.Status,
			Amount: order.Amount.InexactFloat64(),
		}
	}

	c.JSON(http.StatusOK, AdminOrdersPageResponse{
		Page:         result.Page,
		Size:         result.Size,
		TotalRecords: result.Total,
		Data:         data,
	})
}

// orderIDParam возвращает id заказа из пути. Нечисловой id - такого заказа нет, отвечаем 404.
func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middlewares.AbortWithError(c, http.StatusNotFound, errOrderNotFound, gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

func abortOrderError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		middlewares.AbortWithError(c, http.StatusNotFound, errOrderNotFound, gin.ErrorTypePublic)
		return
	}
	middlewares.AbortWithError(c, http.StatusInternalServerError, err, gin.ErrorTypePrivate)
}

// queryInt возвращает целое значение query параметра или def, если параметр отсутствует или не число.
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
