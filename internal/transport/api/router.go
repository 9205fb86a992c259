package api

import (
	"time"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	AuthRouteGroup   = "/auth"
	RegisterRoute    = "/register"
	LoginRoute       = "/login"
	HealthRoute      = "/health"
	OrdersRoute      = "/orders"
	OrderIDParam     = "/:id"
	AdminOrdersRoute = "/admin/all"
	MetricsRoute     = "/metrics"
)

type RouterArgs struct {
	Logger       *logrus.Logger
	UserService  UserServicer
	OrderService OrderServicer
	JWTSecretKey []byte
	// MetricsRegistry если задан, в нем регистрируются http метрики и открывается MetricsRoute.
	MetricsRegistry *prometheus.Registry
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil {
		panic(err)
	}

	r := gin.New()
	r.Use(middlewares.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if args.MetricsRegistry != nil {
		r.Use(middlewares.NewMetrics(args.MetricsRegistry).Handler())
		r.GET(MetricsRoute, gin.WrapH(promhttp.HandlerFor(args.MetricsRegistry, promhttp.HandlerOpts{})))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)

	auth := r.Group(AuthRouteGroup)
	auth.POST(RegisterRoute, authHandler.Register)
	auth.POST(LoginRoute, authHandler.Login)
	auth.GET(HealthRoute, authHandler.Health)

	// ниже все роуты группы требуют авторизованного пользователя.
	orders := r.Group(OrdersRoute, middlewares.Authorize(args.JWTSecretKey, ""))
	orders.POST("", ordersHandler.Create)
	orders.GET("", ordersHandler.Index)
	orders.GET(OrderIDParam, ordersHandler.Show)
	orders.DELETE(OrderIDParam, ordersHandler.Delete)
	orders.GET(AdminOrdersRoute, middlewares.RequireRole(domain.RoleAdmin), ordersHandler.AdminIndex)

	return r
}
