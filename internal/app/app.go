package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/groph-orders/internal/config"
	"github.com/fsdevblog/groph-orders/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-orders/internal/repository/rediscache"
	"github.com/fsdevblog/groph-orders/internal/repository/repoargs"
	"github.com/fsdevblog/groph-orders/internal/service"
	"github.com/fsdevblog/groph-orders/internal/service/psswd"
	"github.com/fsdevblog/groph-orders/internal/transport/api"
	"github.com/fsdevblog/groph-orders/pkg/uow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"run_address":    a.Config.RunAddress,
		"migrations_dir": a.Config.MigrationsDir,
		"jwt_ttl":        a.Config.JWTTTL.String(),
		"redis_addr":     a.Config.RedisAddr,
	}).Info("starting app")

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := InitUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	orderCache, closeCache, cacheErr := a.initOrderCache(notifyCtx)
	if cacheErr != nil {
		return fmt.Errorf("app run: %s", cacheErr.Error())
	}
	defer closeCache()

	services, sErr := service.Factory(service.FactoryArgs{
		UOW:        unitOfWork,
		Hasher:     psswd.PasswordHash{},
		OrderCache: orderCache,
		JWTSecret:  []byte(a.Config.JWTSecret),
		TokenTTL:   a.Config.JWTTTL,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.New(api.RouterArgs{
		Logger:          a.Logger,
		UserService:     services.UserService,
		OrderService:    services.OrderService,
		JWTSecretKey:    []byte(a.Config.JWTSecret),
		MetricsRegistry: registry,
	})

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := srv.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.WithError(err).Error("http server shutdown")
		}
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// initOrderCache поднимает redis кеш заказов. Без REDIS_ADDR кеш отключен и возвращается nil.
func (a *App) initOrderCache(ctx context.Context) (service.OrderCache, func(), error) {
	if a.Config.RedisAddr == "" {
		a.Logger.Info("order cache disabled")
		return nil, func() {}, nil
	}

	rdb, err := rediscache.Connect(ctx, a.Config.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("init order cache: %w", err)
	}
	closeFn := func() {
		if closeErr := rdb.Close(); closeErr != nil {
			a.Logger.WithError(closeErr).Warn("redis close")
		}
	}
	return rediscache.NewOrderCache(rdb, a.Config.OrderCacheTTL), closeFn, nil
}

// InitUOW регистрирует postgres репозитории в unit of work.
func InitUOW(conn uow.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// order repo
	orderRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewOrderRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.OrderRepoName), orderRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
