package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-orders/pkg/uow"
)

type AppServices struct {
	UserService  *UserService
	OrderService *OrderService
}

type FactoryArgs struct {
	UOW        uow.UOW
	Hasher     PasswordHasher
	OrderCache OrderCache
	JWTSecret  []byte
	TokenTTL   time.Duration
}

func Factory(args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(args.UOW, args.JWTSecret, args.Hasher, args.TokenTTL)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(args.UOW, args.OrderCache)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	return &AppServices{
		UserService:  userService,
		OrderService: orderService,
	}, nil
}
