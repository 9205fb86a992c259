// orderrole меняет роль пользователя в базе. Новая роль попадает только в токены, выданные после
// изменения.
//
//	orderrole -d postgres://... -u abhi -r ADMIN
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fsdevblog/groph-orders/internal/app"
	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/logger"
	"github.com/fsdevblog/groph-orders/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-orders/internal/service"
	"github.com/fsdevblog/groph-orders/internal/service/psswd"
	"github.com/sirupsen/logrus"
)

const timeout = 30 * time.Second

func main() {
	var dsn, username, roleName string
	flag.StringVar(&dsn, "d", os.Getenv("DATABASE_URI"), "Database DSN")
	flag.StringVar(&username, "u", "", "Username")
	flag.StringVar(&roleName, "r", string(domain.RoleAdmin), "Role: ADMIN or USER")
	flag.Parse()

	l := logger.New(os.Stderr)

	role, ok := domain.ParseRole(roleName)
	if dsn == "" || username == "" || !ok {
		flag.Usage()
		os.Exit(2) //nolint:mnd
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := run(ctx, l, dsn, username, role); err != nil {
		l.WithError(err).Error("change role")
		cancel()
		os.Exit(1)
	}
	l.WithField("username", username).WithField("role", role).Info("role changed")
}

func run(ctx context.Context, l *logrus.Logger, dsn, username string, role domain.Role) error {
	// миграции применяет сервис, здесь схема уже должна существовать.
	conn, err := pgrepo.Connect(ctx, "", dsn, l)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	unitOfWork, err := app.InitUOW(conn)
	if err != nil {
		return err //nolint:wrapcheck
	}

	userService, err := service.NewUserService(unitOfWork, nil, psswd.PasswordHash{}, 0)
	if err != nil {
		return fmt.Errorf("user service: %w", err)
	}

	_, err = userService.ChangeRole(ctx, username, role)
	return err //nolint:wrapcheck
}
