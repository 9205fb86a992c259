package repoargs

import "github.com/fsdevblog/groph-orders/internal/domain"

type CreateUser struct {
	Username string
	Password string
	Role     domain.Role
}
