package tokens

import (
	"fmt"
	"strconv"

	"github.com/fsdevblog/groph-orders/internal/domain"
)

// Authorize проверяет токен и извлекает из него domain.Identity. Пустой requiredRole означает,
// что подойдет любая роль.
//
// Ошибки:
//   - domain.ErrUnauthenticated - токен пустой, битый, просроченный, подписан чужим ключом или
//     содержит некорректные subject/role.
//   - domain.ErrForbidden - токен валиден, но роль не совпадает с requiredRole.
//
// В базу данных за ролью не ходим: смена роли вступит в силу только для новых токенов.
func Authorize(tokenString string, key []byte, requiredRole domain.Role) (*domain.Identity, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("authorize: empty token: %w", domain.ErrUnauthenticated)
	}

	claims, err := ValidateUserJWT(tokenString, key)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w: %s", domain.ErrUnauthenticated, err.Error())
	}

	userID, parseErr := strconv.ParseInt(claims.Subject, 10, 64)
	if parseErr != nil || userID <= 0 {
		return nil, fmt.Errorf("authorize: %w: subject %q", domain.ErrUnauthenticated, claims.Subject)
	}

	role, ok := domain.ParseRole(string(claims.Role))
	if !ok {
		return nil, fmt.Errorf("authorize: %w: role %q", domain.ErrUnauthenticated, claims.Role)
	}

	if requiredRole != "" && role != requiredRole {
		return nil, fmt.Errorf("authorize: role %s, required %s: %w", role, requiredRole, domain.ErrForbidden)
	}

	return &domain.Identity{UserID: userID, Role: role}, nil
}
