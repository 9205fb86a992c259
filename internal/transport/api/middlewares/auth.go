package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

// IdentityKey ключ, под которым в gin контексте хранится *domain.Identity.
const IdentityKey = "identity"

const bearerPrefix = "Bearer "

var (
	errMissingToken = errors.New("missing or invalid token")
	errAccessDenied = errors.New("access denied")
)

// Authorize проверяет bearer токен из заголовка Authorization. Если requiredRole не пустой, роль из
// токена должна с ним совпадать. Без валидного токена - 401, с чужой ролью - 403.
func Authorize(key []byte, requiredRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, bearerPrefix)
		if !found {
			AbortWithError(c, http.StatusUnauthorized, errMissingToken, gin.ErrorTypePublic)
			return
		}

		identity, err := tokens.Authorize(strings.TrimSpace(tokenString), key, requiredRole)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				AbortWithError(c, http.StatusForbidden, errAccessDenied, gin.ErrorTypePublic)
				return
			}
			AbortWithError(c, http.StatusUnauthorized, errMissingToken, gin.ErrorTypePublic)
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireRole пропускает запрос только если роль пользователя, сохраненного Authorize, равна role.
// Ставится после Authorize, токен повторно не разбирается.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := c.Get(IdentityKey)
		if !ok {
			AbortWithError(c, http.StatusUnauthorized, errMissingToken, gin.ErrorTypePublic)
			return
		}
		if identity.(*domain.Identity).Role != role { //nolint:forcetypeassert
			AbortWithError(c, http.StatusForbidden, errAccessDenied, gin.ErrorTypePublic)
			return
		}
		c.Next()
	}
}

// GetIdentity возвращает пользователя, сохраненного Authorize. Вызывать только в роутах за Authorize.
func GetIdentity(c *gin.Context) *domain.Identity {
	identity, ok := c.Get(IdentityKey)
	if !ok {
		panic("identity not found in context")
	}
	return identity.(*domain.Identity) //nolint:forcetypeassert
}
