package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/service"
	"github.com/fsdevblog/groph-orders/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

var (
	errCredentialsRequired = errors.New("username and password are required")
	errUserExists          = errors.New("user already exists")
	errInvalidCredentials  = errors.New("invalid credentials")
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserCredentialsParams struct {
	Username string `binding:"required,max_bytes=64"  json:"username"`
	Password string `binding:"required,max_bytes=72"  json:"password"`
}

// bindCredentials биндит тело запроса. При ошибке прерывает запрос с 400 и возвращает false.
func bindCredentials(c *gin.Context, params *UserCredentialsParams) bool {
	bindErr := c.ShouldBindJSON(params)
	if bindErr == nil {
		return true
	}
	if isRequiredViolation(bindErr) {
		middlewares.AbortWithError(c, http.StatusBadRequest, errCredentialsRequired, gin.ErrorTypePublic)
		return false
	}
	middlewares.AbortWithError(c, http.StatusBadRequest, bindErr, gin.ErrorTypeBind)
	return false
}

// Register POST AuthRouteGroup + RegisterRoute. Регистрирует пользователя с ролью USER.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserCredentialsParams
	if !bindCredentials(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if createErr != nil {
		switch {
		case errors.Is(createErr, domain.ErrAlreadyExists):
			middlewares.AbortWithError(c, http.StatusBadRequest, errUserExists, gin.ErrorTypePublic)
		case errors.Is(createErr, domain.ErrValidation):
			middlewares.AbortWithError(c, http.StatusBadRequest, errCredentialsRequired, gin.ErrorTypePublic)
		default:
			middlewares.AbortWithError(c, http.StatusInternalServerError, createErr, gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

// Login POST AuthRouteGroup + LoginRoute. Аутентификация по паре логин/пароль, в ответе jwt токен.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserCredentialsParams
	if !bindCredentials(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			middlewares.AbortWithError(c, http.StatusUnauthorized, errInvalidCredentials, gin.ErrorTypePublic)
			return
		}
		middlewares.AbortWithError(c, http.StatusInternalServerError, err, gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// Health GET AuthRouteGroup + HealthRoute.
func (h *AuthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
