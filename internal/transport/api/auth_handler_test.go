package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/logger"
	"github.com/fsdevblog/groph-orders/internal/service"
	"github.com/fsdevblog/groph-orders/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-orders/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
	registry        *prometheus.Registry
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.registry = prometheus.NewRegistry()

	s.router = New(RouterArgs{
		Logger:          logger.New(io.Discard),
		UserService:     s.mockUserService,
		OrderService:    mocks.NewMockOrderServicer(mockCtrl),
		JWTSecretKey:    []byte("super secret key"),
		MetricsRegistry: s.registry,
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	okArgs := service.RegisterUserArgs{Username: "abhi", Password: "secret123"}
	existingArgs := service.RegisterUserArgs{Username: "taken", Password: "secret123"}
	brokenArgs := service.RegisterUserArgs{Username: "broken", Password: "secret123"}

	s.mockUserService.EXPECT().Register(gomock.Any(), okArgs).
		Return(&domain.User{ID: 1, Username: okArgs.Username, Role: domain.RoleUser}, nil)
	s.mockUserService.EXPECT().Register(gomock.Any(), existingArgs).
		Return(nil, fmt.Errorf("registering user: %w", domain.ErrAlreadyExists))
	s.mockUserService.EXPECT().Register(gomock.Any(), brokenArgs).
		Return(nil, fmt.Errorf("registering user: %w", domain.ErrUnknown))

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name:       "ok",
			body:       `{"username":"abhi","password":"secret123"}`,
			wantStatus: http.StatusCreated,
			wantKey:    "message",
			wantValue:  "User registered",
		},
		{
			name:       "already exists",
			body:       `{"username":"taken","password":"secret123"}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  errUserExists.Error(),
		},
		{
			name:       "missing password",
			body:       `{"username":"abhi"}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  errCredentialsRequired.Error(),
		},
		{
			name:       "empty username",
			body:       `{"username":"","password":"secret123"}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  errCredentialsRequired.Error(),
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "bad request",
		},
		{
			name:       "username over max bytes",
			body:       `{"username":"` + testutils.GenerateOverBytesUnderRunes(20) + `","password":"secret123"}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "bad request",
		},
		{
			name:       "store failure",
			body:       `{"username":"broken","password":"secret123"}`,
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantValue:  "internal server error",
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    AuthRouteGroup + RegisterRoute,
				Body:   strings.NewReader(t.body),
			}, testutils.WithJSON())
			defer res.Body.Close()

			s.Equal(t.wantStatus, res.StatusCode)
			s.Contains(res.Header.Get("Content-Type"), "application/json")

			body, err := testutils.DecodeJSON(res.Body)
			s.Require().NoError(err)
			s.Equal(t.wantValue, body[t.wantKey])
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	okArgs := service.LoginUserArgs{Username: "abhi", Password: "secret123"}
	wrongArgs := service.LoginUserArgs{Username: "abhi", Password: "wrong-pass"}
	unknownArgs := service.LoginUserArgs{Username: "ghost", Password: "secret123"}

	s.mockUserService.EXPECT().Login(gomock.Any(), okArgs).
		Return(&domain.User{ID: 1, Username: "abhi"}, "jwt-token", nil)
	s.mockUserService.EXPECT().Login(gomock.Any(), wrongArgs).
		Return(nil, "", fmt.Errorf("login: %w", domain.ErrInvalidCredentials))
	s.mockUserService.EXPECT().Login(gomock.Any(), unknownArgs).
		Return(nil, "", fmt.Errorf("login: %w", domain.ErrInvalidCredentials))

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name:       "ok",
			body:       `{"username":"abhi","password":"secret123"}`,
			wantStatus: http.StatusOK,
			wantKey:    "access_token",
			wantValue:  "jwt-token",
		},
		{
			name:       "wrong password",
			body:       `{"username":"abhi","password":"wrong-pass"}`,
			wantStatus: http.StatusUnauthorized,
			wantKey:    "error",
			wantValue:  errInvalidCredentials.Error(),
		},
		{
			name:       "unknown user",
			body:       `{"username":"ghost","password":"secret123"}`,
			wantStatus: http.StatusUnauthorized,
			wantKey:    "error",
			wantValue:  errInvalidCredentials.Error(),
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  errCredentialsRequired.Error(),
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    AuthRouteGroup + LoginRoute,
				Body:   strings.NewReader(t.body),
			}, testutils.WithJSON())
			defer res.Body.Close()

			s.Equal(t.wantStatus, res.StatusCode)

			body, err := testutils.DecodeJSON(res.Body)
			s.Require().NoError(err)
			s.Equal(t.wantValue, body[t.wantKey])
		})
	}
}

func (s *AuthHandlerTestSuite) TestHealth() {
	res := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    AuthRouteGroup + HealthRoute,
	})
	defer res.Body.Close()

	s.Equal(http.StatusOK, res.StatusCode)
	s.NotEmpty(res.Header.Get("X-Request-ID"))

	body, err := testutils.DecodeJSON(res.Body)
	s.Require().NoError(err)
	s.Equal("UP", body["status"])
}

func (s *AuthHandlerTestSuite) TestMetricsExposed() {
	health := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    AuthRouteGroup + HealthRoute,
	})
	health.Body.Close()

	res := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    MetricsRoute,
	})
	defer res.Body.Close()

	s.Equal(http.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	s.Require().NoError(err)
	s.Contains(string(raw), `orders_http_requests_total{method="GET",route="/auth/health",status="200"} 1`)
}
