package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/fsdevblog/groph-orders/internal/logger"
	"github.com/fsdevblog/groph-orders/internal/service/tokens"
	"github.com/fsdevblog/groph-orders/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-orders/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	jwtSecret        []byte
	userToken        string
	adminToken       string
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

const (
	testUserID  int64 = 1
	testAdminID int64 = 99
)

func (s *OrderHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	var err error
	s.userToken, err = tokens.GenerateUserJWT(testUserID, domain.RoleUser, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	s.adminToken, err = tokens.GenerateUserJWT(testAdminID, domain.RoleAdmin, time.Hour, s.jwtSecret)
	s.Require().NoError(err)

	s.router = New(RouterArgs{
		Logger:       logger.New(io.Discard),
		UserService:  mocks.NewMockUserServicer(mockCtrl),
		OrderService: s.mockOrderService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *OrderHandlerTestSuite) request(method, url, token, body string) (int, []byte) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	res := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   reqBody,
	}, testutils.WithJSON(), testutils.WithBearer(token))
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	s.Require().NoError(err)
	return res.StatusCode, raw
}

// decimalEq сравнивает decimal по значению, а не по внутреннему представлению.
type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return "is equal to " + m.want.String() }

func (s *OrderHandlerTestSuite) TestCreate() {
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), testUserID, decimalEq{decimal.RequireFromString("250.5")}).
		Return(&domain.Order{ID: 10, UserID: testUserID, Status: domain.OrderStatusCreated}, nil)
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), testUserID, decimalEq{decimal.Zero}).
		Return(nil, fmt.Errorf("creating order: %w", domain.ErrInvalidAmount))
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), testUserID, decimalEq{decimal.RequireFromString("10000000000000")}).
		Return(nil, fmt.Errorf("creating order: %w", domain.ErrInvalidAmount))

	cases := []struct {
		name       string
		token      string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ok",
			token:      s.userToken,
			body:       `{"total_amount": 250.5}`,
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":10,"status":"CREATED"}`,
		},
		{
			name:       "zero amount",
			token:      s.userToken,
			body:       `{"total_amount": 0}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"total_amount must be between 0.01 and 999999999999.99"}`,
		},
		{
			name:       "above column precision",
			token:      s.userToken,
			body:       `{"total_amount": 10000000000000}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"total_amount must be between 0.01 and 999999999999.99"}`,
		},
		{
			name:       "missing amount",
			token:      s.userToken,
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"total_amount is required"}`,
		},
		{
			name:       "not a number",
			token:      s.userToken,
			body:       `{"total_amount": "lots"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"total_amount must be between 0.01 and 999999999999.99"}`,
		},
		{
			name:       "no token",
			body:       `{"total_amount": 250.5}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"missing or invalid token"}`,
		},
		{
			name:       "foreign signature",
			token:      s.foreignToken(),
			body:       `{"total_amount": 250.5}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"missing or invalid token"}`,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.request(http.MethodPost, OrdersRoute, t.token, t.body)
			s.Equal(t.wantStatus, status)
			s.JSONEq(t.wantBody, string(body))
		})
	}
}

func (s *OrderHandlerTestSuite) foreignToken() string {
	token, err := tokens.GenerateUserJWT(testUserID, domain.RoleUser, time.Hour, []byte("another key"))
	s.Require().NoError(err)
	return token
}

func (s *OrderHandlerTestSuite) TestShow() {
	s.mockOrderService.EXPECT().GetByID(gomock.Any(), int64(5)).
		Return(&domain.Order{ID: 5, UserID: 2, Amount: decimal.RequireFromString("99.90")}, nil)
	s.mockOrderService.EXPECT().GetByID(gomock.Any(), int64(404)).
		Return(nil, fmt.Errorf("getting order: %w", domain.ErrRecordNotFound))

	cases := []struct {
		name       string
		url        string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "ok", url: "/orders/5", token: s.userToken, wantStatus: http.StatusOK, wantBody: `{"id":5,"amount":99.9}`},
		{name: "not found", url: "/orders/404", token: s.userToken, wantStatus: http.StatusNotFound, wantBody: `{"error":"order not found"}`},
		{name: "non integer id", url: "/orders/abc", token: s.userToken, wantStatus: http.StatusNotFound, wantBody: `{"error":"order not found"}`},
		{name: "no token", url: "/orders/5", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"missing or invalid token"}`},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.request(http.MethodGet, t.url, t.token, "")
			s.Equal(t.wantStatus, status)
			s.JSONEq(t.wantBody, string(body))
		})
	}
}

func (s *OrderHandlerTestSuite) TestIndex() {
	s.Run("user sees own orders", func() {
		s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), testUserID).Return([]domain.Order{
			{ID: 1, UserID: testUserID, Amount: decimal.NewFromInt(10)},
			{ID: 3, UserID: testUserID, Amount: decimal.RequireFromString("0.01")},
		}, nil)

		status, body := s.request(http.MethodGet, OrdersRoute, s.userToken, "")
		s.Equal(http.StatusOK, status)
		s.JSONEq(`[{"id":1,"amount":10},{"id":3,"amount":0.01}]`, string(body))
	})

	s.Run("admin sees all orders", func() {
		s.mockOrderService.EXPECT().GetAll(gomock.Any()).Return([]domain.Order{
			{ID: 1, UserID: testUserID, Amount: decimal.NewFromInt(10)},
			{ID: 2, UserID: 2, Amount: decimal.NewFromInt(20)},
		}, nil)

		status, body := s.request(http.MethodGet, OrdersRoute, s.adminToken, "")
		s.Equal(http.StatusOK, status)
		s.JSONEq(`[{"id":1,"amount":10},{"id":2,"amount":20}]`, string(body))
	})

	s.Run("empty list", func() {
		s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), testUserID).Return(nil, nil)

		status, body := s.request(http.MethodGet, OrdersRoute, s.userToken, "")
		s.Equal(http.StatusOK, status)
		s.JSONEq(`[]`, string(body))
	})

	s.Run("no token", func() {
		status, _ := s.request(http.MethodGet, OrdersRoute, "", "")
		s.Equal(http.StatusUnauthorized, status)
	})
}

func (s *OrderHandlerTestSuite) TestDelete() {
	s.mockOrderService.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
	s.mockOrderService.EXPECT().Delete(gomock.Any(), int64(404)).
		Return(fmt.Errorf("deleting order: %w", domain.ErrRecordNotFound))

	status, body := s.request(http.MethodDelete, "/orders/5", s.userToken, "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"message":"Order deleted"}`, string(body))

	status, body = s.request(http.MethodDelete, "/orders/404", s.userToken, "")
	s.Equal(http.StatusNotFound, status)
	s.JSONEq(`{"error":"order not found"}`, string(body))

	status, _ = s.request(http.MethodDelete, "/orders/5", "", "")
	s.Equal(http.StatusUnauthorized, status)
}

func (s *OrderHandlerTestSuite) TestAdminIndex() {
	page := &domain.OrdersPage{
		Pagination: domain.Pagination{Page: 2, Size: 1},
		Total:      2,
		Orders: []domain.Order{
			{ID: 2, UserID: 2, Amount: decimal.NewFromInt(20), Status: domain.OrderStatusCreated},
		},
	}
	s.mockOrderService.EXPECT().GetPaginated(gomock.Any(), 2, 1).Return(page, nil)

	s.Run("admin", func() {
		status, body := s.request(http.MethodGet, "/orders/admin/all?page=2&size=1", s.adminToken, "")
		s.Equal(http.StatusOK, status)

		var got AdminOrdersPageResponse
		s.Require().NoError(json.Unmarshal(body, &got))
		s.Equal(AdminOrdersPageResponse{
			Page:         2,
			Size:         1,
			TotalRecords: 2,
			Data:         []AdminOrderResponse{{ID: 2, Status: domain.OrderStatusCreated, Amount: 20}},
		}, got)
	})

	s.Run("defaults for non numeric params", func() {
		s.mockOrderService.EXPECT().GetPaginated(gomock.Any(), domain.DefaultPage, domain.DefaultPageSize).
			Return(&domain.OrdersPage{
				Pagination: domain.Pagination{Page: 1, Size: 10},
				Total:      0,
				Orders:     []domain.Order{},
			}, nil)

		status, body := s.request(http.MethodGet, "/orders/admin/all?page=first&size=", s.adminToken, "")
		s.Equal(http.StatusOK, status)
		s.JSONEq(`{"page":1,"size":10,"total_records":0,"data":[]}`, string(body))
	})

	s.Run("user is forbidden", func() {
		status, body := s.request(http.MethodGet, "/orders/admin/all", s.userToken, "")
		s.Equal(http.StatusForbidden, status)
		s.JSONEq(`{"error":"access denied"}`, string(body))
	})

	s.Run("no token", func() {
		status, _ := s.request(http.MethodGet, "/orders/admin/all", "", "")
		s.Equal(http.StatusUnauthorized, status)
	})

	s.Run("expired token", func() {
		expired, err := tokens.GenerateUserJWT(testAdminID, domain.RoleAdmin, -time.Minute, s.jwtSecret)
		s.Require().NoError(err)

		status, _ := s.request(http.MethodGet, "/orders/admin/all", expired, "")
		s.Equal(http.StatusUnauthorized, status)
	})
}
