package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/agencydesk/internal/api"
	"github.com/samandr77/agencydesk/internal/entity"
	"github.com/samandr77/agencydesk/internal/mocks"
)

const testToken = "dev"

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	c := newTester(t)

	c.authMock.EXPECT().Login(gomock.Any(), "staff@example.com", "strong-password").
		Return(entity.UserTokens{AccessToken: "access", RefreshToken: "refresh"}, nil)

	resp := c.do(t, http.MethodPost, "/api/auth/login", `{"email":"staff@example.com","password":"strong-password"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens api.TokensResponse
	decodeBody(t, resp, &tokens)
	require.Equal(t, "access", tokens.AccessToken)
	require.Equal(t, "refresh", tokens.RefreshToken)
}

func TestHandler_Login_WrongCredentials(t *testing.T) {
	t.Parallel()

	c := newTester(t)

	c.authMock.EXPECT().Login(gomock.Any(), "staff@example.com", "wrong").
		Return(entity.UserTokens{}, entity.ErrInvalidCredentials)

	resp := c.do(t, http.MethodPost, "/api/auth/login", `{"email":"staff@example.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var errResp api.ErrorResponse
	decodeBody(t, resp, &errResp)
	require.Equal(t, "Wrong email or password", errResp.Message)
}

func TestHandler_SignUp(t *testing.T) {
	t.Parallel()

	c := newTester(t)

	c.authMock.EXPECT().SignUp(gomock.Any(), "staff@example.com", "strong-password").
		Return(entity.UserTokens{AccessToken: "access", RefreshToken: "refresh"}, nil)

	resp := c.do(t, http.MethodPost, "/api/auth/signup", `{"email":"staff@example.com","password":"strong-password"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHandler_SignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()

	c := newTester(t)

	c.authMock.EXPECT().SignUp(gomock.Any(), "staff@example.com", "strong-password").
		Return(entity.UserTokens{}, entity.ErrDuplicateEmail)

	resp := c.do(t, http.MethodPost, "/api/auth/signup", `{"email":"staff@example.com","password":"strong-password"}`, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHandler_Clients(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	user := c.expectUser(t)

	clients := []entity.Client{
		{
			ID:               uuid.Must(uuid.NewV4()),
			OwnerID:          user.ID,
			FullName:         "Acme LLC",
			MonthlyAmount:    decimal.NewFromInt(1000),
			PaidAmount:       decimal.NewFromInt(600),
			RemainingAmount:  decimal.NewFromInt(400),
			ServiceStartDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
			NextPaymentDue:   time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	c.clientsMock.EXPECT().Clients(gomock.Any()).Return(clients, nil)

	resp := c.do(t, http.MethodGet, "/api/clients", "", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list api.ClientListResponse
	decodeBody(t, resp, &list)
	require.Len(t, list.Clients, 1)

	got := list.Clients[0]
	require.Equal(t, "Acme LLC", got.FullName)
	require.Equal(t, "1000.00", got.MonthlyAmount)
	require.Equal(t, "600.00", got.PaidAmount)
	require.Equal(t, "400.00", got.RemainingAmount)
	require.Equal(t, "2026-01-10", got.ServiceStartDate)
	require.Equal(t, "2026-02-10", got.NextPaymentDue)
	require.Equal(t, string(entity.PaymentStatusPartiallyPaid), got.PaymentStatus)
	require.Equal(t, "60.0%", got.PaymentPercent)
	require.Equal(t, "60.0", got.ProgressPercent)
}

func TestHandler_Clients_NoToken(t *testing.T) {
	t.Parallel()

	c := newTester(t)

	resp := c.do(t, http.MethodGet, "/api/clients", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_Dashboard(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	c.expectUser(t)

	c.clientsMock.EXPECT().Dashboard(gomock.Any()).Return(entity.Dashboard{
		TotalClients:   2,
		TotalRevenue:   decimal.NewFromInt(3000),
		TotalPaid:      decimal.NewFromInt(2600),
		TotalRemaining: decimal.NewFromInt(400),
	}, nil)

	resp := c.do(t, http.MethodGet, "/api/clients/dashboard", "", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d api.DashboardResponse
	decodeBody(t, resp, &d)
	require.Equal(t, 2, d.TotalClients)
	require.Equal(t, "3000.00", d.TotalRevenue)
	require.Equal(t, "2600.00", d.TotalPaid)
	require.Equal(t, "400.00", d.TotalRemaining)
	require.Empty(t, d.Clients)
}

func TestHandler_CreateClient(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	user := c.expectUser(t)

	created := entity.Client{
		ID:               uuid.Must(uuid.NewV4()),
		OwnerID:          user.ID,
		FullName:         "Acme LLC",
		MonthlyAmount:    decimal.NewFromInt(1000),
		PaidAmount:       decimal.NewFromInt(250),
		RemainingAmount:  decimal.NewFromInt(750),
		ServiceStartDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		NextPaymentDue:   time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
	}

	c.clientsMock.EXPECT().CreateClient(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fields entity.ClientFields) (entity.Client, error) {
			require.Equal(t, "Acme LLC", fields.FullName)
			require.True(t, fields.MonthlyAmount.Equal(decimal.NewFromInt(1000)))
			require.Equal(t, created.ServiceStartDate, fields.ServiceStartDate)

			return created, nil
		})

	body := `{
		"fullName": "Acme LLC",
		"monthlyAmount": 1000,
		"paidAmount": 250,
		"serviceStartDate": "2026-01-10",
		"nextPaymentDue": "2026-02-10"
	}`

	resp := c.do(t, http.MethodPost, "/api/clients", body, testToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got api.ClientResponse
	decodeBody(t, resp, &got)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "750.00", got.RemainingAmount)
}

func TestHandler_CreateClient_ValidationError(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	c.expectUser(t)

	c.clientsMock.EXPECT().CreateClient(gomock.Any(), gomock.Any()).
		Return(entity.Client{}, entity.ErrInvalidArgument)

	body := `{
		"fullName": "",
		"monthlyAmount": 0,
		"paidAmount": 0,
		"serviceStartDate": "2026-01-10",
		"nextPaymentDue": "2026-02-10"
	}`

	resp := c.do(t, http.MethodPost, "/api/clients", body, testToken)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandler_CreateClient_BadDate(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	c.expectUser(t)

	body := `{
		"fullName": "Acme LLC",
		"monthlyAmount": 1000,
		"paidAmount": 0,
		"serviceStartDate": "10.01.2026",
		"nextPaymentDue": "2026-02-10"
	}`

	resp := c.do(t, http.MethodPost, "/api/clients", body, testToken)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandler_UpdateClient_NotFound(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	c.expectUser(t)

	id := uuid.Must(uuid.NewV4())

	c.clientsMock.EXPECT().UpdateClient(gomock.Any(), id, gomock.Any()).
		Return(entity.Client{}, entity.ErrNotFound)

	body := `{
		"fullName": "Acme LLC",
		"monthlyAmount": 1000,
		"paidAmount": 0,
		"serviceStartDate": "2026-01-10",
		"nextPaymentDue": "2026-02-10"
	}`

	resp := c.do(t, http.MethodPut, "/api/clients/"+id.String(), body, testToken)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_DeleteClient(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	c.expectUser(t)

	id := uuid.Must(uuid.NewV4())

	c.clientsMock.EXPECT().DeleteClient(gomock.Any(), id).Return(nil)

	resp := c.do(t, http.MethodDelete, "/api/clients/"+id.String(), "", testToken)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHandler_DeleteClient_BadID(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	c.expectUser(t)

	resp := c.do(t, http.MethodDelete, "/api/clients/not-a-uuid", "", testToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	user := c.expectUser(t)

	resp := c.do(t, http.MethodGet, "/api/auth/me", "", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me api.MeResponse
	decodeBody(t, resp, &me)
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, user.Email, me.Email)
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()

	c := newTester(t)
	user := c.expectUser(t)

	c.authMock.EXPECT().Logout(gomock.Any(), user.ID).Return(nil)

	resp := c.do(t, http.MethodPost, "/api/auth/logout", "", testToken)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	c := newTester(t)

	resp := c.do(t, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

type Tester struct {
	server      *httptest.Server
	clientsMock *mocks.MockClientService
	authMock    *mocks.MockAuthService
	tokenMock   *mocks.MockTokenValidator
}

func newTester(t *testing.T) *Tester {
	t.Helper()

	ctrl := gomock.NewController(t)
	clientsMock := mocks.NewMockClientService(ctrl)
	authMock := mocks.NewMockAuthService(ctrl)
	tokenMock := mocks.NewMockTokenValidator(ctrl)

	handler := api.NewHandler(clientsMock, authMock)
	mw := api.NewMiddleware(tokenMock)

	server := httptest.NewServer(api.NewRouter(handler, mw))
	t.Cleanup(server.Close)

	return &Tester{
		server:      server,
		clientsMock: clientsMock,
		authMock:    authMock,
		tokenMock:   tokenMock,
	}
}

// expectUser arms the token validator for one authenticated request.
func (c *Tester) expectUser(t *testing.T) entity.User {
	t.Helper()

	user := entity.User{
		ID:    uuid.Must(uuid.NewV4()),
		Email: "staff@example.com",
	}

	c.tokenMock.EXPECT().User(gomock.Any(), testToken).Return(user, nil)

	return user
}

func (c *Tester) do(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reqBody)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
