package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/samandr77/agencydesk/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=../mocks/handler.go -package=mocks

const dateLayout = "2006-01-02"

type ClientService interface {
	Clients(ctx context.Context) ([]entity.Client, error)
	Dashboard(ctx context.Context) (entity.Dashboard, error)
	CreateClient(ctx context.Context, fields entity.ClientFields) (entity.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, fields entity.ClientFields) (entity.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (entity.UserTokens, error)
	Login(ctx context.Context, email, password string) (entity.UserTokens, error)
	Refresh(ctx context.Context, refreshToken string) (entity.UserTokens, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type Handler struct {
	clients ClientService
	auth    AuthService
}

func NewHandler(clients ClientService, auth AuthService) *Handler {
	return &Handler{
		clients: clients,
		auth:    auth,
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok\n"))
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignUp registers a staff account
// @Summary Register account
// @Tags auth
// @Accept json
// @Produce json
// @Param CredentialsRequest body CredentialsRequest true "Email and password"
// @Success 201 {object} TokensResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 422 {object} ErrorResponse "Malformed email or weak password"
// @Router /auth/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	tokens, err := h.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicateEmail):
			SendJSONErr(ctx, w, http.StatusConflict, err, "Email already registered")
		case errors.Is(err, entity.ErrInvalidArgument):
			SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Invalid email or password")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to register")
		}

		return
	}

	SendJSON(ctx, w, http.StatusCreated, TokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Login authenticates a staff account
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param CredentialsRequest body CredentialsRequest true "Email and password"
// @Success 200 {object} TokensResponse
// @Failure 401 {object} ErrorResponse "Wrong email or password"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	tokens, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCredentials) {
			// One message for unknown email and wrong password.
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Wrong email or password")
		} else {
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to log in")
		}

		return
	}

	SendJSON(ctx, w, http.StatusOK, TokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefreshRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	tokens, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, entity.ErrUnauthenticated) {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Invalid refresh token")
		} else {
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to refresh tokens")
		}

		return
	}

	SendJSON(ctx, w, http.StatusOK, TokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Not authenticated")
		return
	}

	err = h.auth.Logout(ctx, user.ID)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type MeResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Not authenticated")
		return
	}

	SendJSON(ctx, w, http.StatusOK, MeResponse{ID: user.ID, Email: user.Email})
}

type ClientRequest struct {
	FullName         string          `json:"fullName"`
	MonthlyAmount    decimal.Decimal `json:"monthlyAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	ServiceStartDate string          `json:"serviceStartDate"`
	NextPaymentDue   string          `json:"nextPaymentDue"`
}

type ClientResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"fullName"`
	MonthlyAmount    string    `json:"monthlyAmount"`
	PaidAmount       string    `json:"paidAmount"`
	RemainingAmount  string    `json:"remainingAmount"`
	ServiceStartDate string    `json:"serviceStartDate"`
	NextPaymentDue   string    `json:"nextPaymentDue"`
	PaymentStatus    string    `json:"paymentStatus"`
	PaymentPercent   string    `json:"paymentPercent"`
	ProgressPercent  string    `json:"progressPercent"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toClientResponse(c entity.Client) ClientResponse {
	progress := c.Progress()

	return ClientResponse{
		ID:               c.ID,
		FullName:         c.FullName,
		MonthlyAmount:    c.MonthlyAmount.StringFixed(2),
		PaidAmount:       c.PaidAmount.StringFixed(2),
		RemainingAmount:  c.RemainingAmount.StringFixed(2),
		ServiceStartDate: c.ServiceStartDate.Format(dateLayout),
		NextPaymentDue:   c.NextPaymentDue.Format(dateLayout),
		PaymentStatus:    string(progress.Status),
		PaymentPercent:   progress.PercentLabel(),
		ProgressPercent:  progress.BarPercent.StringFixed(1),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r ClientRequest) toFields() (entity.ClientFields, error) {
	startDate, err := time.Parse(dateLayout, r.ServiceStartDate)
	if err != nil {
		return entity.ClientFields{}, entity.ErrInvalidArgument
	}

	dueDate, err := time.Parse(dateLayout, r.NextPaymentDue)
	if err != nil {
		return entity.ClientFields{}, entity.ErrInvalidArgument
	}

	return entity.ClientFields{
		FullName:         r.FullName,
		MonthlyAmount:    r.MonthlyAmount,
		PaidAmount:       r.PaidAmount,
		ServiceStartDate: startDate,
		NextPaymentDue:   dueDate,
	}, nil
}

type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// Clients returns all clients of the authenticated owner
// @Summary List clients
// @Tags clients
// @Produce json
// @Success 200 {object} ClientListResponse
// @Failure 500 {object} ErrorResponse "Failed to load clients"
// @Router /clients [get]
// @Security BearerAuth
func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clients, err := h.clients.Clients(ctx)
	if err != nil {
		h.sendClientErr(ctx, w, err, "Failed to load clients")
		return
	}

	SendJSON(ctx, w, http.StatusOK, ClientListResponse{Clients: toClientResponses(clients)})
}

type DashboardResponse struct {
	TotalClients   int              `json:"totalClients"`
	TotalRevenue   string           `json:"totalRevenue"`
	TotalPaid      string           `json:"totalPaid"`
	TotalRemaining string           `json:"totalRemaining"`
	Clients        []ClientResponse `json:"clients"`
}

// Dashboard returns summary totals plus the client collection
// @Summary Dashboard
// @Tags clients
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} ErrorResponse "Failed to load dashboard"
// @Router /clients/dashboard [get]
// @Security BearerAuth
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d, err := h.clients.Dashboard(ctx)
	if err != nil {
		h.sendClientErr(ctx, w, err, "Failed to load dashboard")
		return
	}

	SendJSON(ctx, w, http.StatusOK, DashboardResponse{
		TotalClients:   d.TotalClients,
		TotalRevenue:   d.TotalRevenue.StringFixed(2),
		TotalPaid:      d.TotalPaid.StringFixed(2),
		TotalRemaining: d.TotalRemaining.StringFixed(2),
		Clients:        toClientResponses(d.Clients),
	})
}

// CreateClient adds a client record
// @Summary Create client
// @Tags clients
// @Accept json
// @Produce json
// @Param ClientRequest body ClientRequest true "Client fields"
// @Success 201 {object} ClientResponse
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /clients [post]
// @Security BearerAuth
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, ok := h.decodeClientRequest(ctx, w, r)
	if !ok {
		return
	}

	client, err := h.clients.CreateClient(ctx, fields)
	if err != nil {
		h.sendClientErr(ctx, w, err, "Failed to create client")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, toClientResponse(client))
}

// UpdateClient replaces the editable fields of a client
// @Summary Update client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param ClientRequest body ClientRequest true "Client fields"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /clients/{id} [put]
// @Security BearerAuth
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid client id")
		return
	}

	fields, ok := h.decodeClientRequest(ctx, w, r)
	if !ok {
		return
	}

	client, err := h.clients.UpdateClient(ctx, id, fields)
	if err != nil {
		h.sendClientErr(ctx, w, err, "Failed to update client")
		return
	}

	SendJSON(ctx, w, http.StatusOK, toClientResponse(client))
}

// DeleteClient removes a client record
// @Summary Delete client
// @Tags clients
// @Param id path string true "Client ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Client not found"
// @Router /clients/{id} [delete]
// @Security BearerAuth
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid client id")
		return
	}

	err = h.clients.DeleteClient(ctx, id)
	if err != nil {
		h.sendClientErr(ctx, w, err, "Failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeClientRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (entity.ClientFields, bool) {
	var req ClientRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return entity.ClientFields{}, false
	}

	fields, err := req.toFields()
	if err != nil {
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Dates must use the YYYY-MM-DD format")
		return entity.ClientFields{}, false
	}

	return fields, true
}

func (h *Handler) sendClientErr(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Client not found")
	case errors.Is(err, entity.ErrInvalidArgument):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Validation failed")
	case errors.Is(err, entity.ErrUnauthenticated):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Not authenticated")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, fallback)
	}
}

func toClientResponses(clients []entity.Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))

	for _, c := range clients {
		responses = append(responses, toClientResponse(c))
	}

	return responses
}
