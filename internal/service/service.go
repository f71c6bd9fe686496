package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/agencydesk/internal/entity"
	"github.com/samandr77/agencydesk/pkg/broker"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

type ClientRepository interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]entity.Client, error)
	Client(ctx context.Context, ownerID, id uuid.UUID) (entity.Client, error)
	Create(ctx context.Context, client entity.Client) (entity.Client, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields entity.ClientFields) (entity.Client, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Overdue(ctx context.Context, asOf time.Time) ([]entity.Client, error)
}

type Producer interface {
	SendClientEvent(ctx context.Context, event broker.ClientEvent)
}

// Service owns client CRUD and the dashboard aggregation. Every operation
// is scoped to the authenticated user taken from the context.
type Service struct {
	repo     ClientRepository
	producer Producer
}

func New(repo ClientRepository, producer Producer) *Service {
	return &Service{
		repo:     repo,
		producer: producer,
	}
}

func (s *Service) Clients(ctx context.Context) ([]entity.Client, error) {
	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := s.repo.List(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

// Dashboard recomputes summary totals from the full collection on every
// call. Nothing is cached between requests.
func (s *Service) Dashboard(ctx context.Context) (entity.Dashboard, error) {
	clients, err := s.Clients(ctx)
	if err != nil {
		return entity.Dashboard{}, err
	}

	return entity.NewDashboard(clients), nil
}

func (s *Service) CreateClient(ctx context.Context, fields entity.ClientFields) (entity.Client, error) {
	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		return entity.Client{}, err
	}

	fields.FullName = strings.TrimSpace(fields.FullName)

	err = ValidateClientFields(fields)
	if err != nil {
		return entity.Client{}, err
	}

	client := entity.Client{
		ID:               uuid.Must(uuid.NewV4()),
		OwnerID:          user.ID,
		FullName:         fields.FullName,
		MonthlyAmount:    fields.MonthlyAmount,
		PaidAmount:       fields.PaidAmount,
		ServiceStartDate: fields.ServiceStartDate,
		NextPaymentDue:   fields.NextPaymentDue,
	}

	client, err = s.repo.Create(ctx, client)
	if err != nil {
		return entity.Client{}, fmt.Errorf("create client: %w", err)
	}

	slog.InfoContext(ctx, "client created", "client_id", client.ID, "full_name", client.FullName)

	s.producer.SendClientEvent(ctx, clientEvent(broker.EventClientCreated, client))

	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, fields entity.ClientFields) (entity.Client, error) {
	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		return entity.Client{}, err
	}

	fields.FullName = strings.TrimSpace(fields.FullName)

	err = ValidateClientFields(fields)
	if err != nil {
		return entity.Client{}, err
	}

	client, err := s.repo.Update(ctx, user.ID, id, fields)
	if err != nil {
		return entity.Client{}, fmt.Errorf("update client %s: %w", id, err)
	}

	slog.InfoContext(ctx, "client updated", "client_id", client.ID)

	s.producer.SendClientEvent(ctx, clientEvent(broker.EventClientUpdated, client))

	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, user.ID, id)
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}

	slog.InfoContext(ctx, "client deleted", "client_id", id)

	s.producer.SendClientEvent(ctx, broker.ClientEvent{
		Type:       broker.EventClientDeleted,
		ClientID:   id,
		OwnerID:    user.ID,
		OccurredAt: time.Now(),
	})

	return nil
}

// NotifyOverduePayments emits an event for every client whose next payment
// date has passed with a balance still owing. Runs on a schedule, see cmd.
func (s *Service) NotifyOverduePayments(ctx context.Context) error {
	clients, err := s.repo.Overdue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("list overdue clients: %w", err)
	}

	for _, client := range clients {
		s.producer.SendClientEvent(ctx, clientEvent(broker.EventPaymentOverdue, client))
	}

	if len(clients) > 0 {
		slog.InfoContext(ctx, "overdue payment events sent", "count", len(clients))
	}

	return nil
}

func clientEvent(eventType string, client entity.Client) broker.ClientEvent {
	due := client.NextPaymentDue

	return broker.ClientEvent{
		Type:            eventType,
		ClientID:        client.ID,
		OwnerID:         client.OwnerID,
		FullName:        client.FullName,
		RemainingAmount: client.RemainingAmount,
		NextPaymentDue:  &due,
		OccurredAt:      time.Now(),
	}
}
