package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/repo"
)

// RegistrationService signs participants up for events and produces rosters.
type RegistrationService struct {
	events        repo.EventRepo
	registrations repo.RegistrationRepo
	newTicket     func() string
}

// NewRegistrationService constructs a RegistrationService backed by the provided repos.
// Ticket codes are ULIDs, so they sort by issue time.
func NewRegistrationService(events repo.EventRepo, registrations repo.RegistrationRepo) *RegistrationService {
	return &RegistrationService{
		events:        events,
		registrations: registrations,
		newTicket:     func() string { return ulid.Make().String() },
	}
}

type registrationRules struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

// Register validates the participant and issues a ticket.
// Returns domain.ErrNotFound if the event does not exist and
// domain.ErrConflict if it is full or the email is already registered.
func (s *RegistrationService) Register(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if err := validateStruct(registrationRules{Name: reg.Name, Email: reg.Email}); err != nil {
		return domain.Registration{}, err
	}
	if _, err := s.events.GetByID(ctx, reg.EventID); err != nil {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.Register: %w", err)
	}

	reg.TicketCode = s.newTicket()
	result, err := s.registrations.Create(ctx, reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.Register: %w", err)
	}
	return result, nil
}

// List returns one page of an event's registrations in signup order.
func (s *RegistrationService) List(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Registration], error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return domain.Page[domain.Registration]{}, fmt.Errorf("service.RegistrationService.List: %w", err)
	}
	regs, total, err := s.registrations.ListByEventPaged(ctx, eventID, p)
	if err != nil {
		return domain.Page[domain.Registration]{}, fmt.Errorf("service.RegistrationService.List: %w", err)
	}
	if regs == nil {
		regs = []domain.Registration{}
	}
	return domain.Page[domain.Registration]{Items: regs, Total: total}, nil
}

// Cancel removes a registration from an event, freeing its seat.
func (s *RegistrationService) Cancel(ctx context.Context, eventID, regID uuid.UUID) error {
	if err := s.registrations.Delete(ctx, eventID, regID); err != nil {
		return fmt.Errorf("service.RegistrationService.Cancel: %w", err)
	}
	return nil
}

// Roster returns the flat participant export for an event.
// Always returns a non-nil slice so an empty event exports a header-only CSV.
func (s *RegistrationService) Roster(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("service.RegistrationService.Roster: %w", err)
	}
	rows, err := s.registrations.Roster(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("service.RegistrationService.Roster: %w", err)
	}
	if rows == nil {
		return []domain.RosterRow{}, nil
	}
	return rows, nil
}
