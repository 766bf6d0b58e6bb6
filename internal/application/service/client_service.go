package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/pagination"
)

// ClientService handles client records in the remote store. Every call needs
// a session.
type ClientService struct {
	clientRepo repository.ClientRepository
	remote     repository.RemoteStore
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, remote repository.RemoteStore) *ClientService {
	return &ClientService{clientRepo: clientRepo, remote: remote}
}

// ClientInput represents the create/update client input
type ClientInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
}

func (s *ClientService) userID(ctx context.Context) (uuid.UUID, error) {
	session := s.remote.GetSession(ctx)
	if session == nil {
		return uuid.Nil, apperror.ErrSessionRequired
	}
	return session.UserID, nil
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}

	client := &entity.Client{
		UserID:  userID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists the signed-in user's clients
func (s *ClientService) ListClients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	params.Validate()
	clients, total, err := s.clientRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// UpdateClient updates a client. Nil fields are left unchanged.
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Address != nil {
		client.Address = input.Address
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient deletes a client
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, userID, id)
}
