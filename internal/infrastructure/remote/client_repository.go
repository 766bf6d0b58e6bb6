package remote

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/pagination"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return wrap("create client", r.db.WithContext(ctx).Create(client).Error)
}

func (r *clientRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get client", err)
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return wrap("update client", r.db.WithContext(ctx).Save(client).Error)
}

func (r *clientRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&entity.Client{}, "id = ? AND user_id = ?", id, userID).Error
	return wrap("delete client", err)
}

func (r *clientRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).Where("user_id = ?", userID)

	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap("count clients", err)
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&clients).Error

	return clients, total, wrap("list clients", err)
}
