package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"styledeco/internal/domain"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID          string          `gorm:"column:id;type:varchar(36);primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Cost        decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	Unit        string          `gorm:"column:unit"`
	Category    string          `gorm:"column:category;index"`
	Description string          `gorm:"column:description;type:text"`
	Image       string          `gorm:"column:image;type:text"`
	CreatedBy   string          `gorm:"column:created_by"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (serviceModel) TableName() string { return "services" }

func (m *serviceModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:          m.ID,
		Name:        m.Name,
		Cost:        m.Cost,
		Unit:        m.Unit,
		Category:    m.Category,
		Description: m.Description,
		Image:       m.Image,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	return serviceModel{
		ID:          s.ID,
		Name:        s.Name,
		Cost:        s.Cost,
		Unit:        s.Unit,
		Category:    s.Category,
		Description: s.Description,
		Image:       s.Image,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var m serviceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "service", id)
	}
	return toDomainService(m), nil
}

type ServiceFilter struct {
	Category string
	Search   string
}

func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Model(&serviceModel{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var rows []serviceModel
	if err := q.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

// Update writes the given columns. Keys are column names.
func (r *ServiceRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Service, error) {
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		res := r.db.WithContext(ctx).Model(&serviceModel{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: service %s", domain.ErrNotFound, id)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete soft-deletes the service. Bookings keep their own snapshot.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&serviceModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: service %s", domain.ErrNotFound, id)
	}
	return nil
}
