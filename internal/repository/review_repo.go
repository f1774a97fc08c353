package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"styledeco/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ServiceID string    `gorm:"column:service_id;type:varchar(36);index;not null"`
	UserEmail string    `gorm:"column:user_email;type:varchar(255);not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func (m *reviewModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		ServiceID: rv.ServiceID,
		UserEmail: rv.UserEmail,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rv.ID = m.ID
	rv.CreatedAt = m.CreatedAt
	return nil
}

func (r *ReviewRepository) ListByService(ctx context.Context, serviceID string) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Review{
			ID:        m.ID,
			ServiceID: m.ServiceID,
			UserEmail: m.UserEmail,
			Rating:    m.Rating,
			Comment:   m.Comment,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
