package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"styledeco/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateOnce inserts p unless a payment for the same session already exists,
// in which case the stored row is returned and created is false.
func (r *PaymentRepository) CreateOnce(ctx context.Context, p *domain.Payment) (*domain.Payment, bool, error) {
	err := r.db.WithContext(ctx).Create(p).Error
	if err == nil {
		return p, true, nil
	}
	if !isUniqueConstraintError(err) {
		return nil, false, err
	}

	existing, err := r.GetBySessionID(ctx, p.SessionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, "payment", id)
	}
	return &p, nil
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&p).Error; err != nil {
		return nil, notFound(err, "payment for session", sessionID)
	}
	return &p, nil
}

type PaymentFilter struct {
	SenderEmail string
	// DecoratorEmail narrows to payments of bookings assigned to the decorator.
	DecoratorEmail string
	Status         domain.PaymentStatus
}

func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter) ([]domain.Payment, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{})
	if f.SenderEmail != "" {
		q = q.Where("payments.sender_email = ?", f.SenderEmail)
	}
	if f.DecoratorEmail != "" {
		q = q.Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.decorator_email = ?", f.DecoratorEmail)
	}
	if f.Status != "" {
		q = q.Where("payments.status = ?", string(f.Status))
	}

	var out []domain.Payment
	if err := q.Order("payments.paid_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Payment{}
	}
	return out, nil
}

// Cancel moves a paid payment to cancelled.
func (r *PaymentRepository) Cancel(ctx context.Context, id string) (*domain.Payment, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ? AND status = ?", id, string(domain.PaymentPaid)).
		Updates(map[string]any{
			"status":       string(domain.PaymentCancelled),
			"cancelled_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: payment %s is %s", domain.ErrConflict, id, p.Status)
	}
	return p, nil
}
