package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"styledeco/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                string          `gorm:"column:id;type:varchar(36);primaryKey"`
	UserEmail         string          `gorm:"column:user_email;type:varchar(255);index;not null"`
	ServiceID         string          `gorm:"column:service_id;type:varchar(36);index;not null"`
	ServiceName       string          `gorm:"column:service_name;not null"`
	Cost              decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	BookedAt          time.Time       `gorm:"column:booked_at;index"`
	Status            string          `gorm:"column:status;type:varchar(20);index;not null"`
	DecoratorAssigned bool            `gorm:"column:decorator_assigned;not null"`
	DecoratorEmail    *string         `gorm:"column:decorator_email;type:varchar(255);index"`
	ProjectStatus     *string         `gorm:"column:project_status;type:varchar(32)"`
	Version           int64           `gorm:"column:version;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func (m *bookingModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}

func toDomainBooking(m bookingModel) *domain.Booking {
	var ps *domain.ProjectStatus
	if m.ProjectStatus != nil {
		v := domain.ProjectStatus(*m.ProjectStatus)
		ps = &v
	}

	return &domain.Booking{
		ID:                m.ID,
		UserEmail:         m.UserEmail,
		ServiceID:         m.ServiceID,
		ServiceName:       m.ServiceName,
		Cost:              m.Cost,
		BookedAt:          m.BookedAt,
		Status:            domain.BookingStatus(m.Status),
		DecoratorAssigned: m.DecoratorAssigned,
		DecoratorEmail:    m.DecoratorEmail,
		ProjectStatus:     ps,
		Version:           m.Version,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var ps *string
	if b.ProjectStatus != nil {
		v := string(*b.ProjectStatus)
		ps = &v
	}

	return bookingModel{
		ID:                b.ID,
		UserEmail:         b.UserEmail,
		ServiceID:         b.ServiceID,
		ServiceName:       b.ServiceName,
		Cost:              b.Cost,
		BookedAt:          b.BookedAt,
		Status:            string(b.Status),
		DecoratorAssigned: b.DecoratorAssigned,
		DecoratorEmail:    b.DecoratorEmail,
		ProjectStatus:     ps,
		Version:           b.Version,
		UpdatedAt:         b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "booking", id)
	}
	return toDomainBooking(m), nil
}

type BookingFilter struct {
	UserEmail      string
	DecoratorEmail string
	Status         domain.BookingStatus
	Assigned       *bool
	BookedFrom     *time.Time
	BookedTo       *time.Time
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})
	if f.UserEmail != "" {
		q = q.Where("user_email = ?", f.UserEmail)
	}
	if f.DecoratorEmail != "" {
		q = q.Where("decorator_email = ?", f.DecoratorEmail)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Assigned != nil {
		q = q.Where("decorator_assigned = ?", *f.Assigned)
	}
	if f.BookedFrom != nil {
		q = q.Where("booked_at >= ?", *f.BookedFrom)
	}
	if f.BookedTo != nil {
		q = q.Where("booked_at < ?", *f.BookedTo)
	}

	var rows []bookingModel
	if err := q.Order("booked_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// casUpdate applies fields to the booking only while cond holds. It reports
// whether a row changed; the caller resolves a miss by re-reading.
func (r *BookingRepository) casUpdate(ctx context.Context, id string, cond string, args []any, fields map[string]any) (bool, error) {
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Where(cond, args...).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkPaid moves a pending booking to paid. A booking that is already paid
// is returned unchanged with changed=false.
func (r *BookingRepository) MarkPaid(ctx context.Context, id string) (*domain.Booking, bool, error) {
	changed, err := r.casUpdate(ctx, id, "status = ?", []any{string(domain.BookingPending)}, map[string]any{
		"status": string(domain.BookingPaid),
	})
	if err != nil {
		return nil, false, err
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, changed, nil
}

// Assign links a decorator to a paid, unassigned booking.
func (r *BookingRepository) Assign(ctx context.Context, id, decoratorEmail string) (*domain.Booking, error) {
	changed, err := r.casUpdate(ctx, id,
		"status = ? AND decorator_assigned = ?",
		[]any{string(domain.BookingPaid), false},
		map[string]any{
			"decorator_assigned": true,
			"decorator_email":    decoratorEmail,
			"project_status":     string(domain.ProjectAssigned),
		})
	if err != nil {
		return nil, err
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		return b, nil
	}
	if b.Status != domain.BookingPaid {
		return nil, fmt.Errorf("%w: booking %s is not paid", domain.ErrConflict, id)
	}
	return nil, fmt.Errorf("%w: booking %s is already assigned", domain.ErrConflict, id)
}

// SetProjectStatus updates the status while the booking is still assigned
// to decoratorEmail.
func (r *BookingRepository) SetProjectStatus(ctx context.Context, id, decoratorEmail string, status domain.ProjectStatus) (*domain.Booking, error) {
	changed, err := r.casUpdate(ctx, id,
		"decorator_assigned = ? AND decorator_email = ?",
		[]any{true, decoratorEmail},
		map[string]any{"project_status": string(status)})
	if err != nil {
		return nil, err
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: booking %s is no longer assigned to %s", domain.ErrConflict, id, decoratorEmail)
	}
	return b, nil
}

// Unassign clears the assignment held by decoratorEmail.
func (r *BookingRepository) Unassign(ctx context.Context, id, decoratorEmail string) (*domain.Booking, error) {
	changed, err := r.casUpdate(ctx, id,
		"decorator_assigned = ? AND decorator_email = ?",
		[]any{true, decoratorEmail},
		map[string]any{
			"decorator_assigned": false,
			"decorator_email":    nil,
			"project_status":     nil,
		})
	if err != nil {
		return nil, err
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: booking %s is not assigned to %s", domain.ErrConflict, id, decoratorEmail)
	}
	return b, nil
}

// UpdateVersioned writes every mutable column of b if the stored version
// still equals b.Version.
func (r *BookingRepository) UpdateVersioned(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	m := toBookingModel(b)
	changed, err := r.casUpdate(ctx, b.ID, "version = ?", []any{b.Version}, map[string]any{
		"service_name":       m.ServiceName,
		"cost":               m.Cost,
		"status":             m.Status,
		"decorator_assigned": m.DecoratorAssigned,
		"decorator_email":    m.DecoratorEmail,
		"project_status":     m.ProjectStatus,
	})
	if err != nil {
		return nil, err
	}

	current, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: booking %s was modified concurrently", domain.ErrConflict, b.ID)
	}
	return current, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&bookingModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %s", domain.ErrNotFound, id)
	}
	return nil
}
