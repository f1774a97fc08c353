package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"styledeco/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"column:name"`
	Phone        *string   `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(20);index;not null"`
	Specialties  []string  `gorm:"column:specialties;type:text;serializer:json"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}
	specialties := m.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		Phone:        phone,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Specialties:  specialties,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}

	return userModel{
		ID:           u.ID,
		Email:        domain.NormalizeEmail(u.Email),
		Name:         u.Name,
		Phone:        phone,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Specialties:  u.Specialties,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, m.Email)
		}
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	var m userModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("email asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

// SetRole replaces the role and specialties of an existing account.
func (r *UserRepository) SetRole(ctx context.Context, email string, role domain.Role, specialties []string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if specialties == nil {
		specialties = []string{}
	}

	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", email).
		Select("role", "specialties", "updated_at").
		Updates(&userModel{Role: string(role), Specialties: specialties, UpdatedAt: time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	return r.GetByEmail(ctx, email)
}

// ToggleActive flips the active flag in a single statement.
func (r *UserRepository) ToggleActive(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"active":     gorm.Expr("NOT active"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	return r.GetByEmail(ctx, email)
}
