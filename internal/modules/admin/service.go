package admin

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/modules/identity"
)

type Service struct {
	users UserRepository
	log   *zap.Logger
}

func NewService(users UserRepository, log *zap.Logger) *Service {
	return &Service{users: users, log: log}
}

func (s *Service) ListDecorators(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	if err := identity.Authorize(p, identity.ActionManageUsers, identity.Resource{}); err != nil {
		return nil, err
	}
	return s.users.ListByRole(ctx, domain.RoleDecorator)
}

// MakeDecorator promotes a user. Calling it on a decorator only replaces the
// specialties.
func (s *Service) MakeDecorator(ctx context.Context, p domain.Principal, email string, req MakeDecoratorRequest) (*domain.User, error) {
	if err := identity.Authorize(p, identity.ActionManageUsers, identity.Resource{}); err != nil {
		return nil, err
	}

	u, err := s.users.SetRole(ctx, email, domain.RoleDecorator, cleanSpecialties(req.Specialties))
	if err != nil {
		return nil, err
	}

	s.log.Info("user promoted to decorator",
		zap.String("email", u.Email),
		zap.Strings("specialties", u.Specialties),
		zap.String("admin", p.ID),
	)
	return u, nil
}

func (s *Service) ToggleActive(ctx context.Context, p domain.Principal, email string) (*domain.User, error) {
	if err := identity.Authorize(p, identity.ActionManageUsers, identity.Resource{}); err != nil {
		return nil, err
	}

	u, err := s.users.ToggleActive(ctx, email)
	if err != nil {
		return nil, err
	}

	s.log.Info("account active flag toggled",
		zap.String("email", u.Email),
		zap.Bool("active", u.Active),
		zap.String("admin", p.ID),
	)
	return u, nil
}

// IsDecorator answers the public role probe. Unknown emails are simply not
// decorators.
func (s *Service) IsDecorator(ctx context.Context, email string) (*DecoratorStatus, error) {
	email = domain.NormalizeEmail(email)

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return &DecoratorStatus{Email: email}, nil
	}
	if err != nil {
		return nil, err
	}
	return &DecoratorStatus{
		Email:       u.Email,
		IsDecorator: u.Role == domain.RoleDecorator,
		Active:      u.Active,
	}, nil
}

func cleanSpecialties(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}
