package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"styledeco/internal/domain"
)

// AdminCredentials is the single operator account. It never has a user row.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// Service resolves credentials into principals and issues tokens.
type Service struct {
	users    UserRepository
	sessions tokenService
	admins   tokenService
	verifier SessionVerifier
	admin    AdminCredentials
	log      *zap.Logger
}

func NewService(
	users UserRepository,
	sessions tokenService,
	admins tokenService,
	verifier SessionVerifier,
	admin AdminCredentials,
	log *zap.Logger,
) *Service {
	admin.Email = domain.NormalizeEmail(admin.Email)
	return &Service{
		users:    users,
		sessions: sessions,
		admins:   admins,
		verifier: verifier,
		admin:    admin,
		log:      log,
	}
}

// Resolve turns a credential into a Principal. An empty credential is a
// guest. The admin token wins when both are present.
func (s *Service) Resolve(ctx context.Context, cred domain.Credential) (domain.Principal, error) {
	if cred.Empty() {
		return domain.Guest(), nil
	}

	if cred.AdminToken != "" {
		claims, err := s.admins.ValidateToken(cred.AdminToken)
		if err != nil || claims.Role != string(domain.RoleAdmin) {
			return domain.Principal{}, fmt.Errorf("%w: invalid or expired admin token", domain.ErrUnauthenticated)
		}
		if s.admin.Email == "" || domain.NormalizeEmail(claims.Email) != s.admin.Email {
			return domain.Principal{}, fmt.Errorf("%w: admin token subject is not the configured admin", domain.ErrUnauthenticated)
		}
		return domain.AdminPrincipal(claims.Email), nil
	}

	id, err := s.verifier.Verify(ctx, cred.BearerToken)
	if err != nil {
		return domain.Principal{}, err
	}

	user, err := s.users.GetByEmail(ctx, id.Email)
	if err == nil {
		return user.Principal(), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Principal{}, err
	}
	if !id.External {
		return domain.Principal{}, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated)
	}

	return s.provision(ctx, id)
}

// provision creates the user row for a first-time external sign-in.
func (s *Service) provision(ctx context.Context, id *VerifiedIdentity) (domain.Principal, error) {
	email := domain.NormalizeEmail(id.Email)
	// The admin address never gets a user row; it signs in through admin login.
	if email == s.admin.Email && email != "" {
		s.log.Warn("external sign-in with the admin email rejected", zap.String("email", email))
		return domain.Principal{}, fmt.Errorf("%w: %s must use admin login", domain.ErrUnauthenticated, email)
	}

	user := &domain.User{
		Email:       email,
		Name:        id.Name,
		Role:        domain.RoleUser,
		Specialties: []string{},
		Active:      true,
	}
	err := s.users.Create(ctx, user)
	if errors.Is(err, domain.ErrConflict) {
		existing, gerr := s.users.GetByEmail(ctx, id.Email)
		if gerr != nil {
			return domain.Principal{}, gerr
		}
		return existing.Principal(), nil
	}
	if err != nil {
		return domain.Principal{}, err
	}

	s.log.Info("provisioned user from external identity", zap.String("email", user.Email))
	return user.Principal(), nil
}

func (s *Service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*TokenResponse, error) {
	email := domain.NormalizeEmail(req.Email)

	hash := s.admin.PasswordHash
	if hash == "" {
		return nil, fmt.Errorf("%w: admin login is not configured", domain.ErrUnauthenticated)
	}
	pwErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password))
	if pwErr != nil || email != s.admin.Email {
		s.log.Warn("admin login rejected", zap.String("email", email))
		return nil, fmt.Errorf("%w: invalid admin credentials", domain.ErrUnauthenticated)
	}

	token, err := s.admins.GenerateToken(s.admin.Email, string(domain.RoleAdmin))
	if err != nil {
		return nil, err
	}

	s.log.Info("admin login", zap.String("email", email))
	return &TokenResponse{Token: token, ExpiresAt: time.Now().Add(s.admins.TTL()).UTC()}, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == s.admin.Email && email != "" {
		return nil, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		Specialties:  []string{},
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: account uses external sign-in", domain.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	return s.issueSession(user)
}

func (s *Service) issueSession(user *domain.User) (*TokenResponse, error) {
	token, err := s.sessions.GenerateToken(user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessions.TTL()).UTC(),
		User:      user,
	}, nil
}

func (s *Service) Me(ctx context.Context, p domain.Principal) (*MeResponse, error) {
	if p.IsGuest() {
		return nil, domain.ErrUnauthenticated
	}

	me := &MeResponse{
		Email:       p.ID,
		Role:        p.Role,
		Specialties: p.Specialties,
		Active:      p.Active,
	}
	if me.Specialties == nil {
		me.Specialties = []string{}
	}
	if p.IsAdmin() {
		return me, nil
	}

	user, err := s.users.GetByEmail(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	me.Name = user.Name
	return me, nil
}
