package service

import (
	"context"
	"strings"
	"time"

	"zoovio-backend/internal/models"
	"zoovio-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenSigner interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error)
}

type AuthResult struct {
	UserID    string
	Email     string
	Name      string
	Role      models.Role
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	users  repository.UserRepo
	hasher Hasher
	signer TokenSigner
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepo, hasher Hasher, signer TokenSigner, accessTTL time.Duration, log *zap.Logger) AuthService {
	return &authService{users: users, hasher: hasher, signer: signer, ttl: accessTTL, log: log}
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("Пользователь зарегистрирован", zap.String("user_id", u.ID.String()))
	return s.issue(ctx, u)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	// Неизвестный email и неверный пароль отдаём одинаково.
	if u == nil || !s.hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

func (s *authService) issue(ctx context.Context, u *models.User) (*AuthResult, error) {
	tok, exp, err := s.signer.SignAccess(ctx, u.ID, string(u.Role), s.ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:    u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Token:     tok,
		ExpiresAt: exp,
	}, nil
}
