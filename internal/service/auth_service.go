package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/auth"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/rs/zerolog"
)

// Messages returned to clients by the auth checks
const (
	MsgInvalidCredentials = "Could not validate credentials"
	MsgAdminRequired      = "Admin privileges required"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users         repository.UserRepository
	tokens        *auth.TokenManager
	adminOnSignup bool
	log           zerolog.Logger
}

func newAuthService(users repository.UserRepository, tokens *auth.TokenManager, adminOnSignup bool, log zerolog.Logger) *authService {
	return &authService{
		users:         users,
		tokens:        tokens,
		adminOnSignup: adminOnSignup,
		log:           log.With().Str("service", "auth").Logger(),
	}
}

// Register creates a regular account. Accounts are admins only when
// admin registration is enabled.
func (s *authService) Register(ctx context.Context, req *models.UserCreate) (*models.User, error) {
	return s.create(ctx, req, s.adminOnSignup)
}

// CreateAdmin creates an account with admin privileges
func (s *authService) CreateAdmin(ctx context.Context, req *models.UserCreate) (*models.User, error) {
	return s.create(ctx, req, true)
}

func (s *authService) create(ctx context.Context, req *models.UserCreate, admin bool) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, conflict("Email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		IsAdmin:        admin,
		CreatedAt:      now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Bool("is_admin", user.IsAdmin).
		Msg("User registered")

	return user, nil
}

// Login checks the password and issues a bearer token for the account
func (s *authService) Login(ctx context.Context, req *models.UserLogin) (*models.Token, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
		return nil, unauthorized("Incorrect email or password")
	}

	token, err := s.tokens.IssueToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.Token{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its user
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.ValidateToken(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("Rejected token")
		return nil, unauthorized(MsgInvalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, unauthorized(MsgInvalidCredentials)
	}
	return user, nil
}

// RequireAdmin fails with ErrForbidden unless the user is an admin
func RequireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin {
		return forbidden(MsgAdminRequired)
	}
	return nil
}
