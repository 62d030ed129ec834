package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/domain"
	userDomain "github.com/outdoor-rental/service-rental/internal/domain/user"
)

const invalidCredentials = "invalid email or password"

// RegisterRequest is the sign-up body.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the sign-in body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IdentityDocumentRequest is the identity upload body.
type IdentityDocumentRequest struct {
	DocumentBase64 string `json:"identity_document_base64" binding:"required"`
}

// UserDTO is the API representation of an account. The password hash is
// never exposed.
type UserDTO struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Role             string    `json:"role"`
	IdentityDocument *string   `json:"identity_document,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// AuthService implements account use cases.
type AuthService struct {
	users  userDomain.UserRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users userDomain.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, logger: logger}
}

// Register creates a user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := userDomain.NormalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.NewValidationError("email already registered")
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	u, err := userDomain.NewUser(email, req.Password, req.Name, req.Phone, auth.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.NewValidationError("email already registered")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.issue(u)
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, userDomain.NormalizeEmail(req.Email))
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}
	if !u.CheckPassword(req.Password) {
		return nil, domain.NewUnauthorizedError(invalidCredentials)
	}
	return s.issue(u)
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewUnauthorizedError("user not found")
		}
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// AccountRole returns the stored role of userID, or NotFound when the
// account is gone. The auth middleware calls it on every request.
func (s *AuthService) AccountRole(ctx context.Context, userID uuid.UUID) (auth.Role, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role(), nil
}

// UploadIdentityDocument stores the user's identity document. Bookings made
// afterwards carry a copy of it.
func (s *AuthService) UploadIdentityDocument(ctx context.Context, userID uuid.UUID, blob string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.SetIdentityDocument(blob); err != nil {
		return err
	}
	if err := s.users.UpdateIdentityDocument(ctx, userID, blob); err != nil {
		return err
	}
	s.logger.Info("identity document uploaded", zap.String("user_id", userID.String()))
	return nil
}

// EnsureAdmin creates an admin account for email unless one is registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = userDomain.NormalizeEmail(email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return err
	}

	if name == "" {
		name = "Admin"
	}
	u, err := userDomain.NewUser(email, password, name, "", auth.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return fmt.Errorf("failed to save admin: %w", err)
	}
	s.logger.Info("admin account created", zap.String("email", email))
	return nil
}

func (s *AuthService) issue(u *userDomain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateAccessToken(u.ID(), u.Email(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: toUserDTO(u)}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:               u.ID(),
		Email:            u.Email(),
		Name:             u.Name(),
		Phone:            u.Phone(),
		Role:             string(u.Role()),
		IdentityDocument: u.IdentityDocument(),
		CreatedAt:        u.CreatedAt(),
	}
}
