package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

const minPasswordLength = 6

// User is a registered account.
type User struct {
	id               uuid.UUID
	email            string
	name             string
	phone            string
	role             auth.Role
	identityDocument *string
	passwordHash     string
	createdAt        time.Time
}

// NewUser validates input, hashes the password and creates a User.
func NewUser(email, password, name, phone string, role auth.Role) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, domain.NewValidationError("password must be at least 6 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role: " + string(role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		id:           uuid.New(),
		email:        email,
		name:         strings.TrimSpace(name),
		phone:        strings.TrimSpace(phone),
		role:         role,
		passwordHash: string(hash),
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	email, name, phone string,
	role auth.Role,
	identityDocument *string,
	passwordHash string,
	createdAt time.Time,
) *User {
	return &User{
		id:               id,
		email:            email,
		name:             name,
		phone:            phone,
		role:             role,
		identityDocument: identityDocument,
		passwordHash:     passwordHash,
		createdAt:        createdAt,
	}
}

func (u *User) ID() uuid.UUID              { return u.id }
func (u *User) Email() string              { return u.email }
func (u *User) Name() string               { return u.name }
func (u *User) Phone() string              { return u.phone }
func (u *User) Role() auth.Role            { return u.role }
func (u *User) IdentityDocument() *string  { return u.identityDocument }
func (u *User) PasswordHash() string       { return u.passwordHash }
func (u *User) CreatedAt() time.Time       { return u.createdAt }
func (u *User) IsAdmin() bool              { return u.role == auth.RoleAdmin }

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// SetIdentityDocument stores the identity-document blob.
func (u *User) SetIdentityDocument(blob string) error {
	if strings.TrimSpace(blob) == "" {
		return domain.NewValidationError("identity document is required")
	}
	u.identityDocument = &blob
	return nil
}

// NormalizeEmail lower-cases and trims an address for lookup and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
