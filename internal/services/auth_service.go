package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/knakagawa/task-tracker-api/internal/models"
	"github.com/knakagawa/task-tracker-api/internal/repository"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new user. When no username is supplied it is derived
// from the local part of the email address.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, newFieldError("confirm_password", "Passwords do not match.")
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = emailLocalPart(input.Email)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, newFieldError("username", "A user with that username already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. The
// submitted email is tried as the username first; if that fails the local
// part of the email is tried, which covers users whose username was
// derived at registration.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	identifiers := []string{input.Email}
	if local := emailLocalPart(input.Email); local != input.Email {
		identifiers = append(identifiers, local)
	}

	for _, identifier := range identifiers {
		user, err := s.userRepo.FindByUsername(identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) == nil {
			return user, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// emailLocalPart returns the substring before the first "@".
func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
