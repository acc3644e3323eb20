package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/thomasbaio/progettomarvel/marvelcards/database/models"
	"github.com/thomasbaio/progettomarvel/marvelcards/database/repositories"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports which registration field failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Reason)
}

// CredentialsError hides whether the login or the password was wrong.
type CredentialsError struct{}

func (ce *CredentialsError) Error() string {
	return "invalid username or password"
}

// Registration is the payload for creating an account.
type Registration struct {
	Username  string
	Password  string
	Email     string
	Name      string
	Surname   string
	Birthdate string
	Superhero int64
}

type Service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) *Service {
	return &Service{users: users}
}

// Register validates the payload, hashes the password and creates the
// user with a zero credit balance. Username and email clashes surface
// as ConflictError from the repository.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		Name:         reg.Name,
		Surname:      reg.Surname,
		Birthdate:    reg.Birthdate,
		Superhero:    reg.Superhero,
		Credits:      "0",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User registered",
		slog.String("type", "op"),
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// Login resolves the user by username or email and verifies the
// password. Any mismatch, missing user included, reports the same
// CredentialsError.
func (s *Service) Login(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, &CredentialsError{}
		}
		return nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, &CredentialsError{}
	}
	return user, nil
}

// Update changes profile fields and, when a new password is supplied,
// rehashes it. Username and email are immutable here.
func (s *Service) Update(ctx context.Context, userID int64, name, surname, birthdate string, superhero int64, newPassword string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if newPassword != "" {
		if !isValidPassword(newPassword) {
			return nil, &ValidationError{Field: "password", Reason: "must be at least 7 characters"}
		}
		hash, err := HashPassword(newPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.Name = name
	user.Surname = surname
	user.Birthdate = birthdate
	user.Superhero = superhero
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and everything it owns.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

func validateRegistration(reg Registration) error {
	if !isValidUsername(reg.Username) {
		return &ValidationError{Field: "username", Reason: "must be 4-16 characters without spaces"}
	}
	if !isValidPassword(reg.Password) {
		return &ValidationError{Field: "password", Reason: "must be at least 7 characters"}
	}
	if !emailRegex.MatchString(reg.Email) {
		return &ValidationError{Field: "email", Reason: "malformed address"}
	}
	return nil
}

func isValidUsername(username string) bool {
	if len(username) < 4 || len(username) > 16 {
		return false
	}
	return !strings.Contains(username, " ")
}

func isValidPassword(password string) bool {
	return len(password) >= 7
}
