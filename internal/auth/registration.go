package auth

import (
	"errors"
	"strings"
	"time"

	"farmstay-go/internal/database"
	"farmstay-go/pkg/model"
)

var ErrEmailExists = errors.New("email already exists")

// RegisterUser creates a guest account
func (s *AuthService) RegisterUser(req model.RegistrationRequest) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if email already exists
	var count int
	err := s.db.Get(&count, s.db.Rebind("SELECT COUNT(*) FROM users WHERE email = ?"), email)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrEmailExists
	}

	// Hash password
	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	// Insert new user
	var userID int64
	now := time.Now().UTC()
	err = s.db.QueryRow(s.db.Rebind(`
        INSERT INTO users (name, email, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id`),
		strings.TrimSpace(req.Name), email, hashedPassword, now, now).Scan(&userID)
	if err != nil {
		// lost a race with a concurrent registration
		if database.IsUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}

	return userID, nil
}
