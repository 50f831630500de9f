package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"farmstay-go/pkg/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// tokenTTL is how long issued tokens stay valid
const tokenTTL = 24 * time.Hour

// AuthService handles authentication operations
type AuthService struct {
	db        *sqlx.DB
	jwtSecret []byte
}

// NewAuthService creates a new authentication service
func NewAuthService(db *sqlx.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
	}
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares password with hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT creates a new JWT token for authenticated users
func (s *AuthService) GenerateJWT(userID int, name string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["name"] = name
	claims["exp"] = time.Now().Add(tokenTTL).Unix()

	return token.SignedString(s.jwtSecret)
}

// ParseJWT validates a token signed with secret and returns its user id
func ParseJWT(tokenString, secret string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// numeric claims decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok || id < 1 {
		return 0, ErrInvalidToken
	}
	return int(id), nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(creds model.UserCredentials) (*model.User, string, error) {
	var user model.User

	err := s.db.Get(&user, s.db.Rebind("SELECT * FROM users WHERE email = ?"), strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	// Check password
	if !CheckPassword(creds.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user.ID, user.Name)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// GetUserByID fetches a user by their ID
func (s *AuthService) GetUserByID(userID int) (*model.User, error) {
	var user model.User
	err := s.db.Get(&user, s.db.Rebind("SELECT * FROM users WHERE id = ?"), userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
