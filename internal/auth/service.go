package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suranovab/hw05-final/internal/db"
	"github.com/suranovab/hw05-final/internal/shared/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
	}
}

func (f SignupForm) Validate() *apperr.ValidationError {
	ve := apperr.NewValidation()
	if strings.TrimSpace(f.Email) == "" {
		ve.Add("email", "email is required")
	}
	if strings.TrimSpace(f.Username) == "" {
		ve.Add("username", "username is required")
	}
	if len(f.Password) < 8 {
		ve.Add("password", "password must be at least 8 characters")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// Register creates an account and returns the user with a signed
// session token.
func (s *Service) Register(ctx context.Context, form SignupForm) (User, string, error) {
	if ve := form.Validate(); ve != nil {
		return User{}, "", ve
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        form.Email,
		Username:     form.Username,
		PasswordHash: string(hash),
		FullName:     form.FullName,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, full_name)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, user.ID, user.Email, user.Username, user.PasswordHash, user.FullName)
	if err := row.Scan(&user.CreatedAt); err != nil {
		return User{}, "", err
	}

	token, err := s.signToken(user.ID, user.Username, sessionTTL)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, form LoginForm) (User, string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, full_name, created_at
		FROM users WHERE username = $1
	`, form.Username)

	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.FullName, &user.CreatedAt); err != nil {
		return User{}, "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return User{}, "", errors.New("invalid credentials")
	}

	token, err := s.signToken(user.ID, user.Username, sessionTTL)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// SessionToken signs a session token for the user.
func (s *Service) SessionToken(userID, username string) (string, error) {
	return s.signToken(userID, username, sessionTTL)
}

func (s *Service) ValidateToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) signToken(userID, username string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
