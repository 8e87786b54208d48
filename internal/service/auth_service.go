package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/crazyplay/storefront-service/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
)

type AdminRepo interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminAccount, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// AuthService is the real gate in front of the admin surface; there is no
// client-side reveal toggle, routes without a valid token get 401.
type AuthService struct {
	admins   AdminRepo
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(admins AdminRepo, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{admins: admins, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

// Login verifies credentials and issues a signed token. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	account, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, err
	}
	if account == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   account.Username,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyToken returns the admin username the token was issued to.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ChangePassword re-verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, username, current, next string) error {
	account, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.admins.UpdatePassword(ctx, account.ID, string(hash))
}
