package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is the iss and aud of every token this service signs.
const TokenIssuer = "skillswap-api"

const invalidCredentials = "Invalid username or password"

// AuthService verifies credentials and issues signed tokens.
type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService returns a new AuthService signing HS256 tokens with secret.
func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login checks username and password and returns a token plus the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	full, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: full}, nil
}

func (s *AuthService) issue(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenIssuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parseToken validates a token signed by this service and returns its claims.
func (s *AuthService) parseToken(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(models.NewUnauthorizedError("Invalid token"), err)
	}
	return claims, nil
}
