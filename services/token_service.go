package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// DefaultSessionTTL is the lifetime of an admin session token.
const DefaultSessionTTL = time.Hour

// SessionClaims is the fixed claim set carried by an admin session token.
type SessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService is responsible for creating and validating admin session JWTs.
// It holds only immutable state and is safe for concurrent use.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewTokenService creates a TokenService. An empty secret is a configuration error.
func NewTokenService(secret string, ttl time.Duration, logger *zap.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		secretKey: []byte(secret),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the given identity. iat and exp are set here.
func (s *TokenService) Issue(role, email, name string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		Role:  role,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, expiry and claim presence. Every failure
// is reported as ErrAuthInvalid; the cause is only logged.
func (s *TokenService) Verify(ctx context.Context, tokenStr string) (*SessionClaims, error) {
	claims, err := s.verify(ctx, tokenStr)
	if err != nil {
		s.logger.Debug("session token rejected", zap.Error(err))
		return nil, ErrAuthInvalid
	}
	return claims, nil
}

func (s *TokenService) verify(ctx context.Context, tokenStr string) (*SessionClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !WellFormed(tokenStr) {
		return nil, errors.New("malformed token")
	}

	claims := &SessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, errors.New("missing exp or iat")
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return nil, errors.New("token expired")
	}
	if claims.Role == "" || claims.Email == "" {
		return nil, errors.New("missing identity claims")
	}
	return claims, nil
}

// WellFormed reports whether tokenStr has the compact JWS shape of three
// non-empty dot-separated segments. It does not verify anything.
func WellFormed(tokenStr string) bool {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
