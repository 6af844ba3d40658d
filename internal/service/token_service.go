package service

import (
	"errors"
	"fmt"
	"time"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "quetest-service"

type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secretKey: []byte(secret), ttl: ttl}
}

// IssueStudent signs a credential bound to one student session.
func (s *TokenService) IssueStudent(sessionID string) (string, error) {
	return s.issue(models.Claims{
		Role:      models.RoleStudent,
		SessionID: sessionID,
	}, sessionID)
}

// IssueAdmin signs an admin credential carrying the admin's email.
func (s *TokenService) IssueAdmin(email string) (string, error) {
	return s.issue(models.Claims{
		Role:  models.RoleAdmin,
		Email: email,
	}, email)
}

func (s *TokenService) issue(claims models.Claims, subject string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("error generating token string: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a credential. Expiry is reported distinctly
// from tampering so the client can show a better message; both fail closed.
func (s *TokenService) Verify(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secretKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrAuth)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", apperr.ErrAuth)
	}
	return claims, nil
}
