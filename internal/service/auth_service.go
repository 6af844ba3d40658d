package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// AdminStore resolves an admin's stored credential by normalized name and
// email. The static implementation is loaded from configuration, so
// credential rotation no longer needs a redeploy of code.
type AdminStore interface {
	LookupAdmin(name, email string) (models.AdminCredential, bool)
}

type StaticAdminStore struct {
	admins []models.AdminCredential
}

func NewStaticAdminStore(admins []models.AdminCredential) *StaticAdminStore {
	return &StaticAdminStore{admins: admins}
}

func (s *StaticAdminStore) LookupAdmin(name, email string) (models.AdminCredential, bool) {
	for _, a := range s.admins {
		if strings.EqualFold(strings.TrimSpace(a.Name), name) &&
			strings.EqualFold(strings.TrimSpace(a.Email), email) {
			return a, true
		}
	}
	return models.AdminCredential{}, false
}

type AuthService struct {
	sessions        SessionStore
	questions       QuestionStore
	admins          AdminStore
	tokens          *TokenService
	requireTestcode bool
}

func NewAuthService(sessions SessionStore, questions QuestionStore, admins AdminStore, tokens *TokenService, requireTestcode bool) *AuthService {
	return &AuthService{
		sessions:        sessions,
		questions:       questions,
		admins:          admins,
		tokens:          tokens,
		requireTestcode: requireTestcode,
	}
}

// RegisterStudent validates the three registration fields, checks the
// testcode against the question store, creates the session and issues its
// credential.
func (s *AuthService) RegisterStudent(ctx context.Context, name, userclass, code string) (string, *models.StudentSession, error) {
	name = strings.TrimSpace(name)
	userclass = strings.TrimSpace(userclass)
	code = strings.TrimSpace(code)
	if name == "" || userclass == "" || code == "" {
		return "", nil, fmt.Errorf("%w: you must provide name, userclass, and testcode", apperr.ErrValidation)
	}

	if s.requireTestcode {
		questions, err := s.questions.QuestionsByTestcode(ctx, code)
		if err != nil {
			return "", nil, err
		}
		if len(questions) == 0 {
			return "", nil, fmt.Errorf("%w: %q", apperr.ErrInvalidCode, code)
		}
	}

	session := &models.StudentSession{
		Name:      name,
		Userclass: userclass,
		Testcode:  code,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.IssueStudent(session.ID.Hex())
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// AdminLogin checks submitted credentials against the injected admin store.
// Name and email are lowercased and trimmed before comparison; the password
// is compared as submitted.
func (s *AuthService) AdminLogin(_ context.Context, name, email, password string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	email = strings.ToLower(strings.TrimSpace(email))

	admin, ok := s.admins.LookupAdmin(name, email)
	if !ok {
		return "", fmt.Errorf("%w: invalid credentials", apperr.ErrAuth)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", apperr.ErrAuth)
	}
	return s.tokens.IssueAdmin(email)
}

// Session loads the student session a verified credential points at. A miss
// becomes "user not found"; storage failures pass through untouched.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*models.StudentSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return nil, err
	}
	return session, nil
}
