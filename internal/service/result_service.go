package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"
)

type ResultService struct {
	results       ResultStore
	sessions      SessionStore
	legacyScoring bool
}

func NewResultService(results ResultStore, sessions SessionStore, legacyScoring bool) *ResultService {
	return &ResultService{results: results, sessions: sessions, legacyScoring: legacyScoring}
}

// SubmitResult scores the submitted answers, persists the attempt against
// the session's identity and returns the stored record.
func (s *ResultService) SubmitResult(ctx context.Context, sessionID string, answers []models.AnsweredQuestion) (*models.Result, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: invalid or missing quiz results", apperr.ErrValidation)
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return nil, err
	}
	if session.Testcode == "" {
		return nil, fmt.Errorf("%w: test code not found for user", apperr.ErrValidation)
	}

	result := &models.Result{
		SessionID: session.ID.Hex(),
		Name:      session.Name,
		Userclass: session.Userclass,
		Testcode:  session.Testcode,
		Answers:   answers,
		Summary:   Score(answers, s.legacyScoring),
		CreatedAt: time.Now(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ResultService) ListResults(ctx context.Context) ([]models.Result, error) {
	return s.results.FindAll(ctx)
}
