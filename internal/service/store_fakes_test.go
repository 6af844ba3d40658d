package service

import (
	"context"
	"fmt"
	"strings"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stands-ins for the mongo repositories.

type memQuestionStore struct {
	groups []*models.QuestionGroup
}

func (m *memQuestionStore) CreateGroup(_ context.Context, group *models.QuestionGroup) error {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	copied := *group
	m.groups = append(m.groups, &copied)
	return nil
}

func (m *memQuestionStore) FindGroupByTestcode(_ context.Context, code string) (*models.QuestionGroup, error) {
	for _, g := range m.groups {
		if strings.EqualFold(g.Testcode, code) {
			copied := *g
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memQuestionStore) AppendQuestion(_ context.Context, code string, q models.Question) error {
	for _, g := range m.groups {
		if !strings.EqualFold(g.Testcode, code) {
			continue
		}
		for _, existing := range g.Questions {
			if strings.EqualFold(existing.Text, q.Text) {
				return apperr.ErrDuplicate
			}
		}
		g.Questions = append(g.Questions, q)
		return nil
	}
	return fmt.Errorf("%w: no question group for testcode %q", apperr.ErrNotFound, code)
}

func (m *memQuestionStore) QuestionsByTestcode(_ context.Context, code string) ([]models.Question, error) {
	var questions []models.Question
	for _, g := range m.groups {
		for _, q := range g.Questions {
			if strings.EqualFold(q.Testcode, code) {
				questions = append(questions, q)
			}
		}
	}
	return questions, nil
}

func (m *memQuestionStore) DistinctQuizzes(_ context.Context) ([]models.QuizRef, error) {
	seen := map[string]bool{}
	quizzes := []models.QuizRef{}
	for _, g := range m.groups {
		for _, q := range g.Questions {
			key := q.Quizname + "-" + q.Testcode
			if seen[key] {
				continue
			}
			seen[key] = true
			quizzes = append(quizzes, models.QuizRef{QuizName: q.Quizname, TestCode: q.Testcode})
		}
	}
	return quizzes, nil
}

func (m *memQuestionStore) DeleteByTestcode(_ context.Context, code string) error {
	for _, g := range m.groups {
		kept := g.Questions[:0]
		for _, q := range g.Questions {
			if !strings.EqualFold(q.Testcode, code) {
				kept = append(kept, q)
			}
		}
		g.Questions = kept
	}
	return nil
}

func (m *memQuestionStore) ListGroups(_ context.Context) ([]models.QuestionGroup, error) {
	groups := make([]models.QuestionGroup, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, *g)
	}
	return groups, nil
}

func (m *memQuestionStore) RotateTestcode(_ context.Context, groupID primitive.ObjectID, oldCode, newCode string) (bool, error) {
	for _, g := range m.groups {
		if g.ID != groupID || g.Testcode != oldCode {
			continue
		}
		g.Testcode = newCode
		for i := range g.Questions {
			g.Questions[i].Testcode = newCode
		}
		return true, nil
	}
	return false, nil
}

type memSessionStore struct {
	sessions map[string]*models.StudentSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*models.StudentSession{}}
}

func (m *memSessionStore) Create(_ context.Context, session *models.StudentSession) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	copied := *session
	m.sessions[session.ID.Hex()] = &copied
	return nil
}

func (m *memSessionStore) FindByID(_ context.Context, id string) (*models.StudentSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

// downSessionStore fails every call the way an unreachable database would.
type downSessionStore struct {
	err error
}

func (d *downSessionStore) Create(_ context.Context, _ *models.StudentSession) error {
	return d.err
}

func (d *downSessionStore) FindByID(_ context.Context, _ string) (*models.StudentSession, error) {
	return nil, d.err
}

type memResultStore struct {
	results []models.Result
}

func (m *memResultStore) Create(_ context.Context, result *models.Result) error {
	if result.ID.IsZero() {
		result.ID = primitive.NewObjectID()
	}
	m.results = append(m.results, *result)
	return nil
}

func (m *memResultStore) FindAll(_ context.Context) ([]models.Result, error) {
	return append([]models.Result{}, m.results...), nil
}
