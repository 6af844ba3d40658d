package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"
	"quetest-service/internal/testcode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionService struct {
	store QuestionStore
}

func NewQuestionService(store QuestionStore) *QuestionService {
	return &QuestionService{store: store}
}

// AddQuestions generates a fresh test code, stamps every question with it and
// the quiz name, and persists the batch as a new group.
func (s *QuestionService) AddQuestions(ctx context.Context, quizname string, questions []models.Question) (*models.QuestionGroup, error) {
	quizname = strings.TrimSpace(quizname)
	if quizname == "" {
		return nil, fmt.Errorf("%w: quiz name is required", apperr.ErrValidation)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questions array is required", apperr.ErrValidation)
	}
	for i := range questions {
		if err := validateQuestion(&questions[i]); err != nil {
			return nil, err
		}
	}

	code := testcode.Generate(quizname)
	now := time.Now()
	group := &models.QuestionGroup{
		Quizname:  quizname,
		Testcode:  code,
		Questions: stamp(questions, quizname, code),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// AppendQuestions adds questions to the group addressed by an existing code.
// A question whose text case-insensitively matches one already in the group
// is rejected. An unknown code creates a new group keyed by the supplied
// code directly, without generation.
func (s *QuestionService) AppendQuestions(ctx context.Context, code string, questions []models.Question) (*models.QuestionGroup, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: testcode is required", apperr.ErrValidation)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questions array is required", apperr.ErrValidation)
	}
	for i := range questions {
		if err := validateQuestion(&questions[i]); err != nil {
			return nil, err
		}
	}

	group, err := s.store.FindGroupByTestcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		now := time.Now()
		group = &models.QuestionGroup{
			Quizname:  quiznameFromCode(code),
			Testcode:  code,
			Questions: stamp(questions, quiznameFromCode(code), code),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateGroup(ctx, group); err != nil {
			return nil, err
		}
		return group, nil
	}

	for _, incoming := range stamp(questions, group.Quizname, group.Testcode) {
		for _, existing := range group.Questions {
			if strings.EqualFold(existing.Text, incoming.Text) {
				return nil, fmt.Errorf("%w: %q", apperr.ErrDuplicate, incoming.Text)
			}
		}
		// The store guards against a concurrent append of the same text.
		if err := s.store.AppendQuestion(ctx, group.Testcode, incoming); err != nil {
			return nil, err
		}
		group.Questions = append(group.Questions, incoming)
	}
	return group, nil
}

// CreateOrAppend is the single entry point for both creation paths: a
// supplied testcode wins and routes to the append path, otherwise a code is
// generated for the quiz name.
func (s *QuestionService) CreateOrAppend(ctx context.Context, quizname, code string, questions []models.Question) (*models.QuestionGroup, error) {
	if strings.TrimSpace(code) != "" {
		return s.AppendQuestions(ctx, code, questions)
	}
	return s.AddQuestions(ctx, quizname, questions)
}

// FetchByTestcode returns every question stored under the code, matched
// case-insensitively.
func (s *QuestionService) FetchByTestcode(ctx context.Context, code string) ([]models.Question, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: testcode is required", apperr.ErrValidation)
	}
	questions, err := s.store.QuestionsByTestcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions for testcode %q", apperr.ErrNotFound, code)
	}
	return questions, nil
}

func (s *QuestionService) ListDistinctQuizzes(ctx context.Context) ([]models.QuizRef, error) {
	return s.store.DistinctQuizzes(ctx)
}

// DeleteByTestcode purges every question carrying the code. Unknown codes
// are a no-op, not an error.
func (s *QuestionService) DeleteByTestcode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: testcode is required", apperr.ErrValidation)
	}
	return s.store.DeleteByTestcode(ctx, code)
}

func validateQuestion(q *models.Question) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", apperr.ErrValidation)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %q needs at least two options", apperr.ErrValidation, q.Text)
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			if q.ID == "" {
				q.ID = primitive.NewObjectID().Hex()
			}
			return nil
		}
	}
	return fmt.Errorf("%w: answer for %q is not one of its options", apperr.ErrValidation, q.Text)
}

func stamp(questions []models.Question, quizname, code string) []models.Question {
	stamped := make([]models.Question, len(questions))
	for i, q := range questions {
		q.Quizname = quizname
		q.Testcode = code
		stamped[i] = q
	}
	return stamped
}

// quiznameFromCode recovers the quiz name from a well-formed code; a code in
// an unexpected shape is used as the name verbatim.
func quiznameFromCode(code string) string {
	if i := strings.LastIndex(code, "-"); i > 0 && testcode.WellFormed(code) {
		return code[:i]
	}
	return code
}
