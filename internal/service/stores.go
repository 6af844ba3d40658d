package service

import (
	"context"

	"quetest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces are satisfied by the mongo repositories; tests swap in
// in-memory fakes.

type QuestionStore interface {
	CreateGroup(ctx context.Context, group *models.QuestionGroup) error
	FindGroupByTestcode(ctx context.Context, code string) (*models.QuestionGroup, error)
	AppendQuestion(ctx context.Context, code string, q models.Question) error
	QuestionsByTestcode(ctx context.Context, code string) ([]models.Question, error)
	DistinctQuizzes(ctx context.Context) ([]models.QuizRef, error)
	DeleteByTestcode(ctx context.Context, code string) error
	ListGroups(ctx context.Context) ([]models.QuestionGroup, error)
	RotateTestcode(ctx context.Context, groupID primitive.ObjectID, oldCode, newCode string) (bool, error)
}

// SessionStore misses are reported as apperr.ErrNotFound; any other error
// from FindByID is a storage failure.
type SessionStore interface {
	Create(ctx context.Context, session *models.StudentSession) error
	FindByID(ctx context.Context, id string) (*models.StudentSession, error)
}

type ResultStore interface {
	Create(ctx context.Context, result *models.Result) error
	FindAll(ctx context.Context) ([]models.Result, error)
}
