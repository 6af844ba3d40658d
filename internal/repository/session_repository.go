package repository

import (
	"context"
	"fmt"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.StudentSession) error {
	res, err := r.Col.InsertOne(ctx, session)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return nil
}

// FindByID reports a missing or malformed id as ErrNotFound; any other
// error is a storage failure and passes through unwrapped.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.StudentSession, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session id %q", apperr.ErrNotFound, id)
	}
	var session models.StudentSession
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: session %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
