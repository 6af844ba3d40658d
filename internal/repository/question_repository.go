package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("question_groups")}
}

// exactCI is an anchored case-insensitive match, so "MATH-12345678" and
// "math-12345678" address the same group.
func exactCI(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func (r *QuestionRepository) CreateGroup(ctx context.Context, group *models.QuestionGroup) error {
	res, err := r.Col.InsertOne(ctx, group)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		group.ID = oid
	}
	return nil
}

func (r *QuestionRepository) FindGroupByTestcode(ctx context.Context, code string) (*models.QuestionGroup, error) {
	var group models.QuestionGroup
	err := r.Col.FindOne(ctx, bson.M{"testcode": exactCI(code)}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// AppendQuestion pushes q onto the group's question list only if no existing
// question in that group has case-insensitively identical text. The guard
// lives in the update filter, so two concurrent appends of the same text
// cannot both land.
func (r *QuestionRepository) AppendQuestion(ctx context.Context, code string, q models.Question) error {
	filter := bson.M{
		"testcode":  exactCI(code),
		"questions": bson.M{"$not": bson.M{"$elemMatch": bson.M{"question": exactCI(q.Text)}}},
	}
	update := bson.M{
		"$push": bson.M{"questions": q},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// The guarded filter also misses when the group itself is gone,
		// so tell the two apart before reporting a duplicate.
		n, err := r.Col.CountDocuments(ctx, bson.M{"testcode": exactCI(code)})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: no question group for testcode %q", apperr.ErrNotFound, code)
		}
		return apperr.ErrDuplicate
	}
	return nil
}

// QuestionsByTestcode flattens every stored question carrying the code,
// matching on the per-question stamp so stragglers from an interrupted
// rotation are still found under their old code.
func (r *QuestionRepository) QuestionsByTestcode(ctx context.Context, code string) ([]models.Question, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"testcode": exactCI(code)},
		bson.M{"questions.testcode": exactCI(code)},
	}}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	pattern := exactCI(code)
	re := regexp.MustCompile("(?i)" + pattern.Pattern)
	var questions []models.Question
	for cur.Next(ctx) {
		var group models.QuestionGroup
		if err := cur.Decode(&group); err != nil {
			return nil, err
		}
		for _, q := range group.Questions {
			if re.MatchString(q.Testcode) {
				questions = append(questions, q)
			}
		}
	}
	return questions, cur.Err()
}

// DistinctQuizzes returns the first-seen (quizname, testcode) pair per
// distinct key, in discovery order.
func (r *QuestionRepository) DistinctQuizzes(ctx context.Context) ([]models.QuizRef, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := map[string]bool{}
	quizzes := []models.QuizRef{}
	for cur.Next(ctx) {
		var group models.QuestionGroup
		if err := cur.Decode(&group); err != nil {
			return nil, err
		}
		for _, q := range group.Questions {
			key := q.Quizname + "-" + q.Testcode
			if seen[key] {
				continue
			}
			seen[key] = true
			quizzes = append(quizzes, models.QuizRef{QuizName: q.Quizname, TestCode: q.Testcode})
		}
	}
	return quizzes, cur.Err()
}

// DeleteByTestcode pulls matching questions out of every group. Groups left
// with zero questions stay in place; an unknown code is a no-op.
func (r *QuestionRepository) DeleteByTestcode(ctx context.Context, code string) error {
	update := bson.M{"$pull": bson.M{"questions": bson.M{"testcode": exactCI(code)}}}
	_, err := r.Col.UpdateMany(ctx, bson.M{}, update)
	return err
}

// ListGroups returns every stored group, for the rotation job.
func (r *QuestionRepository) ListGroups(ctx context.Context) ([]models.QuestionGroup, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var groups []models.QuestionGroup
	for cur.Next(ctx) {
		var group models.QuestionGroup
		if err := cur.Decode(&group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, cur.Err()
}

// RotateTestcode swaps a group's code and every embedded stamp in one
// conditional update. The oldCode condition makes the swap a compare-and-set:
// a group already rotated by a concurrent tick is left alone and the call
// reports false.
func (r *QuestionRepository) RotateTestcode(ctx context.Context, groupID primitive.ObjectID, oldCode, newCode string) (bool, error) {
	filter := bson.M{"_id": groupID, "testcode": oldCode}
	update := bson.M{"$set": bson.M{
		"testcode":               newCode,
		"questions.$[].testcode": newCode,
		"updated_at":             time.Now(),
	}}
	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
