package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Question struct {
	ID          string   `bson:"id" json:"id"`
	Text        string   `bson:"question" json:"question"`
	Options     []string `bson:"options" json:"options"`
	Answer      string   `bson:"answer" json:"answer"`
	Explanation string   `bson:"explanation" json:"explanation"`
	AddScore    int      `bson:"add_score" json:"addScore"`
	SubScore    int      `bson:"sub_score" json:"subScore"`
	Testcode    string   `bson:"testcode" json:"testcode"`
	Quizname    string   `bson:"quizname" json:"quizname"`
}

// QuestionGroup is one uploaded batch keyed by its testcode. Every embedded
// question is stamped with the same testcode and quizname; rotation rewrites
// the group key and the stamps in a single update.
type QuestionGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Quizname  string             `bson:"quizname" json:"quizname"`
	Testcode  string             `bson:"testcode" json:"testcode"`
	Questions []Question         `bson:"questions" json:"questions"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// QuizRef is the (quizname, testcode) pair shown on the admin dashboard.
type QuizRef struct {
	QuizName string `bson:"quizname" json:"quizName"`
	TestCode string `bson:"testcode" json:"testCode"`
}
