package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnsweredQuestion is one entry of the scoring payload a student submits.
type AnsweredQuestion struct {
	ID            string   `bson:"id" json:"id"`
	Question      string   `bson:"question" json:"question"`
	Options       []string `bson:"options,omitempty" json:"options,omitempty"`
	UserAnswer    string   `bson:"user_answer" json:"userAnswer"`
	CorrectAnswer string   `bson:"correct_answer" json:"correctAnswer"`
	AddScore      int      `bson:"add_score" json:"addScore"`
	SubScore      int      `bson:"sub_score" json:"subScore"`
}

type ScoreSummary struct {
	Total         int `bson:"total" json:"total"`
	Correct       int `bson:"correct" json:"correct"`
	Incorrect     int `bson:"incorrect" json:"incorrect"`
	FinalScore    int `bson:"final_score" json:"finalScore"`
	TotalPossible int `bson:"total_possible" json:"totalPossible"`
}

// Result is the persisted record of one completed attempt. Written exactly
// once; the session it references stays untouched.
type Result struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"sessionId"`
	Name      string             `bson:"name" json:"name"`
	Userclass string             `bson:"userclass" json:"userclass"`
	Testcode  string             `bson:"testcode" json:"testcode"`
	Answers   []AnsweredQuestion `bson:"answers" json:"answers"`
	Summary   ScoreSummary       `bson:"summary" json:"summary"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
