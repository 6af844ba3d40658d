package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentSession is created once at registration and never mutated. Results
// reference it by id.
type StudentSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Userclass string             `bson:"userclass" json:"userclass"`
	Testcode  string             `bson:"testcode" json:"testcode"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
