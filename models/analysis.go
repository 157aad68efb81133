package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Analysis records one run of the external video analyzer for a user.
type Analysis struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	FileName  string             `bson:"file_name" json:"file_name"`
	Result    json.RawMessage    `bson:"result" json:"result"` // analyzer response, stored as-is
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
