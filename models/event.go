package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventNameMaxLen        = 100
	EventDescriptionMaxLen = 500
)

// Event represents a campus event announcement.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
