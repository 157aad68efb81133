package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note represents an uploaded lecture-notes PDF.
type Note struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject    string             `bson:"subject" json:"subject"`
	Section    string             `bson:"section" json:"section"`
	PDFUrl     string             `bson:"pdf_url" json:"pdf_url"` // local path or S3 object key
	FileName   string             `bson:"file_name" json:"file_name"`
	UploadedBy primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
