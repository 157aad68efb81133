package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered student or faculty account.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"` // bcrypt hash, never returned
	IsAccountVerified bool               `bson:"is_account_verified" json:"is_account_verified"`
	VerifyOTP         string             `bson:"verify_otp" json:"-"`
	VerifyOTPExpireAt int64              `bson:"verify_otp_expire_at" json:"-"` // unix millis, 0 when unset
	ResetOTP          string             `bson:"reset_otp" json:"-"`
	ResetOTPExpireAt  int64              `bson:"reset_otp_expire_at" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
