package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message is a single anonymous message embedded in its recipient's user
// document. It has no identity of its own and is never referenced outside
// the owning User.
type Message struct {
	Content   string    `bson:"content"    json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// User represents a registrant who can receive anonymous messages.
type User struct {
	ID                  bson.ObjectID `bson:"_id,omitempty"`
	Username            string        `bson:"username"`
	Email               string        `bson:"email"`
	PasswordHash        string        `bson:"password_hash"`
	Verified            bool          `bson:"is_verified"`
	VerifyCode          string        `bson:"verify_code"`
	VerifyCodeExpiresAt time.Time     `bson:"verify_code_expires_at"`
	AcceptingMessages   bool          `bson:"is_accepting_messages"`
	Messages            []Message     `bson:"messages"`
	CreatedAt           time.Time     `bson:"created_at"`
	UpdatedAt           time.Time     `bson:"updated_at"`
}
