package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/truefeedback/true-feedback-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetVerifiedUserByUsername(ctx context.Context, username string) (*model.User, error)

	// ReissueVerification replaces the password hash and verification code of
	// an existing (unverified) user in a single write.
	ReissueVerification(ctx context.Context, id string, params ReissueVerificationParams) (*model.User, error)

	// MarkVerified flips the user's verified flag to true.
	MarkVerified(ctx context.Context, id string) (*model.User, error)

	// SetAcceptingMessages sets whether the user accepts incoming messages.
	SetAcceptingMessages(ctx context.Context, id string, accepting bool) (*model.User, error)

	// AppendMessage pushes a message onto the recipient's list if and only if
	// the recipient currently accepts messages. The acceptance check and the
	// append are a single conditional update; appended reports whether any
	// document matched.
	AppendMessage(ctx context.Context, username string, message model.Message) (appended bool, err error)

	// ListMessages returns the user's messages sorted newest-first.
	ListMessages(ctx context.Context, id string) ([]model.Message, error)
}

// ReissueVerificationParams carries the fields rewritten when an unverified
// user signs up again with the same email.
type ReissueVerificationParams struct {
	PasswordHash        string
	VerifyCode          string
	VerifyCodeExpiresAt time.Time
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a new MongoDB repository for users. Email
// uniqueness is enforced with a plain unique index; username uniqueness only
// matters among verified users, so it is a partial unique index filtered on
// is_verified.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_verified": true}),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Messages == nil {
		user.Messages = []model.Message{}
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userMongoRepository) GetVerifiedUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "is_verified": true})
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ReissueVerification(
	ctx context.Context,
	id string,
	params ReissueVerificationParams,
) (*model.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		"password_hash":          params.PasswordHash,
		"verify_code":            params.VerifyCode,
		"verify_code_expires_at": params.VerifyCodeExpiresAt,
	})
}

func (r *userMongoRepository) MarkVerified(ctx context.Context, id string) (*model.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"is_verified": true})
}

func (r *userMongoRepository) SetAcceptingMessages(
	ctx context.Context,
	id string,
	accepting bool,
) (*model.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"is_accepting_messages": accepting})
}

func (r *userMongoRepository) findOneAndSet(ctx context.Context, id string, fields bson.M) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) AppendMessage(
	ctx context.Context,
	username string,
	message model.Message,
) (bool, error) {
	// The filter carries the acceptance flag so a recipient who opted out
	// between a caller's read and this write can never receive the message.
	filter := bson.M{
		"username":              username,
		"is_accepting_messages": true,
	}
	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (r *userMongoRepository) ListMessages(ctx context.Context, id string) ([]model.Message, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": objectID}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$messages",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"messages.created_at": -1}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$_id",
			"messages": bson.M{"$push": "$messages"},
		}}},
	}

	cursor, err := r.db.Collection(userCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Messages []model.Message `bson:"messages"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	return results[0].Messages, nil
}
