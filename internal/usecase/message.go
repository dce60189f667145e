package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/truefeedback/true-feedback-api/internal/model"
	"github.com/truefeedback/true-feedback-api/internal/repository"
)

// MessageUsecase defines the business logic for anonymous messages and the
// acceptance flag gating them.
type MessageUsecase interface {
	// SendMessage appends an anonymous message to the recipient's list. The
	// acceptance check and the append are one conditional write, so a
	// recipient who has opted out never receives the message.
	SendMessage(ctx context.Context, username, content string) error

	// ListMessages returns the user's messages sorted newest-first. A user
	// with no messages gets an empty list, not an error.
	ListMessages(ctx context.Context, userID string) ([]model.Message, error)

	// AcceptingMessages reports whether the user currently accepts messages.
	AcceptingMessages(ctx context.Context, userID string) (bool, error)

	// SetAcceptingMessages sets whether the user accepts messages.
	SetAcceptingMessages(ctx context.Context, userID string, accepting bool) error
}

var ErrNotAcceptingMessages = errors.New("user is not accepting messages")

type messageUsecase struct {
	userRepo repository.UserRepository
}

// NewMessageUsecase creates a new instance of MessageUsecase.
func NewMessageUsecase(userRepo repository.UserRepository) MessageUsecase {
	return &messageUsecase{userRepo: userRepo}
}

func (u *messageUsecase) SendMessage(ctx context.Context, username, content string) error {
	appended, err := u.userRepo.AppendMessage(ctx, username, model.Message{
		Content:   content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if appended {
		return nil
	}

	// Nothing matched: either the recipient does not exist or has opted out.
	if _, err := u.userRepo.GetUserByUsername(ctx, username); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	return ErrNotAcceptingMessages
}

func (u *messageUsecase) ListMessages(ctx context.Context, userID string) ([]model.Message, error) {
	messages, err := u.userRepo.ListMessages(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if messages == nil {
		messages = []model.Message{}
	}

	return messages, nil
}

func (u *messageUsecase) AcceptingMessages(ctx context.Context, userID string) (bool, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	return user.AcceptingMessages, nil
}

func (u *messageUsecase) SetAcceptingMessages(ctx context.Context, userID string, accepting bool) error {
	if _, err := u.userRepo.SetAcceptingMessages(ctx, userID, accepting); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}
