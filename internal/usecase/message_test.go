package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/truefeedback/true-feedback-api/internal/model"
)

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a timestamped message to an accepting recipient", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		var appended model.Message
		mockRepo.On("AppendMessage", mock.Anything, "alice", mock.AnythingOfType("model.Message")).
			Run(func(args mock.Arguments) {
				appended = args.Get(2).(model.Message)
			}).
			Return(true, nil)

		require.NoError(t, u.SendMessage(ctx, "alice", "hello there"))
		require.Equal(t, "hello there", appended.Content)
		require.WithinDuration(t, time.Now(), appended.CreatedAt, time.Minute)

		// A matched conditional write needs no follow-up read.
		mockRepo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("is forbidden when the recipient opted out", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("AppendMessage", mock.Anything, "alice", mock.Anything).Return(false, nil)
		mockRepo.On("GetUserByUsername", mock.Anything, "alice").
			Return(&model.User{Username: "alice", AcceptingMessages: false}, nil)

		require.ErrorIs(t, u.SendMessage(ctx, "alice", "hello there"), ErrNotAcceptingMessages)
	})

	t.Run("fails for an unknown recipient", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("AppendMessage", mock.Anything, "ghost", mock.Anything).Return(false, nil)
		mockRepo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, mongo.ErrNoDocuments)

		require.ErrorIs(t, u.SendMessage(ctx, "ghost", "hello there"), ErrUserNotFound)
	})
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()
	id := bson.NewObjectID().Hex()

	t.Run("returns messages in repository order", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		now := time.Now()
		newestFirst := []model.Message{
			{Content: "third", CreatedAt: now},
			{Content: "second", CreatedAt: now.Add(-time.Minute)},
			{Content: "first", CreatedAt: now.Add(-2 * time.Minute)},
		}
		mockRepo.On("ListMessages", mock.Anything, id).Return(newestFirst, nil)

		messages, err := u.ListMessages(ctx, id)
		require.NoError(t, err)
		require.Equal(t, newestFirst, messages)
	})

	t.Run("turns a nil result into an empty list", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("ListMessages", mock.Anything, id).Return([]model.Message(nil), nil)

		messages, err := u.ListMessages(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, messages)
		require.Empty(t, messages)
	})

	t.Run("fails for an unresolvable user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("ListMessages", mock.Anything, id).Return(nil, mongo.ErrNoDocuments)

		_, err := u.ListMessages(ctx, id)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAcceptingMessages(t *testing.T) {
	ctx := context.Background()
	id := bson.NewObjectID().Hex()

	t.Run("reports the current flag", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("GetUser", mock.Anything, id).Return(&model.User{AcceptingMessages: true}, nil)

		accepting, err := u.AcceptingMessages(ctx, id)
		require.NoError(t, err)
		require.True(t, accepting)
	})

	t.Run("fails when the session user no longer resolves", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("GetUser", mock.Anything, id).Return(nil, mongo.ErrNoDocuments)

		_, err := u.AcceptingMessages(ctx, id)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSetAcceptingMessages(t *testing.T) {
	ctx := context.Background()
	id := bson.NewObjectID().Hex()

	t.Run("updates the flag", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("SetAcceptingMessages", mock.Anything, id, false).
			Return(&model.User{AcceptingMessages: false}, nil)

		require.NoError(t, u.SetAcceptingMessages(ctx, id, false))
		mockRepo.AssertExpectations(t)
	})

	t.Run("fails when the update target is missing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		u := NewMessageUsecase(mockRepo)

		mockRepo.On("SetAcceptingMessages", mock.Anything, id, true).Return(nil, mongo.ErrNoDocuments)

		require.ErrorIs(t, u.SetAcceptingMessages(ctx, id, true), ErrUserNotFound)
	})
}
