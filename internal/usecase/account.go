package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/truefeedback/true-feedback-api/internal/auth"
	"github.com/truefeedback/true-feedback-api/internal/mailer"
	"github.com/truefeedback/true-feedback-api/internal/model"
	"github.com/truefeedback/true-feedback-api/internal/repository"
	"github.com/truefeedback/true-feedback-api/internal/security"
)

// AccountUsecase defines the business logic for the account lifecycle.
type AccountUsecase interface {
	// SignUp registers a new user, or reissues the verification code when an
	// unverified user signs up again with the same email. On success a
	// verification email has been dispatched.
	SignUp(ctx context.Context, params SignUpParams) error

	// VerifyCode marks the user verified if the code matches and has not
	// expired. Verification is terminal: an already-verified user succeeds
	// without any state change.
	VerifyCode(ctx context.Context, username, code string) error

	// CheckUsernameAvailable reports whether no verified user owns the
	// username.
	CheckUsernameAvailable(ctx context.Context, username string) (bool, error)

	// SignIn authenticates a verified user by username or email and returns
	// a session token.
	SignIn(ctx context.Context, params SignInParams) (string, error)
}

// SignUpParams defines the parameters for user registration.
type SignUpParams struct {
	Username string
	Email    string
	Password string
}

// SignInParams defines the parameters for user sign-in. Identifier is a
// username or an email address.
type SignInParams struct {
	Identifier string
	Password   string
}

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrEmailDelivery      = errors.New("failed to send verification email")
	ErrUserNotFound       = errors.New("user not found")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrInvalidCode        = errors.New("incorrect verification code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account is not verified")
)

const verifyCodeTTL = time.Hour

type accountUsecase struct {
	userRepo repository.UserRepository
	mailer   mailer.Sender
	jwtAuth  auth.JWTAuthenticator
}

// NewAccountUsecase creates a new instance of AccountUsecase.
func NewAccountUsecase(
	userRepo repository.UserRepository,
	mailer mailer.Sender,
	jwtAuth auth.JWTAuthenticator,
) AccountUsecase {
	return &accountUsecase{
		userRepo: userRepo,
		mailer:   mailer,
		jwtAuth:  jwtAuth,
	}
}

func (u *accountUsecase) SignUp(ctx context.Context, params SignUpParams) error {
	_, err := u.userRepo.GetVerifiedUserByUsername(ctx, params.Username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return err
	}

	code, err := generateVerifyCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(verifyCodeTTL)

	existing, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	switch {
	case err == nil:
		if existing.Verified {
			return ErrEmailTaken
		}

		// Re-registration: reuse the unverified record with a fresh code.
		if _, err := u.userRepo.ReissueVerification(ctx, existing.ID.Hex(), repository.ReissueVerificationParams{
			PasswordHash:        passwordHash,
			VerifyCode:          code,
			VerifyCodeExpiresAt: expiresAt,
		}); err != nil {
			return err
		}

	case errors.Is(err, mongo.ErrNoDocuments):
		if _, err := u.userRepo.CreateUser(ctx, &model.User{
			Username:            params.Username,
			Email:               params.Email,
			PasswordHash:        passwordHash,
			Verified:            false,
			VerifyCode:          code,
			VerifyCodeExpiresAt: expiresAt,
			AcceptingMessages:   true,
			Messages:            []model.Message{},
		}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrEmailTaken
			}
			return err
		}

	default:
		return err
	}

	// The user record is kept even when delivery fails; a re-signup reissues
	// the code.
	if err := u.mailer.SendVerificationCode(params.Email, params.Username, code); err != nil {
		return ErrEmailDelivery
	}

	return nil
}

func (u *accountUsecase) VerifyCode(ctx context.Context, username, code string) error {
	user, err := u.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Verified {
		return nil
	}

	// Expiry takes precedence over a code mismatch.
	if time.Now().After(user.VerifyCodeExpiresAt) {
		return ErrCodeExpired
	}

	if user.VerifyCode != code {
		return ErrInvalidCode
	}

	if _, err := u.userRepo.MarkVerified(ctx, user.ID.Hex()); err != nil {
		return err
	}

	return nil
}

func (u *accountUsecase) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := u.userRepo.GetVerifiedUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return true, nil
		}
		return false, err
	}

	return false, nil
}

func (u *accountUsecase) SignIn(ctx context.Context, params SignInParams) (string, error) {
	user, err := u.userRepo.GetUserByUsername(ctx, params.Identifier)
	if errors.Is(err, mongo.ErrNoDocuments) {
		user, err = u.userRepo.GetUserByEmail(ctx, params.Identifier)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	if !user.Verified {
		return "", ErrNotVerified
	}

	return u.jwtAuth.GenerateToken(user.ID.Hex(), user.Username)
}

// generateVerifyCode draws a 6-digit code uniformly over 100000-999999.
func generateVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
