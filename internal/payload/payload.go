package payload

import "github.com/truefeedback/true-feedback-api/internal/model"

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20,username"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyCodeRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code"     validate:"required,len=6,number"`
}

type SignInRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

// AcceptMessagesRequest toggles the acceptance flag. The field is a pointer
// so that an absent field fails validation instead of silently reading as
// false.
type AcceptMessagesRequest struct {
	AcceptMessages *bool `json:"acceptMessages" validate:"required"`
}

type SendMessageRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20,username"`
	Content  string `json:"content"  validate:"required,min=5,max=300"`
}

// UsernameQuery carries the ?username= query parameter of the availability
// check through the same schema rules as sign-up.
type UsernameQuery struct {
	Username string `json:"username" validate:"required,min=2,max=20,username"`
}

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignInResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

type AcceptMessagesResponse struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	IsAcceptingMessage bool   `json:"isAcceptingMessage"`
}

type MessagesResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Messages []model.Message `json:"messages"`
}
