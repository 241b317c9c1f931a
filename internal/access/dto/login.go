package dto

// LoginInput accepts either a unique username or an email-shaped identifier
// in the Username field. IP and UserAgent are captured from the request, not
// the body.
type LoginInput struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}
