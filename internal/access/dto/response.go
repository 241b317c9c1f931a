package dto

import "time"

// AuthResponse is the body returned by the token lifecycle endpoints.
// State is one of the constant.TokenState* values.
type AuthResponse struct {
	Token string `json:"token"`
	State string `json:"state"`
}

// ErrorResponse is the structured error body every failure path returns.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
}

func NewErrorResponse(code, message string, status int) ErrorResponse {
	return ErrorResponse{
		Error:      code,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
}

type SuccessResponse struct {
	Successful string `json:"successful"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
}

func NewSuccessResponse(code, message string, status int) SuccessResponse {
	return SuccessResponse{
		Successful: code,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
}

type SessionInfo struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
}
