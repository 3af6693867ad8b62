package dto

// Data Transfer Objects for the confirmation-code flow

// SignupRequest: payload for requesting a confirmation code
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,max=150,username"`
}

// SignupResponse echoes the registered identity; the code itself only goes out by mail
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest: payload for exchanging a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
