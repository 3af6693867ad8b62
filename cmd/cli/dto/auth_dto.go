package dto

// Client-side copies of the API payloads

type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type TokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      string  `json:"role"`
}

// ErrorResponse is the body the API sends with every 4xx/5xx status.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
