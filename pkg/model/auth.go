package model

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Location        string `json:"location,omitempty"`
}

// AuthResponse is returned by login, register and the OAuth callback.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// OAuthURL is returned by GET /auth/oauth/{provider}.
type OAuthURL struct {
	AuthURL string `json:"auth_url"`
}
