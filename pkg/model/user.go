package model

// SocialLinks are the optional profile links of a user.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// User is the identity returned by /auth/me, /users/profile and /users/{id}.
// Role is one of "user", "moderator" or "admin"; it defaults to "user".
type User struct {
	ID             string       `json:"_id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	FullName       string       `json:"full_name,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Location       string       `json:"location,omitempty"`
	ProfilePicture string       `json:"profile_picture,omitempty"`
	SocialLinks    *SocialLinks `json:"social_links,omitempty"`
	Interests      []string     `json:"interests,omitempty"`
	IsActive       bool         `json:"is_active"`
	IsVerified     bool         `json:"is_verified"`
	Role           string       `json:"role"`

	ProfileVisible              bool `json:"profile_visible"`
	ShowEmail                   bool `json:"show_email"`
	ShowLocation                bool `json:"show_location"`
	EmailNotifications          bool `json:"email_notifications"`
	ServiceMatchesNotifications bool `json:"service_matches_notifications"`
	MessagesNotifications       bool `json:"messages_notifications"`

	TimeBankBalance float64 `json:"timebank_balance"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// UserUpdate is the body of PUT /users/profile. Nil fields are left unchanged.
type UserUpdate struct {
	Username       *string      `json:"username,omitempty"`
	FullName       *string      `json:"full_name,omitempty"`
	Bio            *string      `json:"bio,omitempty"`
	Location       *string      `json:"location,omitempty"`
	ProfilePicture *string      `json:"profile_picture,omitempty"`
	SocialLinks    *SocialLinks `json:"social_links,omitempty"`
	Interests      []string     `json:"interests,omitempty"`
}

// UserSettingsUpdate is the body of PUT /users/settings.
type UserSettingsUpdate struct {
	ProfileVisible              *bool `json:"profile_visible,omitempty"`
	ShowEmail                   *bool `json:"show_email,omitempty"`
	ShowLocation                *bool `json:"show_location,omitempty"`
	EmailNotifications          *bool `json:"email_notifications,omitempty"`
	ServiceMatchesNotifications *bool `json:"service_matches_notifications,omitempty"`
	MessagesNotifications       *bool `json:"messages_notifications,omitempty"`
}

// PasswordChange is the body of POST /users/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Message is the {"message": "..."} acknowledgement several endpoints return.
type Message struct {
	Message string `json:"message"`
}
