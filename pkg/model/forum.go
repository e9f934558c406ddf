package model

// ForumUser is the embedded author summary in forum payloads.
type ForumUser struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// ForumDiscussion is a discussion thread.
type ForumDiscussion struct {
	ID           string     `json:"_id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Tags         []Tag      `json:"tags,omitempty"`
	User         *ForumUser `json:"user,omitempty"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
}

// ForumDiscussionCreate is the body of POST /forum/discussions.
type ForumDiscussionCreate struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tags  []Tag  `json:"tags,omitempty"`
}

// ForumEvent is a community event.
type ForumEvent struct {
	ID           string     `json:"_id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	EventAt      string     `json:"event_at"`
	Location     string     `json:"location,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	IsRemote     bool       `json:"is_remote"`
	Tags         []Tag      `json:"tags,omitempty"`
	ServiceID    string     `json:"service_id,omitempty"`
	User         *ForumUser `json:"user,omitempty"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
}

// ForumComment is a comment on a discussion or event.
type ForumComment struct {
	ID         string     `json:"_id"`
	UserID     string     `json:"user_id"`
	TargetType string     `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Content    string     `json:"content"`
	User       *ForumUser `json:"user,omitempty"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}

// ForumCommentCreate is the body of POST /forum/comments.
// TargetType is "discussion" or "event".
type ForumCommentCreate struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Content    string `json:"content"`
}

// ForumFilter narrows discussion and event listings.
type ForumFilter struct {
	PageOptions
	Tag         string
	Query       string
	HasLocation *bool // events only
}
