package model

// JoinRequestStatus values used by the API.
const (
	JoinRequestPending   = "pending"
	JoinRequestApproved  = "approved"
	JoinRequestRejected  = "rejected"
	JoinRequestCancelled = "cancelled"
)

// JoinRequest is a user's request to take part in a service.
type JoinRequest struct {
	ID           string `json:"_id"`
	ServiceID    string `json:"service_id"`
	UserID       string `json:"user_id"`
	Message      string `json:"message,omitempty"`
	Status       string `json:"status"`
	AdminMessage string `json:"admin_message,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// JoinRequestCreate is the body of POST /join-requests/.
type JoinRequestCreate struct {
	ServiceID string `json:"service_id"`
	Message   string `json:"message,omitempty"`
}

// JoinRequestUpdate is the body of PUT /join-requests/{id}.
type JoinRequestUpdate struct {
	Status       string `json:"status"`
	AdminMessage string `json:"admin_message,omitempty"`
}
