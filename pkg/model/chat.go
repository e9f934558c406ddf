package model

// ChatParticipant is the embedded user summary in chat payloads.
type ChatParticipant struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// ChatRoom is a conversation between exchange participants.
type ChatRoom struct {
	ID             string            `json:"_id"`
	ParticipantIDs []string          `json:"participant_ids"`
	Name           string            `json:"name,omitempty"`
	Description    string            `json:"description,omitempty"`
	IsActive       bool              `json:"is_active"`
	TransactionID  string            `json:"transaction_id,omitempty"`
	LastMessageAt  string            `json:"last_message_at,omitempty"`
	Participants   []ChatParticipant `json:"participants,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

// ChatMessage is one message in a room.
type ChatMessage struct {
	ID               string           `json:"_id"`
	RoomID           string           `json:"room_id"`
	SenderID         string           `json:"sender_id"`
	Content          string           `json:"content"`
	MessageType      string           `json:"message_type"`
	ReplyToMessageID string           `json:"reply_to_message_id,omitempty"`
	IsEdited         bool             `json:"is_edited"`
	IsDeleted        bool             `json:"is_deleted"`
	Sender           *ChatParticipant `json:"sender,omitempty"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

// MessageCreate is the body of POST /chat/messages.
type MessageCreate struct {
	RoomID           string `json:"room_id"`
	Content          string `json:"content"`
	MessageType      string `json:"message_type"`
	ReplyToMessageID string `json:"reply_to_message_id,omitempty"`
}
