package model

// Tag labels a service or forum post.
type Tag struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Location is a geographic point with an optional address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Service is an offer or need posted to the time bank.
type Service struct {
	ID                   string   `json:"_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Category             string   `json:"category,omitempty"`
	Tags                 []Tag    `json:"tags"`
	EstimatedDuration    float64  `json:"estimated_duration"`
	Location             Location `json:"location"`
	Deadline             string   `json:"deadline,omitempty"`
	ServiceType          string   `json:"service_type"`
	MaxParticipants      int      `json:"max_participants,omitempty"`
	UserID               string   `json:"user_id"`
	Status               string   `json:"status"`
	SchedulingType       string   `json:"scheduling_type,omitempty"`
	SpecificDate         string   `json:"specific_date,omitempty"`
	SpecificTime         string   `json:"specific_time,omitempty"`
	OpenAvailability     string   `json:"open_availability,omitempty"`
	MatchedUserIDs       []string `json:"matched_user_ids,omitempty"`
	ProviderConfirmed    bool     `json:"provider_confirmed,omitempty"`
	ReceiverConfirmedIDs []string `json:"receiver_confirmed_ids,omitempty"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
	CompletedAt          string   `json:"completed_at,omitempty"`
}

// ServiceCreate is the body of POST /services/.
type ServiceCreate struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Category          string   `json:"category,omitempty"`
	Tags              []Tag    `json:"tags"`
	EstimatedDuration float64  `json:"estimated_duration"`
	Location          Location `json:"location"`
	Deadline          string   `json:"deadline,omitempty"`
	ServiceType       string   `json:"service_type"`
	MaxParticipants   int      `json:"max_participants,omitempty"`
	SchedulingType    string   `json:"scheduling_type,omitempty"`
	SpecificDate      string   `json:"specific_date,omitempty"`
	SpecificTime      string   `json:"specific_time,omitempty"`
	OpenAvailability  string   `json:"open_availability,omitempty"`
}

// ServiceUpdate is the body of PUT /services/{id}.
type ServiceUpdate struct {
	Title             *string   `json:"title,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Category          *string   `json:"category,omitempty"`
	Tags              []Tag     `json:"tags,omitempty"`
	EstimatedDuration *float64  `json:"estimated_duration,omitempty"`
	Location          *Location `json:"location,omitempty"`
	Deadline          *string   `json:"deadline,omitempty"`
	Status            *string   `json:"status,omitempty"`
}

// ServiceFilter narrows GET /services/.
type ServiceFilter struct {
	PageOptions
	ServiceType string
	Category    string
	Tags        string
	Status      string
	Latitude    *float64
	Longitude   *float64
	Radius      *float64
	UserID      string
}
