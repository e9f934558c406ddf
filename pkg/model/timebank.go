package model

// TimeBankTransaction is one credit or debit of hours.
type TimeBankTransaction struct {
	ID          string  `json:"_id"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ServiceID   string  `json:"service_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// TimeBank is the caller's balance and recent transactions.
type TimeBank struct {
	Balance      float64               `json:"balance"`
	Transactions []TimeBankTransaction `json:"transactions"`
	MaxBalance   float64               `json:"max_balance"`
	CanEarn      bool                  `json:"can_earn"`
}

// BadgeProgress tracks how close a user is to a badge.
type BadgeProgress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// Badge is one achievement.
type Badge struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	Earned      bool           `json:"earned"`
	Progress    *BadgeProgress `json:"progress,omitempty"`
}

// BadgeSummary is returned by /users/badges.
type BadgeSummary struct {
	Badges      []Badge `json:"badges"`
	EarnedCount int     `json:"earned_count"`
	TotalCount  int     `json:"total_count"`
}
