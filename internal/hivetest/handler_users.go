package hivetest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/hive/pkg/model"
)

var interests = []string{"cooking", "gardening", "languages", "music", "programming", "tutoring"}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	user := acct.user
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd model.UserUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	u := &acct.user
	setStr(&u.Username, upd.Username)
	setStr(&u.FullName, upd.FullName)
	setStr(&u.Bio, upd.Bio)
	setStr(&u.Location, upd.Location)
	setStr(&u.ProfilePicture, upd.ProfilePicture)
	if upd.SocialLinks != nil {
		u.SocialLinks = upd.SocialLinks
	}
	if upd.Interests != nil {
		u.Interests = upd.Interests
	}
	u.UpdatedAt = stamp()
	user := *u
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var upd model.UserSettingsUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	u := &acct.user
	setBool(&u.ProfileVisible, upd.ProfileVisible)
	setBool(&u.ShowEmail, upd.ShowEmail)
	setBool(&u.ShowLocation, upd.ShowLocation)
	setBool(&u.EmailNotifications, upd.EmailNotifications)
	setBool(&u.ServiceMatchesNotifications, upd.ServiceMatchesNotifications)
	setBool(&u.MessagesNotifications, upd.MessagesNotifications)
	u.UpdatedAt = stamp()
	user := *u
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordChange
	if !decodeBody(w, r, &req) {
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondInvalid(w, "confirm_password", "Passwords do not match")
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	if acct.password != req.CurrentPassword {
		respondDetail(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	acct.password = req.NewPassword
	respondJSON(w, http.StatusOK, model.Message{Message: "Password updated successfully"})
}

func (s *Server) handleTimeBank(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := []model.TimeBankTransaction{}
	for _, tx := range s.transactions {
		if tx.UserID == acct.user.ID {
			mine = append(mine, tx)
		}
	}
	respondJSON(w, http.StatusOK, model.TimeBank{
		Balance:      acct.user.TimeBankBalance,
		Transactions: mine,
		MaxBalance:   10,
		CanEarn:      acct.user.TimeBankBalance < 10,
	})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	completed := 0
	for _, tx := range s.transactions {
		if tx.UserID == acct.user.ID && tx.Amount > 0 {
			completed++
		}
	}
	s.mu.Unlock()

	badges := []model.Badge{
		{Key: "first_exchange", Name: "First Exchange", Earned: completed >= 1,
			Progress: &model.BadgeProgress{Current: float64(completed), Target: 1}},
		{Key: "helper", Name: "Helper", Earned: completed >= 5,
			Progress: &model.BadgeProgress{Current: float64(completed), Target: 5}},
	}
	earned := 0
	for _, b := range badges {
		if b.Earned {
			earned++
		}
	}
	respondJSON(w, http.StatusOK, model.BadgeSummary{Badges: badges, EarnedCount: earned, TotalCount: len(badges)})
}

func (s *Server) handleInterests(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, interests)
}

func (s *Server) handleAdminTransactions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := append([]model.TimeBankTransaction(nil), s.transactions...)
	s.mu.Unlock()
	paginate(w, r, "transactions", all)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct, ok := s.accounts[chi.URLParam(r, "id")]
	var user model.User
	if ok {
		user = acct.user
	}
	s.mu.Unlock()
	if !ok {
		respondDetail(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// AddTransaction records a time bank credit (positive) or debit for email.
func (s *Server) AddTransaction(email string, amount float64, description string) (model.TimeBankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return model.TimeBankTransaction{}, err
	}
	tx := model.TimeBankTransaction{
		ID:          uuid.NewString(),
		UserID:      acct.user.ID,
		Amount:      amount,
		Description: description,
		CreatedAt:   stamp(),
	}
	s.transactions = append(s.transactions, tx)
	acct.user.TimeBankBalance += amount
	return tx, nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
