package hivetest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/hive/pkg/model"
)

func (s *Server) joinRequestIndexLocked(id string) int {
	return slices.IndexFunc(s.joinRequests, func(jr model.JoinRequest) bool { return jr.ID == id })
}

func (s *Server) handleCreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	var in model.JoinRequestCreate
	if !decodeBody(w, r, &in) {
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.serviceIndexLocked(in.ServiceID)
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Service not found")
		return
	}
	if s.services[i].UserID == acct.user.ID {
		respondDetail(w, http.StatusBadRequest, "Cannot request to join your own service")
		return
	}
	for _, jr := range s.joinRequests {
		if jr.ServiceID == in.ServiceID && jr.UserID == acct.user.ID && jr.Status == model.JoinRequestPending {
			respondDetail(w, http.StatusBadRequest, "You already have a pending request for this service")
			return
		}
	}
	now := stamp()
	jr := model.JoinRequest{
		ID:        uuid.NewString(),
		ServiceID: in.ServiceID,
		UserID:    acct.user.ID,
		Message:   in.Message,
		Status:    model.JoinRequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.joinRequests = append(s.joinRequests, jr)
	respondJSON(w, http.StatusCreated, jr)
}

func (s *Server) handleMyJoinRequests(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	status := r.URL.Query().Get("status")
	s.mu.Lock()
	var out []model.JoinRequest
	for _, jr := range s.joinRequests {
		if jr.UserID == acct.user.ID && (status == "" || jr.Status == status) {
			out = append(out, jr)
		}
	}
	s.mu.Unlock()
	paginate(w, r, "requests", out)
}

func (s *Server) handleServiceJoinRequests(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	acct := accountFrom(r.Context())
	s.mu.Lock()
	i := s.serviceIndexLocked(serviceID)
	if i < 0 {
		s.mu.Unlock()
		respondDetail(w, http.StatusNotFound, "Service not found")
		return
	}
	if s.services[i].UserID != acct.user.ID {
		s.mu.Unlock()
		respondDetail(w, http.StatusForbidden, "Not authorized to view requests for this service")
		return
	}
	var out []model.JoinRequest
	for _, jr := range s.joinRequests {
		if jr.ServiceID == serviceID {
			out = append(out, jr)
		}
	}
	s.mu.Unlock()
	paginate(w, r, "requests", out)
}

func (s *Server) handleGetJoinRequest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.joinRequestIndexLocked(chi.URLParam(r, "id"))
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Join request not found")
		return
	}
	respondJSON(w, http.StatusOK, s.joinRequests[i])
}

func (s *Server) handleUpdateJoinRequest(w http.ResponseWriter, r *http.Request) {
	var upd model.JoinRequestUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	if upd.Status != model.JoinRequestApproved && upd.Status != model.JoinRequestRejected {
		respondInvalid(w, "status", "Input should be 'approved' or 'rejected'")
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.joinRequestIndexLocked(chi.URLParam(r, "id"))
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Join request not found")
		return
	}
	jr := &s.joinRequests[i]
	si := s.serviceIndexLocked(jr.ServiceID)
	if si < 0 || s.services[si].UserID != acct.user.ID {
		respondDetail(w, http.StatusForbidden, "Not authorized to update this request")
		return
	}
	jr.Status = upd.Status
	jr.AdminMessage = upd.AdminMessage
	jr.UpdatedAt = stamp()
	respondJSON(w, http.StatusOK, *jr)
}

func (s *Server) handleCancelJoinRequest(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.joinRequestIndexLocked(chi.URLParam(r, "id"))
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Join request not found")
		return
	}
	jr := &s.joinRequests[i]
	if jr.UserID != acct.user.ID {
		respondDetail(w, http.StatusForbidden, "Not authorized to cancel this request")
		return
	}
	if jr.Status != model.JoinRequestPending {
		respondDetail(w, http.StatusBadRequest, "Only pending requests can be cancelled")
		return
	}
	jr.Status = model.JoinRequestCancelled
	jr.UpdatedAt = stamp()
	respondJSON(w, http.StatusOK, *jr)
}
