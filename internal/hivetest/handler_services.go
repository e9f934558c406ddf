package hivetest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/hive/pkg/model"
)

// AddService posts a service owned by email.
func (s *Server) AddService(email string, in model.ServiceCreate) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return model.Service{}, err
	}
	return s.addServiceLocked(acct, in), nil
}

func (s *Server) addServiceLocked(acct *account, in model.ServiceCreate) model.Service {
	now := stamp()
	svc := model.Service{
		ID:                uuid.NewString(),
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		Tags:              in.Tags,
		EstimatedDuration: in.EstimatedDuration,
		Location:          in.Location,
		Deadline:          in.Deadline,
		ServiceType:       in.ServiceType,
		MaxParticipants:   in.MaxParticipants,
		UserID:            acct.user.ID,
		Status:            "active",
		SchedulingType:    in.SchedulingType,
		SpecificDate:      in.SpecificDate,
		SpecificTime:      in.SpecificTime,
		OpenAvailability:  in.OpenAvailability,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if svc.Tags == nil {
		svc.Tags = []model.Tag{}
	}
	s.services = append(s.services, svc)
	return svc
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	var out []model.Service
	for _, svc := range s.services {
		if v := q.Get("service_type"); v != "" && svc.ServiceType != v {
			continue
		}
		if v := q.Get("category"); v != "" && svc.Category != v {
			continue
		}
		if v := q.Get("status"); v != "" && svc.Status != v {
			continue
		}
		if v := q.Get("user_id"); v != "" && svc.UserID != v {
			continue
		}
		out = append(out, svc)
	}
	s.mu.Unlock()
	paginate(w, r, "services", out)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var in model.ServiceCreate
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Title == "" {
		respondInvalid(w, "title", "Field required")
		return
	}
	if in.ServiceType != "offer" && in.ServiceType != "need" {
		respondInvalid(w, "service_type", "Input should be 'offer' or 'need'")
		return
	}
	s.mu.Lock()
	svc := s.addServiceLocked(accountFrom(r.Context()), in)
	s.mu.Unlock()
	respondJSON(w, http.StatusCreated, svc)
}

func (s *Server) handleSavedServices(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	var out []model.Service
	for _, svc := range s.services {
		if slices.Contains(acct.saved, svc.ID) {
			out = append(out, svc)
		}
	}
	s.mu.Unlock()
	paginate(w, r, "services", out)
}

func (s *Server) serviceIndexLocked(id string) int {
	return slices.IndexFunc(s.services, func(svc model.Service) bool { return svc.ID == id })
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.serviceIndexLocked(chi.URLParam(r, "id"))
	var svc model.Service
	if i >= 0 {
		svc = s.services[i]
	}
	s.mu.Unlock()
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Service not found")
		return
	}
	respondJSON(w, http.StatusOK, svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var upd model.ServiceUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.serviceIndexLocked(chi.URLParam(r, "id"))
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Service not found")
		return
	}
	svc := &s.services[i]
	if svc.UserID != acct.user.ID {
		respondDetail(w, http.StatusForbidden, "Not authorized to update this service")
		return
	}
	setStr(&svc.Title, upd.Title)
	setStr(&svc.Description, upd.Description)
	setStr(&svc.Category, upd.Category)
	setStr(&svc.Deadline, upd.Deadline)
	setStr(&svc.Status, upd.Status)
	if upd.Tags != nil {
		svc.Tags = upd.Tags
	}
	if upd.EstimatedDuration != nil {
		svc.EstimatedDuration = *upd.EstimatedDuration
	}
	if upd.Location != nil {
		svc.Location = *upd.Location
	}
	svc.UpdatedAt = stamp()
	respondJSON(w, http.StatusOK, *svc)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.serviceIndexLocked(chi.URLParam(r, "id"))
	if i < 0 {
		respondDetail(w, http.StatusNotFound, "Service not found")
		return
	}
	if s.services[i].UserID != acct.user.ID && rank(acct.user.Role) < rank("admin") {
		respondDetail(w, http.StatusForbidden, "Not authorized to delete this service")
		return
	}
	s.services = slices.Delete(s.services, i, i+1)
	respondJSON(w, http.StatusOK, model.Message{Message: "Service deleted successfully"})
}

// SaveService bookmarks a service for email.
func (s *Server) SaveService(email, serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return err
	}
	acct.saved = append(acct.saved, serviceID)
	return nil
}
