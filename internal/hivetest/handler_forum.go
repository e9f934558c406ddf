package hivetest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/hive/pkg/model"
)

// AddEvent posts a community event by email.
func (s *Server) AddEvent(email, title, eventAt string) (model.ForumEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return model.ForumEvent{}, err
	}
	now := stamp()
	ev := model.ForumEvent{
		ID:        uuid.NewString(),
		UserID:    acct.user.ID,
		Title:     title,
		EventAt:   eventAt,
		User:      forumUser(acct),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.events = append(s.events, ev)
	return ev, nil
}

func forumUser(acct *account) *model.ForumUser {
	return &model.ForumUser{ID: acct.user.ID, Username: acct.user.Username, FullName: acct.user.FullName}
}

func hasTag(tags []model.Tag, want string) bool {
	for _, t := range tags {
		if t.Name == want || t.Label == want {
			return true
		}
	}
	return false
}

func matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func (s *Server) handleListDiscussions(w http.ResponseWriter, r *http.Request) {
	tag, query := r.URL.Query().Get("tag"), r.URL.Query().Get("q")
	s.mu.Lock()
	var out []model.ForumDiscussion
	for _, d := range s.discussions {
		if tag != "" && !hasTag(d.Tags, tag) {
			continue
		}
		if !matches(query, d.Title, d.Body) {
			continue
		}
		out = append(out, d)
	}
	s.mu.Unlock()
	paginate(w, r, "discussions", out)
}

func (s *Server) handleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
	var in model.ForumDiscussionCreate
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Title == "" {
		respondInvalid(w, "title", "Field required")
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	now := stamp()
	d := model.ForumDiscussion{
		ID:        uuid.NewString(),
		UserID:    acct.user.ID,
		Title:     in.Title,
		Body:      in.Body,
		Tags:      in.Tags,
		User:      forumUser(acct),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.discussions = append(s.discussions, d)
	s.mu.Unlock()
	respondJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDiscussion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.discussions {
		if d.ID == id {
			respondJSON(w, http.StatusOK, d)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Discussion not found")
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tag, query, hasLoc := q.Get("tag"), q.Get("q"), q.Get("has_location")
	s.mu.Lock()
	var out []model.ForumEvent
	for _, ev := range s.events {
		if tag != "" && !hasTag(ev.Tags, tag) {
			continue
		}
		if !matches(query, ev.Title, ev.Description) {
			continue
		}
		located := ev.Latitude != nil && ev.Longitude != nil
		if (hasLoc == "true" && !located) || (hasLoc == "false" && located) {
			continue
		}
		out = append(out, ev)
	}
	s.mu.Unlock()
	paginate(w, r, "events", out)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID == id {
			respondJSON(w, http.StatusOK, ev)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Event not found")
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	targetType, targetID := r.URL.Query().Get("target_type"), r.URL.Query().Get("target_id")
	s.mu.Lock()
	var out []model.ForumComment
	for _, c := range s.comments {
		if c.TargetType == targetType && c.TargetID == targetID {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	paginate(w, r, "comments", out)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var in model.ForumCommentCreate
	if !decodeBody(w, r, &in) {
		return
	}
	if in.TargetType != "discussion" && in.TargetType != "event" {
		respondInvalid(w, "target_type", "Input should be 'discussion' or 'event'")
		return
	}
	if in.Content == "" {
		respondInvalid(w, "content", "String should have at least 1 character")
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	switch in.TargetType {
	case "discussion":
		for i := range s.discussions {
			if s.discussions[i].ID == in.TargetID {
				s.discussions[i].CommentCount++
				found = true
			}
		}
	case "event":
		for i := range s.events {
			if s.events[i].ID == in.TargetID {
				s.events[i].CommentCount++
				found = true
			}
		}
	}
	if !found {
		respondDetail(w, http.StatusNotFound, "Target not found")
		return
	}
	now := stamp()
	c := model.ForumComment{
		ID:         uuid.NewString(),
		UserID:     acct.user.ID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Content:    in.Content,
		User:       forumUser(acct),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.comments = append(s.comments, c)
	respondJSON(w, http.StatusCreated, c)
}
