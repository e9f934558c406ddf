package hivetest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/hive/pkg/model"
)

// AddRoom opens a chat room between the given users.
func (s *Server) AddRoom(name string, emails ...string) (model.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, e := range emails {
		acct, err := s.accountByEmailLocked(e)
		if err != nil {
			return model.ChatRoom{}, err
		}
		ids = append(ids, acct.user.ID)
	}
	return s.addRoomLocked(name, "", ids), nil
}

func (s *Server) addRoomLocked(name, transactionID string, participants []string) model.ChatRoom {
	now := stamp()
	room := model.ChatRoom{
		ID:             uuid.NewString(),
		ParticipantIDs: participants,
		Name:           name,
		IsActive:       true,
		TransactionID:  transactionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.rooms = append(s.rooms, room)
	return room
}

func (s *Server) roomForLocked(id string, acct *account) (model.ChatRoom, bool) {
	for _, room := range s.rooms {
		if room.ID == id && slices.Contains(room.ParticipantIDs, acct.user.ID) {
			return room, true
		}
	}
	return model.ChatRoom{}, false
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	s.mu.Lock()
	var out []model.ChatRoom
	for _, room := range s.rooms {
		if slices.Contains(room.ParticipantIDs, acct.user.ID) {
			out = append(out, room)
		}
	}
	s.mu.Unlock()
	paginate(w, r, "rooms", out)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	room, ok := s.roomForLocked(chi.URLParam(r, "id"), accountFrom(r.Context()))
	s.mu.Unlock()
	if !ok {
		respondDetail(w, http.StatusNotFound, "Chat room not found")
		return
	}
	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.roomForLocked(id, accountFrom(r.Context()))
	var out []model.ChatMessage
	for _, m := range s.messages {
		if m.RoomID == id {
			out = append(out, m)
		}
	}
	s.mu.Unlock()
	if !ok {
		respondDetail(w, http.StatusNotFound, "Chat room not found")
		return
	}
	paginate(w, r, "messages", out)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var in model.MessageCreate
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Content == "" {
		respondInvalid(w, "content", "String should have at least 1 character")
		return
	}
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomForLocked(in.RoomID, acct); !ok {
		respondDetail(w, http.StatusNotFound, "Chat room not found")
		return
	}
	now := stamp()
	msg := model.ChatMessage{
		ID:               uuid.NewString(),
		RoomID:           in.RoomID,
		SenderID:         acct.user.ID,
		Content:          in.Content,
		MessageType:      in.MessageType,
		ReplyToMessageID: in.ReplyToMessageID,
		Sender:           &model.ChatParticipant{ID: acct.user.ID, Username: acct.user.Username},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.messages = append(s.messages, msg)
	respondJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleTransactionRoom(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "id")
	acct := accountFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if room.TransactionID == txID {
			respondJSON(w, http.StatusOK, room)
			return
		}
	}
	// The transaction is a join request; its requester and the service
	// owner share the room.
	for _, jr := range s.joinRequests {
		if jr.ID != txID {
			continue
		}
		participants := []string{jr.UserID}
		if i := s.serviceIndexLocked(jr.ServiceID); i >= 0 {
			participants = append(participants, s.services[i].UserID)
		}
		if !slices.Contains(participants, acct.user.ID) {
			break
		}
		respondJSON(w, http.StatusCreated, s.addRoomLocked("", txID, participants))
		return
	}
	respondDetail(w, http.StatusNotFound, "Transaction not found")
}
