package hivetest

import "github.com/me/hive/pkg/model"

// Demo accounts created by Seed. All share DemoPassword.
const (
	DemoPassword  = "password123"
	DemoUser      = "alice@hive.test"
	DemoModerator = "mod@hive.test"
	DemoAdmin     = "admin@hive.test"
)

// Seed fills the fake with demo accounts and content.
func (s *Server) Seed() error {
	s.AddUser("alice", DemoUser, DemoPassword, "user")
	s.AddUser("bob", "bob@hive.test", DemoPassword, "user")
	s.AddUser("mod", DemoModerator, DemoPassword, "moderator")
	s.AddUser("admin", DemoAdmin, DemoPassword, "admin")

	garden, err := s.AddService("bob@hive.test", model.ServiceCreate{
		Title:             "Garden help",
		Description:       "Weeding and planting on Saturday mornings.",
		Category:          "gardening",
		Tags:              []model.Tag{{Name: "outdoors"}},
		EstimatedDuration: 2,
		Location:          model.Location{Latitude: 41.0082, Longitude: 28.9784, Address: "Istanbul"},
		ServiceType:       "offer",
		MaxParticipants:   2,
	})
	if err != nil {
		return err
	}
	if _, err := s.AddService(DemoUser, model.ServiceCreate{
		Title:             "Spanish conversation partner",
		Description:       "Looking for a weekly hour of Spanish practice.",
		Category:          "languages",
		EstimatedDuration: 1,
		ServiceType:       "need",
	}); err != nil {
		return err
	}
	if err := s.SaveService(DemoUser, garden.ID); err != nil {
		return err
	}

	if _, err := s.AddRoom("Garden help", DemoUser, "bob@hive.test"); err != nil {
		return err
	}
	if _, err := s.AddTransaction(DemoUser, 2, "Tutoring session"); err != nil {
		return err
	}
	if _, err := s.AddEvent(DemoModerator, "Community repair cafe", "2026-11-07T10:00:00Z"); err != nil {
		return err
	}
	return nil
}
