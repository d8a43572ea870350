package memory

import "github.com/baechuer/real-time-ressys/services/community-service/internal/domain"

// Stored values are copied on the way in and out so callers never share
// slices with the store, which is how a document database behaves.

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	if e.Registration.MaxParticipants != nil {
		v := *e.Registration.MaxParticipants
		c.Registration.MaxParticipants = &v
	}
	c.Participants = make([]domain.Participant, len(e.Participants))
	for i, p := range e.Participants {
		p.TeamMembers = append([]string(nil), p.TeamMembers...)
		c.Participants[i] = p
	}
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.RegisteredEvents = append([]domain.RegisteredEvent(nil), u.RegisteredEvents...)
	return &c
}

func cloneNote(n *domain.Note) *domain.Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	c.Ratings = append([]domain.Rating(nil), n.Ratings...)
	return &c
}
