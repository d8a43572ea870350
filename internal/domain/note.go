package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	UserID  string
	Value   int
	RatedAt time.Time
}

type Note struct {
	ID       string
	AuthorID string
	Title    string
	Content  string
	Subject  string
	Tags     []string

	Ratings     []Rating
	Rating      float64
	RatingCount int

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewNote(authorID, title, content, subject string, tags []string, now time.Time) (*Note, error) {
	authorID = strings.TrimSpace(authorID)
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	subject = strings.TrimSpace(subject)

	if authorID == "" {
		return nil, ErrValidation("author_id is required")
	}
	if title == "" || len(title) > 200 {
		return nil, ErrValidationMeta("invalid note", map[string]string{"title": "required, <= 200 chars"})
	}
	if content == "" || len(content) > 50000 {
		return nil, ErrValidationMeta("invalid note", map[string]string{"content": "required, <= 50000 chars"})
	}
	if subject == "" || len(subject) > 100 {
		return nil, ErrValidationMeta("invalid note", map[string]string{"subject": "required, <= 100 chars"})
	}
	return &Note{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		Subject:   subject,
		Tags:      normalizeTags(tags),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rate upserts the rating of userID and recomputes the aggregate over all ratings.
func (n *Note) Rate(userID string, value int, now time.Time) error {
	if value < MinRating || value > MaxRating {
		return ErrValidationMeta("invalid rating", map[string]string{"rating": "must be between 1 and 5"})
	}
	found := false
	for i := range n.Ratings {
		if n.Ratings[i].UserID == userID {
			n.Ratings[i].Value = value
			n.Ratings[i].RatedAt = now.UTC()
			found = true
			break
		}
	}
	if !found {
		n.Ratings = append(n.Ratings, Rating{UserID: userID, Value: value, RatedAt: now.UTC()})
	}
	n.recompute()
	n.UpdatedAt = now.UTC()
	return nil
}

func (n *Note) recompute() {
	n.RatingCount = len(n.Ratings)
	if n.RatingCount == 0 {
		n.Rating = 0
		return
	}
	sum := 0
	for _, r := range n.Ratings {
		sum += r.Value
	}
	mean := float64(sum) / float64(n.RatingCount)
	n.Rating = math.Round(mean*10) / 10
}
