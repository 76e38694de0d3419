package events

import "time"

// Kafka topics
const (
	TopicActivity = "cineshelf.activity"
)

// Event types
const (
	EventTypeUserRegistered = "user.registered"
	EventTypeMovieCreated   = "movie.created"
	EventTypeReviewCreated  = "review.created"
)

// ActivityEvent is published after a successful write so downstream
// consumers (activity feeds, moderation tooling) can react.
type ActivityEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	EntityID  uint      `json:"entity_id"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
