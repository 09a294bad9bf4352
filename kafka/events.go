package kafka

import "time"

// FavoriteToggledEvent is emitted after a viewer adds or removes a favorite
type FavoriteToggledEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ViewerID   string    `json:"viewer_id"`
	ProductID  string    `json:"product_id"`
	Action     string    `json:"action"`
	FavoriteID string    `json:"favorite_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFavoriteToggled = "favorite.toggled"
)

// Favorite actions
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Kafka topics
const (
	TopicFavoriteToggled = "favorite-toggled"
)
