package services

import "time"

const EventRatingSubmitted = "rating.submitted"

// EventPublisher sends domain events to a broker. *rabbitmq.Client
// satisfies it.
type EventPublisher interface {
	PublishJSON(payload any) error
}

// RatingEvent is published after every successful rating write.
type RatingEvent struct {
	Type       string    `json:"type"`
	RatingID   string    `json:"ratingId"`
	StoreID    string    `json:"storeId"`
	UserID     string    `json:"userId"`
	Rating     int       `json:"rating"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurredAt"`
}
