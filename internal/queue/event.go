// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderCompletedEvent is published when a checkout converts a cart into
// an order.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type OrderCompletedEvent struct {
	OrderID     string   `json:"order_id"`
	UserID      uint64   `json:"user_id"`
	MovieTitles []string `json:"movie_titles"`
	ItemCount   int      `json:"item_count"`
	Total       float64  `json:"total"`
	CompletedAt string   `json:"completed_at"`
}
