package model

import "time"

// Actor represents a cast member that can be linked to any number of
// movies through the `actor_movies` join table.
//
// Fields:
//
//	ID        – primary key identifier.
//	FullName  – display name, used for sorting dropdown lists.
//	Bio       – biography text.
//	ImageURL  – profile image reference.
//	CreatedAt – timestamp when the row was created.
//	UpdatedAt – timestamp of last update.
type Actor struct {
	ID        uint64    `json:"id"`         // actors.id
	FullName  string    `json:"full_name"`  // actors.full_name
	Bio       string    `json:"bio"`        // actors.bio
	ImageURL  string    `json:"image_url"`  // actors.image_url
	CreatedAt time.Time `json:"created_at"` // actors.created_at
	UpdatedAt time.Time `json:"updated_at"` // actors.updated_at
}

// Producer represents a movie producer.  Every movie references exactly
// one producer.  The lifecycle is symmetric with Actor.
type Producer struct {
	ID        uint64    `json:"id"`         // producers.id
	FullName  string    `json:"full_name"`  // producers.full_name
	Bio       string    `json:"bio"`        // producers.bio
	ImageURL  string    `json:"image_url"`  // producers.image_url
	CreatedAt time.Time `json:"created_at"` // producers.created_at
	UpdatedAt time.Time `json:"updated_at"` // producers.updated_at
}
