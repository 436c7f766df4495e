package model

import "time"

// Genre enumerates the genres a movie can carry.  Values are stored
// verbatim in the `movies.genre` column.
type Genre string

// Genre values.
const (
	GenreAction    Genre = "Action"
	GenreComedy    Genre = "Comedy"
	GenreDrama     Genre = "Drama"
	GenreFantasy   Genre = "Fantasy"
	GenreThriller  Genre = "Thriller"
	GenreAdventure Genre = "Adventure"
)

// Category enumerates the storefront shelves a movie can be placed on.
type Category string

// Category values.
const (
	CategoryNew       Category = "New"
	CategoryPopular   Category = "Popular"
	CategoryMustWatch Category = "MustWatch"
	CategoryUpcoming  Category = "Upcoming"
)

// ValidGenre reports whether s is one of the known genres.
func ValidGenre(s string) bool {
	switch Genre(s) {
	case GenreAction, GenreComedy, GenreDrama, GenreFantasy, GenreThriller, GenreAdventure:
		return true
	}
	return false
}

// ValidCategory reports whether s is one of the known categories.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryNew, CategoryPopular, CategoryMustWatch, CategoryUpcoming:
		return true
	}
	return false
}

// Movie represents a catalog title offered for sale.  Each movie belongs
// to exactly one producer and is linked to its cast through the
// `actor_movies` join table.  This struct corresponds to a row in the
// `movies` table.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – display title.
//	Description – synopsis shown on the details page.
//	Price       – current sale price; cart and order rows snapshot it.
//	ImageURL    – poster image reference.
//	ReleaseDate – theatrical release timestamp.
//	Genre       – one of the Genre values.
//	Category    – one of the Category values (storefront shelf).
//	MovieFile   – optional downloadable file reference (nil when absent).
//	ProducerID  – owning producer.
//	CreatedAt   – timestamp when the row was created.
//	UpdatedAt   – timestamp of last update.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	Price       float64   // movies.price
	ImageURL    string    // movies.image_url
	ReleaseDate time.Time // movies.release_date
	Genre       Genre     // movies.genre
	Category    Category  // movies.category
	MovieFile   *string   // movies.movie_file (nullable)
	ProducerID  uint64    // movies.producer_id
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}

// ActorMovie links an actor to a movie.  It is a pure join record with a
// composite key and no independent lifecycle: rows are written and removed
// only as a side effect of movie create/update/delete.
type ActorMovie struct {
	ActorID uint64 // actor_movies.actor_id
	MovieID uint64 // actor_movies.movie_id
}
