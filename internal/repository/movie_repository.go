// Package repository contains data access logic for catalog, cart and
// account operations.  This file defines the movie repository.  Movies are
// the only catalog entity with relationships: one producer and a set of
// actors stored in the actor_movies join table.  Every multi-row write
// (create with associations, update with association replace, delete with
// association cleanup) runs inside a single transaction so a crash can
// never leave a movie half-written.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/avetkov/movie-store/internal/model"
)

// MovieRepo manages persistence for movies and their cast associations.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *MovieRepo) DB() *sql.DB { return r.db }

// MovieSummary is the listing shape returned by List and Search.  It joins
// in the producer name so listing pages need no second query.
type MovieSummary struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url"`
	Genre        string    `json:"genre"`
	Category     string    `json:"category"`
	ReleaseDate  time.Time `json:"release_date"`
	ProducerID   uint64    `json:"producer_id"`
	ProducerName string    `json:"producer_name"`
}

// MovieDetail extends MovieSummary with the fields shown on a details
// page, including the full cast list.
type MovieDetail struct {
	MovieSummary
	Description string        `json:"description"`
	MovieFile   *string       `json:"movie_file,omitempty"`
	Actors      []ActorOption `json:"actors"`
}

// ActorOption and ProducerOption are the id/name pairs used both in
// MovieDetail and in the dropdown lists that populate movie forms.
type ActorOption struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
}

// ProducerOption mirrors ActorOption for producers.
type ProducerOption struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
}

// DropdownOptions carries the sorted reference lists for movie forms.
type DropdownOptions struct {
	Actors    []ActorOption    `json:"actors"`
	Producers []ProducerOption `json:"producers"`
}

// Create inserts a movie together with its actor associations in one
// transaction and assigns the generated ID and timestamps back to the
// movie struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, actorIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO movies (title, description, price, image_url, release_date, genre, category, movie_file, producer_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		m.Title, m.Description, m.Price, m.ImageURL, m.ReleaseDate, m.Genre, m.Category, m.MovieFile, m.ProducerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if err := insertActorLinksTx(ctx, tx, m.ID, actorIDs); err != nil {
		return err
	}

	// Query back the full row to populate DB defaults.
	const sel = `SELECT created_at, updated_at FROM movies WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertActorLinksTx bulk-inserts actor_movies rows for one movie in a
// single statement.  Passing an empty slice has no effect and returns nil.
func insertActorLinksTx(ctx context.Context, tx *sql.Tx, movieID uint64, actorIDs []uint64) error {
	if len(actorIDs) == 0 {
		return nil
	}
	query := `INSERT INTO actor_movies (actor_id, movie_id) VALUES `
	args := make([]interface{}, 0, len(actorIDs)*2)
	for i, aid := range actorIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, aid, movieID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a movie with its producer name and cast list.  It
// returns ErrMovieNotFound if there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*MovieDetail, error) {
	const q = `SELECT m.id, m.title, m.description, m.price, m.image_url, m.release_date,
	                  m.genre, m.category, m.movie_file, m.producer_id, p.full_name
	           FROM movies m
	           JOIN producers p ON p.id = m.producer_id
	           WHERE m.id = ?`
	var det MovieDetail
	var movieFile sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.Title, &det.Description, &det.Price, &det.ImageURL, &det.ReleaseDate,
		&det.Genre, &det.Category, &movieFile, &det.ProducerID, &det.ProducerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if movieFile.Valid {
		f := movieFile.String
		det.MovieFile = &f
	}
	det.Actors = []ActorOption{}
	const castQ = `SELECT a.id, a.full_name
	               FROM actor_movies am
	               JOIN actors a ON a.id = am.actor_id
	               WHERE am.movie_id = ?
	               ORDER BY a.full_name ASC`
	rows, err := r.db.QueryContext(ctx, castQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a ActorOption
		if err := rows.Scan(&a.ID, &a.FullName); err != nil {
			return nil, err
		}
		det.Actors = append(det.Actors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

const summarySelect = `SELECT m.id, m.title, m.price, m.image_url, m.release_date,
	       m.genre, m.category, m.producer_id, p.full_name
	FROM movies m
	JOIN producers p ON p.id = m.producer_id`

// List returns all movies joined with their producer, ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]MovieSummary, error) {
	return r.querySummaries(ctx, summarySelect+` ORDER BY m.title ASC`)
}

// Search returns movies whose title contains the term.  Matching is a
// plain LIKE and therefore collation-dependent.  Callers are expected to
// short-circuit the empty term before reaching the repository.
func (r *MovieRepo) Search(ctx context.Context, term string) ([]MovieSummary, error) {
	return r.querySummaries(ctx,
		summarySelect+` WHERE m.title LIKE ? ORDER BY m.title ASC`, "%"+term+"%")
}

func (r *MovieRepo) querySummaries(ctx context.Context, query string, args ...interface{}) ([]MovieSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]MovieSummary, 0)
	for rows.Next() {
		var s MovieSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Price, &s.ImageURL, &s.ReleaseDate,
			&s.Genre, &s.Category, &s.ProducerID, &s.ProducerName); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Update replaces the movie row and performs a full replace of its actor
// associations: all existing rows are deleted and rows for the submitted
// actor ids inserted, inside one transaction.  Updating a movie that no
// longer exists affects zero rows and returns nil without touching the
// association table; callers must not rely on update-as-upsert.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie, actorIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE movies
	           SET title=?, description=?, price=?, image_url=?, release_date=?, genre=?, category=?, movie_file=?, producer_id=?
	           WHERE id=?`
	res, err := tx.ExecContext(ctx, q,
		m.Title, m.Description, m.Price, m.ImageURL, m.ReleaseDate, m.Genre, m.Category, m.MovieFile, m.ProducerID, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The movie is gone (or the update was a no-op on a missing id).
		// Leave associations untouched and report unchanged state.
		return nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM actor_movies WHERE movie_id=?`, m.ID); err != nil {
		return err
	}
	if err := insertActorLinksTx(ctx, tx, m.ID, actorIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a movie and its association rows in one transaction.  It
// returns ErrMovieNotFound when no movie row matched.  The association
// delete runs first so the movie can never be removed while cast rows
// referencing it survive.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM actor_movies WHERE movie_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Dropdowns returns the actor and producer lists sorted by name for
// populating the multi-select and select inputs on movie forms.
func (r *MovieRepo) Dropdowns(ctx context.Context) (*DropdownOptions, error) {
	opts := &DropdownOptions{Actors: []ActorOption{}, Producers: []ProducerOption{}}

	rows, err := r.db.QueryContext(ctx, `SELECT id, full_name FROM actors ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a ActorOption
		if err := rows.Scan(&a.ID, &a.FullName); err != nil {
			return nil, err
		}
		opts.Actors = append(opts.Actors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.db.QueryContext(ctx, `SELECT id, full_name FROM producers ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var p ProducerOption
		if err := prows.Scan(&p.ID, &p.FullName); err != nil {
			return nil, err
		}
		opts.Producers = append(opts.Producers, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}
	return opts, nil
}

// dup1062 reports whether err is a MySQL duplicate-key violation.
func dup1062(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
