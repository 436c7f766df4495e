package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avetkov/movie-store/internal/model"
)

// ActorRepo manages persistence for actors.
type ActorRepo struct{ DB *sql.DB }

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{DB: db} }

const actorColumns = "id,full_name,bio,image_url,created_at,updated_at"

// Create inserts an actor and assigns the generated id and timestamps
// back to the struct.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO actors (full_name, bio, image_url) VALUES (?,?,?)",
		a.FullName, a.Bio, a.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM actors WHERE id=?", a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an actor by id.  It returns ErrActorNotFound when absent.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (model.Actor, error) {
	var a model.Actor
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+actorColumns+" FROM actors WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.FullName, &a.Bio, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrActorNotFound
	}
	return a, err
}

// List returns all actors ordered by full name.
func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	return r.queryActors(ctx,
		"SELECT "+actorColumns+" FROM actors ORDER BY full_name ASC")
}

// Search returns actors whose full name contains the term.
func (r *ActorRepo) Search(ctx context.Context, term string) ([]model.Actor, error) {
	return r.queryActors(ctx,
		"SELECT "+actorColumns+" FROM actors WHERE full_name LIKE ? ORDER BY full_name ASC",
		"%"+term+"%")
}

func (r *ActorRepo) queryActors(ctx context.Context, query string, args ...interface{}) ([]model.Actor, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	actors := make([]model.Actor, 0)
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.FullName, &a.Bio, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	return actors, rows.Err()
}

// Update replaces the mutable fields of an actor.  Updating an actor that
// no longer exists affects zero rows and returns nil.
func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE actors SET full_name=?, bio=?, image_url=? WHERE id=?",
		a.FullName, a.Bio, a.ImageURL, a.ID)
	return err
}

// Delete removes an actor.  It returns ErrActorNotFound when no row
// matched.  Association rows in actor_movies go with it via ON DELETE
// CASCADE.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM actors WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrActorNotFound
	}
	return nil
}
