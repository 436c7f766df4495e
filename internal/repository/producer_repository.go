package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avetkov/movie-store/internal/model"
)

// ProducerRepo manages persistence for producers.
type ProducerRepo struct{ DB *sql.DB }

func NewProducerRepo(db *sql.DB) *ProducerRepo { return &ProducerRepo{DB: db} }

const producerColumns = "id,full_name,bio,image_url,created_at,updated_at"

// Create inserts a producer and assigns the generated id and timestamps
// back to the struct.
func (r *ProducerRepo) Create(ctx context.Context, p *model.Producer) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO producers (full_name, bio, image_url) VALUES (?,?,?)",
		p.FullName, p.Bio, p.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM producers WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a producer by id.  It returns ErrProducerNotFound when
// absent.
func (r *ProducerRepo) GetByID(ctx context.Context, id uint64) (model.Producer, error) {
	var p model.Producer
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+producerColumns+" FROM producers WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.FullName, &p.Bio, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrProducerNotFound
	}
	return p, err
}

// List returns all producers ordered by full name.
func (r *ProducerRepo) List(ctx context.Context) ([]model.Producer, error) {
	return r.queryProducers(ctx,
		"SELECT "+producerColumns+" FROM producers ORDER BY full_name ASC")
}

// Search returns producers whose full name contains the term.
func (r *ProducerRepo) Search(ctx context.Context, term string) ([]model.Producer, error) {
	return r.queryProducers(ctx,
		"SELECT "+producerColumns+" FROM producers WHERE full_name LIKE ? ORDER BY full_name ASC",
		"%"+term+"%")
}

func (r *ProducerRepo) queryProducers(ctx context.Context, query string, args ...interface{}) ([]model.Producer, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	producers := make([]model.Producer, 0)
	for rows.Next() {
		var p model.Producer
		if err := rows.Scan(&p.ID, &p.FullName, &p.Bio, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		producers = append(producers, p)
	}
	return producers, rows.Err()
}

// Update replaces the mutable fields of a producer.  Updating a producer
// that no longer exists affects zero rows and returns nil.
func (r *ProducerRepo) Update(ctx context.Context, p *model.Producer) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE producers SET full_name=?, bio=?, image_url=? WHERE id=?",
		p.FullName, p.Bio, p.ImageURL, p.ID)
	return err
}

// Delete removes a producer.  It returns ErrProducerNotFound when no row
// matched.  Deleting a producer that still has movies fails on the
// foreign key; callers surface that as a conflict.
func (r *ProducerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM producers WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProducerNotFound
	}
	return nil
}
