package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CartRepo manages the per-user shopping cart and the order history it
// turns into at checkout.  Cart rows snapshot the movie price at the time
// the item was added; a later catalog price change does not reprice a
// cart.  The (user_id, movie_id) unique index keeps a movie from
// appearing in a cart twice even under concurrent adds.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// CartLine is one cart row joined with the movie it references.
type CartLine struct {
	ID       uint64  `json:"id"`
	MovieID  uint64  `json:"movie_id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
}

// OrderLine is one order history row joined with movie data.  UserID and
// UserName are populated only by the all-orders admin listing.
type OrderLine struct {
	ID          uint64    `json:"id"`
	OrderID     string    `json:"order_id"`
	MovieID     uint64    `json:"movie_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
	UserID      uint64    `json:"user_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
}

// AddToCart puts a movie into the user's cart at the movie's current
// price.  Adding a movie that is already in the cart is an idempotent
// success.  It returns ErrMovieNotFound when the movie does not exist.
func (r *CartRepo) AddToCart(ctx context.Context, userID, movieID uint64) error {
	var price float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT price FROM movies WHERE id=? LIMIT 1", movieID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO cart_items (user_id, movie_id, price) VALUES (?,?,?)",
		userID, movieID, price)
	if dup1062(err) {
		// Already in the cart.
		return nil
	}
	return err
}

// RemoveFromCart deletes one movie from the user's cart.  Removing a
// movie that is not in the cart is a no-op.
func (r *CartRepo) RemoveFromCart(ctx context.Context, userID, movieID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=? AND movie_id=?", userID, movieID)
	return err
}

// ListCart returns the user's unpurchased cart rows joined with movie
// data, oldest first.
func (r *CartRepo) ListCart(ctx context.Context, userID uint64) ([]CartLine, error) {
	const q = `SELECT ci.id, ci.movie_id, m.title, m.image_url, ci.price
	           FROM cart_items ci
	           JOIN movies m ON m.id = ci.movie_id
	           WHERE ci.user_id = ? AND ci.purchased = 0
	           ORDER BY ci.id ASC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ID, &l.MovieID, &l.Title, &l.ImageURL, &l.Price); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// CompleteOrder converts the user's cart into order history rows in a
// single transaction: the cart rows are read, copied into
// order_histories under one shared order id, and deleted.  Checking out
// an empty cart commits nothing and returns an empty order id.  The
// returned lines describe what was purchased.
func (r *CartRepo) CompleteOrder(ctx context.Context, userID uint64) (string, []CartLine, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `SELECT ci.id, ci.movie_id, m.title, m.image_url, ci.price
	           FROM cart_items ci
	           JOIN movies m ON m.id = ci.movie_id
	           WHERE ci.user_id = ? AND ci.purchased = 0
	           ORDER BY ci.id ASC`
	rows, err := tx.QueryContext(ctx, q, userID)
	if err != nil {
		return "", nil, err
	}
	lines := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ID, &l.MovieID, &l.Title, &l.ImageURL, &l.Price); err != nil {
			rows.Close()
			return "", nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return "", nil, err
	}
	rows.Close()

	if len(lines) == 0 {
		return "", lines, nil
	}

	orderID := uuid.NewString()
	insert := `INSERT INTO order_histories (order_id, user_id, movie_id, price) VALUES `
	args := make([]interface{}, 0, len(lines)*4)
	for i, l := range lines {
		if i > 0 {
			insert += ","
		}
		insert += "(?, ?, ?, ?)"
		args = append(args, orderID, userID, l.MovieID, l.Price)
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return "", nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=? AND purchased=0", userID); err != nil {
		return "", nil, err
	}

	if err := tx.Commit(); err != nil {
		return "", nil, err
	}
	committed = true
	return orderID, lines, nil
}

// ListOrderHistory returns the user's purchases joined with movie data,
// newest first.
func (r *CartRepo) ListOrderHistory(ctx context.Context, userID uint64) ([]OrderLine, error) {
	const q = `SELECT oh.id, oh.order_id, oh.movie_id, m.title, oh.price, oh.purchased_at
	           FROM order_histories oh
	           JOIN movies m ON m.id = oh.movie_id
	           WHERE oh.user_id = ?
	           ORDER BY oh.purchased_at DESC, oh.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]OrderLine, 0)
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MovieID, &l.Title, &l.Price, &l.PurchasedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListAllOrderHistory returns every purchase across all users joined
// with movie and buyer data, newest first.  Admin-only.
func (r *CartRepo) ListAllOrderHistory(ctx context.Context) ([]OrderLine, error) {
	const q = `SELECT oh.id, oh.order_id, oh.movie_id, m.title, oh.price, oh.purchased_at, oh.user_id, u.full_name
	           FROM order_histories oh
	           JOIN movies m ON m.id = oh.movie_id
	           JOIN users u ON u.id = oh.user_id
	           ORDER BY oh.purchased_at DESC, oh.id DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]OrderLine, 0)
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MovieID, &l.Title, &l.Price, &l.PurchasedAt, &l.UserID, &l.UserName); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
