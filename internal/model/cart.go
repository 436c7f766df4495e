package model

import "time"

// CartItem is a movie attached to a user's pending purchase.  The price
// is snapshotted at add-time so later catalog price changes do not affect
// a cart already in progress.  Purchased is false for the whole life of
// the row: checkout converts cart items into order history rows and
// deletes them, so cart items never outlive checkout.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owning user.
//	MovieID   – referenced movie.
//	Price     – price snapshot taken when the item was added.
//	Purchased – always false while the row exists.
//	CreatedAt – insertion timestamp (cart listing order).
type CartItem struct {
	ID        uint64    // cart_items.id
	UserID    uint64    // cart_items.user_id
	MovieID   uint64    // cart_items.movie_id
	Price     float64   // cart_items.price
	Purchased bool      // cart_items.purchased
	CreatedAt time.Time // cart_items.created_at
}

// OrderHistory is an immutable record of a completed purchase.  All rows
// written by one checkout share the same OrderID.  Price is the snapshot
// carried over from the cart item, independent of later movie price
// changes.
//
// Fields:
//
//	ID          – primary key identifier.
//	OrderID     – grouping key shared by all items of one checkout.
//	UserID      – owning user.
//	MovieID     – referenced movie.
//	Price       – price snapshot from the cart item.
//	Purchased   – always true.
//	PurchasedAt – checkout timestamp.
type OrderHistory struct {
	ID          uint64    // order_histories.id
	OrderID     string    // order_histories.order_id
	UserID      uint64    // order_histories.user_id
	MovieID     uint64    // order_histories.movie_id
	Price       float64   // order_histories.price
	Purchased   bool      // order_histories.purchased
	PurchasedAt time.Time // order_histories.purchased_at
}
