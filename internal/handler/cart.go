package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avetkov/movie-store/internal/queue"
	"github.com/avetkov/movie-store/internal/repository"
	queue_publisher "github.com/avetkov/movie-store/internal/service"
)

// CartHandler serves the authenticated shopping cart and order history
// endpoints.
type CartHandler struct {
	Carts *repository.CartRepo
}

func NewCartHandler(carts *repository.CartRepo) *CartHandler {
	return &CartHandler{Carts: carts}
}

// List returns the caller's cart with a computed total.
func (h *CartHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lines, err := h.Carts.ListCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var total float64
	for _, l := range lines {
		total += l.Price
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines, "total": total})
}

// Add puts a movie into the caller's cart.  Re-adding a movie that is
// already there succeeds without creating a second row.
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := pathID(c, "movieID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.AddToCart(ctx, userID, movieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove deletes a movie from the caller's cart.  Removing a movie that
// is not in the cart is a no-op success.
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := pathID(c, "movieID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.RemoveFromCart(ctx, userID, movieID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout converts the caller's cart into an order.  An empty cart is a
// 400; a successful checkout answers with the shared order id and the
// purchased lines.  The order event is published after the transaction
// commits, on a detached context, so a slow broker never blocks or fails
// a completed purchase.
func (h *CartHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	orderID, lines, err := h.Carts.CompleteOrder(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
	}

	var total float64
	titles := make([]string, 0, len(lines))
	for _, l := range lines {
		total += l.Price
		titles = append(titles, l.Title)
	}

	ev := queue.OrderCompletedEvent{
		OrderID:     orderID,
		UserID:      userID,
		MovieTitles: titles,
		ItemCount:   len(lines),
		Total:       total,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishOrderCompleted(pctx, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"order_id": orderID,
		"items":    lines,
		"total":    total,
	})
}

// Orders returns the caller's purchase history, newest first.
func (h *CartHandler) Orders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lines, err := h.Carts.ListOrderHistory(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines})
}

// AllOrders returns every user's purchase history.  Admin-only.
func (h *CartHandler) AllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lines, err := h.Carts.ListAllOrderHistory(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines})
}
