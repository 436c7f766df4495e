package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avetkov/movie-store/internal/middleware"
	"github.com/avetkov/movie-store/internal/model"
	"github.com/avetkov/movie-store/internal/repository"
)

// ProducerHandler serves the public producer pages and the admin CRUD
// behind them.
type ProducerHandler struct {
	Producers   *repository.ProducerRepo
	RDB         *redis.Client
	CachePrefix string
}

func NewProducerHandler(p *repository.ProducerRepo, rdb *redis.Client, cachePrefix string) *ProducerHandler {
	return &ProducerHandler{Producers: p, RDB: rdb, CachePrefix: cachePrefix}
}

func (h *ProducerHandler) invalidate(c echo.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := middleware.InvalidateCache(ctx, h.RDB, h.CachePrefix); err != nil {
		c.Logger().Warnf("cache invalidation failed: %v", err)
	}
}

// List returns all producers ordered by name.
func (h *ProducerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Producers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Details returns one producer.
func (h *ProducerHandler) Details(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Producers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProducerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "producer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Search returns producers whose name contains the q parameter; an
// empty term yields an empty list.
func (h *ProducerHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return c.JSON(http.StatusOK, echo.Map{"items": []model.Producer{}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Producers.Search(ctx, term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create adds a producer.  Admin-only.
func (h *ProducerHandler) Create(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &model.Producer{FullName: req.FullName, Bio: req.Bio, ImageURL: req.ImageURL}
	if err := h.Producers.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID})
}

// Update replaces a producer's fields.  Admin-only.
func (h *ProducerHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &model.Producer{ID: id, FullName: req.FullName, Bio: req.Bio, ImageURL: req.ImageURL}
	if err := h.Producers.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a producer.  Admin-only.  Producers still referenced by
// movies cannot be deleted; the foreign key rejects it and the handler
// reports a conflict.
func (h *ProducerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producers.Delete(ctx, id); err != nil {
		if err == repository.ErrProducerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "producer not found"})
		}
		if strings.Contains(strings.ToLower(err.Error()), "1451") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "producer still has movies"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
