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

// ActorHandler serves the public actor pages and the admin CRUD behind
// them.
type ActorHandler struct {
	Actors      *repository.ActorRepo
	RDB         *redis.Client
	CachePrefix string
}

func NewActorHandler(a *repository.ActorRepo, rdb *redis.Client, cachePrefix string) *ActorHandler {
	return &ActorHandler{Actors: a, RDB: rdb, CachePrefix: cachePrefix}
}

type personReq struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

func (h *ActorHandler) invalidate(c echo.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := middleware.InvalidateCache(ctx, h.RDB, h.CachePrefix); err != nil {
		c.Logger().Warnf("cache invalidation failed: %v", err)
	}
}

// List returns all actors ordered by name.
func (h *ActorHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Actors.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Details returns one actor.
func (h *ActorHandler) Details(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Actors.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Search returns actors whose name contains the q parameter; an empty
// term yields an empty list.
func (h *ActorHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return c.JSON(http.StatusOK, echo.Map{"items": []model.Actor{}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Actors.Search(ctx, term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create adds an actor.  Admin-only.
func (h *ActorHandler) Create(c echo.Context) error {
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

	a := &model.Actor{FullName: req.FullName, Bio: req.Bio, ImageURL: req.ImageURL}
	if err := h.Actors.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"id": a.ID})
}

// Update replaces an actor's fields.  Admin-only.
func (h *ActorHandler) Update(c echo.Context) error {
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

	a := &model.Actor{ID: id, FullName: req.FullName, Bio: req.Bio, ImageURL: req.ImageURL}
	if err := h.Actors.Update(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an actor.  Admin-only.
func (h *ActorHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Actors.Delete(ctx, id); err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
