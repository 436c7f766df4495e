package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avetkov/movie-store/internal/middleware"
	"github.com/avetkov/movie-store/internal/model"
	"github.com/avetkov/movie-store/internal/repository"
)

// MovieHandler serves the public movie catalog and the admin CRUD
// surface behind it.  Admin mutations purge the catalog response cache
// so listings reflect changes immediately.
type MovieHandler struct {
	Movies      *repository.MovieRepo
	RDB         *redis.Client
	CachePrefix string
	AssetsDir   string
}

func NewMovieHandler(m *repository.MovieRepo, rdb *redis.Client, cachePrefix, assetsDir string) *MovieHandler {
	return &MovieHandler{Movies: m, RDB: rdb, CachePrefix: cachePrefix, AssetsDir: assetsDir}
}

type movieReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	ReleaseDate string   `json:"release_date"` // YYYY-MM-DD
	Genre       string   `json:"genre"`
	Category    string   `json:"category"`
	MovieFile   *string  `json:"movie_file"`
	ProducerID  uint64   `json:"producer_id"`
	ActorIDs    []uint64 `json:"actor_ids"`
}

func (req *movieReq) toModel() (*model.Movie, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "title required")
	}
	if req.Price < 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	if req.ProducerID == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "producer_id required")
	}
	if !model.ValidGenre(req.Genre) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid genre")
	}
	if !model.ValidCategory(req.Category) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	rd, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "release_date must be YYYY-MM-DD")
	}
	return &model.Movie{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		ReleaseDate: rd,
		Genre:       model.Genre(req.Genre),
		Category:    model.Category(req.Category),
		MovieFile:   req.MovieFile,
		ProducerID:  req.ProducerID,
	}, nil
}

// invalidate drops every cached catalog response.  Failures are logged
// and swallowed; the TTL bounds how long a stale entry can survive.
func (h *MovieHandler) invalidate(c echo.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := middleware.InvalidateCache(ctx, h.RDB, h.CachePrefix); err != nil {
		c.Logger().Warnf("cache invalidation failed: %v", err)
	}
}

// List returns all movies with their producer names.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Details returns one movie with producer and cast.
func (h *MovieHandler) Details(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, det)
}

// Search returns movies whose title contains the q parameter.  An empty
// term returns an empty list without touching the database.
func (h *MovieHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return c.JSON(http.StatusOK, echo.Map{"items": []repository.MovieSummary{}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Movies.Search(ctx, term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Dropdowns returns the actor and producer option lists for movie forms.
// Admin-only.
func (h *MovieHandler) Dropdowns(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opts, err := h.Movies.Dropdowns(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, opts)
}

// Create adds a movie with its cast.  Admin-only.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := req.toModel()
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Create(ctx, m, req.ActorIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// Update replaces a movie and its cast.  Admin-only.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := req.toModel()
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	m.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Update(ctx, m, req.ActorIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a movie and its cast associations.  Admin-only.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// Download streams the movie's file as an attachment.  The stored file
// name is reduced to its base name and resolved inside the assets
// directory, so a crafted value can never escape it.  Both a missing
// reference and a missing file on disk answer 404.
func (h *MovieHandler) Download(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if det.MovieFile == nil || strings.TrimSpace(*det.MovieFile) == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no file for this movie"})
	}

	name := filepath.Base(strings.TrimSpace(*det.MovieFile))
	path := filepath.Join(h.AssetsDir, name)
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "file not available"})
	}
	return c.Attachment(path, name)
}
