package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avetkov/movie-store/internal/config"
	"github.com/avetkov/movie-store/internal/database"
	"github.com/avetkov/movie-store/internal/handler"
	"github.com/avetkov/movie-store/internal/middleware"
	"github.com/avetkov/movie-store/internal/model"
	"github.com/avetkov/movie-store/internal/queue"
	"github.com/avetkov/movie-store/internal/repository"
	"github.com/avetkov/movie-store/internal/router"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	actors := repository.NewActorRepo(db)
	producers := repository.NewProducerRepo(db)
	carts := repository.NewCartRepo(db)

	seedAdmin(cfg, users)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	accountH := handler.NewAccountHandler(users)
	movieH := handler.NewMovieHandler(movies, rdb, cacheCfg.Prefix, cfg.AssetsDir)
	actorH := handler.NewActorHandler(actors, rdb, cacheCfg.Prefix)
	producerH := handler.NewProducerHandler(producers, rdb, cacheCfg.Prefix)
	cartH := handler.NewCartHandler(carts)

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, middleware.NewTokenBucket(rateCfg, rdb))
	router.RegisterCatalog(e, movieH, actorH, producerH, accountH, middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterStore(e, cfg.JWTSecret, authH, accountH, cartH, movieH)
	router.RegisterAdmin(e, cfg.JWTSecret, movieH, actorH, producerH, accountH, cartH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap ADMIN account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set.  Without it a fresh deployment would have no
// account able to reach the admin-gated registration endpoint.  An
// already existing email is fine: the seed ran before.
func seedAdmin(cfg config.Config, users *repository.UserRepo) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.Create(ctx, "Administrator", cfg.AdminEmail, "", cfg.AdminPassword, model.RoleAdmin, cfg.BcryptCost)
	switch err {
	case nil:
		log.Printf("seeded bootstrap admin %s", cfg.AdminEmail)
	case repository.ErrEmailExists:
		// already seeded
	default:
		log.Fatalf("seed admin: %v", err)
	}
}
