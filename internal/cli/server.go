package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-portal-service/internal/app"
	"quiz-portal-service/internal/auth"
	"quiz-portal-service/internal/config"
	"quiz-portal-service/internal/infra/memory"
	"quiz-portal-service/internal/infra/postgres"
	redisinfra "quiz-portal-service/internal/infra/redis"
	transport "quiz-portal-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// infra holds the adapters chosen from config, plus their cleanup.
type infra struct {
	store       app.Store
	pool        *pgxpool.Pool
	redisClient *redis.Client
}

func (i *infra) Close() {
	if i.pool != nil {
		i.pool.Close()
	}
	if i.redisClient != nil {
		if err := i.redisClient.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
}

// openInfra migrates and connects Postgres when configured; otherwise the store is in-memory.
func openInfra(ctx context.Context, cfg config.Config) (*infra, error) {
	out := &infra{}
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		out.pool = pool
		out.store = postgres.NewStore(pool)
	} else {
		log.Printf("postgres url not configured, using in-memory store")
		out.store = memory.NewStore()
	}

	if cfg.Redis.Addr != "" {
		out.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return out, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	deps, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	loader := app.NewStoreQuizLoader(deps.store)
	quizTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	var quizCache app.QuizCache
	if deps.redisClient != nil {
		quizCache = redisinfra.NewQuizCache(deps.redisClient, loader, quizTTL)
	} else {
		quizCache = memory.NewQuizCache(loader, quizTTL)
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	hub := app.NewLeaderboardHub()
	users := app.NewUserService(deps.store, tokens)
	catalog := app.NewCatalogService(deps.store, quizCache)
	results := app.NewResultService(deps.store, quizCache, hub)

	if deps.redisClient != nil {
		notifier := redisinfra.NewLeaderboardNotifier(deps.redisClient, "")
		stopListening, err := notifier.Listen(ctx, func(ctx context.Context) {
			if err := results.PublishLeaderboard(ctx); err != nil {
				log.Printf("refresh leaderboard: %v", err)
			}
		})
		if err != nil {
			return err
		}
		defer stopListening()
		results.UseNotifier(notifier)
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.NewRouter(transport.Services{
		Users:    users,
		Catalog:  catalog,
		Results:  results,
		Hub:      hub,
		Resolver: auth.NewResolver(tokens),
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset for long-lived leaderboard websockets.
	}

	go func() {
		log.Printf("starting quiz portal on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
