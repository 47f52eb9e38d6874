package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/config"
	"quiz-management-service/internal/infra/memory"
	"quiz-management-service/internal/infra/postgres"
	rediscache "quiz-management-service/internal/infra/redis"
	transport "quiz-management-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz management server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		quizRepo     app.QuizRepository
		questionRepo app.QuestionRepository
		answerRepo   app.AnswerRepository
		resultRepo   app.ResultRepository
		adminRepo    app.AdminRepository
		userRepo     app.UserRepository
	)

	if cfg.Postgres.URL != "" {
		db := postgres.Open(cfg.Postgres.URL)
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		quizRepo = postgres.NewQuizRepo(db)
		questionRepo = postgres.NewQuestionRepo(db)
		answerRepo = postgres.NewAnswerRepo(db)
		resultRepo = postgres.NewResultRepo(pool)
		accounts := postgres.NewAccountRepo(db)
		adminRepo = accounts
		userRepo = accounts
	} else {
		log.Printf("postgres url not configured, using in-memory store")
		store := memory.NewStore()
		quizRepo = store
		questionRepo = store
		answerRepo = store
		resultRepo = store
		adminRepo = store
		userRepo = store
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var resolver app.TokenResolver
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		resolver = rediscache.NewTokenCache(redisClient, quizRepo, quizTTL)
	} else {
		resolver = memory.NewTokenCache(quizRepo, quizTTL)
	}

	hub := app.NewLeaderboardHub()
	tokens := app.NewTokenGenerator(quizRepo)

	quizzes := app.NewQuizService(quizRepo, tokens, resolver)
	questions := app.NewQuestionService(questionRepo)
	answers := app.NewAnswerService(answerRepo)
	results := app.NewResultService(resultRepo, hub)
	accounts := app.NewAccountService(adminRepo, userRepo)

	router := transport.NewRouter(accounts, quizzes, questions, answers, results, hub)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz management service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
