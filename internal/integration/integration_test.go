package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun/migrate"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/domain"
	"quiz-management-service/internal/infra/memory"
	"quiz-management-service/internal/infra/postgres"
	pgmigrations "quiz-management-service/internal/infra/postgres/migrations"
)

func TestQuizLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	dsn, cleanup := startPostgres(t, ctx)
	defer cleanup()

	db := postgres.Open(dsn)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	quizRepo := postgres.NewQuizRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	answerRepo := postgres.NewAnswerRepo(db)
	resultRepo := postgres.NewResultRepo(pool)
	accountRepo := postgres.NewAccountRepo(db)

	hub := app.NewLeaderboardHub()
	resolver := memory.NewTokenCache(quizRepo, time.Minute)

	accounts := app.NewAccountService(accountRepo, accountRepo)
	quizzes := app.NewQuizService(quizRepo, app.NewTokenGenerator(quizRepo), resolver)
	questions := app.NewQuestionService(questionRepo)
	answers := app.NewAnswerService(answerRepo)
	results := app.NewResultService(resultRepo, hub)

	admin, err := accounts.CreateAdmin(ctx, "Alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	user, err := accounts.CreateUser(ctx, "Bob", "RA181")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	quiz, err := quizzes.CreateQuiz(ctx, admin.ID, "Integration", "full flow", 5, true)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if len(quiz.Token) != 5 {
		t.Fatalf("expected 5-char token, got %q", quiz.Token)
	}
	byToken, err := quizzes.GetQuizByToken(ctx, quiz.Token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if byToken.ID != quiz.ID {
		t.Fatalf("expected quiz %d via token, got %d", quiz.ID, byToken.ID)
	}

	created, err := questions.CreateQuestionsWithOptions(ctx, quiz.ID, []domain.QuestionInput{
		{
			Text:   "worth two",
			Points: 2,
			Options: []domain.OptionInput{
				{Text: "wrong"},
				{Text: "right", IsCorrect: true},
			},
		},
		{
			Text:   "worth three",
			Points: 3,
			Options: []domain.OptionInput{
				{Text: "wrong"},
				{Text: "right", IsCorrect: true},
			},
		},
	})
	if err != nil {
		t.Fatalf("create questions: %v", err)
	}
	if len(created) != 2 || created[0].Options[1].ID == 0 {
		t.Fatalf("expected persisted question tree, got %+v", created)
	}

	// First question right, second wrong.
	if _, err := answers.SubmitAnswers(ctx, user.ID, quiz.ID, []domain.AnswerInput{
		{QuestionID: created[0].ID, OptionID: created[0].Options[1].ID},
		{QuestionID: created[1].ID, OptionID: created[1].Options[0].ID},
	}); err != nil {
		t.Fatalf("submit answers: %v", err)
	}

	result, err := results.ComputeAndStoreResult(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("compute result: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}

	// Resubmitting the second question overwrites the answer row, and a
	// rescore overwrites the same result row.
	if _, err := answers.SubmitAnswers(ctx, user.ID, quiz.ID, []domain.AnswerInput{
		{QuestionID: created[1].ID, OptionID: created[1].Options[1].ID},
	}); err != nil {
		t.Fatalf("resubmit answer: %v", err)
	}
	stored, err := answers.GetAnswersByQuiz(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 answer rows after resubmit, got %d", len(stored))
	}

	rescored, err := results.ComputeAndStoreResult(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("recompute result: %v", err)
	}
	if rescored.Score != 5 || rescored.ID != result.ID {
		t.Fatalf("expected result %d rescored to 5, got %+v", result.ID, rescored)
	}

	standings, err := results.GetResultsByQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(standings) != 1 || standings[0].UserID != user.ID {
		t.Fatalf("expected one standings row for user %d, got %+v", user.ID, standings)
	}

	// Deleting the quiz cascades to questions and options.
	if err := quizzes.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if _, err := questions.GetQuestionWithOptions(ctx, created[0].ID); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected cascaded question delete, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
