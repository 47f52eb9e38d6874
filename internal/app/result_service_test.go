package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/domain"
	"quiz-management-service/internal/infra/memory"
)

// scoringFixture seeds a quiz with two questions: 2 points and 3 points,
// each with one correct option. It returns the quiz id and the option ids
// as (q1 wrong, q1 correct, q2 wrong, q2 correct).
func scoringFixture(t *testing.T, store *memory.Store) (int64, [2]int64, [4]int64) {
	t.Helper()
	ctx := context.Background()
	quizID := seedQuiz(t, store, "SCORE")

	questions := []*domain.Question{
		{
			QuizID: quizID,
			Text:   "worth two",
			Points: 2,
			Options: []domain.Option{
				{Text: "wrong"},
				{Text: "right", IsCorrect: true},
			},
		},
		{
			QuizID: quizID,
			Text:   "worth three",
			Points: 3,
			Options: []domain.Option{
				{Text: "wrong"},
				{Text: "right", IsCorrect: true},
			},
		},
	}
	if err := store.CreateBatch(ctx, questions); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	questionIDs := [2]int64{questions[0].ID, questions[1].ID}
	optionIDs := [4]int64{
		questions[0].Options[0].ID,
		questions[0].Options[1].ID,
		questions[1].Options[0].ID,
		questions[1].Options[1].ID,
	}
	return quizID, questionIDs, optionIDs
}

func TestComputeResultSumsCorrectAnswerPoints(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	answers := app.NewAnswerService(store)
	results := app.NewResultService(store, nil)
	quizID, questionIDs, optionIDs := scoringFixture(t, store)

	// First question answered correctly, second one not.
	if _, err := answers.SubmitAnswers(ctx, 1, quizID, []domain.AnswerInput{
		{QuestionID: questionIDs[0], OptionID: optionIDs[1]},
		{QuestionID: questionIDs[1], OptionID: optionIDs[2]},
	}); err != nil {
		t.Fatalf("submit answers: %v", err)
	}

	result, err := results.ComputeAndStoreResult(ctx, 1, quizID)
	if err != nil {
		t.Fatalf("compute result: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}

	// Correcting the second answer and rescoring overwrites the same row.
	if _, err := answers.UpdateAnswer(ctx, 1, quizID, questionIDs[1], optionIDs[3]); err != nil {
		t.Fatalf("correct answer: %v", err)
	}
	rescored, err := results.ComputeAndStoreResult(ctx, 1, quizID)
	if err != nil {
		t.Fatalf("recompute result: %v", err)
	}
	if rescored.Score != 5 {
		t.Fatalf("expected rescored 5, got %d", rescored.Score)
	}
	if rescored.ID != result.ID {
		t.Fatalf("expected rescore to reuse result %d, got %d", result.ID, rescored.ID)
	}

	all, err := results.GetResultsByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single result row, got %d", len(all))
	}
}

func TestComputeResultWithoutAnswersScoresZero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	results := app.NewResultService(store, nil)
	quizID, _, _ := scoringFixture(t, store)

	result, err := results.ComputeAndStoreResult(ctx, 7, quizID)
	if err != nil {
		t.Fatalf("compute result: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("expected zero score, got %d", result.Score)
	}
}

func TestManualResultCreateRejectsDuplicatePair(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	results := app.NewResultService(store, nil)
	quizID, _, _ := scoringFixture(t, store)

	created, err := results.CreateResultManually(ctx, 1, quizID, 4)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}
	if _, err := results.CreateResultManually(ctx, 1, quizID, 9); !errors.Is(err, domain.ErrResultExists) {
		t.Fatalf("expected duplicate pair conflict, got %v", err)
	}

	stored, err := results.GetUserQuizResult(ctx, 1, quizID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if stored.ID != created.ID || stored.Score != 4 {
		t.Fatalf("expected prior score untouched, got %+v", stored)
	}
}

func TestResultMutationsPublishStandings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	hub := app.NewLeaderboardHub()
	answers := app.NewAnswerService(store)
	results := app.NewResultService(store, hub)
	quizID, questionIDs, optionIDs := scoringFixture(t, store)

	updates, cancel := hub.Subscribe(quizID)
	defer cancel()

	if _, err := answers.SubmitAnswers(ctx, 1, quizID, []domain.AnswerInput{
		{QuestionID: questionIDs[0], OptionID: optionIDs[1]},
	}); err != nil {
		t.Fatalf("submit answers: %v", err)
	}
	if _, err := results.ComputeAndStoreResult(ctx, 1, quizID); err != nil {
		t.Fatalf("compute result: %v", err)
	}

	standings := <-updates
	if len(standings) != 1 || standings[0].UserID != 1 || standings[0].Score != 2 {
		t.Fatalf("expected user 1 with 2 points, got %+v", standings)
	}

	if _, err := results.CreateResultManually(ctx, 2, quizID, 5); err != nil {
		t.Fatalf("create result: %v", err)
	}
	standings = <-updates
	if len(standings) != 2 || standings[0].UserID != 2 {
		t.Fatalf("expected user 2 leading, got %+v", standings)
	}
}

func TestUpdateAndDeleteResult(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	results := app.NewResultService(store, nil)
	quizID, _, _ := scoringFixture(t, store)

	created, err := results.CreateResultManually(ctx, 1, quizID, 4)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}

	updated, err := results.UpdateResultScore(ctx, created.ID, 7)
	if err != nil {
		t.Fatalf("update score: %v", err)
	}
	if updated.Score != 7 {
		t.Fatalf("expected score 7, got %d", updated.Score)
	}
	if _, err := results.UpdateResultScore(ctx, created.ID, -1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative score, got %v", err)
	}

	if err := results.DeleteResult(ctx, created.ID); err != nil {
		t.Fatalf("delete result: %v", err)
	}
	if _, err := results.GetResult(ctx, created.ID); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected result gone, got %v", err)
	}
}
