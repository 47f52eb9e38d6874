package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/domain"
	"quiz-management-service/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store, *app.LeaderboardHub) {
	t.Helper()
	store := memory.NewStore()
	hub := app.NewLeaderboardHub()
	resolver := memory.NewTokenCache(store, time.Minute)

	quizzes := app.NewQuizService(store, app.NewTokenGenerator(store), resolver)
	questions := app.NewQuestionService(store)
	answers := app.NewAnswerService(store)
	results := app.NewResultService(store, hub)
	accounts := app.NewAccountService(store, store)

	router := NewRouter(accounts, quizzes, questions, answers, results, hub)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store, hub
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env
}

func dataAs(t *testing.T, env envelope, dst any) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestQuizLifecycleOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)
	base := server.URL + "/api"

	resp, env := doJSON(t, http.MethodPost, base+"/admins", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "pw",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create admin: status %d message %q", resp.StatusCode, env.Message)
	}
	var admin domain.Admin
	dataAs(t, env, &admin)

	resp, env = doJSON(t, http.MethodPost, base+"/quizzes", map[string]any{
		"admin_id": admin.ID, "quiz_name": "General", "description": "warm-up", "total_mark": 5, "is_active": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quiz: status %d message %q", resp.StatusCode, env.Message)
	}
	var quiz domain.Quiz
	dataAs(t, env, &quiz)
	if len(quiz.Token) != 5 {
		t.Fatalf("expected 5-char token, got %q", quiz.Token)
	}

	resp, env = doJSON(t, http.MethodGet, base+"/quizzes/token/"+quiz.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve token: status %d", resp.StatusCode)
	}
	var byToken domain.Quiz
	dataAs(t, env, &byToken)
	if byToken.ID != quiz.ID {
		t.Fatalf("expected quiz %d via token, got %d", quiz.ID, byToken.ID)
	}

	resp, _ = doJSON(t, http.MethodPut, base+"/quizzes/999", map[string]any{
		"quiz_name": "ghost", "total_mark": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown quiz, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, base+"/quizzes/"+itoa(quiz.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete quiz: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, base+"/quizzes/"+itoa(quiz.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestAuthoringAndScoringFlowOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)
	base := server.URL + "/api"

	_, env := doJSON(t, http.MethodPost, base+"/admins", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "pw",
	})
	var admin domain.Admin
	dataAs(t, env, &admin)

	_, env = doJSON(t, http.MethodPost, base+"/users", map[string]any{
		"name": "Bob", "regno": "RA181",
	})
	var user domain.User
	dataAs(t, env, &user)

	_, env = doJSON(t, http.MethodPost, base+"/quizzes", map[string]any{
		"admin_id": admin.ID, "quiz_name": "Scored", "total_mark": 5, "is_active": true,
	})
	var quiz domain.Quiz
	dataAs(t, env, &quiz)

	resp, env := doJSON(t, http.MethodPost, base+"/questions", map[string]any{
		"quiz_id": quiz.ID,
		"questions": []map[string]any{
			{
				"question_text": "worth two",
				"points":        2,
				"options": []map[string]any{
					{"option_text": "wrong"},
					{"option_text": "right", "is_correct": true},
				},
			},
			{
				"question_text": "worth three",
				"points":        3,
				"options": []map[string]any{
					{"option_text": "wrong"},
					{"option_text": "right", "is_correct": true},
				},
			},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create questions: status %d message %q", resp.StatusCode, env.Message)
	}
	var created []domain.Question
	dataAs(t, env, &created)
	if len(created) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(created))
	}

	// Answer the first correctly and the second wrongly.
	resp, env = doJSON(t, http.MethodPost, base+"/answers", map[string]any{
		"user_id": user.ID,
		"quiz_id": quiz.ID,
		"answers": []map[string]any{
			{"question_id": created[0].ID, "option_id": created[0].Options[1].ID},
			{"question_id": created[1].ID, "option_id": created[1].Options[0].ID},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit answers: status %d message %q", resp.StatusCode, env.Message)
	}

	resp, env = doJSON(t, http.MethodPost, base+"/results/calculate", map[string]any{
		"user_id": user.ID, "quiz_id": quiz.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("calculate: status %d message %q", resp.StatusCode, env.Message)
	}
	var result domain.Result
	dataAs(t, env, &result)
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}

	// Correct the second answer through the per-answer update and rescore.
	resp, _ = doJSON(t, http.MethodPut,
		base+"/answers/"+itoa(user.ID)+"/"+itoa(quiz.ID)+"/"+itoa(created[1].ID),
		map[string]any{"option_id": created[1].Options[1].ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update answer: status %d", resp.StatusCode)
	}
	_, env = doJSON(t, http.MethodPost, base+"/results/calculate", map[string]any{
		"user_id": user.ID, "quiz_id": quiz.ID,
	})
	var rescored domain.Result
	dataAs(t, env, &rescored)
	if rescored.Score != 5 || rescored.ID != result.ID {
		t.Fatalf("expected rescore to overwrite result %d with 5, got %+v", result.ID, rescored)
	}

	// A second manual result for the same attempt conflicts.
	resp, _ = doJSON(t, http.MethodPost, base+"/results", map[string]any{
		"user_id": user.ID, "quiz_id": quiz.ID, "score": 1,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate result, got %d", resp.StatusCode)
	}

	resp, env = doJSON(t, http.MethodGet, base+"/results/quiz/"+itoa(quiz.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("standings: status %d", resp.StatusCode)
	}
	var standings []domain.Result
	dataAs(t, env, &standings)
	if len(standings) != 1 || standings[0].Score != 5 {
		t.Fatalf("expected single 5-point row, got %+v", standings)
	}
}

func TestValidationErrorsMapToBadRequest(t *testing.T) {
	server, _, _ := newTestServer(t)
	base := server.URL + "/api"

	resp, env := doJSON(t, http.MethodPost, base+"/quizzes", map[string]any{
		"quiz_name": "", "total_mark": 0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Success {
		t.Fatalf("expected success=false on validation failure")
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/answers", map[string]any{
		"user_id": 1, "quiz_id": 1,
		"answers": []map[string]any{{"question_id": 3}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete pair, got %d", resp.StatusCode)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
