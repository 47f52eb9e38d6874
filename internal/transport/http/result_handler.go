package http

import (
	"net/http"

	"quiz-management-service/internal/app"
)

type calculateResultRequest struct {
	UserID int64 `json:"user_id"`
	QuizID int64 `json:"quiz_id"`
}

type createResultRequest struct {
	UserID int64 `json:"user_id"`
	QuizID int64 `json:"quiz_id"`
	Score  int   `json:"score"`
}

type updateResultRequest struct {
	Score int `json:"score"`
}

type ResultHandler struct {
	results *app.ResultService
}

func NewResultHandler(results *app.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

func (h *ResultHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateResultRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	result, err := h.results.ComputeAndStoreResult(r.Context(), req.UserID, req.QuizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "result calculated", result)
}

func (h *ResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createResultRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	result, err := h.results.CreateResultManually(r.Context(), req.UserID, req.QuizID, req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "result created", result)
}

func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid result id")
		return
	}
	result, err := h.results.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.ListResults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (h *ResultHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}
	results, err := h.results.GetResultsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (h *ResultHandler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizId")
	if err != nil {
		badRequest(w, "invalid quiz id")
		return
	}
	results, err := h.results.GetResultsByQuiz(r.Context(), quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (h *ResultHandler) GetUserQuizResult(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}
	quizID, err := pathID(r, "quizId")
	if err != nil {
		badRequest(w, "invalid quiz id")
		return
	}
	result, err := h.results.GetUserQuizResult(r.Context(), userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *ResultHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid result id")
		return
	}
	var req updateResultRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	result, err := h.results.UpdateResultScore(r.Context(), id, req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "result updated", result)
}

func (h *ResultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid result id")
		return
	}
	if err := h.results.DeleteResult(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "result deleted", nil)
}
