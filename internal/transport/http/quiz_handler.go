package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-management-service/internal/app"
)

type quizRequest struct {
	AdminID     int64  `json:"admin_id"`
	Name        string `json:"quiz_name"`
	Description string `json:"description"`
	TotalMark   int    `json:"total_mark"`
	IsActive    bool   `json:"is_active"`
}

type QuizHandler struct {
	quizzes *app.QuizService
}

func NewQuizHandler(quizzes *app.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), req.AdminID, req.Name, req.Description, req.TotalMark, req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "quiz created", quiz)
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid quiz id")
		return
	}
	quiz, err := h.quizzes.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, quiz)
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid quiz id")
		return
	}
	var req quizRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	quiz, err := h.quizzes.UpdateQuiz(r.Context(), id, req.Name, req.Description, req.TotalMark, req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "quiz updated", quiz)
}

func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid quiz id")
		return
	}
	if err := h.quizzes.DeleteQuiz(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "quiz deleted", nil)
}

func (h *QuizHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	quiz, err := h.quizzes.GetQuizByToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, quiz)
}
