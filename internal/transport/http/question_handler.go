package http

import (
	"net/http"
	"strconv"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/domain"
)

type createQuestionsRequest struct {
	QuizID    int64                  `json:"quiz_id"`
	Questions []domain.QuestionInput `json:"questions"`
}

type updateQuestionRequest struct {
	Text    string               `json:"question_text"`
	Points  int                  `json:"points"`
	Options []domain.OptionInput `json:"options"`
}

type QuestionHandler struct {
	questions *app.QuestionService
}

func NewQuestionHandler(questions *app.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionsRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	created, err := h.questions.CreateQuestionsWithOptions(r.Context(), req.QuizID, req.Questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "questions created", created)
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid question id")
		return
	}
	question, err := h.questions.GetQuestionWithOptions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, question)
}

// List returns every question, or only a quiz's questions when the
// quiz_id query parameter is present.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	var quizID int64
	if raw := r.URL.Query().Get("quiz_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(w, "invalid quiz_id")
			return
		}
		quizID = parsed
	}
	questions, err := h.questions.ListQuestionsWithOptions(r.Context(), quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, questions)
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid question id")
		return
	}
	var req updateQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	question, err := h.questions.UpdateQuestionWithOptions(r.Context(), id, req.Text, req.Points, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "question updated", question)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid question id")
		return
	}
	if err := h.questions.DeleteQuestion(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "question deleted", nil)
}
