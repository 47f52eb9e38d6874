package http

import (
	"net/http"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/domain"
)

type submitAnswersRequest struct {
	UserID  int64                `json:"user_id"`
	QuizID  int64                `json:"quiz_id"`
	Answers []domain.AnswerInput `json:"answers"`
}

type updateAnswerRequest struct {
	OptionID int64 `json:"option_id"`
}

type AnswerHandler struct {
	answers *app.AnswerService
}

func NewAnswerHandler(answers *app.AnswerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitAnswersRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	saved, err := h.answers.SubmitAnswers(r.Context(), req.UserID, req.QuizID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "answers recorded", saved)
}

func (h *AnswerHandler) List(w http.ResponseWriter, r *http.Request) {
	answers, err := h.answers.ListAnswers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, answers)
}

func (h *AnswerHandler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := h.userQuizIDs(w, r)
	if !ok {
		return
	}
	answers, err := h.answers.GetAnswersByQuiz(r.Context(), userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, answers)
}

func (h *AnswerHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := h.userQuizIDs(w, r)
	if !ok {
		return
	}
	questionID, err := pathID(r, "questionId")
	if err != nil {
		badRequest(w, "invalid question id")
		return
	}
	answer, err := h.answers.GetAnswer(r.Context(), userID, quizID, questionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, answer)
}

func (h *AnswerHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := h.userQuizIDs(w, r)
	if !ok {
		return
	}
	questionID, err := pathID(r, "questionId")
	if err != nil {
		badRequest(w, "invalid question id")
		return
	}
	var req updateAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	answer, err := h.answers.UpdateAnswer(r.Context(), userID, quizID, questionID, req.OptionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "answer updated", answer)
}

func (h *AnswerHandler) DeleteByQuiz(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := h.userQuizIDs(w, r)
	if !ok {
		return
	}
	if err := h.answers.DeleteAnswersForQuiz(r.Context(), userID, quizID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "answers deleted", nil)
}

func (h *AnswerHandler) userQuizIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := pathID(r, "userId")
	if err != nil {
		badRequest(w, "invalid user id")
		return 0, 0, false
	}
	quizID, err := pathID(r, "quizId")
	if err != nil {
		badRequest(w, "invalid quiz id")
		return 0, 0, false
	}
	return userID, quizID, true
}
