package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-management-service/internal/app"
)

// NewRouter wires every handler onto the /api surface plus the health
// probe and the leaderboard websocket.
func NewRouter(
	accounts *app.AccountService,
	quizzes *app.QuizService,
	questions *app.QuestionService,
	answers *app.AnswerService,
	results *app.ResultService,
	hub *app.LeaderboardHub,
) *mux.Router {
	accountH := NewAccountHandler(accounts)
	quizH := NewQuizHandler(quizzes)
	questionH := NewQuestionHandler(questions)
	answerH := NewAnswerHandler(answers)
	resultH := NewResultHandler(results)
	wsH := NewWSHandler(results, hub)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/admins", accountH.CreateAdmin).Methods(http.MethodPost)
	api.HandleFunc("/admins", accountH.ListAdmins).Methods(http.MethodGet)
	api.HandleFunc("/admins/{id:[0-9]+}", accountH.GetAdmin).Methods(http.MethodGet)
	api.HandleFunc("/admins/{id:[0-9]+}", accountH.UpdateAdmin).Methods(http.MethodPut)
	api.HandleFunc("/admins/{id:[0-9]+}", accountH.DeleteAdmin).Methods(http.MethodDelete)

	api.HandleFunc("/users", accountH.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users", accountH.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", accountH.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", accountH.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}", accountH.DeleteUser).Methods(http.MethodDelete)

	api.HandleFunc("/quizzes", quizH.Create).Methods(http.MethodPost)
	api.HandleFunc("/quizzes", quizH.List).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/token/{token}", quizH.GetByToken).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{id:[0-9]+}", quizH.Get).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{id:[0-9]+}", quizH.Update).Methods(http.MethodPut)
	api.HandleFunc("/quizzes/{id:[0-9]+}", quizH.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/questions", questionH.Create).Methods(http.MethodPost)
	api.HandleFunc("/questions", questionH.List).Methods(http.MethodGet)
	api.HandleFunc("/questions/{id:[0-9]+}", questionH.Get).Methods(http.MethodGet)
	api.HandleFunc("/questions/{id:[0-9]+}", questionH.Update).Methods(http.MethodPut)
	api.HandleFunc("/questions/{id:[0-9]+}", questionH.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/answers", answerH.Submit).Methods(http.MethodPost)
	api.HandleFunc("/answers", answerH.List).Methods(http.MethodGet)
	api.HandleFunc("/answers/{userId:[0-9]+}/{quizId:[0-9]+}", answerH.ListByQuiz).Methods(http.MethodGet)
	api.HandleFunc("/answers/{userId:[0-9]+}/{quizId:[0-9]+}", answerH.DeleteByQuiz).Methods(http.MethodDelete)
	api.HandleFunc("/answers/{userId:[0-9]+}/{quizId:[0-9]+}/{questionId:[0-9]+}", answerH.Get).Methods(http.MethodGet)
	api.HandleFunc("/answers/{userId:[0-9]+}/{quizId:[0-9]+}/{questionId:[0-9]+}", answerH.Update).Methods(http.MethodPut)

	api.HandleFunc("/results/calculate", resultH.Calculate).Methods(http.MethodPost)
	api.HandleFunc("/results", resultH.Create).Methods(http.MethodPost)
	api.HandleFunc("/results", resultH.List).Methods(http.MethodGet)
	api.HandleFunc("/results/user/{userId:[0-9]+}/quiz/{quizId:[0-9]+}", resultH.GetUserQuizResult).Methods(http.MethodGet)
	api.HandleFunc("/results/user/{userId:[0-9]+}", resultH.ListByUser).Methods(http.MethodGet)
	api.HandleFunc("/results/quiz/{quizId:[0-9]+}", resultH.ListByQuiz).Methods(http.MethodGet)
	api.HandleFunc("/results/{id:[0-9]+}", resultH.Get).Methods(http.MethodGet)
	api.HandleFunc("/results/{id:[0-9]+}", resultH.Update).Methods(http.MethodPut)
	api.HandleFunc("/results/{id:[0-9]+}", resultH.Delete).Methods(http.MethodDelete)

	r.HandleFunc("/ws/leaderboard", wsH.ServeWS)

	return r
}
