package http

import (
	"net/http"

	"quiz-management-service/internal/app"
)

type adminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type userRequest struct {
	Name  string `json:"name"`
	RegNo string `json:"regno"`
}

type AccountHandler struct {
	accounts *app.AccountService
}

func NewAccountHandler(accounts *app.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	admin, err := h.accounts.CreateAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "admin created", admin)
}

func (h *AccountHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid admin id")
		return
	}
	admin, err := h.accounts.GetAdmin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, admin)
}

func (h *AccountHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.accounts.ListAdmins(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, admins)
}

func (h *AccountHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid admin id")
		return
	}
	var req adminRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	admin, err := h.accounts.UpdateAdmin(r.Context(), id, req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "admin updated", admin)
}

func (h *AccountHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid admin id")
		return
	}
	if err := h.accounts.DeleteAdmin(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "admin deleted", nil)
}

func (h *AccountHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	user, err := h.accounts.CreateUser(r.Context(), req.Name, req.RegNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "user created", user)
}

func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}
	user, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, users)
}

func (h *AccountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	user, err := h.accounts.UpdateUser(r.Context(), id, req.Name, req.RegNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user updated", user)
}

func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}
	if err := h.accounts.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted", nil)
}
