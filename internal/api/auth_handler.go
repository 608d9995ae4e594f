package api

import (
	"net/http"

	"dukani-be/internal/user"
	"dukani-be/internal/utils"
)

type AuthHandler struct {
	users user.Service
}

func NewAuthHandler(users user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func authPayload(token string, u user.User) authResponse {
	var resp authResponse
	resp.Token = token
	resp.User.ID = u.ID
	resp.User.Email = u.Email
	resp.User.Role = string(u.Role)
	return resp
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   24 * 60 * 60,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input user.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	token, u, err := h.users.Register(r.Context(), input)
	if err != nil {
		respondError(r, w, "auth.register", err)
		return
	}

	setAuthCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, authPayload(token, u))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input user.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	token, u, err := h.users.Login(r.Context(), input)
	if err != nil {
		respondError(r, w, "auth.login", err)
		return
	}

	setAuthCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, authPayload(token, u))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}
