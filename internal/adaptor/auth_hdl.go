package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-galaxy/internal/dto/request"
	"movie-galaxy/internal/dto/response"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	newGate func(*zap.Logger) *usecase.SessionGate
	log     *zap.Logger
}

func NewAuthHandler(newGate func(*zap.Logger) *usecase.SessionGate, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		newGate: newGate,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.gate(r).SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", response.AuthToResponse(session))
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.gate(r).SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", response.AuthToResponse(session))
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate(r).SignOut(r.Context()); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// GetSession handles GET /api/session
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", response.SessionToResponse(h.gate(r).Snapshot()))
}

func (h *AuthHandler) gate(r *http.Request) *usecase.SessionGate {
	if gate, ok := usecase.GateFromContext(r.Context()); ok {
		return gate
	}
	return h.newGate(h.log)
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (request.CredentialsRequest, bool) {
	var req request.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return req, false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return req, false
	}

	return req, true
}
