package response

import (
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/usecase"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
}

type SessionResponse struct {
	State   string  `json:"state"`
	Email   *string `json:"email,omitempty"`
	UserID  *string `json:"user_id,omitempty"`
	IsAdmin bool    `json:"is_admin"`
}

func AuthToResponse(session *usecase.Session) AuthResponse {
	return AuthResponse{
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Email:     session.Email,
		Role:      session.Role,
	}
}

func SessionToResponse(snapshot usecase.SessionSnapshot) SessionResponse {
	resp := SessionResponse{
		State:   snapshot.State.String(),
		IsAdmin: snapshot.IsAdmin,
	}
	if snapshot.Session != nil {
		resp.Email = &snapshot.Session.Email
		resp.UserID = &snapshot.Session.UserID
	}
	return resp
}
