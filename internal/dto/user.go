package dto

import (
	"github.com/repairtrack/backend/internal/services"
)

// UserDTO represents a user identity in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// SessionResponse is the login/refresh payload: the signed token plus the
// identity and the current permission set read from the store.
type SessionResponse struct {
	Token       string   `json:"token"`
	User        UserDTO  `json:"user"`
	Permissions []string `json:"permissions"`
}

// ToSessionResponse converts a service session to the response payload.
func ToSessionResponse(session *services.Session) SessionResponse {
	return SessionResponse{
		Token: session.Token,
		User: UserDTO{
			ID:       session.UserID,
			Username: session.Username,
		},
		Permissions: session.Permissions.Strings(),
	}
}
