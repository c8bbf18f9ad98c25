package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/cv-optimizer/internal/config"
)

// AuthHandler issues tokens for the single operator account. The
// account is configured through AUTH_USERNAME and AUTH_PASSWORD_HASH
// (a bcrypt hash); there is no user database behind it.
type AuthHandler struct {
	username     string
	passwordHash string
	passwords    *config.PasswordConfig
	jwtService   *JWTService
}

// NewAuthHandler builds the handler from environment configuration.
// Returns nil when AUTH_PASSWORD_HASH is unset, which disables
// authentication entirely.
func NewAuthHandler(passwords *config.PasswordConfig, jwtService *JWTService) *AuthHandler {
	hash := os.Getenv("AUTH_PASSWORD_HASH")
	if hash == "" {
		return nil
	}

	username := os.Getenv("AUTH_USERNAME")
	if username == "" {
		username = "admin"
	}

	return &AuthHandler{
		username:     username,
		passwordHash: hash,
		passwords:    passwords,
		jwtService:   jwtService,
	}
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// Token handles POST /auth/token. Credential failures always take the
// bcrypt comparison path so response timing does not leak whether the
// username exists.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) (*tokenResponse, error) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}

	ok := h.passwords.VerifyPassword(req.Password, h.passwordHash)
	if req.Username != h.username || !ok {
		return nil, &ErrInvalidCredentials{}
	}

	// A stable ID derived from the username, since there is no users
	// table to assign one.
	userID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(h.username))
	token, err := h.jwtService.GenerateToken(userID)
	if err != nil {
		return nil, err
	}

	return &tokenResponse{
		Token:     token,
		ExpiresIn: h.jwtService.config.ExpirationHours * 3600,
	}, nil
}
