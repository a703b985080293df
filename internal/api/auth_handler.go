package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tbraddock/flashdeck-api/internal/api/shared"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/service/auth"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	// Hash before storage; the plaintext never leaves this handler.
	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create user", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.UnlimitedDecks)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.UnlimitedDecks)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}
