package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/medirec/medirec-backend/internal/auth"
	"github.com/medirec/medirec-backend/internal/middleware"
	"github.com/medirec/medirec-backend/internal/models"
	"github.com/medirec/medirec-backend/internal/repository"
	"github.com/medirec/medirec-backend/internal/validation"
	"github.com/medirec/medirec-backend/pkg/utils"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type UserHandler struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	log    *zap.SugaredLogger
}

func NewUserHandler(users repository.UserRepository, tokens *auth.TokenService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, log: log}
}

// Register creates a user and returns it with a fresh token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.log.Errorw("password hashing failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			respondError(w, http.StatusBadRequest, "A user with this email or username already exists")
			return
		}
		h.log.Errorw("user create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		h.log.Errorw("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.log.Infow("user registered", "email", user.Email)
	respondJSON(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login verifies credentials and returns the user with a fresh token.
// A wrong email and a wrong password are indistinguishable to the caller.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Errorw("user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		h.log.Errorw("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.log.Infow("user logged in", "email", user.Email)
	respondJSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Profile returns the authenticated caller's user document.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		respondRepoError(w, h.log, err, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// List returns all users. Password hashes never serialize (json:"-").
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := h.users.FindAll(ctx)
	if err != nil {
		h.log.Errorw("user list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, users)
}
