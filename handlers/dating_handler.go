package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"mindQuestAPI/internal/dating"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// DatingHandler serves the dating app's auth, profile and session endpoints.
// It is a separate surface from the learning API and never touches Postgres.
type DatingHandler struct {
	store dating.Store
}

func NewDatingHandler(store dating.Store) *DatingHandler {
	return &DatingHandler{store: store}
}

type datingSignupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type datingAuthResponse struct {
	UserID         string `json:"user_id"`
	OnboardingSeen bool   `json:"onboarding_seen"`
}

func (h *DatingHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req datingSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" && req.Phone == "" {
		respondWithError(w, http.StatusBadRequest, "email or phone is required")
		return
	}
	if len(req.Password) < 6 {
		respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	existing, err := h.store.FindUserAuth(ctx, req.Email, req.Phone)
	if err != nil && !errors.Is(err, dating.ErrNotFound) {
		log.Printf("Dating: signup lookup failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	if existing != nil {
		respondWithError(w, http.StatusConflict, "Account already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Dating: password hash failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	u := &dating.UserAuth{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := h.store.SetUserAuth(ctx, u); err != nil {
		log.Printf("Dating: signup save failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	if _, err := dating.EnsureSession(ctx, h.store, u.ID); err != nil {
		log.Printf("Dating: session init failed for %s: %v", u.ID, err)
	}

	respondWithJSON(w, http.StatusCreated, datingAuthResponse{UserID: u.ID, OnboardingSeen: u.OnboardingSeen})
}

func (h *DatingHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req datingSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	u, err := h.store.FindUserAuth(ctx, req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, dating.ErrNotFound) {
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("Dating: login lookup failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	respondWithJSON(w, http.StatusOK, datingAuthResponse{UserID: u.ID, OnboardingSeen: u.OnboardingSeen})
}

func (h *DatingHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]

	p, err := h.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, dating.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Dating: profile fetch failed for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *DatingHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]

	if _, err := h.store.GetUserAuth(ctx, userID); err != nil {
		if errors.Is(err, dating.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Dating: user lookup failed for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	var p dating.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.UserID = userID

	if err := h.store.SetProfile(ctx, userID, &p); err != nil {
		log.Printf("Dating: profile save failed for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, &p)
}

// GetSession returns the user's session, creating one on first access. The
// like limit for the session's tier rides along for the client's UI.
func (h *DatingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]

	if _, err := h.store.GetUserAuth(ctx, userID); err != nil {
		if errors.Is(err, dating.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Dating: user lookup failed for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch session")
		return
	}

	s, err := dating.EnsureSession(ctx, h.store, userID)
	if err != nil {
		log.Printf("Dating: session fetch failed for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch session")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"session":    s,
		"like_limit": dating.LikeLimit(s.SubscriptionTier),
	})
}
