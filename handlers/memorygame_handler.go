package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mindQuestAPI/internal/memorygame"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MemoryGameHandler struct {
	memoryGameService *services.MemoryGameService
}

func NewMemoryGameHandler(memoryGameService *services.MemoryGameService) *MemoryGameHandler {
	return &MemoryGameHandler{memoryGameService: memoryGameService}
}

func (h *MemoryGameHandler) SaveScore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req memorygame.SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrackID == uuid.Nil {
		respondWithError(w, http.StatusBadRequest, "track_id is required")
		return
	}
	if !req.Difficulty.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid difficulty")
		return
	}
	if req.TimeInSeconds < 0 || req.Turns < 0 {
		respondWithError(w, http.StatusBadRequest, "Time and turns must be non-negative")
		return
	}

	result, err := h.memoryGameService.SaveScore(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.RecordXPAward("memory_game", result.XPEarned)
	respondWithJSON(w, http.StatusOK, result)
}

func (h *MemoryGameHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	trackID, err := uuid.Parse(mux.Vars(r)["trackId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	scores, err := h.memoryGameService.GetScores(ctx, clerkID, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, scores)
}

func (h *MemoryGameHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trackID, err := uuid.Parse(mux.Vars(r)["trackId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	difficulty := memorygame.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty == "" {
		difficulty = memorygame.DifficultyMedium
	}
	if !difficulty.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid difficulty")
		return
	}

	rows, err := h.memoryGameService.GetLeaderboard(ctx, trackID, difficulty)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rows)
}

func (h *MemoryGameHandler) GetAffirmations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trackID, err := uuid.Parse(mux.Vars(r)["trackId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	deck, err := h.memoryGameService.GetAffirmations(ctx, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, deck)
}
