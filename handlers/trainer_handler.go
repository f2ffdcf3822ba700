package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mindQuestAPI/internal/trainer"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TrainerHandler struct {
	trainerService *services.TrainerService
}

func NewTrainerHandler(trainerService *services.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

func (h *TrainerHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req trainer.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrackID == uuid.Nil || req.ScenarioID == "" {
		respondWithError(w, http.StatusBadRequest, "track_id and scenario_id are required")
		return
	}

	result, err := h.trainerService.SubmitResponse(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if result.XPEarned > 0 {
		middleware.RecordXPAward("response_trainer", result.XPEarned)
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *TrainerHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.trainerService.GetProgress(ctx, clerkID, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *TrainerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.trainerService.GetStats(ctx, clerkID, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
