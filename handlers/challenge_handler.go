package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mindQuestAPI/internal/progress"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["challengeId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	var req progress.CompleteChallengeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := h.challengeService.CompleteChallenge(ctx, clerkID, challengeID, req.Score)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.RecordXPAward("challenge", result.XPEarned)
	respondWithJSON(w, http.StatusOK, result)
}
