package handlers

import (
	"context"
	"net/http"
	"time"

	"mindQuestAPI/middleware"
	"mindQuestAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TrackHandler struct {
	trackService     *services.TrackService
	challengeService *services.ChallengeService
}

func NewTrackHandler(trackService *services.TrackService, challengeService *services.ChallengeService) *TrackHandler {
	return &TrackHandler{
		trackService:     trackService,
		challengeService: challengeService,
	}
}

func trackIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["trackId"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *TrackHandler) GetTracks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tracks, err := h.trackService.GetAllTracks(ctx)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tracks)
}

func (h *TrackHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trackID, ok := trackIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	t, err := h.trackService.GetTrackByID(ctx, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TrackHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trackID, ok := trackIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	challenges, err := h.trackService.GetChallengesForTrack(ctx, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, challenges)
}

// GetTodaysChallenge returns the next uncompleted challenge on the track, or
// a null body when the track is finished.
func (h *TrackHandler) GetTodaysChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	trackID, ok := trackIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	c, err := h.trackService.GetTodaysChallenge(ctx, clerkID, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *TrackHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	trackID, ok := trackIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	items, err := h.challengeService.GetUserProgress(ctx, clerkID, trackID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}
