package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitTrackAPI/middleware"
	"fitTrackAPI/services"
)

type SuggestionHandler struct {
	suggestionService *services.SuggestionService
}

func NewSuggestionHandler(suggestionService *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
	}
}

// GetSuggestion returns one motivational message. The generator call can be
// slow, so this handler gets a longer timeout than the CRUD routes.
func (h *SuggestionHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.suggestionService.GetSuggestion(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate suggestion")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
