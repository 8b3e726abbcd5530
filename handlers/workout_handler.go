package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fitTrackAPI/internal/activity"
	"fitTrackAPI/internal/workout"
	"fitTrackAPI/middleware"
	"fitTrackAPI/services"
)

type WorkoutHandler struct {
	workoutService *services.WorkoutService
}

func NewWorkoutHandler(workoutService *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
	}
}

type logWorkoutResponse struct {
	Workout      *workout.WorkoutLog           `json:"workout"`
	Gamification *activity.LogActivityResponse `json:"gamification"`
}

func (h *WorkoutHandler) LogWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req workout.LogWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WorkoutName == "" {
		respondWithError(w, http.StatusBadRequest, "workout_name is required")
		return
	}

	logged, result, err := h.workoutService.LogWorkout(ctx, clerkID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to log workout")
		return
	}

	respondWithJSON(w, http.StatusCreated, logWorkoutResponse{Workout: logged, Gamification: result})
}

func (h *WorkoutHandler) GetLoggedWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	workouts, err := h.workoutService.GetLoggedWorkouts(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch logged workouts")
		return
	}

	respondWithJSON(w, http.StatusOK, workouts)
}
