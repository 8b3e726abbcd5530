package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitTrackAPI/handlers"
	"fitTrackAPI/internal/notification"
	"fitTrackAPI/middleware"
	"fitTrackAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	notificationService *services.NotificationService
	gamificationService *services.GamificationService
	mealService         *services.MealService
	workoutService      *services.WorkoutService
	communityService    *services.CommunityService
	suggestionService   *services.SuggestionService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	notificationService = services.NewNotificationService(dbPool)
	userService = services.NewUserService(dbPool)
	gamificationService = services.NewGamificationService(dbPool, notificationService)
	mealService = services.NewMealService(dbPool, gamificationService)
	workoutService = services.NewWorkoutService(dbPool, gamificationService)
	communityService = services.NewCommunityService(dbPool)

	var generator services.TextGenerator
	if endpoint := os.Getenv("SUGGESTION_MODEL_URL"); endpoint != "" {
		generator = services.NewHTTPTextGenerator(endpoint)
		log.Println("Suggestion generator configured")
	} else {
		log.Println("SUGGESTION_MODEL_URL not set, suggestions use the fallback messages")
	}
	suggestionService = services.NewSuggestionService(dbPool, generator)

	fcmService, err := notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM push provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService)
	mealHandler := handlers.NewMealHandler(mealService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fitTrack-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// The full catalog is public so clients can show locked badges on the
	// marketing screens too.
	api.HandleFunc("/gamification/all-achievements", gamificationHandler.GetAllAchievements).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")

	protected.HandleFunc("/gamification/log-activity", gamificationHandler.LogActivity).Methods("POST")
	protected.HandleFunc("/gamification/user-progress", gamificationHandler.GetUserProgress).Methods("GET")
	protected.HandleFunc("/gamification/badges", gamificationHandler.GetUserBadges).Methods("GET")

	protected.HandleFunc("/meals/log", mealHandler.LogMeal).Methods("POST")
	protected.HandleFunc("/meals/logged", mealHandler.GetLoggedMeals).Methods("GET")
	protected.HandleFunc("/meals/nutrition-summary", mealHandler.GetNutritionSummary).Methods("GET")

	protected.HandleFunc("/workouts/log", workoutHandler.LogWorkout).Methods("POST")
	protected.HandleFunc("/workouts/logged", workoutHandler.GetLoggedWorkouts).Methods("GET")

	protected.HandleFunc("/community/posts", communityHandler.GetPosts).Methods("GET")
	protected.HandleFunc("/community/posts", communityHandler.CreatePost).Methods("POST")
	protected.HandleFunc("/community/posts/{postID}/comments", communityHandler.GetComments).Methods("GET")
	protected.HandleFunc("/community/comments", communityHandler.AddComment).Methods("POST")
	protected.HandleFunc("/community/posts/{postID}/like", communityHandler.LikePost).Methods("POST")

	protected.HandleFunc("/ai/suggestion", suggestionHandler.GetSuggestion).Methods("GET")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/{notificationID}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
