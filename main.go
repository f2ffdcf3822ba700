package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mindQuestAPI/handlers"
	"mindQuestAPI/internal/dating"
	"mindQuestAPI/internal/notification"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	profileService      *services.ProfileService
	trackService        *services.TrackService
	challengeService    *services.ChallengeService
	memoryGameService   *services.MemoryGameService
	trainerService      *services.TrainerService
	notificationService *services.NotificationService
	fcmService          *notification.FCMService
	datingStore         dating.Store
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

	// The app's calendar day (streaks, daily activity) follows this zone.
	tzName := os.Getenv("APP_TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE:", err)
	}

	notificationService = services.NewNotificationService(dbPool)
	userService = services.NewUserService(dbPool)
	profileService = services.NewProfileService(dbPool)
	trackService = services.NewTrackService(dbPool)
	challengeService = services.NewChallengeService(dbPool, notificationService, loc)
	memoryGameService = services.NewMemoryGameService(dbPool)
	trainerService = services.NewTrainerService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	datingStore = newDatingStore()

	middleware.InitPrometheus()
}

// newDatingStore picks the dating shim's backing store once at startup.
// Redis when reachable, otherwise a volatile in-process map.
func newDatingStore() dating.Store {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Println("REDIS_ADDR not set, dating store is in-memory and not durable")
		return dating.NewMemoryStore()
	}

	store, err := dating.NewRedisStore(redisAddr)
	if err != nil {
		log.Printf("Warning: Redis unreachable (%v), dating store is in-memory and not durable", err)
		return dating.NewMemoryStore()
	}

	log.Println("Dating store backed by Redis")
	return store
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	profileHandler := handlers.NewProfileHandler(profileService, challengeService)
	trackHandler := handlers.NewTrackHandler(trackService, challengeService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	memoryGameHandler := handlers.NewMemoryGameHandler(memoryGameService)
	trainerHandler := handlers.NewTrainerHandler(trainerService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)
	docHandler := handlers.NewDocHandler()
	datingHandler := handlers.NewDatingHandler(datingStore)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
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
		w.Write([]byte(`{"status": "healthy", "service": "mindquest-api"}`))
	}).Methods("GET")

	standardRouter.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	// This inherits middleware from standardRouter
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/privacy-policy", docHandler.ServePrivacyPolicy).Methods("GET")
	api.HandleFunc("/terms-of-services", docHandler.ServeTermsOfServices).Methods("GET")
	api.HandleFunc("/min-version", docHandler.GetAppMinVersion).Methods("GET")

	// Memory game leaderboard works with or without a signed-in user.
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuthMiddleware)
	public.HandleFunc("/memory-game/{trackId}/leaderboard", memoryGameHandler.GetLeaderboard).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", profileHandler.CreateProfile).Methods("POST")
	protected.HandleFunc("/profile/tracks", profileHandler.UpdateTracks).Methods("PUT")
	protected.HandleFunc("/profile/stats", profileHandler.GetStats).Methods("GET")
	protected.HandleFunc("/profile/calendar", profileHandler.GetCalendar).Methods("GET")

	protected.HandleFunc("/leaderboard", profileHandler.GetLeaderboard).Methods("GET")

	protected.HandleFunc("/tracks", trackHandler.GetTracks).Methods("GET")
	protected.HandleFunc("/tracks/{trackId}", trackHandler.GetTrack).Methods("GET")
	protected.HandleFunc("/tracks/{trackId}/challenges", trackHandler.GetChallenges).Methods("GET")
	protected.HandleFunc("/tracks/{trackId}/today", trackHandler.GetTodaysChallenge).Methods("GET")
	protected.HandleFunc("/tracks/{trackId}/progress", trackHandler.GetProgress).Methods("GET")

	protected.HandleFunc("/challenges/{challengeId}/complete", challengeHandler.CompleteChallenge).Methods("POST")

	protected.HandleFunc("/memory-game/scores", memoryGameHandler.SaveScore).Methods("POST")
	protected.HandleFunc("/memory-game/{trackId}/scores", memoryGameHandler.GetScores).Methods("GET")
	protected.HandleFunc("/memory-game/{trackId}/affirmations", memoryGameHandler.GetAffirmations).Methods("GET")

	protected.HandleFunc("/response-trainer/submit", trainerHandler.SubmitResponse).Methods("POST")
	protected.HandleFunc("/response-trainer/{trackId}/progress", trainerHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/response-trainer/{trackId}/stats", trainerHandler.GetStats).Methods("GET")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// -------------------------------------------------------------------------
	// DATING APP SHIM (separate surface, own user ids)
	// -------------------------------------------------------------------------
	datingAPI := standardRouter.PathPrefix("/api/dating").Subrouter()

	datingAPI.HandleFunc("/signup", datingHandler.Signup).Methods("POST")
	datingAPI.HandleFunc("/login", datingHandler.Login).Methods("POST")
	datingAPI.HandleFunc("/users/{userId}/profile", datingHandler.GetProfile).Methods("GET")
	datingAPI.HandleFunc("/users/{userId}/profile", datingHandler.UpdateProfile).Methods("PUT")
	datingAPI.HandleFunc("/users/{userId}/session", datingHandler.GetSession).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
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
		WriteTimeout: 10 * time.Second,
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
