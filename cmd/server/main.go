package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rosterdle/internal/clock"
	"rosterdle/internal/config"
	"rosterdle/internal/database"
	"rosterdle/internal/handlers"
	"rosterdle/internal/repository"
	"rosterdle/internal/security"
	"rosterdle/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (driver: %s)", cfg.DatabaseDriver)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	characterRepo := repository.NewCharacterRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	dailyRepo := repository.NewDailyRepository(db)
	survivalRepo := repository.NewSurvivalRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	clk := clock.SystemClock{}

	// Initialize services
	rosterService := service.NewRosterService(characterRepo)
	if err := rosterService.SeedFromFile(cfg.RosterSeedPath); err != nil {
		log.Printf("Warning: failed to seed roster: %v", err)
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	authService := service.NewAuthService(playerRepo, cfg.TokenSecret, cfg.TokenDuration)
	challengeService := service.NewChallengeService(challengeRepo, characterRepo, clk)
	streakService := service.NewStreakService(streakRepo, playerRepo, emailService, clk)
	dailyService := service.NewDailyService(dailyRepo, challengeService, characterRepo, streakService, clk)
	survivalService := service.NewSurvivalService(survivalRepo, characterRepo)

	// Initialize handlers
	limiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	oauthFlow := handlers.NewOAuthFlow(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL)
	authHandler := handlers.NewAuthHandler(authService, oauthFlow)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	dailyHandler := handlers.NewDailyHandler(dailyService)
	survivalHandler := handlers.NewSurvivalHandler(survivalService)
	streakHandler := handlers.NewStreakHandler(streakService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Identity
	mux.HandleFunc("POST /api/auth/anonymous", middleware.RateLimit(authHandler.StartAnonymous))
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.OAuthCallback)

	// Roster
	mux.HandleFunc("GET /api/roster", rosterHandler.List)

	// Daily challenges
	mux.HandleFunc("GET /api/daily/state", middleware.RequirePlayer(dailyHandler.GetState))
	mux.HandleFunc("GET /api/daily/yesterday", dailyHandler.GetYesterday)
	mux.HandleFunc("POST /api/daily/{mode}/guess", middleware.RequirePlayer(dailyHandler.SubmitGuess))
	mux.HandleFunc("POST /api/daily/{mode}/reset", middleware.RequirePlayer(dailyHandler.ResetMode))

	// Survival
	mux.HandleFunc("GET /api/survival/state", middleware.RequirePlayer(survivalHandler.GetState))
	mux.HandleFunc("POST /api/survival/start", middleware.RequirePlayer(survivalHandler.Start))
	mux.HandleFunc("POST /api/survival/round/next", middleware.RequirePlayer(survivalHandler.NextRound))
	mux.HandleFunc("POST /api/survival/guess", middleware.RequirePlayer(survivalHandler.Guess))
	mux.HandleFunc("POST /api/survival/timer", middleware.RequirePlayer(survivalHandler.Timer))
	mux.HandleFunc("POST /api/survival/pause", middleware.RequirePlayer(survivalHandler.Pause))
	mux.HandleFunc("POST /api/survival/resume", middleware.RequirePlayer(survivalHandler.Resume))
	mux.HandleFunc("POST /api/survival/gameover", middleware.RequirePlayer(survivalHandler.GameOver))
	mux.HandleFunc("POST /api/survival/quit", middleware.RequirePlayer(survivalHandler.Quit))

	// Streak
	mux.HandleFunc("GET /api/streak", middleware.RequirePlayer(streakHandler.Get))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
