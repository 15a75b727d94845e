package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/Unknownaod/opslinkOS/internal/config"
	"github.com/Unknownaod/opslinkOS/internal/handler"
	"github.com/Unknownaod/opslinkOS/internal/middleware"
	"github.com/Unknownaod/opslinkOS/internal/repository"
	"github.com/Unknownaod/opslinkOS/internal/service"
	"github.com/Unknownaod/opslinkOS/internal/token"
	"github.com/Unknownaod/opslinkOS/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Fatalf("Failed to ensure schema: %v", err)
	}
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	var mailer *email.Sender
	if sender := email.NewSender(cfg, logger); sender.Enabled() {
		mailer = sender
	}
	svc := service.NewService(repo, tokens, mailer, logger, cfg.BcryptCost)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware)
	// Public routes. OPTIONS is routed so preflight requests reach the
	// CORS middleware instead of a bare 405.
	r.HandleFunc("/", h.Status).Methods("GET", "OPTIONS")
	r.HandleFunc("/auth/register", h.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", h.Login).Methods("POST", "OPTIONS")
	// Protected routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(tokens))
	authRouter.HandleFunc("/me", h.Me).Methods("GET", "OPTIONS")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
