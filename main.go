// main.go
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/buzzkit/buzzboard/internal/handlers"
	"github.com/buzzkit/buzzboard/internal/middleware"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	switch os.Getenv("BUZZBOARD_ENV") {
	case "production":
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func main() {
	logger := newLogger()

	gs := handlers.NewGameServer(logger)

	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(logger))

	r.Get("/", handlers.IndexHandler(gs))
	r.Get("/healthz", handlers.HealthzHandler())
	r.Get("/ws", handlers.GameWSHandler(logger, gs))
	r.Get("/join", handlers.JoinHandler())
	r.Get("/join/qr.png", handlers.QRHandler(logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	addr := ":" + port

	logger.Infof("buzzboard server listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
