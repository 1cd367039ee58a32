package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tanawatq/vaccine_reservation/internal/config"
	"github.com/tanawatq/vaccine_reservation/internal/es"
	"github.com/tanawatq/vaccine_reservation/internal/handlers"
	"github.com/tanawatq/vaccine_reservation/internal/logging"
	authmw "github.com/tanawatq/vaccine_reservation/internal/middleware/auth"
	loggingmw "github.com/tanawatq/vaccine_reservation/internal/middleware/logging"
	"github.com/tanawatq/vaccine_reservation/internal/mykafka"
	"github.com/tanawatq/vaccine_reservation/internal/repo"
	"github.com/tanawatq/vaccine_reservation/internal/token"
	httpserver "github.com/tanawatq/vaccine_reservation/internal/transport/http"
)

const reservationIndex = "reservation"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	tokens, err := token.New(
		configuration.SECRET_KEY,
		configuration.ALGORITHM,
		configuration.ACCESS_TOKEN_EXPIRE_MINUTES,
	)
	if err != nil {
		log.Fatal(err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	gormRepo := &repo.GormRepo{DB: db}

	deps := &httpserver.Deps{}

	deps.UserHandler = &handlers.UserHandler{Repo: gormRepo, Producer: prod}
	deps.AuthHandler = &handlers.AuthHandler{Repo: gormRepo, Tokens: tokens, Producer: prod}
	deps.ReservationHandler = &handlers.ReservationHandler{Repo: gormRepo, Producer: prod, Index: reservationIndex}
	deps.SearchHandler = &handlers.SearchHandler{Index: reservationIndex}
	deps.Auth = &authmw.Middleware{Repo: gormRepo, Tokens: tokens}

	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.ReservationHandler.ES = client
		deps.SearchHandler.ES = client
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
