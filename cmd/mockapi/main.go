package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ianct-client/infrastructure/mockapi"

	"go.uber.org/zap"
)

func main() {
	listen := flag.String("listen", ":8080", "address to serve the API on")
	secret := flag.String("secret", os.Getenv("MOCKAPI_SECRET"), "token signing secret")
	origins := flag.String("origins", "", "comma separated CORS origins (default any)")
	seed := flag.Bool("seed", true, "load sample users, texts and models")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	opts := mockapi.Options{Secret: *secret, Seed: *seed}
	if *origins != "" {
		opts.AllowedOrigins = strings.Split(*origins, ",")
	}
	api := mockapi.New(opts, logger)

	srv := &http.Server{
		Addr:         *listen,
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting mock API",
			zap.String("address", *listen),
			zap.Bool("seeded", *seed),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down mock API...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	_ = logger.Sync()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
