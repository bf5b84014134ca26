package main

import (
	"aqipredict/internal/api"
	"aqipredict/internal/config"
	"aqipredict/internal/database"
	"aqipredict/internal/metrics"
	"aqipredict/internal/models"
	"aqipredict/internal/prediction"
	"aqipredict/internal/predictor"
	"aqipredict/internal/server"
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// the model is loaded before anything is served
	model, err := predictor.ProviderFromConfig(cfg.Model, config.GetRedisConfig()).Load()
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	metrics.AppInfo.WithLabelValues(model.Name()).Set(1)

	images := make([]models.Image, len(cfg.Images))
	for i, img := range cfg.Images {
		images[i] = models.Image{Path: img.Path, Caption: img.Caption}
	}
	opts := server.Options{Images: images, StaticDir: cfg.Server.StaticDir}

	if cfg.Weather.Enabled {
		opts.Weather = api.NewOpenMeteoClient(api.ClientOptions{
			BaseURL:           cfg.Weather.BaseURL,
			RequestsPerSecond: cfg.Weather.RequestsPerSecond,
			Burst:             cfg.Weather.Burst,
		})
		log.Printf("✓ Weather prefill enabled (%s)", cfg.Weather.BaseURL)
	}

	if cfg.Storage.Enabled {
		db, err := database.NewDB(config.GetDatabaseDSN())
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		opts.Store = db
		log.Println("✓ Observation store connected")
	}

	srv := server.NewServer(prediction.NewService(model), opts)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("✓ Server stopped")
}
