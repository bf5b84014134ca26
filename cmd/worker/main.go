package main

import (
	"aqipredict/internal/config"
	"aqipredict/internal/predictor"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	modelPath := flag.String("model", "model.yaml", "linear model artifact to serve")
	workers := flag.Int("workers", 4, "concurrent jobs")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	model, err := predictor.LoadFile(*modelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	log.Printf("✓ Loaded model %s (version %q)", *modelPath, model.Version())

	redisCfg := config.GetRedisConfig()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", redisCfg.Addr, err)
	}

	worker := predictor.NewStreamWorker(redisClient, model, predictor.StreamConfig{
		InputStream:  redisCfg.InputStream,
		OutputStream: redisCfg.OutputStream,
	}, *workers)

	if err := worker.Run(ctx); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
	log.Println("✓ Worker stopped")
}
