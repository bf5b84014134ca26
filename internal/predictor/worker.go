package predictor

import (
	"aqipredict/internal/features"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// StreamWorker answers RedisStreamModel jobs with a local LinearModel.
// It is the reference model worker for the redis backend.
type StreamWorker struct {
	client  *redis.Client
	model   *LinearModel
	cfg     StreamConfig
	workers int
}

// NewStreamWorker creates a worker pool of the given size
func NewStreamWorker(client *redis.Client, model *LinearModel, cfg StreamConfig, workers int) *StreamWorker {
	if workers < 1 {
		workers = 1
	}
	return &StreamWorker{
		client:  client,
		model:   model,
		cfg:     NewRedisStreamModel(client, cfg).cfg,
		workers: workers,
	}
}

// Run consumes the input stream until ctx is cancelled
func (w *StreamWorker) Run(ctx context.Context) error {
	jobs := make(chan redis.XMessage, w.workers)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go w.process(ctx, i, jobs, &wg)
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	log.Printf("✓ Worker listening on %s with %d workers", w.cfg.InputStream, w.workers)

	// Only jobs published from now on
	lastID := "$"
	for {
		if ctx.Err() != nil {
			return nil
		}

		streams, err := w.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{w.cfg.InputStream, lastID},
			Count:   10,
			Block:   w.cfg.PollInterval,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("Error reading from %s: %v", w.cfg.InputStream, err)
			time.Sleep(w.cfg.PollInterval)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				select {
				case jobs <- msg:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// process handles jobs from the jobs channel
func (w *StreamWorker) process(ctx context.Context, id int, jobs <-chan redis.XMessage, wg *sync.WaitGroup) {
	defer wg.Done()

	for msg := range jobs {
		dataStr, ok := msg.Values["data"].(string)
		if !ok {
			log.Printf("[worker %d] Warning: message %s has no 'data' field", id, msg.ID)
			continue
		}

		resp := w.handle(dataStr)
		if resp.JobID == "" {
			log.Printf("[worker %d] Dropping message %s: %s", id, msg.ID, resp.Error)
			continue
		}

		if err := w.reply(ctx, resp); err != nil {
			log.Printf("[worker %d] Failed to reply to job %s: %v", id, resp.JobID, err)
		}
	}
}

// handle turns one request payload into its reply. A reply without a
// job id cannot be routed back and is dropped.
func (w *StreamWorker) handle(data string) streamResponse {
	var req streamRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return streamResponse{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	if err := checkFeatureNames(req.Features); err != nil {
		return streamResponse{JobID: req.JobID, Error: err.Error()}
	}

	predictions, err := w.model.predictBatch(req.Rows)
	if err != nil {
		return streamResponse{JobID: req.JobID, Error: err.Error()}
	}

	return streamResponse{JobID: req.JobID, Predictions: predictions}
}

func (w *StreamWorker) reply(ctx context.Context, resp streamResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	return w.client.XAdd(ctx, &redis.XAddArgs{
		Stream: w.cfg.OutputStream,
		MaxLen: w.cfg.MaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": string(data)},
	}).Err()
}

func checkFeatureNames(names []string) error {
	if len(names) != features.Size {
		return fmt.Errorf("expected %d features, got %d", features.Size, len(names))
	}
	for i, name := range names {
		if name != features.Names[i] {
			return fmt.Errorf("feature %d is %q, want %q", i, name, features.Names[i])
		}
	}
	return nil
}
