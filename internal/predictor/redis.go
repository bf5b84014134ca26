package predictor

import (
	"aqipredict/internal/features"
	"aqipredict/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// StreamConfig names the streams shared with the external model worker
type StreamConfig struct {
	InputStream  string
	OutputStream string
	MaxLen       int64         // streams are trimmed to this many messages
	Timeout      time.Duration // per prediction
	PollInterval time.Duration // XREAD block time
}

// DefaultStreamConfig matches the model worker defaults
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		InputStream:  "ml_input",
		OutputStream: "ml_output",
		MaxLen:       500,
		Timeout:      30 * time.Second,
		PollInterval: 500 * time.Millisecond,
	}
}

// RedisStreamModel sends single-row batches to a model worker over Redis streams
// and waits for the matching reply.
type RedisStreamModel struct {
	client *redis.Client
	cfg    StreamConfig
}

type streamRequest struct {
	JobID    string      `json:"job_id"`
	Features []string    `json:"features"`
	Rows     [][]float64 `json:"rows"`
}

type streamResponse struct {
	JobID       string    `json:"job_id"`
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

// NewRedisStreamModel creates a remote predictor; zero config fields take defaults
func NewRedisStreamModel(client *redis.Client, cfg StreamConfig) *RedisStreamModel {
	def := DefaultStreamConfig()
	if cfg.InputStream == "" {
		cfg.InputStream = def.InputStream
	}
	if cfg.OutputStream == "" {
		cfg.OutputStream = def.OutputStream
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = def.MaxLen
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}

	return &RedisStreamModel{client: client, cfg: cfg}
}

// RedisLoader checks the worker's Redis is reachable and returns the remote predictor
func RedisLoader(client *redis.Client, cfg StreamConfig) Loader {
	return func() (Predictor, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, &ModelLoadError{Source: "redis", Err: fmt.Errorf("failed to ping redis: %w", err)}
		}
		return NewRedisStreamModel(client, cfg), nil
	}
}

func (m *RedisStreamModel) Name() string {
	return "redis"
}

// Predict publishes the vector as a one-row job and blocks until the worker answers,
// the timeout expires or ctx is cancelled.
func (m *RedisStreamModel) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	if err := checkArity(len(fv)); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	jobID := uuid.NewString()

	// Only replies published after the job are of interest
	lastID := "0-0"
	lastMessages, err := m.client.XRevRangeN(ctx, m.cfg.OutputStream, "+", "-", 1).Result()
	if err == nil && len(lastMessages) > 0 {
		lastID = lastMessages[0].ID
	}

	data, err := encodeRequest(jobID, fv)
	if err != nil {
		return 0, err
	}

	err = m.client.XAdd(ctx, &redis.XAddArgs{
		Stream: m.cfg.InputStream,
		MaxLen: m.cfg.MaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": data},
	}).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to publish to %s: %w", m.cfg.InputStream, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("timeout waiting for model result for job %s: %w", jobID, err)
		}

		streams, err := m.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{m.cfg.OutputStream, lastID},
			Count:   10,
			Block:   m.cfg.PollInterval,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("Error reading from %s: %v", m.cfg.OutputStream, err)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					log.Printf("Warning: message %s has no 'data' field", msg.ID)
					continue
				}

				resp, err := decodeResponse(dataStr)
				if err != nil {
					log.Printf("Failed to parse model result: %v", err)
					continue
				}
				if resp.JobID != jobID {
					continue
				}

				m.client.XTrimMaxLen(ctx, m.cfg.OutputStream, m.cfg.MaxLen)
				return resp.value()
			}
		}
	}
}

func encodeRequest(jobID string, fv models.FeatureVector) (string, error) {
	data, err := json.Marshal(streamRequest{
		JobID:    jobID,
		Features: features.Names,
		Rows:     [][]float64{fv},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal features: %w", err)
	}
	return string(data), nil
}

func decodeResponse(data string) (streamResponse, error) {
	var resp streamResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return streamResponse{}, err
	}
	return resp, nil
}

// value extracts the first (only) output of the batch
func (r streamResponse) value() (float64, error) {
	if r.Error != "" {
		return 0, fmt.Errorf("model worker rejected job %s: %s", r.JobID, r.Error)
	}
	if len(r.Predictions) == 0 {
		return 0, fmt.Errorf("model worker returned no predictions for job %s", r.JobID)
	}
	return r.Predictions[0], nil
}
