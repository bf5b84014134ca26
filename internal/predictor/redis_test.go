package predictor

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEncodeRequest(t *testing.T) {
	data, err := encodeRequest("job-1", defaultVector())
	if err != nil {
		t.Fatalf("encodeRequest() error = %v", err)
	}

	var req streamRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		t.Fatalf("Failed to decode request: %v", err)
	}

	if req.JobID != "job-1" {
		t.Errorf("JobID = %v, want job-1", req.JobID)
	}
	if len(req.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want a single-row batch", len(req.Rows))
	}
	if len(req.Rows[0]) != 8 || len(req.Features) != 8 {
		t.Errorf("row has %d values and %d names, want 8", len(req.Rows[0]), len(req.Features))
	}
	if req.Features[0] != "avg_temp" || req.Features[7] != "aqi_lag_7" {
		t.Errorf("Features = %v, want training order", req.Features)
	}
	if req.Rows[0][0] != 70.0 {
		t.Errorf("Rows[0][0] = %v, want 70", req.Rows[0][0])
	}
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    float64
		wantErr bool
	}{
		{
			name: "single prediction",
			data: `{"job_id":"a","predictions":[87.5]}`,
			want: 87.5,
		},
		{
			name: "first of many",
			data: `{"job_id":"a","predictions":[1.5, 2.5]}`,
			want: 1.5,
		},
		{
			name:    "worker error",
			data:    `{"job_id":"a","error":"X has 7 features, but model expects 8"}`,
			wantErr: true,
		},
		{
			name:    "empty predictions",
			data:    `{"job_id":"a","predictions":[]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := decodeResponse(tt.data)
			if err != nil {
				t.Fatalf("decodeResponse() error = %v", err)
			}
			got, err := resp.value()
			if (err != nil) != tt.wantErr {
				t.Fatalf("value() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeResponse_Invalid(t *testing.T) {
	if _, err := decodeResponse("not json"); err == nil {
		t.Error("decodeResponse() expected error for invalid JSON")
	}
}

func TestNewRedisStreamModel_Defaults(t *testing.T) {
	m := NewRedisStreamModel(nil, StreamConfig{OutputStream: "custom_out"})

	if m.cfg.InputStream != "ml_input" {
		t.Errorf("InputStream = %v, want ml_input", m.cfg.InputStream)
	}
	if m.cfg.OutputStream != "custom_out" {
		t.Errorf("OutputStream = %v, want custom_out", m.cfg.OutputStream)
	}
	if m.cfg.MaxLen != 500 {
		t.Errorf("MaxLen = %v, want 500", m.cfg.MaxLen)
	}
	if m.cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", m.cfg.Timeout)
	}
	if m.Name() != "redis" {
		t.Errorf("Name() = %v, want redis", m.Name())
	}
}
