package predictor

import "fmt"

// ModelLoadError is returned when the model artifact cannot be turned into a Predictor.
// No prediction is possible after it.
type ModelLoadError struct {
	Source string
	Err    error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model from %s: %v", e.Source, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// InferenceError is returned when the model rejects a feature vector.
// It only aborts the request that triggered it.
type InferenceError struct {
	Backend string
	Err     error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed (%s): %v", e.Backend, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
