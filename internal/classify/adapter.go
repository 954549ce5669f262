package classify

import "context"

// ModelInfo describes the trained model's fixed contract, agreed once
// at load time. Labels are in the model's output order.
type ModelInfo struct {
	InputWidth int      `json:"input_width"`
	Labels     []string `json:"labels"`
}

// Adapter scores a feature vector against the known intent labels.
// The returned slice is one probability per label, aligned to the
// ModelInfo label order. Implementations may incur I/O; the resolver
// calls Score at most once per request.
type Adapter interface {
	Info(ctx context.Context) (ModelInfo, error)
	Score(ctx context.Context, features []float64) ([]float64, error)
}
