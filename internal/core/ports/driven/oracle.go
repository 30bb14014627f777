package driven

import "context"

// LabelingOracle converts a prompt into a short tag string.
// Calls block until the oracle answers or ctx ends. No retries are made.
type LabelingOracle interface {
	// Label returns the oracle's answer to prompt.
	Label(ctx context.Context, prompt string) (string, error)

	// ModelName returns the model answering labeling calls.
	ModelName() string

	// Ping validates the oracle is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// OracleProvider builds labeling oracles. A non-empty apiKey overrides the
// configured credential for a single request.
type OracleProvider interface {
	Oracle(apiKey string) (LabelingOracle, error)
}
