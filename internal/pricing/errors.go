package pricing

import "errors"

var (
	// ErrArtifact marks a model artifact that is absent or structurally
	// broken. It is only returned while loading.
	ErrArtifact = errors.New("invalid model artifact")
	// ErrSchema marks a disagreement between the features built at
	// inference time and the ones the model was trained on.
	ErrSchema = errors.New("feature schema mismatch")
	// ErrScoring marks a scoring function that produced no usable result.
	ErrScoring = errors.New("scoring failed")
	// ErrUnknownCategory is returned by an encoder fitted to reject unseen
	// categories.
	ErrUnknownCategory = errors.New("unknown category")
)
