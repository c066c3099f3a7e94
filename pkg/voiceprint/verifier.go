package voiceprint

import (
	"fmt"
	"log/slog"

	"github.com/earshot/earshot/pkg/audio"
)

// Verifier orchestrates embedding extraction, similarity scoring, and
// the threshold decision over a Model and a Store.
type Verifier struct {
	model     Model
	store     Store
	threshold float64
	logger    *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithThreshold sets the minimum similarity for verification to pass
// (default 0.8). Must be in (0, 1].
func WithThreshold(t float64) VerifierOption {
	return func(v *Verifier) {
		if t > 0 && t <= 1 {
			v.threshold = t
		}
	}
}

// WithVerifierLogger sets the structured logger.
func WithVerifierLogger(l *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVerifier creates a Verifier over the given model and store.
func NewVerifier(model Model, store Store, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		model:     model,
		store:     store,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Threshold returns the configured similarity threshold.
func (v *Verifier) Threshold() float64 { return v.threshold }

// EnrollOwner computes an embedding over the frames and persists it
// unconditionally, replacing any prior profile. Re-enrollment is
// idempotent: subsequent verifications use only the latest embedding.
func (v *Verifier) EnrollOwner(frames []audio.Frame, sampleRate int) ([]float32, error) {
	embedding, err := v.model.Embed(frames, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voiceprint: enroll: %w", err)
	}
	if err := v.store.Save(embedding); err != nil {
		return nil, err
	}
	v.logger.Info("owner enrolled", "embedding_dim", len(embedding), "frames", len(frames))
	return embedding, nil
}

// VerifyOwner scores the frames against the enrolled voiceprint and
// returns the cosine similarity on success. It fails with
// ErrNotEnrolled when no voiceprint exists and ErrSpeakerMismatch when
// the similarity falls below the threshold.
func (v *Verifier) VerifyOwner(frames []audio.Frame, sampleRate int) (float64, error) {
	if !v.store.Exists() {
		return 0, ErrNotEnrolled
	}
	owner, err := v.store.Load()
	if err != nil {
		return 0, err
	}
	candidate, err := v.model.Embed(frames, sampleRate)
	if err != nil {
		return 0, fmt.Errorf("voiceprint: verify: %w", err)
	}
	similarity, err := Cosine(owner, candidate)
	if err != nil {
		return 0, err
	}
	if similarity < v.threshold {
		v.logger.Debug("speaker below threshold",
			"similarity", similarity, "threshold", v.threshold)
		return similarity, fmt.Errorf("%w: similarity %.4f below threshold %.2f",
			ErrSpeakerMismatch, similarity, v.threshold)
	}
	return similarity, nil
}
