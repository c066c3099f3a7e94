// Package voiceprint provides speaker verification for the voice
// pipeline: embedding extraction, an encrypted-at-rest voiceprint
// store, cosine similarity scoring, and the enroll/verify decision
// layer.
//
// # Pipeline
//
//	Model.Embed:      captured frames → fixed-length float32 vector
//	Store.Save/Load:  one owner embedding, obfuscated on disk
//	Cosine:           candidate vs enrolled similarity in [0, 1]
//	Verifier:         threshold decision (default 0.8)
//
// # Models
//
// Model is a capability boundary: any backend producing fixed-length
// vectors is substitutable. HashModel is the dependency-free stand-in
// used by the reference pipeline and tests; production deployments
// plug in a real speaker-embedding backend (ECAPA-TDNN, ERes2Net, ...)
// behind the same interface.
//
// # Storage
//
// The persisted voiceprint is a comma-joined decimal rendering of the
// embedding, XOR-masked with a key derived from an operator-supplied
// secret, then base64-encoded. This is an obfuscation placeholder,
// not a security boundary; the save/load round trip is exact.
package voiceprint

import (
	"errors"

	"github.com/earshot/earshot/pkg/audio"
)

// DefaultThreshold is the default minimum similarity for a verify
// decision to pass.
const DefaultThreshold = 0.8

// Sentinel errors.
var (
	// ErrNotFound is returned by Store.Load when no voiceprint has ever
	// been saved.
	ErrNotFound = errors.New("voiceprint: not found")

	// ErrMissingSecret is returned at store construction when the
	// operator-supplied secret is absent. The secret is required
	// configuration; its absence is never deferred to first use.
	ErrMissingSecret = errors.New("voiceprint: missing encryption secret")

	// ErrNotEnrolled is returned by Verifier.VerifyOwner when no owner
	// voiceprint exists yet.
	ErrNotEnrolled = errors.New("voiceprint: owner not enrolled")

	// ErrSpeakerMismatch is returned when the candidate similarity falls
	// below the verifier threshold.
	ErrSpeakerMismatch = errors.New("voiceprint: speaker does not match owner")

	// ErrDimensionMismatch is returned when two embeddings of unequal
	// length are compared. This is a caller bug, not a degraded score.
	ErrDimensionMismatch = errors.New("voiceprint: embedding dimension mismatch")
)

// Model extracts a speaker embedding from captured audio frames.
//
// The output vector length is fixed per model instance and returned by
// Dimension. Enrolled and candidate embeddings must come from models
// with the same dimension.
type Model interface {
	// Embed computes a speaker embedding over the full frame sequence.
	Embed(frames []audio.Frame, sampleRate int) ([]float32, error)

	// Dimension returns the length of vectors produced by Embed.
	Dimension() int
}
