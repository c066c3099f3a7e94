// Package transcribe turns verified command audio into text through a
// confidence-gated two-tier router: a fast local backend answers first,
// and a remote backend is consulted only when the local confidence is
// too low.
//
// # Backends
//
// Backend is the capability boundary; any speech-to-text engine with
// the frames → (text, confidence) contract plugs in. The package ships
// three: StubBackend (a deterministic stand-in for tests and local
// tiers), WSBackend (a websocket streaming ASR endpoint), and
// OpenAIBackend (an OpenAI-compatible audio/transcriptions API).
//
// # Routing
//
// Router.Transcribe tries local first and returns its result when the
// confidence clears the threshold (default 0.7); otherwise the remote
// backend answers. Remote failures propagate as *RemoteError since
// there is no further fallback tier. Result.Source names the backend
// that produced the answer.
package transcribe

import (
	"context"
	"fmt"

	"github.com/earshot/earshot/pkg/audio"
)

// Result is one transcription outcome.
type Result struct {
	// Text is the recognized utterance. May be empty when the audio
	// contained no recognizable speech.
	Text string

	// Confidence is the backend's self-reported confidence in [0, 1].
	Confidence float64

	// Source names the backend that produced the result, with a
	// "_stream" suffix when it came through the streaming path.
	Source string

	// LatencyMS is the backend call duration in milliseconds.
	LatencyMS float64
}

// Backend is a speech-to-text engine.
type Backend interface {
	// Transcribe converts the ordered frames to text. sampleRate is the
	// capture rate in Hz.
	Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (Result, error)
}

// RemoteError wraps a failure from the remote transcription tier.
// Remote failures are never masked: there is no tier behind the remote
// backend to fall back to.
type RemoteError struct {
	// Backend names the failing backend (e.g. "ws", "openai").
	Backend string

	// Endpoint is the remote endpoint or model that failed.
	Endpoint string

	// Err is the underlying failure.
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("transcribe: remote backend %s (%s): %v", e.Backend, e.Endpoint, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
