package transcribe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/api/iterator"

	"github.com/earshot/earshot/pkg/audio"
)

// Router defaults.
const (
	DefaultLocalConfidenceThreshold = 0.7
	DefaultStreamTimeout            = 5 * time.Second
)

// Router is the confidence-gated two-tier transcription path: local
// first, remote only when the local confidence is below the threshold.
type Router struct {
	local  Backend
	remote Backend

	localThreshold float64
	streamTimeout  time.Duration
	logger         *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLocalConfidenceThreshold sets the minimum local confidence that
// avoids the remote tier (default 0.7).
func WithLocalConfidenceThreshold(t float64) RouterOption {
	return func(r *Router) {
		if t > 0 && t <= 1 {
			r.localThreshold = t
		}
	}
}

// WithStreamTimeout bounds streaming frame collection (default 5s).
func WithStreamTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		if d > 0 {
			r.streamTimeout = d
		}
	}
}

// WithRouterLogger sets the structured logger.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a Router over a local and a remote backend. The
// remote backend may be nil, in which case low-confidence local results
// are returned as-is.
func NewRouter(local, remote Backend, opts ...RouterOption) *Router {
	r := &Router{
		local:          local,
		remote:         remote,
		localThreshold: DefaultLocalConfidenceThreshold,
		streamTimeout:  DefaultStreamTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Transcribe runs the local tier first and falls through to the remote
// tier when the local confidence is below the threshold. Remote
// failures propagate as *RemoteError.
func (r *Router) Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (Result, error) {
	local, err := r.local.Transcribe(ctx, frames, sampleRate)
	if err != nil {
		return Result{}, err
	}
	if local.Confidence >= r.localThreshold || r.remote == nil {
		return local, nil
	}

	r.logger.Debug("local confidence below threshold, routing to remote",
		"confidence", local.Confidence, "threshold", r.localThreshold)
	remote, err := r.remote.Transcribe(ctx, frames, sampleRate)
	if err != nil {
		return Result{}, err
	}
	return remote, nil
}

// TranscribeStreaming collects frames from src under the stream
// timeout, then routes the collected audio through the same
// local-first gate. Hitting the timeout is the partial-input policy at
// work, not a failure: transcription proceeds on whatever was
// collected, possibly nothing. The result's Source tag carries a
// "_stream" suffix.
func (r *Router) TranscribeStreaming(ctx context.Context, src audio.Source, sampleRate int) (Result, error) {
	collectCtx, cancel := context.WithTimeout(ctx, r.streamTimeout)
	defer cancel()

	var frames []audio.Frame
	for {
		frame, err := src.Next(collectCtx)
		if err != nil {
			if !errors.Is(err, iterator.Done) &&
				!errors.Is(err, context.DeadlineExceeded) &&
				!errors.Is(err, context.Canceled) {
				r.logger.Debug("streaming collection ended", "reason", err)
			}
			break
		}
		frames = append(frames, frame)
	}

	res, err := r.Transcribe(ctx, frames, sampleRate)
	if err != nil {
		return Result{}, err
	}
	res.Source += "_stream"
	return res, nil
}
