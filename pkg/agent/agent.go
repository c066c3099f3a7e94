// Package agent assembles the voice pipeline from explicit
// configuration: wake detection, capture, speaker verification, and
// transcription routing over one audio source. It exposes the
// pipeline's five public operations and nothing else; the conversation
// layer above consumes verified audio and transcription results.
package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/earshot/earshot/pkg/audio"
	"github.com/earshot/earshot/pkg/listen"
	"github.com/earshot/earshot/pkg/metrics"
	"github.com/earshot/earshot/pkg/transcribe"
	"github.com/earshot/earshot/pkg/voiceprint"
	"github.com/earshot/earshot/pkg/wake"
)

const (
	localStubTag        = "local_whisper"
	localStubConfidence = 0.65
)

// Agent is the assembled pipeline.
type Agent struct {
	cfg      Config
	listener *listen.Listener
	verifier *voiceprint.Verifier
	router   *transcribe.Router
	store    voiceprint.Store
	metrics  metrics.Sink
	logger   *slog.Logger
}

// Option supplies external implementations and collaborators.
type Option func(*options)

type options struct {
	model    voiceprint.Model
	detector wake.Detector
	local    transcribe.Backend
	remote   transcribe.Backend
	sink     metrics.Sink
	logger   *slog.Logger
}

// WithModel supplies the embedding model required by
// EmbeddingExternal.
func WithModel(m voiceprint.Model) Option {
	return func(o *options) { o.model = m }
}

// WithDetector supplies the wake detector required by WakeExternal.
func WithDetector(d wake.Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithLocalBackend replaces the local transcription tier (default: the
// deterministic stub).
func WithLocalBackend(b transcribe.Backend) Option {
	return func(o *options) { o.local = b }
}

// WithRemoteBackend replaces the remote transcription tier (default:
// derived from RemoteEndpoint / RemoteAPIKey).
func WithRemoteBackend(b transcribe.Backend) Option {
	return func(o *options) { o.remote = b }
}

// WithMetrics sets the metrics sink (default: in-memory).
func WithMetrics(s metrics.Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New validates the configuration and wires the pipeline over the
// given audio source. Unknown backend selectors, a missing voiceprint
// path, and a missing secret are all construction errors.
func New(cfg Config, source audio.Source, opts ...Option) (*Agent, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := options{
		sink:   metrics.NewMemory(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var model voiceprint.Model
	switch cfg.EmbeddingBackend {
	case EmbeddingHash:
		model = voiceprint.NewHashModel()
	case EmbeddingExternal:
		if o.model == nil {
			return nil, fmt.Errorf("agent: embedding backend %q requires WithModel", EmbeddingExternal)
		}
		model = o.model
	}

	var detector wake.Detector
	switch cfg.WakeBackend {
	case WakeFallback:
		detector = wake.NewTextDetector(cfg.WakeWord)
	case WakeExternal:
		if o.detector == nil {
			return nil, fmt.Errorf("agent: wake backend %q requires WithDetector", WakeExternal)
		}
		detector = o.detector
	}

	var store voiceprint.Store
	switch cfg.StoreBackend {
	case StoreFile:
		fs, err := voiceprint.NewFileStore(cfg.VoiceprintPath, cfg.Secret)
		if err != nil {
			return nil, err
		}
		store = fs
	case StoreBadger:
		bs, err := voiceprint.NewBadgerStore(voiceprint.BadgerStoreOptions{
			Dir:    cfg.VoiceprintPath,
			Secret: cfg.Secret,
		})
		if err != nil {
			return nil, err
		}
		store = bs
	}

	verifier := voiceprint.NewVerifier(model, store,
		voiceprint.WithThreshold(cfg.VerifyThreshold),
		voiceprint.WithVerifierLogger(o.logger),
	)

	local := o.local
	if local == nil {
		local = transcribe.NewStubBackend(localStubTag, localStubConfidence)
	}
	remote := o.remote
	if remote == nil {
		remote = remoteFromConfig(cfg)
	}
	router := transcribe.NewRouter(local, remote,
		transcribe.WithLocalConfidenceThreshold(cfg.LocalConfidenceThreshold),
		transcribe.WithStreamTimeout(cfg.StreamTimeout),
		transcribe.WithRouterLogger(o.logger),
	)

	listener := listen.New(source, detector, verifier,
		listen.WithSampleRate(cfg.SampleRate),
		listen.WithSilenceAfterFrames(cfg.SilenceAfterFrames),
		listen.WithMaxCommandSeconds(cfg.MaxCommandSeconds),
		listen.WithMinCommandFrames(cfg.MinCommandFrames),
		listen.WithMinSpeechFrames(cfg.MinSpeechFrames),
		listen.WithEnergyThreshold(cfg.EnergyThreshold),
		listen.WithMetrics(o.sink),
		listen.WithLogger(o.logger),
	)

	return &Agent{
		cfg:      cfg,
		listener: listener,
		verifier: verifier,
		router:   router,
		store:    store,
		metrics:  o.sink,
		logger:   o.logger,
	}, nil
}

// remoteFromConfig derives the remote tier from configuration: a
// websocket URL selects WSBackend, an API key selects the
// OpenAI-compatible backend, neither means no remote tier.
func remoteFromConfig(cfg Config) transcribe.Backend {
	if strings.HasPrefix(cfg.RemoteEndpoint, "ws://") || strings.HasPrefix(cfg.RemoteEndpoint, "wss://") {
		return transcribe.NewWSBackend(cfg.RemoteEndpoint)
	}
	if cfg.RemoteAPIKey != "" {
		var opts []transcribe.OpenAIBackendOption
		if cfg.RemoteEndpoint != "" {
			opts = append(opts, transcribe.WithOpenAIBaseURL(cfg.RemoteEndpoint))
		}
		return transcribe.NewOpenAIBackend(cfg.RemoteAPIKey, opts...)
	}
	return nil
}

// ListenForCommand runs one wake→capture→guardrail→verify pass.
func (a *Agent) ListenForCommand(ctx context.Context) (*audio.VerifiedAudio, error) {
	return a.listener.ListenForCommand(ctx)
}

// EnrollOwner computes and persists the owner voiceprint.
func (a *Agent) EnrollOwner(frames []audio.Frame, sampleRate int) ([]float32, error) {
	return a.verifier.EnrollOwner(frames, sampleRate)
}

// VerifyOwner scores frames against the enrolled voiceprint.
func (a *Agent) VerifyOwner(frames []audio.Frame, sampleRate int) (float64, error) {
	return a.verifier.VerifyOwner(frames, sampleRate)
}

// Transcribe routes a one-shot transcription.
func (a *Agent) Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (transcribe.Result, error) {
	a.metrics.Increment("asr_calls")
	return a.router.Transcribe(ctx, frames, sampleRate)
}

// TranscribeStreaming routes a streaming transcription with bounded
// collection.
func (a *Agent) TranscribeStreaming(ctx context.Context, src audio.Source, sampleRate int) (transcribe.Result, error) {
	a.metrics.Increment("asr_calls")
	return a.router.TranscribeStreaming(ctx, src, sampleRate)
}

// State returns the listener's pipeline state.
func (a *Agent) State() listen.State {
	return a.listener.State()
}

// Snapshot returns the current metric counters.
func (a *Agent) Snapshot() map[string]int64 {
	return a.metrics.Snapshot()
}

// SampleRate returns the configured capture rate in Hz.
func (a *Agent) SampleRate() int {
	return a.cfg.SampleRate
}

// Close releases backend resources (the badger store, when in use).
func (a *Agent) Close() error {
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
