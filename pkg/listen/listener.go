// Package listen implements the continuous listener: the state machine
// that turns an unbounded frame stream into at most one verified
// command per call.
//
// One ListenForCommand call runs four stages in order:
//
//	Scan      pull frames until the wake detector fires
//	Capture   buffer frames until silence or the duration ceiling
//	Guardrail reject captures too short or too quiet to be speech
//	Verify    hand the capture to the speaker verifier
//
// Guardrails run before verification so that false wake-triggers on
// noise never pay for an embedding computation, and the silence/ceiling
// dual stop bounds both latency and memory for a single utterance.
//
// Frames are consumed strictly in source order and never replayed. The
// only suspension point is Source.Next; once capture starts it runs to
// a stop condition before guardrails are evaluated.
package listen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/earshot/earshot/pkg/audio"
	"github.com/earshot/earshot/pkg/metrics"
	"github.com/earshot/earshot/pkg/wake"
)

// Sentinel errors.
var (
	// ErrSourceClosed is returned when the source is exhausted (or the
	// context ends) before any wake word is heard. It is fatal for the
	// current source: the caller must reacquire a new one.
	ErrSourceClosed = errors.New("listen: audio source closed before wake word")

	// ErrSpeechTooShort is returned when a capture fails the guardrail
	// check. It is recoverable: the caller may listen again.
	ErrSpeechTooShort = errors.New("listen: captured speech too short")
)

// Listener defaults.
const (
	DefaultSampleRate        = 16000
	DefaultSilenceAfter      = 30
	DefaultMaxCommandSeconds = 15
	DefaultMinCommandFrames  = 2
	DefaultMinSpeechFrames   = 2
)

// Verifier is the speaker-verification capability the listener
// delegates to after guardrails pass.
type Verifier interface {
	VerifyOwner(frames []audio.Frame, sampleRate int) (float64, error)
}

// Listener drives the wake→capture→guardrail→verify pipeline over one
// audio source. A Listener is not safe for concurrent ListenForCommand
// calls; run one at a time.
type Listener struct {
	source   audio.Source
	detector wake.Detector
	verifier Verifier

	sampleRate        int
	silenceAfter      int
	maxCommandSeconds int
	minCommandFrames  int
	minSpeechFrames   int
	energyThreshold   float64

	logger  *slog.Logger
	metrics metrics.Sink

	mu    sync.Mutex
	state State
}

// Option configures a Listener.
type Option func(*Listener)

// WithSampleRate sets the capture sample rate in Hz (default 16000).
func WithSampleRate(hz int) Option {
	return func(l *Listener) {
		if hz > 0 {
			l.sampleRate = hz
		}
	}
}

// WithSilenceAfterFrames sets how many consecutive silent frames end a
// capture (default 30).
func WithSilenceAfterFrames(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.silenceAfter = n
		}
	}
}

// WithMaxCommandSeconds sets the capture duration ceiling (default 15).
func WithMaxCommandSeconds(s int) Option {
	return func(l *Listener) {
		if s > 0 {
			l.maxCommandSeconds = s
		}
	}
}

// WithMinCommandFrames sets the guardrail minimum total frame count
// (default 2).
func WithMinCommandFrames(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.minCommandFrames = n
		}
	}
}

// WithMinSpeechFrames sets the guardrail minimum non-silent frame count
// (default 2).
func WithMinSpeechFrames(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.minSpeechFrames = n
		}
	}
}

// WithEnergyThreshold sets the silence energy threshold (default 50.0).
func WithEnergyThreshold(t float64) Option {
	return func(l *Listener) {
		if t > 0 {
			l.energyThreshold = t
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink (default Nop).
func WithMetrics(sink metrics.Sink) Option {
	return func(l *Listener) {
		if sink != nil {
			l.metrics = sink
		}
	}
}

// New creates a Listener over the given source, wake detector, and
// verifier.
func New(source audio.Source, detector wake.Detector, verifier Verifier, opts ...Option) *Listener {
	l := &Listener{
		source:            source,
		detector:          detector,
		verifier:          verifier,
		sampleRate:        DefaultSampleRate,
		silenceAfter:      DefaultSilenceAfter,
		maxCommandSeconds: DefaultMaxCommandSeconds,
		minCommandFrames:  DefaultMinCommandFrames,
		minSpeechFrames:   DefaultMinSpeechFrames,
		energyThreshold:   audio.DefaultEnergyThreshold,
		logger:            slog.Default(),
		metrics:           metrics.Nop{},
		state:             StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the listener's current pipeline state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Listener) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// maxCaptureFrames derives the capture ceiling from the wall-clock
// bound, assuming audio.FrameSamples samples per frame.
func (l *Listener) maxCaptureFrames() int {
	return l.maxCommandSeconds * l.sampleRate / audio.FrameSamples
}

// ListenForCommand runs one full pipeline pass and returns the verified
// capture. It fails with ErrSourceClosed if the source ends before a
// wake word, ErrSpeechTooShort if the capture fails guardrails, and
// propagates verifier errors (voiceprint.ErrNotEnrolled,
// voiceprint.ErrSpeakerMismatch) unchanged.
func (l *Listener) ListenForCommand(ctx context.Context) (*audio.VerifiedAudio, error) {
	l.setState(StateIdle)

	trigger, err := l.scan(ctx)
	if err != nil {
		return nil, err
	}

	captureID := uuid.NewString()
	wakeAt := time.Now()
	l.setState(StateWakeDetected)
	l.metrics.Increment("wake_word_detected")
	l.logger.Info("wake word detected", "capture_id", captureID)

	l.setState(StateCapturing)
	frames := l.capture(ctx, trigger)
	l.logger.Debug("capture complete",
		"capture_id", captureID,
		"frames", len(frames),
		"speech_frames", audio.CountSpeech(frames, l.energyThreshold))

	l.setState(StateGuardrail)
	if err := l.guardrail(frames); err != nil {
		l.setState(StateRejected)
		l.logger.Info("capture rejected", "capture_id", captureID, "reason", err)
		return nil, err
	}

	l.setState(StateVerifying)
	similarity, err := l.verifier.VerifyOwner(frames, l.sampleRate)
	if err != nil {
		l.setState(StateRejected)
		l.metrics.Increment("speaker_rejected")
		l.logger.Info("speaker rejected", "capture_id", captureID, "reason", err)
		return nil, err
	}

	l.setState(StateVerified)
	l.metrics.Increment("speaker_verified")
	l.metrics.RecordTiming("wake_to_verify_ms", float64(time.Since(wakeAt))/float64(time.Millisecond))
	l.logger.Info("speaker verified",
		"capture_id", captureID,
		"similarity", similarity,
		"frames", len(frames))

	return &audio.VerifiedAudio{Frames: frames, SampleRate: l.sampleRate}, nil
}

// scan pulls frames until the wake detector fires and returns the
// triggering frame.
func (l *Listener) scan(ctx context.Context) (audio.Frame, error) {
	for {
		frame, err := l.source.Next(ctx)
		if err != nil {
			if errors.Is(err, iterator.Done) {
				return nil, ErrSourceClosed
			}
			return nil, fmt.Errorf("%w: %v", ErrSourceClosed, err)
		}
		if l.detector.Heard(frame) {
			return frame, nil
		}
	}
}

// capture buffers the triggering frame plus subsequent frames until a
// run of silenceAfter silent frames, the duration ceiling, or the end
// of the source. Source exhaustion mid-capture ends the capture rather
// than failing: what was buffered goes to guardrails.
func (l *Listener) capture(ctx context.Context, trigger audio.Frame) []audio.Frame {
	maxFrames := l.maxCaptureFrames()
	frames := make([]audio.Frame, 0, maxFrames)
	silentRun := 0

	appendFrame := func(f audio.Frame) {
		frames = append(frames, f)
		if f.Silent(l.energyThreshold) {
			silentRun++
		} else {
			silentRun = 0
		}
	}
	appendFrame(trigger)

	for len(frames) < maxFrames && silentRun < l.silenceAfter {
		frame, err := l.source.Next(ctx)
		if err != nil {
			break
		}
		appendFrame(frame)
	}
	return frames
}

// guardrail rejects captures with too few frames total or too few
// non-silent frames.
func (l *Listener) guardrail(frames []audio.Frame) error {
	speech := audio.CountSpeech(frames, l.energyThreshold)
	if len(frames) < l.minCommandFrames || speech < l.minSpeechFrames {
		l.metrics.Increment("speech_rejected_short")
		l.metrics.Increment("speaker_rejected")
		return fmt.Errorf("%w: %d frames, %d speech (need %d/%d)",
			ErrSpeechTooShort, len(frames), speech, l.minCommandFrames, l.minSpeechFrames)
	}
	return nil
}
