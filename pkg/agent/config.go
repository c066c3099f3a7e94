package agent

import (
	"fmt"
	"time"

	"github.com/earshot/earshot/pkg/audio"
	"github.com/earshot/earshot/pkg/listen"
	"github.com/earshot/earshot/pkg/transcribe"
	"github.com/earshot/earshot/pkg/voiceprint"
)

// Recognized backend selectors. Backend selection is explicit
// configuration enumerated here, never implicit environment sniffing.
const (
	// EmbeddingHash selects the built-in hash embedding stand-in.
	EmbeddingHash = "hash"
	// EmbeddingExternal selects a caller-supplied Model (WithModel).
	EmbeddingExternal = "external-model"

	// WakeFallback selects the text-heuristic wake detector.
	WakeFallback = "fallback"
	// WakeExternal selects a caller-supplied Detector (WithDetector).
	WakeExternal = "external-detector"

	// StoreFile persists the voiceprint as a flat file.
	StoreFile = "file"
	// StoreBadger persists the voiceprint in a BadgerDB directory.
	StoreBadger = "badger"
)

// Config assembles the pipeline. Zero values take the documented
// defaults; unknown enum values are construction errors.
type Config struct {
	// WakeWord is the trigger phrase for the fallback detector
	// (default "earshot").
	WakeWord string

	// SampleRate is the capture rate in Hz (default 16000).
	SampleRate int

	// EmbeddingBackend is EmbeddingHash or EmbeddingExternal.
	EmbeddingBackend string

	// WakeBackend is WakeFallback or WakeExternal.
	WakeBackend string

	// StoreBackend is StoreFile or StoreBadger.
	StoreBackend string

	// VoiceprintPath is the voiceprint file path (StoreFile) or the
	// badger directory (StoreBadger).
	VoiceprintPath string

	// Secret derives the voiceprint obfuscation key. Required; an
	// empty secret fails construction with voiceprint.ErrMissingSecret.
	Secret string

	// VerifyThreshold is the minimum speaker similarity (default 0.8).
	VerifyThreshold float64

	// LocalConfidenceThreshold gates the remote transcription tier
	// (default 0.7).
	LocalConfidenceThreshold float64

	// RemoteEndpoint is an optional ws:// or wss:// ASR endpoint. When
	// empty and no remote backend is supplied, low-confidence local
	// results are returned as-is.
	RemoteEndpoint string

	// RemoteAPIKey selects the OpenAI-compatible remote backend when
	// RemoteEndpoint is not a websocket URL.
	RemoteAPIKey string

	// Listener tunables; zero means default.
	SilenceAfterFrames int
	MaxCommandSeconds  int
	MinCommandFrames   int
	MinSpeechFrames    int
	EnergyThreshold    float64

	// StreamTimeout bounds streaming transcription collection
	// (default 5s).
	StreamTimeout time.Duration
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.WakeWord == "" {
		c.WakeWord = "earshot"
	}
	if c.SampleRate == 0 {
		c.SampleRate = listen.DefaultSampleRate
	}
	if c.EmbeddingBackend == "" {
		c.EmbeddingBackend = EmbeddingHash
	}
	if c.WakeBackend == "" {
		c.WakeBackend = WakeFallback
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreFile
	}
	if c.VerifyThreshold == 0 {
		c.VerifyThreshold = voiceprint.DefaultThreshold
	}
	if c.LocalConfidenceThreshold == 0 {
		c.LocalConfidenceThreshold = transcribe.DefaultLocalConfidenceThreshold
	}
	if c.SilenceAfterFrames == 0 {
		c.SilenceAfterFrames = listen.DefaultSilenceAfter
	}
	if c.MaxCommandSeconds == 0 {
		c.MaxCommandSeconds = listen.DefaultMaxCommandSeconds
	}
	if c.MinCommandFrames == 0 {
		c.MinCommandFrames = listen.DefaultMinCommandFrames
	}
	if c.MinSpeechFrames == 0 {
		c.MinSpeechFrames = listen.DefaultMinSpeechFrames
	}
	if c.EnergyThreshold == 0 {
		c.EnergyThreshold = audio.DefaultEnergyThreshold
	}
	if c.StreamTimeout == 0 {
		c.StreamTimeout = transcribe.DefaultStreamTimeout
	}
	return c
}

// validate rejects unknown enum values eagerly.
func (c Config) validate() error {
	switch c.EmbeddingBackend {
	case EmbeddingHash, EmbeddingExternal:
	default:
		return fmt.Errorf("agent: unknown embedding backend %q (want %q or %q)",
			c.EmbeddingBackend, EmbeddingHash, EmbeddingExternal)
	}
	switch c.WakeBackend {
	case WakeFallback, WakeExternal:
	default:
		return fmt.Errorf("agent: unknown wake backend %q (want %q or %q)",
			c.WakeBackend, WakeFallback, WakeExternal)
	}
	switch c.StoreBackend {
	case StoreFile, StoreBadger:
	default:
		return fmt.Errorf("agent: unknown store backend %q (want %q or %q)",
			c.StoreBackend, StoreFile, StoreBadger)
	}
	if c.VoiceprintPath == "" {
		return fmt.Errorf("agent: voiceprint path is required")
	}
	if c.Secret == "" {
		return voiceprint.ErrMissingSecret
	}
	return nil
}
