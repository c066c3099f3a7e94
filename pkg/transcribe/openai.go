package transcribe

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/earshot/earshot/pkg/audio"
)

const openaiDefaultConfidence = 0.85

// OpenAIBackend transcribes through an OpenAI-compatible
// audio/transcriptions API. The capture is WAV-encoded and uploaded as
// one request; every failure is a *RemoteError.
//
// The transcriptions API reports no per-utterance confidence, so the
// backend attaches a fixed configured value for routing purposes.
type OpenAIBackend struct {
	client     *openai.Client
	model      openai.AudioModel
	tag        string
	confidence float64
	endpoint   string
}

var _ Backend = (*OpenAIBackend)(nil)

// openaiConfig holds NewOpenAIBackend options before client creation.
type openaiConfig struct {
	baseURL    string
	httpClient *http.Client
	model      openai.AudioModel
	tag        string
	confidence float64
}

// OpenAIBackendOption configures an OpenAIBackend.
type OpenAIBackendOption func(*openaiConfig)

// WithOpenAIBaseURL points the backend at an OpenAI-compatible
// provider.
func WithOpenAIBaseURL(url string) OpenAIBackendOption {
	return func(c *openaiConfig) { c.baseURL = url }
}

// WithOpenAIHTTPClient replaces the HTTP client.
func WithOpenAIHTTPClient(hc *http.Client) OpenAIBackendOption {
	return func(c *openaiConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithOpenAIModel sets the transcription model (default whisper-1).
func WithOpenAIModel(model openai.AudioModel) OpenAIBackendOption {
	return func(c *openaiConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAITag sets the result source tag (default "cloud_openai").
func WithOpenAITag(tag string) OpenAIBackendOption {
	return func(c *openaiConfig) {
		if tag != "" {
			c.tag = tag
		}
	}
}

// WithOpenAIConfidence sets the fixed confidence attached to results
// (default 0.85).
func WithOpenAIConfidence(conf float64) OpenAIBackendOption {
	return func(c *openaiConfig) {
		if conf > 0 && conf <= 1 {
			c.confidence = conf
		}
	}
}

// NewOpenAIBackend creates a backend calling the API with the given
// key.
func NewOpenAIBackend(apiKey string, opts ...OpenAIBackendOption) *OpenAIBackend {
	cfg := openaiConfig{
		httpClient: http.DefaultClient,
		model:      openai.AudioModelWhisper1,
		tag:        "cloud_openai",
		confidence: openaiDefaultConfidence,
	}
	for _, o := range opts {
		o(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
	}
	endpoint := "api.openai.com"
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
		endpoint = cfg.baseURL
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAIBackend{
		client:     &client,
		model:      cfg.model,
		tag:        cfg.tag,
		confidence: cfg.confidence,
		endpoint:   endpoint,
	}
}

// Transcribe uploads the WAV-encoded capture and returns the
// recognized text.
func (b *OpenAIBackend) Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (Result, error) {
	start := time.Now()

	wav := audio.EncodeWAV(frames, sampleRate)
	resp, err := b.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wav), "capture.wav", "audio/wav"),
		Model: b.model,
	})
	if err != nil {
		return Result{}, &RemoteError{Backend: "openai", Endpoint: b.endpoint, Err: err}
	}

	return Result{
		Text:       resp.Text,
		Confidence: b.confidence,
		Source:     b.tag,
		LatencyMS:  float64(time.Since(start)) / float64(time.Millisecond),
	}, nil
}
