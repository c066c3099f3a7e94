package transcribe

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/earshot/earshot/pkg/audio"
)

// WSBackend transcribes through a websocket ASR endpoint.
//
// Wire protocol: one JSON start message describing the audio, the raw
// frames as binary messages, a JSON end marker, then a single JSON
// result from the server. Every failure on this path is a *RemoteError.
type WSBackend struct {
	endpoint string
	dialer   *websocket.Dialer
	tag      string
}

var _ Backend = (*WSBackend)(nil)

// wsStart opens a transcription session.
type wsStart struct {
	Type       string `json:"type"`
	SampleRate int    `json:"sample_rate"`
	Format     string `json:"format"`
}

// wsEnd marks the end of the audio.
type wsEnd struct {
	Type string `json:"type"`
}

// wsResult is the server's final answer.
type wsResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// WSBackendOption configures a WSBackend.
type WSBackendOption func(*WSBackend)

// WithWSDialer replaces the websocket dialer (e.g. for proxies or
// custom TLS).
func WithWSDialer(d *websocket.Dialer) WSBackendOption {
	return func(b *WSBackend) {
		if d != nil {
			b.dialer = d
		}
	}
}

// WithWSTag sets the result source tag (default "cloud_ws").
func WithWSTag(tag string) WSBackendOption {
	return func(b *WSBackend) {
		if tag != "" {
			b.tag = tag
		}
	}
}

// NewWSBackend creates a backend for a ws:// or wss:// endpoint.
func NewWSBackend(endpoint string, opts ...WSBackendOption) *WSBackend {
	b := &WSBackend{
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
		tag:      "cloud_ws",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *WSBackend) remoteErr(err error) error {
	return &RemoteError{Backend: "ws", Endpoint: b.endpoint, Err: err}
}

// Transcribe streams the frames over one websocket session and returns
// the server's result.
func (b *WSBackend) Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (Result, error) {
	start := time.Now()

	conn, _, err := b.dialer.DialContext(ctx, b.endpoint, nil)
	if err != nil {
		return Result{}, b.remoteErr(err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteJSON(wsStart{Type: "start", SampleRate: sampleRate, Format: "pcm16"}); err != nil {
		return Result{}, b.remoteErr(err)
	}
	for _, frame := range frames {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return Result{}, b.remoteErr(err)
		}
	}
	if err := conn.WriteJSON(wsEnd{Type: "end"}); err != nil {
		return Result{}, b.remoteErr(err)
	}

	var res wsResult
	if err := conn.ReadJSON(&res); err != nil {
		return Result{}, b.remoteErr(err)
	}

	return Result{
		Text:       res.Text,
		Confidence: res.Confidence,
		Source:     b.tag,
		LatencyMS:  float64(time.Since(start)) / float64(time.Millisecond),
	}, nil
}
