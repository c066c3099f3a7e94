package transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/earshot/earshot/pkg/audio"
)

// StubBackend is a deterministic Backend stand-in: it decodes the frame
// bytes as text and reports a fixed confidence. It serves as the
// default local tier in the reference pipeline and as both tiers in
// tests; a production deployment replaces it with a real engine behind
// the same interface.
type StubBackend struct {
	tag        string
	confidence float64
}

var _ Backend = (*StubBackend)(nil)

// NewStubBackend creates a stub reporting the given source tag and
// confidence for any non-empty transcription.
func NewStubBackend(tag string, confidence float64) *StubBackend {
	return &StubBackend{tag: tag, confidence: confidence}
}

// Transcribe concatenates the frames, interprets the bytes as UTF-8
// text, and reports the configured confidence. Audio that decodes to
// nothing yields an empty Result with confidence 0.
func (b *StubBackend) Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (Result, error) {
	start := time.Now()

	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(f)
	}
	text := strings.ToValidUTF8(sb.String(), "")
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.TrimSpace(text)

	res := Result{
		Text:      text,
		Source:    b.tag,
		LatencyMS: float64(time.Since(start)) / float64(time.Millisecond),
	}
	if text != "" {
		res.Confidence = b.confidence
	}
	return res, nil
}
