package transcribe

import (
	"context"
	"testing"

	"github.com/earshot/earshot/pkg/audio"
)

func TestStubBackendTranscribe(t *testing.T) {
	b := NewStubBackend("local_whisper", 0.9)

	got, err := b.Transcribe(context.Background(), []audio.Frame{
		audio.Frame("turn on"),
		audio.Frame("the lights"),
	}, 16000)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text != "turn on the lights" {
		t.Errorf("Text = %q, want frames joined as text", got.Text)
	}
	if got.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", got.Confidence)
	}
	if got.Source != "local_whisper" {
		t.Errorf("Source = %q, want local_whisper", got.Source)
	}
}

func TestStubBackendEmptyAudio(t *testing.T) {
	b := NewStubBackend("local_whisper", 0.9)

	got, err := b.Transcribe(context.Background(), nil, 16000)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text != "" {
		t.Errorf("Text = %q, want empty", got.Text)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 for an empty transcription", got.Confidence)
	}
}

func TestStubBackendSilentFrames(t *testing.T) {
	b := NewStubBackend("local_whisper", 0.9)

	got, err := b.Transcribe(context.Background(), []audio.Frame{
		audio.Frame("hello"),
		{0, 0},
		{0, 0},
	}, 16000)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q, want silence stripped", got.Text)
	}
}
