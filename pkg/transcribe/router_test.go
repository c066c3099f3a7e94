package transcribe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/earshot/earshot/pkg/audio"
)

// recordingBackend wraps a fixed Result and counts calls.
type recordingBackend struct {
	result Result
	err    error
	calls  int
}

func (b *recordingBackend) Transcribe(ctx context.Context, frames []audio.Frame, sampleRate int) (Result, error) {
	b.calls++
	if b.err != nil {
		return Result{}, b.err
	}
	return b.result, nil
}

func TestRouterLocalConfidenceSufficient(t *testing.T) {
	local := &recordingBackend{result: Result{Text: "turn on the lights", Confidence: 0.9, Source: "local_whisper"}}
	remote := &recordingBackend{result: Result{Text: "unused", Confidence: 0.99, Source: "cloud_ws"}}
	r := NewRouter(local, remote)

	got, err := r.Transcribe(context.Background(), []audio.Frame{audio.Frame("x")}, 16000)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Source != "local_whisper" {
		t.Errorf("Source = %q, want local", got.Source)
	}
	if remote.calls != 0 {
		t.Error("remote backend called despite sufficient local confidence")
	}
}

func TestRouterFallsThroughToRemote(t *testing.T) {
	local := &recordingBackend{result: Result{Text: "mumble", Confidence: 0.65, Source: "local_whisper"}}
	remote := &recordingBackend{result: Result{Text: "turn on the lights", Confidence: 0.92, Source: "cloud_ws"}}
	r := NewRouter(local, remote)

	got, err := r.Transcribe(context.Background(), []audio.Frame{audio.Frame("x")}, 16000)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Source != "cloud_ws" {
		t.Errorf("Source = %q, want remote", got.Source)
	}
	if got.Text != "turn on the lights" {
		t.Errorf("Text = %q, want the remote result", got.Text)
	}
	if local.calls != 1 || remote.calls != 1 {
		t.Errorf("calls local=%d remote=%d, want 1/1", local.calls, remote.calls)
	}
}

func TestRouterThresholdBoundary(t *testing.T) {
	// Confidence exactly at the threshold stays local.
	local := &recordingBackend{result: Result{Confidence: 0.7, Source: "local_whisper"}}
	remote := &recordingBackend{result: Result{Source: "cloud_ws"}}
	r := NewRouter(local, remote)

	got, err := r.Transcribe(context.Background(), nil, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != "local_whisper" {
		t.Errorf("Source = %q, want local at exact threshold", got.Source)
	}
}

func TestRouterRemoteErrorPropagates(t *testing.T) {
	wantErr := &RemoteError{Backend: "ws", Endpoint: "wss://asr.example", Err: errors.New("connection refused")}
	local := &recordingBackend{result: Result{Confidence: 0.1, Source: "local_whisper"}}
	remote := &recordingBackend{err: wantErr}
	r := NewRouter(local, remote)

	_, err := r.Transcribe(context.Background(), nil, 16000)
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *RemoteError", err)
	}
	if re.Backend != "ws" {
		t.Errorf("Backend = %q, want ws", re.Backend)
	}
}

func TestRouterNilRemote(t *testing.T) {
	local := &recordingBackend{result: Result{Confidence: 0.1, Source: "local_whisper"}}
	r := NewRouter(local, nil)

	got, err := r.Transcribe(context.Background(), nil, 16000)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Source != "local_whisper" {
		t.Errorf("Source = %q, want local when no remote tier exists", got.Source)
	}
}

func TestTranscribeStreaming(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("hello"),
		audio.Frame("world"),
	)
	local := &recordingBackend{result: Result{Text: "hello world", Confidence: 0.9, Source: "local_whisper"}}
	r := NewRouter(local, nil)

	got, err := r.TranscribeStreaming(context.Background(), src, 16000)
	if err != nil {
		t.Fatalf("TranscribeStreaming() error = %v", err)
	}
	if got.Source != "local_whisper_stream" {
		t.Errorf("Source = %q, want a _stream suffix", got.Source)
	}
}

func TestTranscribeStreamingTimeoutProceedsPartial(t *testing.T) {
	// The only frame arrives after the collection window: transcription
	// proceeds on an empty capture, and the timeout never surfaces as
	// an error.
	q := audio.NewQueueSource(4)
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(audio.Frame("too late"))
		q.CloseWrite()
	}()

	local := NewStubBackend("local_whisper", 0.9)
	r := NewRouter(local, nil, WithStreamTimeout(10*time.Millisecond))

	got, err := r.TranscribeStreaming(context.Background(), q, 16000)
	if err != nil {
		t.Fatalf("TranscribeStreaming() error = %v", err)
	}
	if got.Text != "" {
		t.Errorf("Text = %q, want empty result from an empty collection", got.Text)
	}
	if got.Source != "local_whisper_stream" {
		t.Errorf("Source = %q, want local with _stream suffix", got.Source)
	}
}

func TestTranscribeStreamingRoutesCollected(t *testing.T) {
	q := audio.NewQueueSource(4)
	q.Push(audio.Frame("do a task"))
	q.CloseWrite()

	local := &recordingBackend{result: Result{Text: "mumble", Confidence: 0.3, Source: "local_whisper"}}
	remote := &recordingBackend{result: Result{Text: "do a task", Confidence: 0.95, Source: "cloud_ws"}}
	r := NewRouter(local, remote, WithStreamTimeout(50*time.Millisecond))

	got, err := r.TranscribeStreaming(context.Background(), q, 16000)
	if err != nil {
		t.Fatalf("TranscribeStreaming() error = %v", err)
	}
	if got.Source != "cloud_ws_stream" {
		t.Errorf("Source = %q, want the remote tag with _stream suffix", got.Source)
	}
}
