package listen

import (
	"context"
	"errors"
	"testing"

	"github.com/earshot/earshot/pkg/audio"
	"github.com/earshot/earshot/pkg/metrics"
	"github.com/earshot/earshot/pkg/voiceprint"
	"github.com/earshot/earshot/pkg/wake"
)

// stubVerifier records the frames it was asked to verify and returns a
// fixed outcome.
type stubVerifier struct {
	similarity float64
	err        error
	gotFrames  int
	calls      int
}

func (v *stubVerifier) VerifyOwner(frames []audio.Frame, sampleRate int) (float64, error) {
	v.calls++
	v.gotFrames = len(frames)
	if v.err != nil {
		return 0, v.err
	}
	return v.similarity, nil
}

var silence = audio.Frame{0, 0}

func TestListenForCommand(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("background noise"),
		audio.Frame("jarvis wake"),
		audio.Frame("do a task"),
		silence,
		silence,
	)
	verifier := &stubVerifier{similarity: 0.93}
	sink := metrics.NewMemory()
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithSilenceAfterFrames(2),
		WithMinSpeechFrames(2),
		WithMetrics(sink),
	)

	got, err := l.ListenForCommand(context.Background())
	if err != nil {
		t.Fatalf("ListenForCommand() error = %v", err)
	}

	// The capture starts at the wake frame: wake, command, two silences.
	if len(got.Frames) != 4 {
		t.Errorf("captured %d frames, want 4", len(got.Frames))
	}
	if string(got.Frames[0]) != "jarvis wake" {
		t.Errorf("first frame = %q, want the wake frame", got.Frames[0])
	}
	if got.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", got.SampleRate, DefaultSampleRate)
	}
	if verifier.gotFrames != 4 {
		t.Errorf("verifier saw %d frames, want the full capture of 4", verifier.gotFrames)
	}
	if l.State() != StateVerified {
		t.Errorf("State() = %v, want verified", l.State())
	}

	snap := sink.Snapshot()
	if snap["wake_word_detected"] != 1 {
		t.Errorf("wake_word_detected = %d, want 1", snap["wake_word_detected"])
	}
	if snap["speaker_verified"] != 1 {
		t.Errorf("speaker_verified = %d, want 1", snap["speaker_verified"])
	}
	if _, ok := sink.Timing("wake_to_verify_ms"); !ok {
		t.Error("wake_to_verify_ms timing not recorded")
	}
}

func TestListenForCommandSourceClosed(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("just noise"),
		audio.Frame("more noise"),
	)
	l := New(src, wake.NewTextDetector("jarvis"), &stubVerifier{similarity: 1})

	_, err := l.ListenForCommand(context.Background())
	if !errors.Is(err, ErrSourceClosed) {
		t.Errorf("error = %v, want ErrSourceClosed", err)
	}
}

func TestListenForCommandSpeechTooShort(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("jarvis"),
		silence,
	)
	verifier := &stubVerifier{similarity: 1}
	sink := metrics.NewMemory()
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithMinSpeechFrames(2),
		WithMetrics(sink),
	)

	_, err := l.ListenForCommand(context.Background())
	if !errors.Is(err, ErrSpeechTooShort) {
		t.Fatalf("error = %v, want ErrSpeechTooShort", err)
	}
	if verifier.calls != 0 {
		t.Error("verifier was called for a capture that failed guardrails")
	}
	if l.State() != StateRejected {
		t.Errorf("State() = %v, want rejected", l.State())
	}

	snap := sink.Snapshot()
	if snap["speech_rejected_short"] != 1 {
		t.Errorf("speech_rejected_short = %d, want 1", snap["speech_rejected_short"])
	}
	if snap["speaker_rejected"] != 1 {
		t.Errorf("speaker_rejected = %d, want 1", snap["speaker_rejected"])
	}
}

func TestCaptureStopsAtCeiling(t *testing.T) {
	// A source that never goes silent and never ends: capture must stop
	// exactly at the ceiling (maxCommandSeconds × sampleRate / 1024).
	src := audio.SourceFunc(func(ctx context.Context) (audio.Frame, error) {
		return audio.Frame("jarvis keeps talking"), nil
	})
	verifier := &stubVerifier{similarity: 1}
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithSampleRate(4096),
		WithMaxCommandSeconds(1),
	)

	got, err := l.ListenForCommand(context.Background())
	if err != nil {
		t.Fatalf("ListenForCommand() error = %v", err)
	}
	want := 1 * 4096 / audio.FrameSamples
	if len(got.Frames) != want {
		t.Errorf("captured %d frames, want ceiling of %d", len(got.Frames), want)
	}
}

func TestCaptureStopsOnSilenceRun(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("jarvis"),
		audio.Frame("first command"),
		silence,
		silence,
		audio.Frame("speech after the stop, never captured"),
	)
	verifier := &stubVerifier{similarity: 1}
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithSilenceAfterFrames(2),
	)

	got, err := l.ListenForCommand(context.Background())
	if err != nil {
		t.Fatalf("ListenForCommand() error = %v", err)
	}
	if len(got.Frames) != 4 {
		t.Errorf("captured %d frames, want capture to stop at the second silence", len(got.Frames))
	}
}

func TestSilenceRunResetsOnSpeech(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("jarvis"),
		silence,
		audio.Frame("speech resets the run"),
		silence,
		silence,
	)
	verifier := &stubVerifier{similarity: 1}
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithSilenceAfterFrames(2),
	)

	got, err := l.ListenForCommand(context.Background())
	if err != nil {
		t.Fatalf("ListenForCommand() error = %v", err)
	}
	if len(got.Frames) != 5 {
		t.Errorf("captured %d frames, want 5 (single silence must not stop capture)", len(got.Frames))
	}
}

func TestListenForCommandSpeakerMismatch(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("jarvis"),
		audio.Frame("an impostor speaks"),
		silence,
		silence,
	)
	verifier := &stubVerifier{err: voiceprint.ErrSpeakerMismatch}
	sink := metrics.NewMemory()
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithSilenceAfterFrames(2),
		WithMetrics(sink),
	)

	_, err := l.ListenForCommand(context.Background())
	if !errors.Is(err, voiceprint.ErrSpeakerMismatch) {
		t.Fatalf("error = %v, want ErrSpeakerMismatch propagated unchanged", err)
	}
	if l.State() != StateRejected {
		t.Errorf("State() = %v, want rejected", l.State())
	}
	if sink.Snapshot()["speaker_rejected"] != 1 {
		t.Errorf("speaker_rejected = %d, want 1", sink.Snapshot()["speaker_rejected"])
	}
}

func TestListenForCommandNotEnrolled(t *testing.T) {
	src := audio.SliceSource(
		audio.Frame("jarvis"),
		audio.Frame("hello there"),
		silence,
		silence,
	)
	verifier := &stubVerifier{err: voiceprint.ErrNotEnrolled}
	l := New(src, wake.NewTextDetector("jarvis"), verifier,
		WithSilenceAfterFrames(2),
	)

	_, err := l.ListenForCommand(context.Background())
	if !errors.Is(err, voiceprint.ErrNotEnrolled) {
		t.Errorf("error = %v, want ErrNotEnrolled propagated unchanged", err)
	}
}

func TestListenForCommandContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := audio.NewQueueSource(4)
	l := New(q, wake.NewTextDetector("jarvis"), &stubVerifier{similarity: 1})

	_, err := l.ListenForCommand(ctx)
	if !errors.Is(err, ErrSourceClosed) {
		t.Errorf("error = %v, want ErrSourceClosed when ctx ends the scan", err)
	}
}
