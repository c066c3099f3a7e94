package voiceprint

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/earshot/earshot/pkg/audio"
)

func newTestVerifier(t *testing.T, opts ...VerifierOption) *Verifier {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "owner.vp"), "test-secret")
	if err != nil {
		t.Fatal(err)
	}
	return NewVerifier(NewHashModel(), store, opts...)
}

func TestVerifierEnrollThenVerify(t *testing.T) {
	v := newTestVerifier(t)
	frames := []audio.Frame{audio.Frame("owner voice sample")}

	embedding, err := v.EnrollOwner(frames, 16000)
	if err != nil {
		t.Fatalf("EnrollOwner() error = %v", err)
	}
	if len(embedding) != DefaultHashDimension {
		t.Fatalf("embedding length = %d, want %d", len(embedding), DefaultHashDimension)
	}

	// Same audio, same deterministic model: similarity must be ~1.
	similarity, err := v.VerifyOwner(frames, 16000)
	if err != nil {
		t.Fatalf("VerifyOwner() error = %v", err)
	}
	if similarity < 0.99 {
		t.Errorf("similarity = %v, want ~1.0 for identical audio", similarity)
	}
}

func TestVerifierNotEnrolled(t *testing.T) {
	v := newTestVerifier(t)
	_, err := v.VerifyOwner([]audio.Frame{audio.Frame("anyone")}, 16000)
	if !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("error = %v, want ErrNotEnrolled", err)
	}
}

func TestVerifierSpeakerMismatch(t *testing.T) {
	// A threshold above any realistic hash similarity forces rejection
	// even for close vectors.
	v := newTestVerifier(t, WithThreshold(0.999999))
	if _, err := v.EnrollOwner([]audio.Frame{audio.Frame("owner voice")}, 16000); err != nil {
		t.Fatal(err)
	}

	similarity, err := v.VerifyOwner([]audio.Frame{audio.Frame("a completely different speaker")}, 16000)
	if !errors.Is(err, ErrSpeakerMismatch) {
		t.Fatalf("error = %v, want ErrSpeakerMismatch", err)
	}
	if similarity < 0 || similarity >= 1 {
		t.Errorf("rejected similarity = %v, want a score in [0, 1)", similarity)
	}
}

func TestVerifierReEnrollReplaces(t *testing.T) {
	v := newTestVerifier(t)
	first := []audio.Frame{audio.Frame("first enrollment")}
	second := []audio.Frame{audio.Frame("second enrollment")}

	if _, err := v.EnrollOwner(first, 16000); err != nil {
		t.Fatal(err)
	}
	if _, err := v.EnrollOwner(second, 16000); err != nil {
		t.Fatal(err)
	}

	// Verification against the re-enrolled audio must be exact; the
	// first profile is gone.
	similarity, err := v.VerifyOwner(second, 16000)
	if err != nil {
		t.Fatalf("VerifyOwner() error = %v", err)
	}
	if similarity < 0.99 {
		t.Errorf("similarity = %v, want ~1.0 against latest enrollment", similarity)
	}
}

func TestVerifierThresholdOption(t *testing.T) {
	tests := []struct {
		name string
		opt  float64
		want float64
	}{
		{"default", 0, DefaultThreshold},
		{"custom", 0.6, 0.6},
		{"out of range ignored", 1.5, DefaultThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []VerifierOption
			if tt.opt != 0 {
				opts = append(opts, WithThreshold(tt.opt))
			}
			v := newTestVerifier(t, opts...)
			if v.Threshold() != tt.want {
				t.Errorf("Threshold() = %v, want %v", v.Threshold(), tt.want)
			}
		})
	}
}
