// Package wake provides wake word detection over individual audio
// frames.
//
// Detection is frame-local and stateless: each frame is judged on its
// own, and any backend with the same frame → bool contract can stand
// in for another without touching the listener. Real acoustic
// detectors (Porcupine, openWakeWord, ...) plug in as a DetectorFunc;
// the TextDetector fallback inspects the frame bytes as text and is
// primarily useful for tests and wire-level fixtures.
package wake

import (
	"strings"

	"github.com/earshot/earshot/pkg/audio"
)

// Detector reports whether a single frame contains the wake word.
type Detector interface {
	// Heard returns true when the frame contains the trigger phrase.
	// Implementations keep no state between calls.
	Heard(frame audio.Frame) bool
}

// DetectorFunc is an adapter to allow the use of ordinary functions as
// wake word detectors.
type DetectorFunc func(frame audio.Frame) bool

// Heard calls the underlying function.
func (f DetectorFunc) Heard(frame audio.Frame) bool {
	return f(frame)
}

// TextDetector is the fallback detector: it treats the frame as text
// and checks for case-insensitive substring containment of the wake
// word. Frames that do not decode to meaningful text simply fail the
// containment check; detection never errors.
type TextDetector struct {
	word string
}

var _ Detector = (*TextDetector)(nil)

// NewTextDetector creates a TextDetector for the given wake word.
// The wake word is matched case-insensitively.
func NewTextDetector(wakeWord string) *TextDetector {
	return &TextDetector{word: strings.ToLower(wakeWord)}
}

// Heard reports whether the frame, interpreted as text, contains the
// wake word.
func (d *TextDetector) Heard(frame audio.Frame) bool {
	if d.word == "" {
		return false
	}
	return strings.Contains(strings.ToLower(string(frame)), d.word)
}
