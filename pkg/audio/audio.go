// Package audio provides the frame-level building blocks of the voice
// pipeline: opaque audio frames, the single-pass frame source
// abstraction, the canonical silence rule, and captured audio that has
// passed speaker verification.
//
// # Frames
//
// A Frame is one producer-defined chunk of audio. The pipeline makes
// no assumption about frame duration; producers typically emit 1024
// PCM16 samples per frame at 16kHz mono, but any chunking works.
//
// # Silence
//
// Silence detection uses one canonical energy rule: a frame is silent
// when its mean absolute PCM16 sample amplitude is below a threshold
// (default 50.0 of a 32767 full scale, roughly -56 dBFS). Frames that
// cannot be decoded as PCM16 fall back to a zero-byte check. See
// Frame.Silent for the exact formula.
package audio

import "time"

// DefaultEnergyThreshold is the default mean-amplitude silence
// threshold used by the listener.
const DefaultEnergyThreshold = 50.0

// FrameSamples is the nominal number of samples per frame used to
// derive the capture ceiling from a wall-clock duration.
const FrameSamples = 1024

// Frame is one opaque chunk of audio from a source.
type Frame []byte

// Energy returns the mean absolute sample amplitude of the frame,
// interpreting it as PCM16 signed little-endian:
//
//	energy = (Σ |s_i|) / n
//
// Frames that cannot be interpreted as PCM16 (odd byte length) and
// empty frames have energy 0.
func (f Frame) Energy() float64 {
	if len(f) < 2 || len(f)%2 != 0 {
		return 0
	}
	var sum float64
	for i := 0; i+1 < len(f); i += 2 {
		s := int16(f[i]) | int16(f[i+1])<<8
		if s < 0 {
			// Avoid overflow on math.MinInt16.
			sum -= float64(s)
		} else {
			sum += float64(s)
		}
	}
	return sum / float64(len(f)/2)
}

// Silent reports whether the frame is silent under the given energy
// threshold. PCM16-decodable frames are silent when Energy() is
// strictly below the threshold. Frames with an odd byte length fall
// back to a byte heuristic: silent only when every byte is zero.
// Empty frames are silent.
func (f Frame) Silent(threshold float64) bool {
	if len(f) == 0 {
		return true
	}
	if len(f)%2 != 0 {
		return f.allZero()
	}
	return f.Energy() < threshold
}

func (f Frame) allZero() bool {
	for _, b := range f {
		if b != 0 {
			return false
		}
	}
	return true
}

// VerifiedAudio is captured command audio that has passed speaker
// verification. It is owned exclusively by the caller once returned
// and must be treated as immutable.
type VerifiedAudio struct {
	// Frames is the ordered capture, starting with the frame that
	// triggered the wake word.
	Frames []Frame

	// SampleRate is the sample rate the capture was recorded at, in Hz.
	SampleRate int
}

// Duration returns the nominal duration of the capture assuming
// FrameSamples samples per frame.
func (v *VerifiedAudio) Duration() time.Duration {
	if v.SampleRate <= 0 {
		return 0
	}
	samples := int64(len(v.Frames)) * FrameSamples
	return time.Duration(samples) * time.Second / time.Duration(v.SampleRate)
}

// CountSpeech returns the number of non-silent frames in the slice
// under the given energy threshold.
func CountSpeech(frames []Frame, threshold float64) int {
	n := 0
	for _, f := range frames {
		if !f.Silent(threshold) {
			n++
		}
	}
	return n
}
